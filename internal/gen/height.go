package gen

import (
	"math"

	"anvilgen/internal/climate"
	"anvilgen/internal/mcmath"
	"anvilgen/internal/noise"
	"anvilgen/internal/rng"

	"github.com/go-gl/mathgl/mgl64"
)

// Height is the per-cell vertical profile the shape pass reduces against:
// Center is the nominal surface level in noise-grid units, Chaos amplifies or
// damps the tri-noise around it.
type Height struct {
	Center float64
	Chaos  float64
}

// HeightSettings configures the two octave fields behind HeightSource.
type HeightSettings struct {
	BiomeInfluenceCoordScale mgl64.Vec3
	BiomeInfluenceScale      float64
	DepthCoordScale          mgl64.Vec3
	DepthScale               float64
	DepthBase                float64
}

// DefaultHeightSettings returns the reference overworld parameters.
func DefaultHeightSettings() HeightSettings {
	return HeightSettings{
		BiomeInfluenceCoordScale: mgl64.Vec3{1.121, 0.0, 1.121},
		BiomeInfluenceScale:      512.0,
		DepthCoordScale:          mgl64.Vec3{200.0, 0.0, 200.0},
		DepthScale:               8000.0,
		DepthBase:                8.5,
	}
}

// HeightSource derives Height samples from a biome-influence field and a
// depth field, both octaved Perlin stacks.
type HeightSource struct {
	biomeInfluence      *noise.PerlinOctaves
	depth               *noise.PerlinOctaves
	biomeInfluenceScale float64
	depthScale          float64
	depthBase           float64
}

// NewHeightSource consumes the RNG for the 10-octave influence field, then
// the 16-octave depth field.
func NewHeightSource(r *rng.Source, settings HeightSettings) *HeightSource {
	return &HeightSource{
		biomeInfluence:      noise.NewPerlinOctaves(r, 10, settings.BiomeInfluenceCoordScale),
		depth:               noise.NewPerlinOctaves(r, 16, settings.DepthCoordScale),
		biomeInfluenceScale: settings.BiomeInfluenceScale,
		depthScale:          settings.DepthScale,
		depthBase:           settings.DepthBase,
	}
}

// Sample evaluates the height profile at a noise-grid point.
func (s *HeightSource) Sample(point mgl64.Vec2, c climate.Climate) Height {
	scaledNoise := s.biomeInfluence.Sample(point) / s.biomeInfluenceScale

	// Older revisions do not clamp chaos at 0, which produced the famous
	// monolith structures; this follows the release behavior.
	chaos := mcmath.Clamp(c.InfluenceFactor()*(scaledNoise+0.5), 0.0, 1.0) + 0.5

	depth := s.depth.Sample(point) / s.depthScale

	if depth < 0.0 {
		depth *= 0.3
	}

	depth = math.Min(math.Abs(depth), 1.0)*3.0 - 2.0

	if depth < 0.0 {
		depth /= 1.4
	} else {
		depth /= 2.0
	}

	if depth < 0.0 {
		chaos = 0.5
	}

	return Height{
		Center: s.depthBase + depth*(s.depthBase/8.0),
		Chaos:  chaos,
	}
}

// LerpToLayer converts 5x5 noise-grid cell coordinates to the block layer
// position each cell's climate is read from: cell i samples block i*3+1.
func LerpToLayer(x, z uint8) uint8 {
	return (z*3+1)<<4 | (x*3 + 1)
}
