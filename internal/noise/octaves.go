package noise

import (
	"anvilgen/internal/rng"

	"github.com/go-gl/mathgl/mgl64"
)

// PerlinOctaves superimposes independently seeded Perlin layers. Octave i has
// its coordinate scale halved i times and its amplitude doubled i times, the
// standard low-frequency/high-amplitude stacking of the reference generator.
type PerlinOctaves struct {
	octaves []*Perlin
}

// NewPerlinOctaves consumes the RNG once per octave, in octave order.
func NewPerlinOctaves(r *rng.Source, n int, scale mgl64.Vec3) *PerlinOctaves {
	octaves := make([]*Perlin, n)

	freq := 1.0
	for i := range octaves {
		octaves[i] = PerlinFromRNG(r, scale.Mul(freq), 1.0/freq)
		freq /= 2.0
	}

	return &PerlinOctaves{octaves: octaves}
}

// Sample evaluates the 2D stack at a block-space point.
func (o *PerlinOctaves) Sample(point mgl64.Vec2) float64 {
	sum := 0.0
	for _, octave := range o.octaves {
		sum += octave.Sample(point)
	}

	return sum
}

// Generate evaluates the 3D stack at a block-space location.
func (o *PerlinOctaves) Generate(loc mgl64.Vec3) float64 {
	sum := 0.0
	for _, octave := range o.octaves {
		sum += octave.Generate(loc)
	}

	return sum
}

// VerticalRef builds a column view over the same octaves with per-octave
// Y-fade tables covering [start, start+size).
func (o *PerlinOctaves) VerticalRef(start float64, size int) *PerlinOctavesVertical {
	tables := make([][]float64, len(o.octaves))

	for i, octave := range o.octaves {
		tables[i] = make([]float64, size)
		octave.GenerateYTable(start, tables[i])
	}

	return &PerlinOctavesVertical{octaves: o.octaves, yTables: tables}
}

// PerlinOctavesVertical is an octave stack specialized for sampling vertical
// columns: the sticky fractional-Y values are precomputed per octave so every
// sample at the same column index reuses them.
type PerlinOctavesVertical struct {
	octaves []*Perlin
	yTables [][]float64
}

// NewPerlinOctavesVertical consumes the RNG like NewPerlinOctaves and
// precomputes the column tables.
func NewPerlinOctavesVertical(r *rng.Source, n int, scale mgl64.Vec3, start float64, size int) *PerlinOctavesVertical {
	return NewPerlinOctaves(r, n, scale).VerticalRef(start, size)
}

// GenerateOverride evaluates the stack at loc with the cached Y values for the
// given column index.
func (o *PerlinOctavesVertical) GenerateOverride(loc mgl64.Vec3, index int) float64 {
	sum := 0.0
	for i, octave := range o.octaves {
		sum += octave.GenerateOverride(loc, o.yTables[i][index])
	}

	return sum
}

// SimplexOctaves superimposes independently seeded 2D simplex layers with
// doubling frequency and halving amplitude, scaled so the sum stays in
// roughly [-1, 1]. The climate fields are built from three of these.
type SimplexOctaves struct {
	octaves []*Simplex
}

// NewSimplexOctaves consumes the RNG once per octave, in octave order.
func NewSimplexOctaves(r *rng.Source, n int, scale mgl64.Vec2) *SimplexOctaves {
	octaves := make([]*Simplex, n)

	norm := 0.0
	amp := 1.0
	for i := 0; i < n; i++ {
		norm += amp
		amp /= 2.0
	}

	freq := 1.0
	amp = 1.0
	for i := range octaves {
		octaves[i] = SimplexFromRNG(r, scale.Mul(freq), amp/norm)
		freq *= 2.0
		amp /= 2.0
	}

	return &SimplexOctaves{octaves: octaves}
}

// Sample evaluates the stack at a block-space point.
func (o *SimplexOctaves) Sample(point mgl64.Vec2) float64 {
	sum := 0.0
	for _, octave := range o.octaves {
		sum += octave.Sample(point)
	}

	return sum
}
