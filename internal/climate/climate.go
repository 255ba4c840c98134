// Package climate produces the temperature/rainfall fields that drive biome
// selection and the biome influence on terrain height.
package climate

import (
	"anvilgen/internal/mcmath"
	"anvilgen/internal/noise"
	"anvilgen/internal/rng"

	"github.com/go-gl/mathgl/mgl64"
)

// Climate is one sample of the two climate fields, both in [0, 1].
type Climate struct {
	Temperature float64
	Rainfall    float64
}

// NewClimate clamps both components into range.
func NewClimate(temperature, rainfall float64) Climate {
	return Climate{
		Temperature: mcmath.Clamp(temperature, 0.0, 1.0),
		Rainfall:    mcmath.Clamp(rainfall, 0.0, 1.0),
	}
}

// AdjustedRainfall is the product field used as the rainfall axis of the
// biome grid; hot biomes saturate before wet ones.
func (c Climate) AdjustedRainfall() float64 {
	return c.Temperature * c.Rainfall
}

// InfluenceFactor scales how strongly the biome-influence noise perturbs the
// terrain height center: 1 - (1 - t·r)⁴.
func (c Climate) InfluenceFactor() float64 {
	x := 1.0 - c.AdjustedRainfall()
	x *= x
	x *= x

	return 1.0 - x
}

// Freezing reports whether the temperature supports surface ice.
func (c Climate) Freezing() bool {
	return c.Temperature < 0.5
}

// Settings configures the three octave fields behind the climate sampler.
type Settings struct {
	TemperatureScale mgl64.Vec2
	RainfallScale    mgl64.Vec2
	MixingScale      mgl64.Vec2
	TemperatureSeed  uint64
	RainfallSeed     uint64
	MixingSeed       uint64
}

// DefaultSettings returns the reference field scales and seed multipliers.
func DefaultSettings() Settings {
	return Settings{
		TemperatureScale: mgl64.Vec2{0.025, 0.025},
		RainfallScale:    mgl64.Vec2{0.05, 0.05},
		MixingScale:      mgl64.Vec2{0.25, 0.25},
		TemperatureSeed:  9871,
		RainfallSeed:     39811,
		MixingSeed:       543321,
	}
}

// Source samples the climate fields. The temperature and rainfall fields are
// blended with a shared higher-frequency mixing field before clamping.
type Source struct {
	temperature *noise.SimplexOctaves
	rainfall    *noise.SimplexOctaves
	mixing      *noise.SimplexOctaves
}

// NewSource seeds the three fields from the world seed and the per-field
// multipliers, each with its own RNG stream.
func NewSource(seed uint64, settings Settings) *Source {
	return &Source{
		temperature: noise.NewSimplexOctaves(rng.New(seed*settings.TemperatureSeed), 4, settings.TemperatureScale),
		rainfall:    noise.NewSimplexOctaves(rng.New(seed*settings.RainfallSeed), 4, settings.RainfallScale),
		mixing:      noise.NewSimplexOctaves(rng.New(seed*settings.MixingSeed), 2, settings.MixingScale),
	}
}

// Sample evaluates the climate at a block-space point.
func (s *Source) Sample(point mgl64.Vec2) Climate {
	mixing := s.mixing.Sample(point)*1.1 + 0.5

	temperature := (s.temperature.Sample(point)*0.15+0.7)*0.99 + mixing*0.01
	temperature = 1.0 - (1.0-temperature)*(1.0-temperature)

	rainfall := (s.rainfall.Sample(point)*0.15+0.5)*0.998 + mixing*0.002

	return NewClimate(temperature, rainfall)
}

// Layer is a per-block 16x16 climate sample of one chunk.
type Layer [256]Climate

// Chunk samples the full layer for the chunk whose minimum block corner is at
// (blockX, blockZ).
func (s *Source) Chunk(blockX, blockZ float64) *Layer {
	var out Layer

	for zx := 0; zx < 256; zx++ {
		x := float64(zx & 0xF)
		z := float64(zx >> 4)

		out[zx] = s.Sample(mgl64.Vec2{blockX + x, blockZ + z})
	}

	return &out
}

// Get returns the sample for a zx-packed layer index.
func (l *Layer) Get(zx uint8) Climate {
	return l[zx]
}
