package biome

import "anvilgen/internal/climate"

// Lookup is a 64x64 quantized cache of Grid lookups, indexed by temperature
// and rainfall buckets, cheap enough for per-block painting.
type Lookup struct {
	table [4096]*Biome
}

// GenerateLookup quantizes a grid into a lookup cache.
func GenerateLookup(grid *Grid) *Lookup {
	l := &Lookup{}

	for index := range l.table {
		temperature := index / 64
		rainfall := index % 64

		c := climate.NewClimate(float64(temperature)/63.0, float64(rainfall)/63.0)
		l.table[index] = grid.LookupRaw(c.Temperature, c.AdjustedRainfall())
	}

	return l
}

// FilledLookup builds a cache that always resolves to one biome.
func FilledLookup(b *Biome) *Lookup {
	l := &Lookup{}
	for i := range l.table {
		l.table[i] = b
	}

	return l
}

// Lookup resolves a climate sample.
func (l *Lookup) Lookup(c climate.Climate) *Biome {
	temperature := int(c.Temperature * 63.0)
	rainfall := int(c.Rainfall * 63.0)

	return l.table[temperature*64+rainfall]
}

// Layer is a per-block biome assignment for one chunk, paired with the
// distinct biomes it references so callers can pre-ensure palette entries.
type Layer struct {
	cells   [256]uint8
	palette []*Biome
}

// ClimatesToBiomes resolves a climate layer into a biome layer.
func (l *Lookup) ClimatesToBiomes(climates *climate.Layer) *Layer {
	layer := &Layer{}
	indices := make(map[*Biome]uint8)

	for zx := 0; zx < 256; zx++ {
		b := l.Lookup(climates.Get(uint8(zx)))

		index, ok := indices[b]
		if !ok {
			index = uint8(len(layer.palette))
			layer.palette = append(layer.palette, b)
			indices[b] = index
		}

		layer.cells[zx] = index
	}

	return layer
}

// Get returns the biome index at a zx-packed position.
func (l *Layer) Get(zx uint8) uint8 {
	return l.cells[zx]
}

// Palette returns the distinct biomes of the layer; Get indexes into it.
func (l *Layer) Palette() []*Biome {
	return l.palette
}
