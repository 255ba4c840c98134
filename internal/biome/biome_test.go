package biome

import (
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/climate"
)

func testBiome(name string) *Biome {
	return &Biome{
		Name:    name,
		Surface: Surface{Top: block.Grass, Fill: block.Dirt},
	}
}

func TestGridDefault(t *testing.T) {
	def := testBiome("plains")
	grid := NewGrid(def)

	if grid.LookupRaw(0.5, 0.5) != def {
		t.Error("fresh grid should resolve the default everywhere")
	}
}

func TestGridRectangles(t *testing.T) {
	def := testBiome("plains")
	tundra := testBiome("tundra")
	desert := testBiome("desert")

	grid := NewGrid(def)
	grid.Add([2]float64{0.0, 0.1}, [2]float64{0.0, 1.0}, tundra)
	grid.Add([2]float64{0.95, 1.0}, [2]float64{0.0, 0.2}, desert)

	if got := grid.LookupRaw(0.05, 0.5); got != tundra {
		t.Errorf("cold corner = %s", got.Name)
	}
	if got := grid.LookupRaw(0.99, 0.1); got != desert {
		t.Errorf("hot dry corner = %s", got.Name)
	}
	if got := grid.LookupRaw(0.5, 0.5); got != def {
		t.Errorf("center = %s", got.Name)
	}
}

func TestLookupMatchesGrid(t *testing.T) {
	def := testBiome("plains")
	tundra := testBiome("tundra")

	grid := NewGrid(def)
	grid.Add([2]float64{0.0, 0.3}, [2]float64{0.0, 1.0}, tundra)

	lookup := GenerateLookup(grid)

	for _, c := range []climate.Climate{
		climate.NewClimate(0.1, 0.5),
		climate.NewClimate(0.5, 0.5),
		climate.NewClimate(0.99, 0.99),
		climate.NewClimate(0.0, 0.0),
	} {
		want := grid.LookupRaw(c.Temperature, c.AdjustedRainfall())
		if got := lookup.Lookup(c); got.Name != want.Name {
			t.Errorf("lookup(%v) = %s, want %s", c, got.Name, want.Name)
		}
	}
}

func TestClimatesToBiomes(t *testing.T) {
	def := testBiome("plains")
	lookup := FilledLookup(def)

	var climates climate.Layer
	layer := lookup.ClimatesToBiomes(&climates)

	if len(layer.Palette()) != 1 || layer.Palette()[0] != def {
		t.Fatalf("uniform climate should produce one palette entry, got %d", len(layer.Palette()))
	}
	for zx := 0; zx < 256; zx++ {
		if layer.Get(uint8(zx)) != 0 {
			t.Fatal("all cells should reference the single palette entry")
		}
	}
}
