// Package worldgen wires the generation passes, carvers and decorators into
// the per-column pipeline and drives whole-area generation.
package worldgen

import (
	"fmt"
	"sync"

	"anvilgen/internal/biome"
	"anvilgen/internal/block"
	"anvilgen/internal/climate"
	"anvilgen/internal/config"
	"anvilgen/internal/decorator"
	"anvilgen/internal/gen"
	"anvilgen/internal/noise"
	"anvilgen/internal/profiling"
	"anvilgen/internal/rng"
	"anvilgen/internal/structure"
	"anvilgen/internal/voxel"

	"github.com/go-gl/mathgl/mgl64"
)

// Generator holds the fully constructed pipeline for one seed and profile.
type Generator struct {
	seed    uint64
	climate *climate.Source
	lookup  *biome.Lookup

	shape *gen.ShapePass
	paint *gen.PaintPass
	ocean *gen.OceanPass
	caves *structure.GenerateNearby

	decorators []*decorator.Dispatcher
	// decoration quad seed coefficients, drawn once from the world seed.
	decoCoeff [2]int64

	mu      sync.Mutex
	columns map[voxel.GlobalColumnPos]*voxel.Column
}

// New builds the pipeline. The noise constructor order is part of the output
// contract: tri noise, then the sand, gravel and thickness surface fields,
// then the height source, all off one RNG stream.
func New(seed uint64, profile *config.Profile) (*Generator, error) {
	lookup, err := buildBiomes(profile)
	if err != nil {
		return nil, err
	}

	r := rng.New(seed)

	tri := gen.NewTriNoiseSource(r, gen.DefaultTriNoiseSettings())

	// The sand field is constructed from a clone, so the gravel field resumes
	// from the same stream state. A reference oddity that must stay.
	sand := noise.NewPerlinOctaves(r.Clone(), 4, mgl64.Vec3{1.0 / 32.0, 1.0 / 32.0, 1.0})
	gravel := noise.NewPerlinOctaves(r, 4, mgl64.Vec3{1.0 / 32.0, 1.0, 1.0 / 32.0})
	thickness := noise.NewPerlinOctaves(r, 4, mgl64.Vec3{1.0 / 16.0, 1.0 / 16.0, 1.0 / 16.0})

	height := gen.NewHeightSource(r, gen.DefaultHeightSettings())

	field := gen.DefaultShapeSettings()
	field.HeightStretch = profile.HeightStretch

	seaCoord := uint8(0)
	oceanBlock := block.StillWater
	if profile.LavaOcean {
		oceanBlock = block.StillLava
	}
	if profile.SeaLevel > 0 {
		top := profile.SeaLevel - 1
		if top > 255 {
			top = 255
		}
		seaCoord = uint8(top)
	}

	var beach *[2]uint8
	if profile.Beach != nil {
		beach = &[2]uint8{uint8(profile.Beach.Min), uint8(profile.Beach.Max)}
	}

	var maxBedrock *uint8
	if profile.MaxBedrockHeight != nil {
		b := uint8(*profile.MaxBedrockHeight)
		maxBedrock = &b
	}

	g := &Generator{
		seed:    seed,
		climate: climate.NewSource(seed, climate.DefaultSettings()),
		lookup:  lookup,
		shape: &gen.ShapePass{
			Blocks: gen.DefaultShapeBlocks(),
			Tri:    tri,
			Height: height,
			Field:  field,
		},
		paint: &gen.PaintPass{
			Lookup:           lookup,
			Blocks:           gen.DefaultPaintBlocks(),
			Sand:             sand,
			Gravel:           gravel,
			Thickness:        thickness,
			SeaCoord:         seaCoord,
			Beach:            beach,
			MaxBedrockHeight: maxBedrock,
		},
		ocean: &gen.OceanPass{
			Blocks:  gen.OceanBlocks{Air: block.Air, Ocean: oceanBlock, Ice: block.Ice},
			SeaTop:  uint32(profile.SeaLevel),
			IceCaps: profile.IceCaps,
		},
		columns: make(map[voxel.GlobalColumnPos]*voxel.Column),
	}

	if profile.Caves {
		g.caves = structure.NewGenerateNearby(seed, 8, structure.DefaultCavesGenerator())
	}

	decoRNG := rng.New(seed)
	g.decoCoeff[0] = (decoRNG.NextI64()>>1)<<1 + 1
	g.decoCoeff[1] = (decoRNG.NextI64()>>1)<<1 + 1

	if g.decorators, err = buildDecorators(profile); err != nil {
		return nil, err
	}

	return g, nil
}

// BiomeLookup exposes the biome cache for map rendering.
func (g *Generator) BiomeLookup() *biome.Lookup {
	return g.lookup
}

// Climate exposes the climate sampler for map rendering.
func (g *Generator) Climate() *climate.Source {
	return g.climate
}

// GenerateColumn runs shape, paint, ocean and the cave carve for one column.
func (g *Generator) GenerateColumn(pos voxel.GlobalColumnPos) *voxel.Column {
	defer profiling.Track("worldgen.GenerateColumn")()

	column := voxel.NewColumn(block.Air)

	climates := g.climate.Chunk(float64(pos.X)*16.0, float64(pos.Z)*16.0)

	g.shape.Apply(column, climates, pos)
	g.paint.Apply(column, climates, pos)
	g.ocean.Apply(column, climates, pos)

	if g.caves != nil {
		g.caves.Apply(column, climates, pos)
	}

	g.mu.Lock()
	g.columns[pos] = column
	g.mu.Unlock()

	return column
}

// Quad assembles the decoration neighborhood of a column; false until all
// four columns have been generated.
func (g *Generator) Quad(pos voxel.GlobalColumnPos) (*voxel.Quad, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	quad := &voxel.Quad{}

	for i, offset := range [4][2]int32{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		column, ok := g.columns[voxel.NewGlobalColumnPos(pos.X+offset[0], pos.Z+offset[1])]
		if !ok {
			return nil, false
		}

		quad.Columns[i] = column
	}

	return quad, true
}

// DecorateQuad runs every dispatcher against the quad centered at pos, with
// the quad-derived RNG stream shared across dispatchers in order.
func (g *Generator) DecorateQuad(pos voxel.GlobalColumnPos) error {
	defer profiling.Track("worldgen.DecorateQuad")()

	quad, ok := g.Quad(pos)
	if !ok {
		return fmt.Errorf("worldgen: quad at %v not fully generated", pos)
	}

	xPart := uint64(int64(pos.X) * g.decoCoeff[0])
	zPart := uint64(int64(pos.Z) * g.decoCoeff[1])
	r := rng.New((xPart + zPart) ^ g.seed)

	for _, dispatcher := range g.decorators {
		if err := dispatcher.Generate(quad, r); err != nil {
			return err
		}
	}

	return nil
}

func buildBiomes(profile *config.Profile) (*biome.Lookup, error) {
	toBiome := func(name string, b config.Biome) (*biome.Biome, error) {
		top, err := config.ParseBlock(b.Top)
		if err != nil {
			return nil, err
		}
		fill, err := config.ParseBlock(b.Fill)
		if err != nil {
			return nil, err
		}

		surface := biome.Surface{Top: block.FromAnvil(top), Fill: block.FromAnvil(fill)}
		for _, followup := range b.Chain {
			fb, err := config.ParseBlock(followup.Block)
			if err != nil {
				return nil, err
			}
			surface.Chain = append(surface.Chain, biome.Followup{
				Block:    block.FromAnvil(fb),
				MaxDepth: followup.MaxDepth,
			})
		}

		displayName := b.Name
		if displayName == "" {
			displayName = name
		}

		return &biome.Biome{Name: displayName, Surface: surface}, nil
	}

	biomes := make(map[string]*biome.Biome, len(profile.Biomes))
	for name, b := range profile.Biomes {
		built, err := toBiome(name, b)
		if err != nil {
			return nil, err
		}
		biomes[name] = built
	}

	grid := biome.NewGrid(biomes[profile.Default])
	for _, rect := range profile.Grid {
		grid.Add(rect.Temperature, rect.Rainfall, biomes[rect.Biome])
	}

	return biome.GenerateLookup(grid), nil
}
