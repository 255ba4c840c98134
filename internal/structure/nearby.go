// Package structure drives carvers that may reach into a target chunk from
// starts seeded in surrounding chunks, and implements the cave carver itself.
package structure

import (
	"anvilgen/internal/climate"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// Generator carves whatever parts of structures seeded at `from` land inside
// the target column.
type Generator interface {
	Generate(r *rng.Source, column *voxel.Column, chunk, from voxel.GlobalColumnPos, radius uint32)
}

// GenerateNearby visits the centered (2·radius+1)² chunk neighborhood of each
// target chunk. Every neighbor seeds its own RNG from the world seed and two
// odd coefficients, so a structure start carves identically no matter which
// target chunk observes it.
type GenerateNearby struct {
	c0, c1    int64
	radius    uint32
	diameter  uint32
	worldSeed uint64
	generator Generator
}

// NewGenerateNearby derives the seed coefficients (forced odd) from the world seed.
func NewGenerateNearby(worldSeed uint64, radius uint32, generator Generator) *GenerateNearby {
	r := rng.New(worldSeed)

	return &GenerateNearby{
		c0:        (r.NextI64()>>1)<<1 + 1,
		c1:        (r.NextI64()>>1)<<1 + 1,
		radius:    radius,
		diameter:  radius*2 + 1,
		worldSeed: worldSeed,
		generator: generator,
	}
}

// SeedFor returns the structure RNG seed of a chunk.
func (g *GenerateNearby) SeedFor(from voxel.GlobalColumnPos) uint64 {
	xPart := uint64(int64(from.X) * g.c0)
	zPart := uint64(int64(from.Z) * g.c1)

	return (xPart + zPart) ^ g.worldSeed
}

// Apply implements gen.Pass.
func (g *GenerateNearby) Apply(target *voxel.Column, _ *climate.Layer, chunk voxel.GlobalColumnPos) {
	radius := int32(g.radius)

	for dx := int32(0); dx < int32(g.diameter); dx++ {
		for dz := int32(0); dz < int32(g.diameter); dz++ {
			from := voxel.NewGlobalColumnPos(chunk.X+dx-radius, chunk.Z+dz-radius)

			g.generator.Generate(rng.New(g.SeedFor(from)), target, chunk, from, g.radius)
		}
	}
}
