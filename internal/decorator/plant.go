package decorator

import (
	"anvilgen/internal/block"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// PlantDecorator places a single plant block on matching soil.
type PlantDecorator struct {
	Block   block.Block
	Base    block.Matcher
	Replace block.Matcher
}

// Generate implements Decorator.
func (d *PlantDecorator) Generate(quad *voxel.Quad, _ *rng.Source, pos voxel.QuadPos) error {
	b, _ := quad.Get(pos)
	if !d.Replace.Matches(b) {
		return nil
	}

	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return nil
	}

	soil, _ := quad.Get(below)
	if !d.Base.Matches(soil) {
		return nil
	}

	quad.SetImmediate(pos, d.Block)

	return nil
}
