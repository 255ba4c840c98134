package decorator

import (
	"anvilgen/internal/block"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// SugarCaneDecorator grows a cane column on soil adjacent to liquid.
type SugarCaneDecorator struct {
	Block      block.Block
	Base       block.Matcher
	Liquid     block.Matcher
	Replace    block.Matcher
	BaseHeight uint32
	AddHeight  uint32
}

// Generate implements Decorator.
func (d *SugarCaneDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	b, _ := quad.Get(pos)
	if !d.Replace.Matches(b) {
		return nil
	}

	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return nil
	}

	belowBlock, _ := quad.Get(below)

	// Growing on top of an existing cane skips the soil and water checks.
	if belowBlock != d.Block {
		if !d.Base.Matches(belowBlock) {
			return nil
		}

		valid := false
		for _, dir := range [4]voxel.Dir{voxel.MinusX, voxel.PlusX, voxel.MinusZ, voxel.PlusZ} {
			if side, ok := below.Offset(dir); ok {
				sideBlock, _ := quad.Get(side)
				if d.Liquid.Matches(sideBlock) {
					valid = true
				}
			}
		}

		if !valid {
			return nil
		}
	}

	height := r.NextU32Bound(d.AddHeight + 1)
	height = d.BaseHeight + r.NextU32Bound(height+1)

	at := pos
	for i := uint32(0); i < height; i++ {
		current, _ := quad.Get(at)
		if !d.Replace.Matches(current) {
			return nil
		}

		quad.SetImmediate(at, d.Block)

		next, ok := at.Offset(voxel.Up)
		if !ok {
			return nil
		}
		at = next
	}

	return nil
}
