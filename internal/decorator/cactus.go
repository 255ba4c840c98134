package decorator

import (
	"anvilgen/internal/block"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// CactusBlocks configures the cactus column checks.
type CactusBlocks struct {
	Replace block.Matcher // air
	Base    block.Matcher // cactus or sand
	Solid   block.Matcher // anything that blocks growth sideways
	Block   block.Block
}

// CactusSettings bounds cactus height: Base + up to Add extra blocks, drawn
// with the nested two-call pattern.
type CactusSettings struct {
	BaseHeight uint32
	AddHeight  uint32
}

// DefaultCactusSettings is 1-3 blocks tall.
func DefaultCactusSettings() CactusSettings {
	return CactusSettings{BaseHeight: 1, AddHeight: 2}
}

// CactusDecorator grows a cactus column with surround checks per block.
type CactusDecorator struct {
	Blocks   CactusBlocks
	Settings CactusSettings
}

// Generate implements Decorator.
func (d *CactusDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	b, _ := quad.Get(pos)
	if !d.Blocks.Replace.Matches(b) {
		return nil
	}

	height := r.NextU32Bound(d.Settings.AddHeight + 1)
	height = d.Settings.BaseHeight + r.NextU32Bound(height+1)

	at := pos
	for i := uint32(0); i < height; i++ {
		next, ok := at.Offset(voxel.Up)
		if !ok {
			return nil
		}
		at = next

		if d.check(quad, at) {
			quad.SetImmediate(at, d.Blocks.Block)
		}
	}

	return nil
}

func (d *CactusDecorator) check(quad *voxel.Quad, pos voxel.QuadPos) bool {
	b, _ := quad.Get(pos)
	if !d.Blocks.Replace.Matches(b) {
		return false
	}

	for _, dir := range [4]voxel.Dir{voxel.MinusX, voxel.PlusX, voxel.MinusZ, voxel.PlusZ} {
		if side, ok := pos.Offset(dir); ok {
			sideBlock, _ := quad.Get(side)
			if d.Blocks.Solid.Matches(sideBlock) {
				return false
			}
		}
	}

	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return false
	}

	base, _ := quad.Get(below)

	return d.Blocks.Base.Matches(base)
}
