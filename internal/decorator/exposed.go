package decorator

import (
	"anvilgen/internal/block"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// ExposedDecorator replaces stone only where exactly three horizontal
// neighbors are stone and one is open, placing ore visibly on cave walls.
type ExposedDecorator struct {
	Block block.Block
	Stone block.Matcher
	Empty block.Matcher
}

// Generate implements Decorator.
func (d *ExposedDecorator) Generate(quad *voxel.Quad, _ *rng.Source, pos voxel.QuadPos) error {
	b, _ := quad.Get(pos)
	if !d.Stone.Matches(b) {
		return nil
	}

	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return nil
	}
	if belowBlock, _ := quad.Get(below); !d.Stone.Matches(belowBlock) {
		return nil
	}

	above, ok := pos.Offset(voxel.Up)
	if !ok {
		return nil
	}
	if aboveBlock, _ := quad.Get(above); !d.Stone.Matches(aboveBlock) {
		return nil
	}

	stone, empty := 0, 0

	for _, dir := range [4]voxel.Dir{voxel.MinusX, voxel.PlusX, voxel.MinusZ, voxel.PlusZ} {
		side, ok := pos.Offset(dir)
		if !ok {
			empty++
			continue
		}

		sideBlock, _ := quad.Get(side)
		if d.Stone.Matches(sideBlock) {
			stone++
		}
		if d.Empty.Matches(sideBlock) {
			empty++
		}
	}

	if stone == 3 && empty == 1 {
		quad.SetImmediate(pos, d.Block)
	}

	return nil
}
