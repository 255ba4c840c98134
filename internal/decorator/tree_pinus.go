package decorator

import (
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// PinusPonderosaDecorator places a tall ponderosa pine: a wide-based trunk
// with small foliage tufts wandering around the upper stem.
type PinusPonderosaDecorator struct {
	Blocks TreeBlocks
}

// NewPinusPonderosaDecorator builds the default ponderosa decorator.
func NewPinusPonderosaDecorator() *PinusPonderosaDecorator {
	return &PinusPonderosaDecorator{Blocks: DefaultTreeBlocks()}
}

// Generate implements Decorator.
func (d *PinusPonderosaDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return nil
	}

	soil, _ := quad.Get(below)
	if !d.Blocks.Soil.Matches(soil) {
		return nil
	}

	quad.SetImmediate(below, d.Blocks.NewSoil)
	for _, dir := range [4]voxel.Dir{voxel.PlusX, voxel.MinusX, voxel.PlusZ, voxel.MinusZ} {
		side, ok := below.Offset(dir)
		if !ok {
			return SpillError{Pos: below}
		}
		quad.SetImmediate(side, d.Blocks.NewSoil)
	}

	quad.EnsureAvailable(d.Blocks.Log)
	quad.EnsureAvailable(d.Blocks.Foliage)

	blocks, palette := quad.FreezePalettes()

	log, _ := palette.ReverseLookup(d.Blocks.Log)
	foliage, _ := palette.ReverseLookup(d.Blocks.Foliage)

	trunkSize := uint8(r.NextU32Bound(15) + 20)
	wideTrunkSize := (trunkSize + 7) / 8

	// Buttress logs around the base, of uneven height.
	for _, offset := range [4][2]int8{{-1, 0}, {1, 0}, {0, 1}, {0, -1}} {
		height := uint8(uint32(wideTrunkSize) + r.NextU32Bound(uint32(wideTrunkSize)*2))

		base, ok := pos.OffsetXYZ(offset[0], 0, offset[1])
		if !ok {
			return SpillError{Pos: pos}
		}

		for dy := uint8(0); dy < height; dy++ {
			blocks.Set(voxel.NewQuadPos(base.X(), base.Y()+dy, base.Z()), &log)
		}
	}

	var pX, pZ int8

	for y := pos.Y() + 5; y < pos.Y()+trunkSize; y++ {
		diff := uint32(trunkSize - (y - pos.Y()))

		var chance uint32
		switch {
		case diff < 7:
			chance = 1
		case diff < 12:
			chance = 2
		default:
			chance = 7
		}

		if r.NextU32Bound(chance) != 0 {
			continue
		}

		dX := -1 + int8(r.NextU32Bound(3))
		dZ := -1 + int8(r.NextU32Bound(3))

		if dX == 0 && dZ == 0 {
			dX = -1 + int8(r.NextU32Bound(3))
			dZ = -1 + int8(r.NextU32Bound(3))
		}

		if pX == dX && r.NextBool() {
			dX = -dX
		}
		if pZ == dZ && r.NextBool() {
			dZ = -dZ
		}

		pX, pZ = dX, dZ

		tuft, ok := voxel.NewQuadPos(pos.X(), y, pos.Z()).OffsetXYZ(dX, 0, dZ)
		if !ok {
			continue
		}

		layer := foliageLayer{position: tuft, radius: 1}
		layer.place(blocks, &foliage, palette, d.Blocks.Replace)
		layer.placeCorners(blocks, &foliage, palette, d.Blocks.Replace, func(uint8) bool { return true })

		blocks.Set(tuft, &log)

		if upper, ok := tuft.Offset(voxel.Up); ok {
			layer = foliageLayer{position: upper, radius: 1}
			layer.place(blocks, &foliage, palette, d.Blocks.Replace)
		}
	}

	for y := pos.Y(); y < pos.Y()+trunkSize; y++ {
		at := voxel.NewQuadPos(pos.X(), y, pos.Z())

		if d.Blocks.Replace.Matches(blocks.Get(at, palette)) {
			blocks.Set(at, &log)
		}
	}

	return nil
}
