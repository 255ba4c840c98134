package decorator

import (
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// TreeSettings shapes the standard oak: trunk height plus layered foliage.
type TreeSettings struct {
	MinTrunkHeight        uint32
	AddTrunkHeight        uint32
	FoliageLayersOnTrunk  uint32
	FoliageLayersOffTrunk uint32
	FoliageSlope          uint32
	FoliageRadiusBase     uint32
	FoliageCornerChance   uint32
}

// DefaultTreeSettings is the vanilla oak: 4-6 trunk, 4 foliage layers.
func DefaultTreeSettings() TreeSettings {
	return TreeSettings{
		MinTrunkHeight:        4,
		AddTrunkHeight:        2,
		FoliageLayersOnTrunk:  3,
		FoliageLayersOffTrunk: 1,
		FoliageSlope:          2,
		FoliageRadiusBase:     1,
		FoliageCornerChance:   2,
	}
}

type treeShape struct {
	trunkTop    uint32
	leavesMinY  uint32
	leavesMaxY  uint32
	slope       uint32
	radiusBase  uint32
}

func (s TreeSettings) tree(r *rng.Source, originY uint8) treeShape {
	trunkHeight := s.MinTrunkHeight + r.NextU32Bound(s.AddTrunkHeight+1)
	trunkTop := uint32(originY) + trunkHeight

	return treeShape{
		trunkTop:   trunkTop,
		leavesMinY: trunkTop - s.FoliageLayersOnTrunk,
		leavesMaxY: trunkTop + s.FoliageLayersOffTrunk,
		slope:      s.FoliageSlope,
		radiusBase: s.FoliageRadiusBase,
	}
}

// foliageRadius is 0 at the tip and widens downward by the slope.
func (t treeShape) foliageRadius(y uint32) uint32 {
	return (t.radiusBase + t.trunkTop + 1 - y) / t.slope
}

// NormalTreeDecorator places the standard oak.
type NormalTreeDecorator struct {
	Blocks   TreeBlocks
	Settings TreeSettings
}

// NewNormalTreeDecorator builds the default oak decorator.
func NewNormalTreeDecorator() *NormalTreeDecorator {
	return &NormalTreeDecorator{Blocks: DefaultTreeBlocks(), Settings: DefaultTreeSettings()}
}

// Generate implements Decorator.
func (d *NormalTreeDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	tree := d.Settings.tree(r, pos.Y())

	if tree.leavesMaxY > 128 {
		return nil
	}

	below, ok := pos.Offset(voxel.Down)
	if !ok {
		return nil
	}

	soil, _ := quad.Get(below)
	if !d.Blocks.Soil.Matches(soil) {
		return nil
	}

	quad.SetImmediate(below, d.Blocks.NewSoil)

	quad.EnsureAvailable(d.Blocks.Log)
	quad.EnsureAvailable(d.Blocks.Foliage)

	blocks, palette := quad.FreezePalettes()

	log, _ := palette.ReverseLookup(d.Blocks.Log)
	foliage, _ := palette.ReverseLookup(d.Blocks.Foliage)

	for y := tree.leavesMinY; y <= tree.leavesMaxY; y++ {
		radius := tree.foliageRadius(y)

		layer := foliageLayer{
			position: voxel.NewQuadPos(pos.X(), uint8(y), pos.Z()),
			radius:   uint8(radius),
		}

		layer.place(blocks, &foliage, palette, d.Blocks.Replace)
		layer.placeCorners(blocks, &foliage, palette, d.Blocks.Replace, func(y uint8) bool {
			return r.NextU32Bound(d.Settings.FoliageCornerChance) != 0 && uint32(y) < tree.trunkTop
		})
	}

	for y := uint32(pos.Y()); y < tree.trunkTop; y++ {
		at := voxel.NewQuadPos(pos.X(), uint8(y), pos.Z())

		if d.Blocks.Replace.Matches(blocks.Get(at, palette)) {
			blocks.Set(at, &log)
		}
	}

	return nil
}
