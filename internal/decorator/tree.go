package decorator

import (
	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

// TreeBlocks is shared by all tree decorators.
type TreeBlocks struct {
	Log     block.Block
	Foliage block.Block
	Replace block.Matcher
	Soil    block.Matcher
	NewSoil block.Block
}

// DefaultTreeBlocks is the oak configuration.
func DefaultTreeBlocks() TreeBlocks {
	return TreeBlocks{
		Log:     block.OakLog,
		Foliage: block.OakLeaves,
		Replace: block.Include(block.Air, block.OakLeaves),
		Soil:    block.Include(block.Grass, block.Dirt),
		NewSoil: block.Dirt,
	}
}

// foliageLayer is one horizontal slice of a leaf canopy.
type foliageLayer struct {
	position voxel.QuadPos
	radius   uint8
}

// place fills the square of the layer, skipping the four corners.
func (l *foliageLayer) place(blocks *voxel.QuadBlocks, foliage *voxel.QuadAssociation, palette *voxel.QuadPalettes, replace block.Matcher) {
	radius := int8(l.radius)

	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			if abs8(dz) == radius && abs8(dx) == radius {
				continue
			}

			pos, ok := l.position.OffsetXYZ(dx, 0, dz)
			if !ok {
				continue
			}

			if replace.Matches(blocks.Get(pos, palette)) {
				blocks.Set(pos, foliage)
			}
		}
	}
}

// placeCorners fills the four skipped corners subject to a per-corner predicate.
func (l *foliageLayer) placeCorners(
	blocks *voxel.QuadBlocks, foliage *voxel.QuadAssociation, palette *voxel.QuadPalettes,
	replace block.Matcher, cornerPredicate func(y uint8) bool,
) {
	tryCorner := func(dx, dz int8) {
		if !cornerPredicate(l.position.Y()) {
			return
		}

		pos, ok := l.position.OffsetXYZ(dx, 0, dz)
		if !ok {
			return
		}

		if replace.Matches(blocks.Get(pos, palette)) {
			blocks.Set(pos, foliage)
		}
	}

	radius := int8(l.radius)

	if radius == 0 {
		tryCorner(0, 0)
		return
	}

	tryCorner(-radius, -radius)
	tryCorner(radius, -radius)
	tryCorner(-radius, radius)
	tryCorner(radius, radius)
}

func abs8(x int8) int8 {
	if x < 0 {
		return -x
	}
	return x
}
