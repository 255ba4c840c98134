package worldgen

import (
	"anvilgen/internal/decorator"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// treeSelector draws which tree variant to place, then delegates. The draw
// happens before either variant touches the stream, matching the reference's
// per-placement variant roll.
type treeSelector struct {
	normal      *decorator.NormalTreeDecorator
	large       *decorator.LargeTreeDecorator
	largeChance uint32
}

// Generate implements decorator.Decorator.
func (t *treeSelector) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	if t.largeChance > 0 && r.NextU32Bound(t.largeChance) == 0 {
		return t.large.Generate(quad, r, pos)
	}

	return t.normal.Generate(quad, r, pos)
}
