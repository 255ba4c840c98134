// Package gen contains the terrain generation passes: shape, paint and ocean,
// plus the random distributions shared with the structure and decorator stages.
// A pass mutates one column in place; passes run in a fixed order and each is
// deterministic in the world seed and the column position.
package gen

import (
	"anvilgen/internal/climate"
	"anvilgen/internal/voxel"
)

// Pass is a single stage of the per-column pipeline.
type Pass interface {
	Apply(target *voxel.Column, climates *climate.Layer, pos voxel.GlobalColumnPos)
}

// ColumnSeed derives the per-column RNG seed used by the paint pass, matching
// the reference's coordinate hash.
func ColumnSeed(pos voxel.GlobalColumnPos) uint64 {
	x := int64(pos.X) * 341873128712
	z := int64(pos.Z) * 132897987541

	return uint64(x + z)
}
