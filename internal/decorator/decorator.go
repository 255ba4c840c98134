// Package decorator implements the post-terrain features: lakes, ore veins,
// vegetation clumps and trees. A decorator mutates a 2x2 column quad around a
// centered position; everything it does is a deterministic function of the
// RNG stream handed to it, so the dispatch order is part of the world output.
package decorator

import (
	"fmt"

	"anvilgen/internal/gen"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// SpillError reports a write outside the quad. The dispatcher logs and skips;
// it indicates a misconfigured decorator, not a corrupt world.
type SpillError struct {
	Pos voxel.QuadPos
}

func (e SpillError) Error() string {
	return fmt.Sprintf("decorator spilled out of quad at %v", e.Pos)
}

// Decorator mutates the quad around a centered position.
type Decorator interface {
	Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error
}

// Dispatcher invokes a decorator a rarity-drawn number of times per chunk at
// height-drawn positions.
type Dispatcher struct {
	Height    gen.Distribution
	Rarity    gen.Distribution
	Decorator Decorator
}

// Generate runs the dispatcher for one quad.
func (d *Dispatcher) Generate(quad *voxel.Quad, r *rng.Source) error {
	count := d.Rarity.Next(r)

	for i := uint32(0); i < count; i++ {
		at := voxel.NewColumnPos(
			uint8(r.NextU32Bound(16)),
			uint8(d.Height.Next(r)),
			uint8(r.NextU32Bound(16)),
		)

		if err := d.Decorator.Generate(quad, r, voxel.QuadPosCentered(at)); err != nil {
			return err
		}
	}

	return nil
}
