package decorator

import (
	"fmt"

	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// Clump scatters an inner decorator around the center with independent
// horizontal and vertical variance.
type Clump struct {
	Iterations uint32
	// Horizontal variance. Must be 8 or below or the offsets could leave the quad.
	Horizontal uint8
	Vertical   uint8
	Decorator  Decorator
}

// NewClump validates the spill precondition at configuration time.
func NewClump(iterations uint32, horizontal, vertical uint8, inner Decorator) (*Clump, error) {
	if horizontal > 8 {
		return nil, fmt.Errorf("decorator: clump horizontal variance %d exceeds quad reach", horizontal)
	}

	return &Clump{Iterations: iterations, Horizontal: horizontal, Vertical: vertical, Decorator: inner}, nil
}

// Generate implements Decorator.
func (d *Clump) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	for i := uint32(0); i < d.Iterations; i++ {
		dx := r.NextI32Bound(int32(d.Horizontal)) - r.NextI32Bound(int32(d.Horizontal))
		dy := r.NextI32Bound(int32(d.Vertical)) - r.NextI32Bound(int32(d.Vertical))
		dz := r.NextI32Bound(int32(d.Horizontal)) - r.NextI32Bound(int32(d.Horizontal))

		if int32(pos.Y())+dy < 0 {
			continue
		}

		at, ok := pos.OffsetXYZ(int8(dx), int8(dy), int8(dz))
		if !ok {
			// Only reachable when Y overflows the column top.
			continue
		}

		if err := d.Decorator.Generate(quad, r, at); err != nil {
			return err
		}
	}

	return nil
}

// FlatClump is Clump with no vertical scatter.
type FlatClump struct {
	Iterations uint32
	Horizontal uint8
	Decorator  Decorator
}

// NewFlatClump validates the spill precondition at configuration time.
func NewFlatClump(iterations uint32, horizontal uint8, inner Decorator) (*FlatClump, error) {
	if horizontal > 8 {
		return nil, fmt.Errorf("decorator: clump horizontal variance %d exceeds quad reach", horizontal)
	}

	return &FlatClump{Iterations: iterations, Horizontal: horizontal, Decorator: inner}, nil
}

// Generate implements Decorator.
func (d *FlatClump) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	for i := uint32(0); i < d.Iterations; i++ {
		dx := r.NextI32Bound(int32(d.Horizontal)) - r.NextI32Bound(int32(d.Horizontal))
		dz := r.NextI32Bound(int32(d.Horizontal)) - r.NextI32Bound(int32(d.Horizontal))

		at, ok := pos.OffsetXYZ(int8(dx), 0, int8(dz))
		if !ok {
			return SpillError{Pos: pos}
		}

		if err := d.Decorator.Generate(quad, r, at); err != nil {
			return err
		}
	}

	return nil
}
