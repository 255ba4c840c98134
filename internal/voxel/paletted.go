package voxel

import "anvilgen/internal/block"

// PalettedCube is the chunk block array: a variable-width packed store paired
// with a palette. The width grows by one bit (rebuilding the storage) whenever
// the palette runs out of slots.
type PalettedCube struct {
	storage *PackedCube
	palette *Palette
}

// NewPalettedCube allocates a cube at the given starting bit width, filled with def.
func NewPalettedCube(bits uint, def block.Block) *PalettedCube {
	return &PalettedCube{
		storage: NewPackedCube(bits),
		palette: NewPalette(bits, def),
	}
}

// Bits returns the current storage width.
func (c *PalettedCube) Bits() uint {
	return c.storage.Bits()
}

// Palette exposes the palette for read-only iteration (opacity mapping, serialization).
func (c *PalettedCube) Palette() *Palette {
	return c.palette
}

// Get returns the block at a position. The second result is false only if the
// storage points at a vacant palette slot, which indicates corruption.
func (c *PalettedCube) Get(pos CubePos) (block.Block, bool) {
	return c.palette.Entry(c.storage.Get(pos))
}

// ReserveBits expands the palette and rebuilds the storage at a wider width,
// returning the old storage so callers can scavenge the allocation.
func (c *PalettedCube) ReserveBits(bits uint) *PackedCube {
	c.palette.Expand(bits)

	replacement := NewPackedCube(c.storage.Bits() + bits)
	replacement.CloneFrom(c.storage, nil, 0)

	old := c.storage
	c.storage = replacement

	return old
}

// EnsureAvailable guarantees that a later ReverseLookup for target succeeds,
// growing the palette if needed.
func (c *PalettedCube) EnsureAvailable(target block.Block) {
	if _, ok := c.palette.TryInsert(target); ok {
		return
	}

	c.ReserveBits(1)

	if _, ok := c.palette.TryInsert(target); !ok {
		panic("voxel: palette full immediately after expansion")
	}
}

// SetImmediate performs ensure, reverse lookup and set in one call. Prefer
// FreezePalette for bulk writes.
func (c *PalettedCube) SetImmediate(pos CubePos, target block.Block) {
	c.EnsureAvailable(target)
	index, _ := c.palette.ReverseLookup(target)
	c.storage.Set(pos, index)
}

// FreezePalette returns the mutable storage alongside the palette. While the
// pair is in use the palette must not grow; associations obtained from the
// palette write through the storage without further hash lookups.
func (c *PalettedCube) FreezePalette() (*PackedCube, *Palette) {
	return c.storage, c.palette
}

// Replace rewrites every from cell to to, used by the ocean pass to flood
// whole cubes without touching the packed data cell by cell.
func (c *PalettedCube) Replace(from, to block.Block) {
	fromIndex, ok := c.palette.ReverseLookup(from)
	if !ok {
		return
	}

	c.EnsureAvailable(to)
	toIndex, _ := c.palette.ReverseLookup(to)

	for i := CubePos(0); ; i++ {
		if c.storage.Get(i) == fromIndex {
			c.storage.Set(i, toIndex)
		}
		if i == 4095 {
			break
		}
	}
}

// FilledWithHeuristic reports whether the cube might consist entirely of b:
// true when no other block has ever been inserted into the palette. Used by
// the paint pass to find the highest non-empty slice cheaply.
func (c *PalettedCube) FilledWithHeuristic(b block.Block) bool {
	for i, used := range c.palette.occupied {
		if used && c.palette.entries[i] != b {
			return false
		}
	}

	return true
}
