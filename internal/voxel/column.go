package voxel

import "anvilgen/internal/block"

// Column is a vertical stack of 16 paletted cubes, the unit the terrain passes
// operate on.
type Column struct {
	Cubes [16]*PalettedCube
}

// NewColumn allocates a column of 4-bit cubes filled with def.
func NewColumn(def block.Block) *Column {
	c := &Column{}
	for i := range c.Cubes {
		c.Cubes[i] = NewPalettedCube(4, def)
	}

	return c
}

// Get returns the block at a position.
func (c *Column) Get(pos ColumnPos) (block.Block, bool) {
	return c.Cubes[pos.ChunkY()].Get(pos.Cube())
}

// SetImmediate writes one block, growing the affected cube's palette if needed.
func (c *Column) SetImmediate(pos ColumnPos, target block.Block) {
	c.Cubes[pos.ChunkY()].SetImmediate(pos.Cube(), target)
}

// EnsureAvailable makes target available in every cube of the column.
func (c *Column) EnsureAvailable(target block.Block) {
	for _, cube := range c.Cubes {
		cube.EnsureAvailable(target)
	}
}

// FreezePalettes returns the bulk-write view over all 16 cubes. The palettes
// must not grow while the views are live.
func (c *Column) FreezePalettes() (*ColumnBlocks, *ColumnPalettes) {
	blocks := &ColumnBlocks{}
	palettes := &ColumnPalettes{}

	for i, cube := range c.Cubes {
		blocks.storages[i], palettes.palettes[i] = cube.FreezePalette()
	}

	return blocks, palettes
}

// ColumnAssociation is a frozen per-cube palette index for one block, accepted
// by ColumnBlocks.Set without any palette access.
type ColumnAssociation [16]uint32

// ColumnBlocks is the mutable storage half of a frozen column.
type ColumnBlocks struct {
	storages [16]*PackedCube
}

// Get reads a block through the frozen palettes.
func (b *ColumnBlocks) Get(pos ColumnPos, palettes *ColumnPalettes) block.Block {
	chunkY := pos.ChunkY()
	raw := b.storages[chunkY].Get(pos.Cube())
	entry, _ := palettes.palettes[chunkY].Entry(raw)

	return entry
}

// Set writes a previously looked-up association.
func (b *ColumnBlocks) Set(pos ColumnPos, assoc *ColumnAssociation) {
	chunkY := pos.ChunkY()
	b.storages[chunkY].Set(pos.Cube(), assoc[chunkY])
}

// ColumnPalettes is the immutable palette half of a frozen column.
type ColumnPalettes struct {
	palettes [16]*Palette
}

// ReverseLookup resolves target in every cube palette at once. It fails if any
// cube is missing the block, which means EnsureAvailable was skipped.
func (p *ColumnPalettes) ReverseLookup(target block.Block) (ColumnAssociation, bool) {
	var assoc ColumnAssociation

	for i, palette := range p.palettes {
		index, ok := palette.ReverseLookup(target)
		if !ok {
			return assoc, false
		}
		assoc[i] = index
	}

	return assoc, true
}
