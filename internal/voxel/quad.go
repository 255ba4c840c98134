package voxel

import "anvilgen/internal/block"

// Quad is the 2x2 column neighborhood a decorator may write into: the target
// column plus its three positive-axis neighbors, giving ±16 blocks of
// horizontal reach around the centered position.
type Quad struct {
	Columns [4]*Column
}

// Get returns the block at a quad position.
func (q *Quad) Get(pos QuadPos) (block.Block, bool) {
	return q.Columns[pos.Q()].Get(pos.Column())
}

// SetImmediate writes one block. Faster than freezing when setting under ~16 blocks.
func (q *Quad) SetImmediate(pos QuadPos, target block.Block) {
	q.Columns[pos.Q()].SetImmediate(pos.Column(), target)
}

// EnsureAvailable makes target available in all four columns.
func (q *Quad) EnsureAvailable(target block.Block) {
	for _, column := range q.Columns {
		column.EnsureAvailable(target)
	}
}

// FreezePalettes returns the bulk-write view over all four columns.
func (q *Quad) FreezePalettes() (*QuadBlocks, *QuadPalettes) {
	blocks := &QuadBlocks{}
	palettes := &QuadPalettes{}

	for i, column := range q.Columns {
		blocks.columns[i], palettes.columns[i] = column.FreezePalettes()
	}

	return blocks, palettes
}

// QuadAssociation is a frozen association valid across all four columns.
type QuadAssociation [4]ColumnAssociation

// QuadBlocks is the mutable storage half of a frozen quad.
type QuadBlocks struct {
	columns [4]*ColumnBlocks
}

// Get reads a block through the frozen palettes.
func (b *QuadBlocks) Get(pos QuadPos, palettes *QuadPalettes) block.Block {
	return b.columns[pos.Q()].Get(pos.Column(), palettes.columns[pos.Q()])
}

// Set writes a previously looked-up association.
func (b *QuadBlocks) Set(pos QuadPos, assoc *QuadAssociation) {
	b.columns[pos.Q()].Set(pos.Column(), &assoc[pos.Q()])
}

// QuadPalettes is the immutable palette half of a frozen quad.
type QuadPalettes struct {
	columns [4]*ColumnPalettes
}

// ReverseLookup resolves target across all four columns.
func (p *QuadPalettes) ReverseLookup(target block.Block) (QuadAssociation, bool) {
	var assoc QuadAssociation

	for i, palettes := range p.columns {
		column, ok := palettes.ReverseLookup(target)
		if !ok {
			return assoc, false
		}
		assoc[i] = column
	}

	return assoc, true
}
