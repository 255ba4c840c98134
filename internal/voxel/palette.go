package voxel

import "anvilgen/internal/block"

// Palette maps dense storage indices to block identifiers, with an O(1)
// reverse lookup. Several indices may point at the same block; compaction is
// deliberately never performed, so associations stay valid for the lifetime of
// the palette.
type Palette struct {
	entries  []block.Block
	occupied []bool
	reverse  map[block.Block]uint32
}

// NewPalette builds a palette with 1<<bits slots, slot 0 holding the default block.
func NewPalette(bits uint, def block.Block) *Palette {
	p := &Palette{
		entries:  make([]block.Block, 1<<bits),
		occupied: make([]bool, 1<<bits),
		reverse:  map[block.Block]uint32{def: 0},
	}
	p.entries[0] = def
	p.occupied[0] = true

	return p
}

// Len returns the slot count.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Entry returns the block at a slot and whether the slot is occupied.
func (p *Palette) Entry(index uint32) (block.Block, bool) {
	if int(index) >= len(p.entries) || !p.occupied[index] {
		return 0, false
	}

	return p.entries[index], true
}

// TryInsert returns the association for target, claiming the first vacant slot
// if it is not present yet. It fails when the palette is full.
func (p *Palette) TryInsert(target block.Block) (uint32, bool) {
	if index, ok := p.reverse[target]; ok {
		return index, true
	}

	for i, used := range p.occupied {
		if !used {
			p.entries[i] = target
			p.occupied[i] = true
			p.reverse[target] = uint32(i)

			return uint32(i), true
		}
	}

	return 0, false
}

// ReverseLookup returns an association for target, if any.
func (p *Palette) ReverseLookup(target block.Block) (uint32, bool) {
	index, ok := p.reverse[target]
	return index, ok
}

// Expand grows the entry table by extra bits, keeping all associations stable.
func (p *Palette) Expand(extraBits uint) {
	grown := make([]block.Block, len(p.entries)<<extraBits)
	grownOccupied := make([]bool, len(p.occupied)<<extraBits)

	copy(grown, p.entries)
	copy(grownOccupied, p.occupied)

	p.entries = grown
	p.occupied = grownOccupied
}
