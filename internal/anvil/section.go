// Package anvil serializes generated columns into the legacy region format:
// zlib-compressed big-endian NBT chunk documents inside an 8 KiB-headed
// r.x.z.mca container.
package anvil

import (
	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

// SectionBlocks is one chunk section's block data in on-disk layout: the id
// byte array plus the meta nibbles, with the Add nibbles only when some id
// exceeds the 8-bit Blocks array.
type SectionBlocks struct {
	Blocks [4096]byte
	Data   voxel.NibbleCube
	Add    *voxel.NibbleCube
}

// FromPaletted converts a paletted cube into anvil arrays. Returns nil for an
// all-air section, which the chunk document omits entirely.
func FromPaletted(chunk *voxel.PalettedCube) *SectionBlocks {
	storage, palette := chunk.FreezePalette()

	// IDs over 4095 don't fit Blocks+Data and need the Add nibble array.
	needAdd := false
	ids := make([]uint16, palette.Len())
	for i := range ids {
		if entry, ok := palette.Entry(uint32(i)); ok {
			ids[i] = entry.Anvil()
			if ids[i] > 4095 {
				needAdd = true
			}
		}
	}

	out := &SectionBlocks{}
	if needAdd {
		out.Add = &voxel.NibbleCube{}
	}

	hasAny := false

	for i := 0; i < 4096; i++ {
		pos := voxel.CubePosFromYZX(uint16(i))
		anvil := ids[storage.Get(pos)]

		if anvil != 0 {
			hasAny = true
		}

		out.Blocks[i] = byte(anvil >> 4)
		out.Data.SetUncleared(pos, uint8(anvil&0xF))

		if needAdd {
			out.Add.SetUncleared(pos, uint8(anvil>>12))
		}
	}

	if !hasAny {
		return nil
	}

	return out
}

// SurfaceOpaque is the heightmap predicate for the HeightMap NBT field and
// sky lighting: anything except air blocks light in this generator's block set.
func SurfaceOpaque(b block.Block) bool {
	return b != block.Air
}
