package anvil

import (
	"bytes"

	"anvilgen/internal/voxel"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Section is one 16-block vertical slice of the chunk document.
type Section struct {
	Y          byte   `nbt:"Y"`
	Blocks     []byte `nbt:"Blocks"`
	Data       []byte `nbt:"Data"`
	Add        []byte `nbt:"Add,omitempty"`
	BlockLight []byte `nbt:"BlockLight"`
	SkyLight   []byte `nbt:"SkyLight"`
}

// Level is the chunk payload under the "Level" key.
type Level struct {
	XPos             int32      `nbt:"xPos"`
	ZPos             int32      `nbt:"zPos"`
	LastUpdate       int64      `nbt:"LastUpdate"`
	LightPopulated   bool       `nbt:"LightPopulated"`
	TerrainPopulated bool       `nbt:"TerrainPopulated"`
	V                byte       `nbt:"V"`
	InhabitedTime    int64      `nbt:"InhabitedTime"`
	Biomes           []byte     `nbt:"Biomes"`
	HeightMap        []int32    `nbt:"HeightMap"`
	Sections         []Section  `nbt:"Sections"`
	TileTicks        []struct{} `nbt:"TileTicks"`
	Entities         []struct{} `nbt:"Entities"`
	TileEntities     []struct{} `nbt:"TileEntities"`
}

// ChunkRoot is the full chunk document.
type ChunkRoot struct {
	Level Level `nbt:"Level"`
}

// Column assembles a chunk document from generated data. skyLight entries may
// be nil for dark sections; empty block light is written throughout since the
// generator places no emitting blocks.
func Column(x, z int32, column *voxel.Column, skyLight *[16]*voxel.NibbleCube, heightmap *voxel.ColumnHeightMap, biomes []byte) *ChunkRoot {
	var empty voxel.NibbleCube

	heights := make([]int32, 256)
	for i, h := range heightmap.Heights() {
		heights[i] = int32(h)
	}

	sections := make([]Section, 0, 16)

	for y := 0; y < 16; y++ {
		blocks := FromPaletted(column.Cubes[y])
		if blocks == nil {
			continue
		}

		section := Section{
			Y:          byte(y),
			Blocks:     blocks.Blocks[:],
			Data:       blocks.Data.Raw(),
			BlockLight: empty.Raw(),
			SkyLight:   empty.Raw(),
		}

		if blocks.Add != nil {
			section.Add = blocks.Add.Raw()
		}

		if sky := skyLight[y]; sky != nil {
			section.SkyLight = sky.Raw()
		}

		sections = append(sections, section)
	}

	return &ChunkRoot{
		Level: Level{
			XPos:             x,
			ZPos:             z,
			LightPopulated:   true,
			TerrainPopulated: true,
			V:                1,
			Biomes:           biomes,
			HeightMap:        heights,
			Sections:         sections,
			TileTicks:        []struct{}{},
			Entities:         []struct{}{},
			TileEntities:     []struct{}{},
		},
	}
}

// MarshalNBT encodes the document as big-endian NBT with an unnamed root.
func (c *ChunkRoot) MarshalNBT() ([]byte, error) {
	var buf bytes.Buffer

	if err := nbt.NewEncoderWithEncoding(&buf, nbt.BigEndian).Encode(c); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
