package anvil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/voxel"

	"github.com/klauspost/compress/zlib"
)

func TestFromPalettedRoundTrip(t *testing.T) {
	cube := voxel.NewPalettedCube(4, block.Air)
	cube.SetImmediate(voxel.NewCubePos(1, 2, 3), block.Stone)
	cube.SetImmediate(voxel.NewCubePos(4, 5, 6), block.TallGrass)

	section := FromPaletted(cube)
	if section == nil {
		t.Fatal("non-empty section reported as empty")
	}

	stoneIndex := voxel.NewCubePos(1, 2, 3).YZX()
	if section.Blocks[stoneIndex] != byte(block.Stone.Anvil()>>4) {
		t.Errorf("stone id byte = %d", section.Blocks[stoneIndex])
	}

	grassPos := voxel.NewCubePos(4, 5, 6)
	if section.Blocks[grassPos.YZX()] != byte(block.TallGrass.Anvil()>>4) {
		t.Errorf("tall grass id byte = %d", section.Blocks[grassPos.YZX()])
	}
	if section.Data.Get(grassPos) != uint8(block.TallGrass.Anvil()&0xF) {
		t.Errorf("tall grass meta nibble = %d", section.Data.Get(grassPos))
	}

	if section.Add != nil {
		t.Error("12-bit ids must not emit an Add array")
	}
}

func TestFromPalettedEmpty(t *testing.T) {
	if section := FromPaletted(voxel.NewPalettedCube(4, block.Air)); section != nil {
		t.Error("all-air section should be omitted")
	}
}

func TestFromPalettedAddArray(t *testing.T) {
	cube := voxel.NewPalettedCube(4, block.Air)

	// An id above 4095 needs the Add nibble.
	big := block.FromAnvil(0x1230) // wraps to id 0x123 plus add nibble 1
	cube.SetImmediate(voxel.NewCubePos(0, 0, 0), big)

	section := FromPaletted(cube)
	if section == nil || section.Add == nil {
		t.Fatal("id over 4095 must emit an Add array")
	}
	if section.Add.Get(voxel.NewCubePos(0, 0, 0)) != 1 {
		t.Errorf("add nibble = %d, want 1", section.Add.Get(voxel.NewCubePos(0, 0, 0)))
	}
}

func testColumnRoot(t *testing.T, x, z int32) (*ChunkRoot, []byte) {
	t.Helper()

	column := voxel.NewColumn(block.Air)
	column.SetImmediate(voxel.NewColumnPos(8, 40, 8), block.Stone)

	var sky [16]*voxel.NibbleCube
	heightmap := &voxel.ColumnHeightMap{}
	biomes := make([]byte, 256)

	root := Column(x, z, column, &sky, heightmap, biomes)

	raw, err := root.MarshalNBT()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	return root, raw
}

func TestColumnDocument(t *testing.T) {
	root, raw := testColumnRoot(t, 3, -7)

	if root.Level.XPos != 3 || root.Level.ZPos != -7 {
		t.Error("position fields scrambled")
	}
	if len(root.Level.Sections) != 1 {
		t.Fatalf("expected exactly one populated section, got %d", len(root.Level.Sections))
	}
	if root.Level.Sections[0].Y != 2 {
		t.Errorf("populated section Y = %d, want 2", root.Level.Sections[0].Y)
	}
	if len(raw) == 0 {
		t.Error("empty NBT output")
	}
}

func TestRegionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	writer, err := StartRegion(f)
	if err != nil {
		t.Fatal(err)
	}

	_, rawA := testColumnRoot(t, 0, 0)
	_, rawB := testColumnRoot(t, 1, 0)

	compressedA, err := Compress(rawA)
	if err != nil {
		t.Fatal(err)
	}
	compressedB, err := Compress(rawB)
	if err != nil {
		t.Fatal(err)
	}

	if err := writer.WriteColumn(0, 0, compressedA); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteColumn(1, 0, compressedB); err != nil {
		t.Fatal(err)
	}
	if err := writer.Finish(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// The file is page-aligned.
	if len(data)%4096 != 0 {
		t.Errorf("file length %d is not a multiple of 4096", len(data))
	}

	locations, err := ParseRegionHeader(data)
	if err != nil {
		t.Fatal(err)
	}

	// Slot (0,0) and (1,0) are present and non-overlapping; everything else absent.
	first, second := locations[0], locations[1]
	if first[0] != 2 || second[0] != first[0]+first[1] {
		t.Errorf("chunk locations overlap or misplace: %v, %v", first, second)
	}
	for i := 2; i < 1024; i++ {
		if locations[i][0] != 0 {
			t.Fatalf("slot %d should be absent", i)
		}
	}

	// The payload decompresses back to the original NBT bytes.
	offset := int(first[0]) * 4096
	payloadLen := int(uint32(data[offset])<<24 | uint32(data[offset+1])<<16 | uint32(data[offset+2])<<8 | uint32(data[offset+3]))

	if data[offset+4] != compressionZlib {
		t.Fatalf("compression scheme = %d", data[offset+4])
	}

	zr, err := zlib.NewReader(bytes.NewReader(data[offset+5 : offset+4+payloadLen]))
	if err != nil {
		t.Fatal(err)
	}

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(decompressed, rawA) {
		t.Error("payload does not round-trip to the original NBT")
	}
}
