package voxel

import (
	"testing"

	"anvilgen/internal/block"
)

func TestPackedCubeSetGet(t *testing.T) {
	for _, bits := range []uint{1, 4, 5, 8} {
		storage := NewPackedCube(bits)
		mask := uint32(1)<<bits - 1

		for i := 0; i < 4096; i += 7 {
			pos := CubePosFromYZX(uint16(i))
			storage.Set(pos, uint32(i))

			if got := storage.Get(pos); got != uint32(i)&mask {
				t.Fatalf("bits=%d: get(%d) = %d, want %d", bits, i, got, uint32(i)&mask)
			}
		}
	}
}

func TestPackedCubeStraddlesWords(t *testing.T) {
	// 5-bit cells straddle 64-bit word boundaries regularly.
	storage := NewPackedCube(5)

	a := CubePosFromYZX(12) // bits 60..64
	b := CubePosFromYZX(13)

	storage.Set(a, 0x1F)
	storage.Set(b, 0x15)

	if storage.Get(a) != 0x1F || storage.Get(b) != 0x15 {
		t.Errorf("straddling write corrupted neighbors: %d, %d", storage.Get(a), storage.Get(b))
	}

	storage.Set(a, 0)
	if storage.Get(b) != 0x15 {
		t.Error("clearing a straddling cell clobbered its neighbor")
	}
}

func TestPackedCubeZeroBits(t *testing.T) {
	storage := NewPackedCube(0)
	storage.Set(NewCubePos(1, 2, 3), 9)

	if got := storage.Get(NewCubePos(1, 2, 3)); got != 0 {
		t.Errorf("zero-width store must read 0, got %d", got)
	}
}

func TestPackedCubeCloneFromTranslation(t *testing.T) {
	src := NewPackedCube(4)
	src.Set(NewCubePos(0, 0, 0), 3)
	src.Set(NewCubePos(1, 0, 0), 7)

	dst := NewPackedCube(5)
	dst.CloneFrom(src, map[uint32]uint32{3: 17, 0: 0}, 31)

	if got := dst.Get(NewCubePos(0, 0, 0)); got != 17 {
		t.Errorf("translated value = %d, want 17", got)
	}
	if got := dst.Get(NewCubePos(1, 0, 0)); got != 31 {
		t.Errorf("missing translation should map to default, got %d", got)
	}
}

func TestPaletteInsertLookup(t *testing.T) {
	p := NewPalette(2, block.Air)

	index, ok := p.TryInsert(block.Stone)
	if !ok {
		t.Fatal("insert into non-full palette failed")
	}

	found, ok := p.ReverseLookup(block.Stone)
	if !ok || found != index {
		t.Fatalf("reverse lookup = (%d, %v), want (%d, true)", found, ok, index)
	}

	entry, ok := p.Entry(index)
	if !ok || entry != block.Stone {
		t.Fatalf("entry at %d = (%v, %v)", index, entry, ok)
	}
}

func TestPaletteFull(t *testing.T) {
	p := NewPalette(1, block.Air)

	if _, ok := p.TryInsert(block.Stone); !ok {
		t.Fatal("second slot should be free")
	}
	if _, ok := p.TryInsert(block.Dirt); ok {
		t.Fatal("full palette accepted an insert")
	}

	p.Expand(1)
	if _, ok := p.TryInsert(block.Dirt); !ok {
		t.Fatal("expanded palette rejected an insert")
	}

	// Old associations survive expansion.
	if index, ok := p.ReverseLookup(block.Stone); !ok || index != 1 {
		t.Fatalf("association moved during expansion: (%d, %v)", index, ok)
	}
}

func TestPalettedCubeSetImmediate(t *testing.T) {
	cube := NewPalettedCube(1, block.Air)

	// Force several palette growths from a 1-bit start.
	inserts := []block.Block{block.Stone, block.Dirt, block.Grass, block.Gravel, block.Sand}

	for i, b := range inserts {
		pos := NewCubePos(uint8(i), 0, 0)
		cube.SetImmediate(pos, b)

		if got, ok := cube.Get(pos); !ok || got != b {
			t.Fatalf("after insert %d: get = (%v, %v), want %v", i, got, ok, b)
		}
	}

	// Earlier writes survive the storage rebuilds.
	for i, b := range inserts {
		if got, _ := cube.Get(NewCubePos(uint8(i), 0, 0)); got != b {
			t.Fatalf("value %d corrupted after growth: %v != %v", i, got, b)
		}
	}
}

func TestFreezePaletteBulkWrite(t *testing.T) {
	cube := NewPalettedCube(4, block.Air)
	cube.EnsureAvailable(block.Stone)

	storage, palette := cube.FreezePalette()
	stone, ok := palette.ReverseLookup(block.Stone)
	if !ok {
		t.Fatal("ensured block missing from palette")
	}

	setter := storage.Setter(stone)
	for i := 0; i < 4096; i++ {
		setter.Set(CubePosFromYZX(uint16(i)))
	}

	if got, _ := cube.Get(NewCubePos(15, 15, 15)); got != block.Stone {
		t.Errorf("bulk write missed a cell: %v", got)
	}
}

func TestReplace(t *testing.T) {
	cube := NewPalettedCube(4, block.Air)
	cube.SetImmediate(NewCubePos(3, 3, 3), block.Stone)

	cube.Replace(block.Air, block.StillWater)

	if got, _ := cube.Get(NewCubePos(0, 0, 0)); got != block.StillWater {
		t.Errorf("air should have become water, got %v", got)
	}
	if got, _ := cube.Get(NewCubePos(3, 3, 3)); got != block.Stone {
		t.Errorf("stone should be untouched, got %v", got)
	}
}
