package worldgen

import (
	"crypto/sha256"
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/config"
	"anvilgen/internal/voxel"
)

const testSeed = uint64(8399452073110208023)

func hashColumn(t *testing.T, column *voxel.Column) [32]byte {
	t.Helper()

	h := sha256.New()
	var buf [2]byte

	for y := 0; y < 256; y++ {
		for zx := 0; zx < 256; zx++ {
			pos := voxel.ColumnPosFromLayer(uint8(y), voxel.LayerPosFromZX(uint8(zx)))

			b, ok := column.Get(pos)
			if !ok {
				t.Fatal("vacant palette slot in generated column")
			}

			buf[0] = byte(b)
			buf[1] = byte(b >> 8)
			h.Write(buf[:])
		}
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestGenerateColumnDeterminism(t *testing.T) {
	pos := voxel.NewGlobalColumnPos(0, 0)

	run := func() [32]byte {
		generator, err := New(testSeed, config.Default())
		if err != nil {
			t.Fatal(err)
		}

		return hashColumn(t, generator.GenerateColumn(pos))
	}

	if run() != run() {
		t.Error("full column pipeline is not deterministic")
	}
}

func TestGeneratedColumnInvariants(t *testing.T) {
	generator, err := New(testSeed, config.Default())
	if err != nil {
		t.Fatal(err)
	}

	pos := voxel.NewGlobalColumnPos(0, 0)
	column := generator.GenerateColumn(pos)

	// Bedrock floor.
	for zx := 0; zx < 256; zx++ {
		floor := voxel.ColumnPosFromLayer(0, voxel.LayerPosFromZX(uint8(zx)))

		if b, _ := column.Get(floor); b != block.Bedrock {
			t.Fatalf("floor at %v = %v, want bedrock", floor, b)
		}
	}

	// The world ceiling is air.
	if b, _ := column.Get(voxel.NewColumnPos(8, 255, 8)); b != block.Air {
		t.Error("ceiling should be air")
	}

	// Something solid exists.
	solid := false
	for y := uint8(1); y < 128 && !solid; y++ {
		if b, _ := column.Get(voxel.NewColumnPos(8, y, 8)); b == block.Stone {
			solid = true
		}
	}
	if !solid {
		t.Error("no stone in the generated column")
	}
}

func TestDecorationRequiresFullQuad(t *testing.T) {
	generator, err := New(testSeed, config.Default())
	if err != nil {
		t.Fatal(err)
	}

	pos := voxel.NewGlobalColumnPos(0, 0)
	generator.GenerateColumn(pos)

	if err := generator.DecorateQuad(pos); err == nil {
		t.Error("decorating without the three neighbor columns must fail")
	}

	generator.GenerateColumn(voxel.NewGlobalColumnPos(1, 0))
	generator.GenerateColumn(voxel.NewGlobalColumnPos(0, 1))
	generator.GenerateColumn(voxel.NewGlobalColumnPos(1, 1))

	if err := generator.DecorateQuad(pos); err != nil {
		t.Errorf("decorating a complete quad failed: %v", err)
	}
}

func TestDecorationDeterminism(t *testing.T) {
	run := func() [32]byte {
		generator, err := New(testSeed, config.Default())
		if err != nil {
			t.Fatal(err)
		}

		for x := int32(0); x < 2; x++ {
			for z := int32(0); z < 2; z++ {
				generator.GenerateColumn(voxel.NewGlobalColumnPos(x, z))
			}
		}

		if err := generator.DecorateQuad(voxel.NewGlobalColumnPos(0, 0)); err != nil {
			t.Fatal(err)
		}

		return hashColumn(t, generator.Column(voxel.NewGlobalColumnPos(0, 0)))
	}

	if run() != run() {
		t.Error("decoration is not deterministic")
	}
}
