package gen

import (
	"crypto/sha256"
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/climate"
	"anvilgen/internal/noise"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"

	"github.com/go-gl/mathgl/mgl64"
)

const testSeed = uint64(8399452073110208023)

func testClimateLayer(seed uint64, pos voxel.GlobalColumnPos) *climate.Layer {
	source := climate.NewSource(seed, climate.DefaultSettings())
	return source.Chunk(float64(pos.X)*16.0, float64(pos.Z)*16.0)
}

func newShapePass(seed uint64) *ShapePass {
	r := rng.New(seed)

	tri := NewTriNoiseSource(r, DefaultTriNoiseSettings())

	// Skip over the paint noise fields to keep the stream aligned with the
	// full pipeline's constructor order.
	noise.NewPerlinOctaves(r.Clone(), 4, mgl64.Vec3{1.0 / 32.0, 1.0 / 32.0, 1.0})
	noise.NewPerlinOctaves(r, 4, mgl64.Vec3{1.0 / 32.0, 1.0, 1.0 / 32.0})
	noise.NewPerlinOctaves(r, 4, mgl64.Vec3{1.0 / 16.0, 1.0 / 16.0, 1.0 / 16.0})

	height := NewHeightSource(r, DefaultHeightSettings())

	return &ShapePass{
		Blocks: DefaultShapeBlocks(),
		Tri:    tri,
		Height: height,
		Field:  DefaultShapeSettings(),
	}
}

func hashColumn(t *testing.T, column *voxel.Column) [32]byte {
	t.Helper()

	h := sha256.New()
	var buf [2]byte

	for y := 0; y < 256; y++ {
		for zx := 0; zx < 256; zx++ {
			pos := voxel.ColumnPosFromLayer(uint8(y), voxel.LayerPosFromZX(uint8(zx)))

			b, ok := column.Get(pos)
			if !ok {
				t.Fatal("column read hit a vacant palette slot")
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

func TestShapePassOriginColumn(t *testing.T) {
	pass := newShapePass(testSeed)
	origin := voxel.NewGlobalColumnPos(0, 0)

	column := voxel.NewColumn(block.Air)
	pass.Apply(column, testClimateLayer(testSeed, origin), origin)

	// The upper taper drives the field to -10 by the top of the shaped
	// volume; the world ceiling must be air.
	if b, _ := column.Get(voxel.NewColumnPos(8, 127, 8)); b != block.Air {
		t.Errorf("block at (8, 127, 8) = %v, want air", b)
	}
	if b, _ := column.Get(voxel.NewColumnPos(8, 200, 8)); b != block.Air {
		t.Errorf("block above the shaped volume = %v, want air", b)
	}

	// Terrain centers around the depth base; the deep column must be solid.
	solid := 0
	for y := uint8(0); y < 64; y++ {
		if b, _ := column.Get(voxel.NewColumnPos(8, y, 8)); b == block.Stone {
			solid++
		}
	}
	if solid == 0 {
		t.Error("no stone generated below sea level at the origin")
	}
}

func TestShapePassDeterminism(t *testing.T) {
	pos := voxel.NewGlobalColumnPos(3, -2)

	run := func() [32]byte {
		pass := newShapePass(testSeed)
		column := voxel.NewColumn(block.Air)
		pass.Apply(column, testClimateLayer(testSeed, pos), pos)
		return hashColumn(t, column)
	}

	if run() != run() {
		t.Error("shape pass is not deterministic")
	}
}

func TestTrilinear128Corners(t *testing.T) {
	var field TriField

	field[0][0][0] = 8.0
	field[1][0][0] = -8.0

	// At a cell corner the interpolation must return the corner value.
	if got := Trilinear128(&field, voxel.NewColumnPos(0, 0, 0)); got != 8.0 {
		t.Errorf("corner value = %v, want 8", got)
	}

	// Halfway between two corners along X.
	if got := Trilinear128(&field, voxel.NewColumnPos(2, 0, 0)); got != 0.0 {
		t.Errorf("midpoint value = %v, want 0", got)
	}
}

func TestReduceUpperTapersToFloor(t *testing.T) {
	// Past the taper threshold the value is pulled below the floor.
	if got := ReduceUpper(100.0, -10.0, 17.0, 4.0, 17.0); got > -10.0 {
		t.Errorf("top-of-field taper = %v, want at or below -10", got)
	}
	if got := ReduceUpper(5.0, -10.0, 0.0, 4.0, 17.0); got != 5.0 {
		t.Errorf("below the threshold the value must pass through, got %v", got)
	}
}
