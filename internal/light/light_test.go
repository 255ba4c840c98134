package light

import (
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

func testOpacity(b block.Block) uint8 {
	if b == block.Air {
		return 0
	}

	return 15
}

// floorChunk is a stone floor at y=0 with air above, the canonical corner case.
func floorChunk() *voxel.PalettedCube {
	cube := voxel.NewPalettedCube(4, block.Air)

	for zx := 0; zx < 256; zx++ {
		cube.SetImmediate(voxel.CubePosFromLayer(0, voxel.LayerPosFromZX(uint8(zx))), block.Stone)
	}

	return cube
}

func floorHeightmap() voxel.CubeHeightMap {
	var full voxel.ColumnHeightMap
	for zx := 0; zx < 256; zx++ {
		full.Heights()[zx] = 1
	}

	return full.Slice(0)
}

func lightFloorChunk(t *testing.T) *voxel.NibbleCube {
	t.Helper()

	cube := floorChunk()
	storage, palette := cube.FreezePalette()

	sources := NewSkyLightSources(floorHeightmap())
	data := &voxel.NibbleCube{}

	lighting := NewLighting(data, [6]*voxel.NibbleCube{}, sources, OpacityTable(palette, testOpacity))

	queue := NewCubeQueue()
	lighting.Initial(storage, queue)
	lighting.Finish(storage, queue)

	return data
}

func TestSkyLightFloorScene(t *testing.T) {
	data := lightFloorChunk(t)

	// Every open cell is fully lit.
	for y := uint8(1); y < 16; y++ {
		for zx := 0; zx < 256; zx++ {
			pos := voxel.CubePosFromLayer(y, voxel.LayerPosFromZX(uint8(zx)))

			if got := data.Get(pos); got != 15 {
				t.Fatalf("light at %v = %d, want 15", pos, got)
			}
		}
	}

	// The opaque floor swallows everything.
	for zx := 0; zx < 256; zx++ {
		pos := voxel.CubePosFromLayer(0, voxel.LayerPosFromZX(uint8(zx)))

		if got := data.Get(pos); got != 0 {
			t.Fatalf("light inside the floor at %v = %d, want 0", pos, got)
		}
	}
}

func TestSkyLightIdempotent(t *testing.T) {
	a := lightFloorChunk(t)
	b := lightFloorChunk(t)

	for i := 0; i < 4096; i++ {
		pos := voxel.CubePosFromYZX(uint16(i))
		if a.Get(pos) != b.Get(pos) {
			t.Fatalf("light at %v differs between runs", pos)
		}
	}
}

func TestBlockLightInitialSeedsNeighbors(t *testing.T) {
	cube := voxel.NewPalettedCube(4, block.Air)
	cube.SetImmediate(voxel.NewCubePos(8, 8, 8), block.GoldBlock)

	storage, palette := cube.FreezePalette()

	emission := voxel.NewNibbleArray(palette.Len())
	if index, ok := palette.ReverseLookup(block.GoldBlock); ok {
		emission.Set(int(index), 14)
	}

	sources := NewBlockLightSources(emission)
	data := &voxel.NibbleCube{}

	var mask voxel.SpillBitCube
	sources.Initial(storage, data, &mask)

	if data.Get(voxel.NewCubePos(8, 8, 8)) != 14 {
		t.Error("emitting cell not set to its emission")
	}
	if !mask.Primary.Get(voxel.NewCubePos(9, 8, 8)) || !mask.Primary.Get(voxel.NewCubePos(8, 7, 8)) {
		t.Error("emitter neighbors not queued")
	}
}

func TestBlockLightFalloff(t *testing.T) {
	cube := voxel.NewPalettedCube(4, block.Air)
	cube.SetImmediate(voxel.NewCubePos(8, 8, 8), block.GoldBlock)

	storage, palette := cube.FreezePalette()

	emission := voxel.NewNibbleArray(palette.Len())
	index, _ := palette.ReverseLookup(block.GoldBlock)
	emission.Set(int(index), 14)

	opacity := voxel.NewNibbleArray(palette.Len())

	sources := NewBlockLightSources(emission)
	data := &voxel.NibbleCube{}

	lighting := NewLighting(data, [6]*voxel.NibbleCube{}, sources, opacity)

	queue := NewCubeQueue()
	lighting.Initial(storage, queue)
	lighting.Finish(storage, queue)

	// Light decays by one per step of Manhattan distance from the emitter.
	cases := []struct {
		pos  voxel.CubePos
		want uint8
	}{
		{voxel.NewCubePos(8, 8, 8), 14},
		{voxel.NewCubePos(9, 8, 8), 13},
		{voxel.NewCubePos(10, 9, 8), 11},
		{voxel.NewCubePos(8, 8, 15), 7},
	}

	for _, c := range cases {
		if got := data.Get(c.pos); got != c.want {
			t.Errorf("light at %v = %d, want %d", c.pos, got, c.want)
		}
	}
}
