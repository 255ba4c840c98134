package light

import (
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

// flatWorld builds a world of full columns: stone floor chunks at chunk y=0,
// air chunks above, across the given sectors.
func flatWorld(sectors ...voxel.GlobalSectorPos) *voxel.World[voxel.PalettedCube] {
	world := voxel.NewWorld[voxel.PalettedCube]()

	for _, sectorPos := range sectors {
		sector := world.GetOrCreateSector(sectorPos)

		for zx := 0; zx < 256; zx++ {
			layer := voxel.LayerPosFromZX(uint8(zx))

			sector.Set(voxel.CubePosFromLayer(0, layer), floorChunk())
			for y := uint8(1); y < 16; y++ {
				sector.Set(voxel.CubePosFromLayer(y, layer), voxel.NewPalettedCube(4, block.Air))
			}
		}
	}

	return world
}

func TestComputeHeightmapsFlatWorld(t *testing.T) {
	world := flatWorld(voxel.NewGlobalSectorPos(0, 0))

	heightmaps := ComputeHeightmaps(world, func(b block.Block) bool { return b != block.Air }, 2)

	sector := heightmaps[voxel.NewGlobalSectorPos(0, 0)]
	if sector == nil {
		t.Fatal("sector heightmaps missing")
	}

	for zx := 0; zx < 256; zx++ {
		heightmap := sector.Get(voxel.LayerPosFromZX(uint8(zx)))

		for i, h := range heightmap.Heights() {
			if h != 1 {
				t.Fatalf("column %d height[%d] = %d, want 1", zx, i, h)
			}
		}
	}
}

func TestComputeSkyLightFlatWorld(t *testing.T) {
	world := flatWorld(voxel.NewGlobalSectorPos(0, 0), voxel.NewGlobalSectorPos(1, 0))

	heightmaps := ComputeHeightmaps(world, func(b block.Block) bool { return b != block.Air }, 2)
	skyLight := ComputeSkyLight(world, heightmaps, testOpacity, 2, nil)

	// Spot-check cells across both sectors, including the shared boundary.
	checks := []voxel.GlobalChunkPos{
		{X: 0, Y: 3, Z: 0},
		{X: 15, Y: 1, Z: 7},
		{X: 16, Y: 1, Z: 7},
		{X: 31, Y: 15, Z: 15},
	}

	for _, chunkPos := range checks {
		sector := skyLight.Sector(chunkPos.Column().Sector())
		if sector == nil {
			t.Fatalf("no light sector for %v", chunkPos)
		}

		local := voxel.NewCubePos(uint8(chunkPos.X&0xF), uint8(chunkPos.Y&0xF), uint8(chunkPos.Z&0xF))

		data, release := sector.Read(local)
		if data == nil {
			release()
			t.Fatalf("no light data for %v", chunkPos)
		}

		if got := data.Get(voxel.NewCubePos(8, 8, 8)); got != 15 {
			release()
			t.Fatalf("open-air light at %v = %d, want 15", chunkPos, got)
		}
		release()
	}
}

func TestWorldQueuePhases(t *testing.T) {
	q := NewWorldQueue()

	spillFromChunk := func() SectorSpills {
		// One chunk at (15, 0, 0) spilling PlusX.
		cube := NewCubeQueue()
		cube.Mask().SetOffsetTrue(voxel.NewCubePos(15, 8, 8), voxel.PlusX)
		spills := cube.ResetSpills()

		sq := NewSectorQueue()
		sq.EnqueueSpills(voxel.NewCubePos(15, 0, 0), spills)

		return sq.ResetSpills()
	}

	q.EnqueueSpills(voxel.NewGlobalSectorPos(0, 0), spillFromChunk())

	drained := q.Flip()
	if drained == nil {
		t.Fatal("queue with spills drained nothing")
	}

	sector, ok := drained[voxel.NewGlobalSectorPos(1, 0)]
	if !ok {
		t.Fatal("spill did not land in the PlusX neighbor sector")
	}

	mask := sector.Get(voxel.NewCubePos(0, 0, 0))
	if mask == nil || !mask.Get(voxel.NewCubePos(0, 8, 8)) {
		t.Error("spilled position missing from the neighbor chunk mask")
	}

	if q.Flip() != nil {
		t.Error("queue should be empty after draining")
	}
}

func TestWorldQueueParitySeparation(t *testing.T) {
	q := NewWorldQueue()

	q.sectorMasks(voxel.NewGlobalSectorPos(0, 0)) // even
	q.sectorMasks(voxel.NewGlobalSectorPos(1, 0)) // odd

	first := q.Flip()
	second := q.Flip()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("phases not separated: %d, %d", len(first), len(second))
	}

	for pos := range first {
		for other := range second {
			if sectorParity(pos) == sectorParity(other) {
				t.Error("both phases drained the same parity")
			}
		}
	}
}
