package gen

import (
	"testing"

	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

func TestOceanFillsBelowSeaLevel(t *testing.T) {
	origin := voxel.NewGlobalColumnPos(0, 0)
	climates := testClimateLayer(testSeed, origin)

	column := voxel.NewColumn(block.Air)
	newShapePass(testSeed).Apply(column, climates, origin)

	pass := &OceanPass{Blocks: DefaultOceanBlocks(), SeaTop: 64}
	pass.Apply(column, climates, origin)

	// No air may remain below the sea surface.
	for y := 0; y < 64; y++ {
		for zx := 0; zx < 256; zx++ {
			pos := voxel.ColumnPosFromLayer(uint8(y), voxel.LayerPosFromZX(uint8(zx)))

			b, _ := column.Get(pos)
			if b == block.Air {
				t.Fatalf("air below sea level at %v", pos)
			}
			if b != block.Stone && b != block.StillWater {
				t.Fatalf("unexpected block %v at %v", b, pos)
			}
		}
	}

	// The pass must not flood above the surface.
	for y := 64; y < 128; y++ {
		for zx := 0; zx < 256; zx++ {
			pos := voxel.ColumnPosFromLayer(uint8(y), voxel.LayerPosFromZX(uint8(zx)))

			if b, _ := column.Get(pos); b == block.StillWater {
				t.Fatalf("water above sea level at %v", pos)
			}
		}
	}
}

func TestOceanDisabled(t *testing.T) {
	origin := voxel.NewGlobalColumnPos(0, 0)
	climates := testClimateLayer(testSeed, origin)

	column := voxel.NewColumn(block.Air)
	newShapePass(testSeed).Apply(column, climates, origin)

	before := hashColumn(t, column)

	pass := &OceanPass{Blocks: DefaultOceanBlocks(), SeaTop: 0}
	pass.Apply(column, climates, origin)

	if before != hashColumn(t, column) {
		t.Error("sea top 0 must disable the pass entirely")
	}
}
