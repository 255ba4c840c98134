package voxel

import "testing"

func TestBitCubePopFirstOrder(t *testing.T) {
	var m BitCube

	positions := []CubePos{NewCubePos(3, 7, 2), NewCubePos(0, 0, 0), NewCubePos(15, 15, 15)}
	for _, pos := range positions {
		m.SetTrue(pos)
	}

	// PopFirst drains in ascending yzx order.
	want := []CubePos{NewCubePos(0, 0, 0), NewCubePos(3, 7, 2), NewCubePos(15, 15, 15)}

	for i, expected := range want {
		got, ok := m.PopFirst()
		if !ok {
			t.Fatalf("pop %d: queue drained early", i)
		}
		if got != expected {
			t.Fatalf("pop %d = %v, want %v", i, got, expected)
		}
	}

	if _, ok := m.PopFirst(); ok {
		t.Error("queue should be empty")
	}
	if !m.Empty() {
		t.Error("occupancy header out of sync after draining")
	}
}

func TestBitCubeSetClear(t *testing.T) {
	var m BitCube

	pos := NewCubePos(5, 9, 12)
	m.Set(pos, true)

	if !m.Get(pos) || m.Empty() {
		t.Fatal("set bit not visible")
	}

	m.Set(pos, false)

	if m.Get(pos) || !m.Empty() {
		t.Fatal("cleared bit still visible")
	}
}

func TestSpillBitCubeOffsets(t *testing.T) {
	var m SpillBitCube

	// Interior write stays in the primary mask.
	m.SetOffsetTrue(NewCubePos(8, 8, 8), PlusX)
	if !m.Primary.Get(NewCubePos(9, 8, 8)) {
		t.Error("interior offset missed the primary mask")
	}

	// Boundary write lands on the face layer in ZY coordinates.
	m.SetOffsetTrue(NewCubePos(15, 3, 7), PlusX)
	if !m.Spills[PlusX].Get(NewLayerPos(3, 7)) {
		t.Error("boundary offset missed the spill face")
	}

	// Z faces use YX coordinates.
	m.SetOffsetTrue(NewCubePos(4, 11, 0), MinusZ)
	if !m.Spills[MinusZ].Get(NewLayerPos(4, 11)) {
		t.Error("Z-face spill used the wrong swizzle")
	}
}

func TestMergeFaceRoundTrip(t *testing.T) {
	// A spill leaving a chunk through PlusX enters the neighbor at x=0 with
	// the same (y, z).
	var spill SpillBitCube
	spill.SetOffsetTrue(NewCubePos(15, 3, 7), PlusX)

	var neighbor BitCube
	neighbor.MergeFace(PlusX, &spill.Spills[PlusX])

	if !neighbor.Get(NewCubePos(0, 3, 7)) {
		t.Error("spill did not arrive at the neighbor's entry face")
	}
}

func TestBitLayerFill(t *testing.T) {
	var m BitLayer

	m.Fill(true)
	if !m.IsFilled(true) || m.CountOnes() != 256 {
		t.Error("fill(true) incomplete")
	}

	m.Fill(false)
	if !m.IsFilled(false) {
		t.Error("fill(false) incomplete")
	}
}
