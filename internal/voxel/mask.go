package voxel

import "math/bits"

// BitLayer is a 256-bit mask over the 16x16 layer domain.
type BitLayer [4]uint64

// Get reads the bit at a layer position.
func (m *BitLayer) Get(pos LayerPos) bool {
	index := pos.ZX()
	return m[index>>6]>>(index&63)&1 == 1
}

// Set writes the bit at a layer position.
func (m *BitLayer) Set(pos LayerPos, value bool) {
	index := pos.ZX()
	cleared := m[index>>6] &^ (1 << (index & 63))

	var bit uint64
	if value {
		bit = 1 << (index & 63)
	}

	m[index>>6] = cleared | bit
}

// SetTrue sets the bit at a layer position.
func (m *BitLayer) SetTrue(pos LayerPos) {
	index := pos.ZX()
	m[index>>6] |= 1 << (index & 63)
}

// SetOr ORs value into the bit at a layer position.
func (m *BitLayer) SetOr(pos LayerPos, value bool) {
	if value {
		m.SetTrue(pos)
	}
}

// Fill sets every bit to value.
func (m *BitLayer) Fill(value bool) {
	word := uint64(0)
	if value {
		word = ^uint64(0)
	}

	m[0], m[1], m[2], m[3] = word, word, word, word
}

// IsFilled reports whether every bit equals value.
func (m *BitLayer) IsFilled(value bool) bool {
	word := uint64(0)
	if value {
		word = ^uint64(0)
	}

	return m[0] == word && m[1] == word && m[2] == word && m[3] == word
}

// Combine ORs another layer into this one.
func (m *BitLayer) Combine(other *BitLayer) {
	m[0] |= other[0]
	m[1] |= other[1]
	m[2] |= other[2]
	m[3] |= other[3]
}

// CountOnes returns the number of set bits.
func (m *BitLayer) CountOnes() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// BitCube is a 4096-bit mask over the cube domain. A 64-bit occupancy header
// tracks which 64-bit blocks contain any set bit, making PopFirst proportional
// to the number of non-empty blocks rather than the full domain.
type BitCube struct {
	blocks   [64]uint64
	occupied uint64
}

// Get reads the bit at a position.
func (m *BitCube) Get(pos CubePos) bool {
	index := pos.YZX()
	return m.blocks[index>>6]>>(index&63)&1 == 1
}

// Set writes the bit at a position, maintaining the occupancy header.
func (m *BitCube) Set(pos CubePos, value bool) {
	index := pos.YZX()
	blockIndex := index >> 6

	cleared := m.blocks[blockIndex] &^ (1 << (index & 63))
	var bit uint64
	if value {
		bit = 1 << (index & 63)
	}

	m.blocks[blockIndex] = cleared | bit
	m.setOccupied(uint(blockIndex), m.blocks[blockIndex] != 0)
}

// SetTrue sets the bit at a position.
func (m *BitCube) SetTrue(pos CubePos) {
	index := pos.YZX()
	m.blocks[index>>6] |= 1 << (index & 63)
	m.occupied |= 1 << (index >> 6)
}

// SetOr ORs value into the bit at a position.
func (m *BitCube) SetOr(pos CubePos, value bool) {
	if value {
		m.SetTrue(pos)
	}
}

func (m *BitCube) setOccupied(blockIndex uint, value bool) {
	cleared := m.occupied &^ (1 << blockIndex)
	var bit uint64
	if value {
		bit = 1 << blockIndex
	}

	m.occupied = cleared | bit
}

// Empty reports whether no bit is set.
func (m *BitCube) Empty() bool {
	return m.occupied == 0
}

// Fill sets every bit to value.
func (m *BitCube) Fill(value bool) {
	word := uint64(0)
	if value {
		word = ^uint64(0)
	}

	for i := range m.blocks {
		m.blocks[i] = word
	}
	m.occupied = word
}

// CountOnes returns the number of set bits.
func (m *BitCube) CountOnes() int {
	total := 0
	for _, b := range m.blocks {
		total += bits.OnesCount64(b)
	}

	return total
}

// PopFirst removes and returns the lowest set position.
func (m *BitCube) PopFirst() (CubePos, bool) {
	if m.occupied == 0 {
		return 0, false
	}

	blockIndex := bits.TrailingZeros64(m.occupied)
	word := m.blocks[blockIndex]
	sub := bits.TrailingZeros64(word)

	word &^= 1 << sub
	m.blocks[blockIndex] = word
	m.setOccupied(uint(blockIndex), word != 0)

	return CubePosFromYZX(uint16(blockIndex)<<6 | uint16(sub)), true
}

// Combine ORs another cube mask into this one.
func (m *BitCube) Combine(other *BitCube) {
	for i := range m.blocks {
		m.blocks[i] |= other.blocks[i]
	}
	m.occupied |= other.occupied
}

// SetNeighbors sets all in-cube neighbors of a position.
func (m *BitCube) SetNeighbors(pos CubePos) {
	for _, d := range Dirs {
		if next, ok := pos.Offset(d); ok {
			m.SetTrue(next)
		}
	}
}

// MergeFace ORs a face layer into the boundary plane adjacent to direction d.
// A spill that left a neighbor through d enters this cube on the opposite face.
func (m *BitCube) MergeFace(d Dir, layer *BitLayer) {
	for zx := 0; zx < 256; zx++ {
		facePos := LayerPosFromZX(uint8(zx))
		if !layer.Get(facePos) {
			continue
		}

		m.SetTrue(cubeFacePos(d, facePos))
	}
}

// cubeFacePos converts a face layer position into the cube position on the
// entry face for spills travelling in direction d.
func cubeFacePos(d Dir, face LayerPos) CubePos {
	switch d {
	case Up:
		return CubePosFromLayer(0, face)
	case Down:
		return CubePosFromLayer(15, face)
	case PlusX:
		// Face layers on X faces are (z, y) swizzled.
		return NewCubePos(0, face.X(), face.Z())
	case MinusX:
		return NewCubePos(15, face.X(), face.Z())
	case PlusZ:
		// Face layers on Z faces are (y, x) swizzled.
		return NewCubePos(face.X(), face.Z(), 0)
	default:
		return NewCubePos(face.X(), face.Z(), 15)
	}
}

// SpillBitCube pairs a cube mask with six face layers capturing writes that
// crossed the cube boundary.
type SpillBitCube struct {
	Primary BitCube
	Spills  [6]BitLayer
}

// SetOffsetTrue sets the bit one step in direction d from pos, spilling onto
// the face layer when the step leaves the cube.
func (m *SpillBitCube) SetOffsetTrue(pos CubePos, d Dir) {
	if next, ok := pos.Offset(d); ok {
		m.Primary.SetTrue(next)
		return
	}

	m.Spills[d].SetTrue(pos.FaceLayer(d))
}

// Clear resets the mask and all face layers.
func (m *SpillBitCube) Clear() {
	m.Primary.Fill(false)
	for i := range m.Spills {
		m.Spills[i].Fill(false)
	}
}
