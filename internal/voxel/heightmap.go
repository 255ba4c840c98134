package voxel

// CubeHeightMap records, per XZ of one cube, the Y+1 of the highest matching
// block (0 if none), with a companion mask marking columns already filled by a
// cube higher up.
type CubeHeightMap struct {
	heights  NibbleLayer
	isFilled BitLayer
}

// BuildCubeHeightMap scans a packed cube top-down. matches maps palette
// indices to the heightmap predicate (usually opacity); isFilled carries the
// state from the cube above.
func BuildCubeHeightMap(cube *PackedCube, matches []bool, isFilled BitLayer) CubeHeightMap {
	for zx := 0; zx < 256; zx++ {
		pos := LayerPosFromZX(uint8(zx))
		top := CubePosFromLayer(15, pos)

		isFilled.SetOr(pos, matches[cube.Get(top)])
	}

	if isFilled.IsFilled(true) {
		return CubeHeightMap{isFilled: isFilled}
	}

	m := CubeHeightMap{isFilled: isFilled}

	for zx := 0; zx < 256; zx++ {
		layer := LayerPosFromZX(uint8(zx))
		if isFilled.Get(layer) {
			continue
		}

		for y := 14; y >= 0; y-- {
			pos := CubePosFromLayer(uint8(y), layer)

			if matches[cube.Get(pos)] {
				m.heights.Set(layer, uint8(y+1))
				break
			}
		}
	}

	return m
}

// CubeHeightMapFilled is the heightmap of a fully transparent cube: no
// heights of its own, only the filled mask carried from above.
func CubeHeightMapFilled(isFilled BitLayer) CubeHeightMap {
	return CubeHeightMap{isFilled: isFilled}
}

// Heights exposes the per-column heights, 0..15.
func (m *CubeHeightMap) Heights() *NibbleLayer {
	return &m.heights
}

// IsFilled exposes the filled-from-above mask.
func (m *CubeHeightMap) IsFilled() *BitLayer {
	return &m.isFilled
}

// IntoMask folds the heights back into the filled mask, producing the carry
// for the cube below: any column with light blocked here is filled below.
func (m CubeHeightMap) IntoMask() BitLayer {
	for zx := 0; zx < 256; zx++ {
		pos := LayerPosFromZX(uint8(zx))
		m.isFilled.SetOr(pos, m.heights.Get(pos) != 0)
	}

	return m.isFilled
}

// ColumnHeightMap stores absolute per-XZ heights for a full 256-block column.
type ColumnHeightMap struct {
	heights [256]uint32
}

// Get returns the absolute height at a layer position.
func (m *ColumnHeightMap) Get(pos LayerPos) uint32 {
	return m.heights[pos.ZX()]
}

// Heights exposes the raw zx-ordered array for serialization.
func (m *ColumnHeightMap) Heights() []uint32 {
	return m.heights[:]
}

// Slice projects the column heightmap onto one 16-block cube:
// heights clamp to [0, 16], with 16 expressed as the filled bit.
func (m *ColumnHeightMap) Slice(chunkY uint8) CubeHeightMap {
	var sliced CubeHeightMap

	base := uint32(chunkY) * 16

	for zx := 0; zx < 256; zx++ {
		pos := LayerPosFromZX(uint8(zx))
		full := m.heights[zx]

		if full < base {
			continue
		}

		height := full - base
		if height > 16 {
			height = 16
		}

		sliced.heights.Set(pos, uint8(height&15))
		sliced.isFilled.Set(pos, height&16 == 16)
	}

	return sliced
}

// HeightMapBuilder assembles a ColumnHeightMap from cube slices added in
// descending chunk-Y order.
type HeightMapBuilder struct {
	heightmap ColumnHeightMap
	chunkY    int
}

// NewHeightMapBuilder starts a builder expecting the slice for chunk Y 15 first.
func NewHeightMapBuilder() *HeightMapBuilder {
	return &HeightMapBuilder{chunkY: 15}
}

// Add folds in the next slice and returns the filled mask to seed the scan of
// the cube below.
func (b *HeightMapBuilder) Add(slice CubeHeightMap) BitLayer {
	if b.chunkY < 0 {
		panic("voxel: too many slices added to HeightMapBuilder")
	}

	base := uint32(b.chunkY) * 16

	for zx := 0; zx < 256; zx++ {
		pos := LayerPosFromZX(uint8(zx))

		if b.heightmap.heights[zx] != 0 {
			continue
		}

		if slice.isFilled.Get(pos) {
			b.heightmap.heights[zx] = base + 16
		} else if h := slice.heights.Get(pos); h != 0 {
			b.heightmap.heights[zx] = base + uint32(h)
		}
	}

	b.chunkY--

	return slice.IntoMask()
}

// Build finalizes the heightmap. All 16 slices must have been added.
func (b *HeightMapBuilder) Build() *ColumnHeightMap {
	if b.chunkY != -1 {
		panic("voxel: HeightMapBuilder finished early")
	}

	return &b.heightmap
}
