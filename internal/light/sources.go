package light

import "anvilgen/internal/voxel"

// SkyLightSources derives the initial sky light of one chunk from its slice
// of the column heightmap: everything above the heightmap is level 15.
type SkyLightSources struct {
	heightmap voxel.CubeHeightMap
}

// NewSkyLightSources wraps a heightmap slice.
func NewSkyLightSources(heightmap voxel.CubeHeightMap) *SkyLightSources {
	return &SkyLightSources{heightmap: heightmap}
}

// Emission implements Sources: 15 at and above the local heightmap, 0 below.
func (s *SkyLightSources) Emission(_ *voxel.PackedCube, pos voxel.CubePos) uint8 {
	layer := pos.Layer()

	if s.heightmap.IsFilled().Get(layer) {
		// Height of 16 or more; nothing in this chunk is lit from above.
		return 0
	}

	if pos.Y() >= s.heightmap.Heights().Get(layer) {
		return 15
	}

	return 0
}

// Initial implements Sources. Two fast paths apply when every column has a
// sky source: a fully-lit chunk fills in bulk and only queues its faces, and
// a partially-lit chunk bulk-fills the volume above the heightmap maximum.
func (s *SkyLightSources) Initial(_ *voxel.PackedCube, data *voxel.NibbleCube, mask *voxel.SpillBitCube) {
	noLight := s.heightmap.IsFilled()
	heights := s.heightmap.Heights()

	if noLight.IsFilled(true) {
		// No sky light reaches this chunk at all; leave it dark.
		return
	}

	maxHeightmap := uint8(16)

	if noLight.IsFilled(false) {
		if heights.IsFilled(0) {
			// Entirely lit: no in-chunk queueing needed, but every side
			// except Up must be checked by the neighbors.
			data.Fill(15)

			mask.Spills[voxel.Down].Fill(true)
			mask.Spills[voxel.PlusX].Fill(true)
			mask.Spills[voxel.MinusX].Fill(true)
			mask.Spills[voxel.PlusZ].Fill(true)
			mask.Spills[voxel.MinusZ].Fill(true)

			return
		}

		// Partially lit everywhere: the volume above the heightmap maximum is
		// uniformly 15, so only its boundary faces need queueing.
		maxHeightmap = 0
		for zx := 0; zx < 256; zx++ {
			if h := heights.Get(voxel.LayerPosFromZX(uint8(zx))); h > maxHeightmap {
				maxHeightmap = h
			}
		}

		for y := maxHeightmap; y < 16; y++ {
			for zx := 0; zx < 256; zx++ {
				data.Set(voxel.CubePosFromLayer(y, voxel.LayerPosFromZX(uint8(zx))), 15)
			}
		}

		// X faces use ZY layer coordinates, Z faces use YX.
		for z := uint8(0); z < 16; z++ {
			for y := maxHeightmap; y < 16; y++ {
				layer := voxel.NewLayerPos(y, z)

				mask.Spills[voxel.PlusX].SetTrue(layer)
				mask.Spills[voxel.MinusX].SetTrue(layer)
			}
		}

		for y := maxHeightmap; y < 16; y++ {
			for x := uint8(0); x < 16; x++ {
				layer := voxel.NewLayerPos(x, y)

				mask.Spills[voxel.PlusZ].SetTrue(layer)
				mask.Spills[voxel.MinusZ].SetTrue(layer)
			}
		}

		// The Down face is queued by the column loop below; the Up face needs
		// nothing because the block above must already pass sky light.
	}

	// Fill the irregular terrain-following part column by column. This is
	// where most of the queueing comes from.
	for zx := 0; zx < 256; zx++ {
		layer := voxel.LayerPosFromZX(uint8(zx))

		if noLight.Get(layer) {
			continue
		}

		lowest := heights.Get(layer)

		// The cell above is already at full light; the cell below the
		// heightmap needs a visit.
		mask.SetOffsetTrue(voxel.CubePosFromLayer(lowest, layer), voxel.Down)

		for y := lowest; y < maxHeightmap; y++ {
			pos := voxel.CubePosFromLayer(y, layer)

			data.Set(pos, 15)

			mask.SetOffsetTrue(pos, voxel.MinusX)
			mask.SetOffsetTrue(pos, voxel.MinusZ)
			mask.SetOffsetTrue(pos, voxel.PlusX)
			mask.SetOffsetTrue(pos, voxel.PlusZ)
		}
	}
}

// BlockLightSources reads per-palette-entry emission levels.
type BlockLightSources struct {
	emission *voxel.NibbleArray
}

// NewBlockLightSources builds sources over a palette-indexed emission table.
func NewBlockLightSources(emission *voxel.NibbleArray) *BlockLightSources {
	return &BlockLightSources{emission: emission}
}

// Emission implements Sources.
func (s *BlockLightSources) Emission(blocks *voxel.PackedCube, pos voxel.CubePos) uint8 {
	return s.emission.Get(int(blocks.Get(pos)))
}

// Initial implements Sources: each emitting cell is set to its emission and
// all six neighbors are queued.
func (s *BlockLightSources) Initial(blocks *voxel.PackedCube, data *voxel.NibbleCube, mask *voxel.SpillBitCube) {
	for i := 0; i < 4096; i++ {
		pos := voxel.CubePosFromYZX(uint16(i))

		emission := s.emission.Get(int(blocks.Get(pos)))
		if emission == 0 {
			continue
		}

		data.Set(pos, emission)

		for _, d := range voxel.Dirs {
			mask.SetOffsetTrue(pos, d)
		}
	}
}
