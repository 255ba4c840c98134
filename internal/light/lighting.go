package light

import (
	"anvilgen/internal/block"
	"anvilgen/internal/voxel"
)

// Sources provides the initial light distribution and per-cell emission of a
// lighting kind (sky or block).
type Sources interface {
	// Emission returns the intrinsic light level of a cell.
	Emission(blocks *voxel.PackedCube, pos voxel.CubePos) uint8
	// Initial writes the pre-propagation light field into data and seeds the
	// queue mask with the cells whose neighbors must be examined.
	Initial(blocks *voxel.PackedCube, data *voxel.NibbleCube, mask *voxel.SpillBitCube)
}

// Lighting runs the propagation rule over one chunk:
// light[p] = max(emission[p], max_neighbor - 1) - opacity[p], saturating at 0.
// Neighbor chunks are read-only; all writes stay inside data.
type Lighting struct {
	data      *voxel.NibbleCube
	neighbors [6]*voxel.NibbleCube
	sources   Sources
	opacity   *voxel.NibbleArray
}

var emptyNibbleCube voxel.NibbleCube

// NewLighting builds a kernel. Nil neighbor entries read as all-dark.
func NewLighting(data *voxel.NibbleCube, neighbors [6]*voxel.NibbleCube, sources Sources, opacity *voxel.NibbleArray) *Lighting {
	for i, n := range neighbors {
		if n == nil {
			neighbors[i] = &emptyNibbleCube
		}
	}

	return &Lighting{data: data, neighbors: neighbors, sources: sources, opacity: opacity}
}

// Get reads the current light level of a cell.
func (l *Lighting) Get(at voxel.CubePos) uint8 {
	return l.data.Get(at)
}

func (l *Lighting) set(queue *CubeQueue, at voxel.CubePos, value uint8) {
	if value != l.data.Get(at) {
		l.data.Set(at, value)
		queue.EnqueueNeighbors(at)
	}
}

func (l *Lighting) neighbor(at voxel.CubePos, d voxel.Dir) uint8 {
	if next, ok := at.Offset(d); ok {
		return l.data.Get(next)
	}

	return l.neighbors[d].Get(at.OffsetWrapping(d))
}

// Initial seeds the light data and queue from the sources.
func (l *Lighting) Initial(blocks *voxel.PackedCube, queue *CubeQueue) {
	l.sources.Initial(blocks, l.data, queue.Mask())
}

// Step processes one queue generation; false once the queue drains.
func (l *Lighting) Step(blocks *voxel.PackedCube, queue *CubeQueue) bool {
	if !queue.Flip() {
		return false
	}

	for {
		at, ok := queue.PopFirst()
		if !ok {
			break
		}

		maxNeighbor := uint8(0)
		for _, d := range voxel.Dirs {
			if v := l.neighbor(at, d); v > maxNeighbor {
				maxNeighbor = v
			}
		}

		spread := maxNeighbor
		if spread > 0 {
			spread--
		}

		if emission := l.sources.Emission(blocks, at); emission > spread {
			spread = emission
		}

		opacity := l.opacity.Get(int(blocks.Get(at)))
		if opacity > spread {
			spread = 0
		} else {
			spread -= opacity
		}

		l.set(queue, at, spread)
	}

	return true
}

// Finish steps until the queue is empty.
func (l *Lighting) Finish(blocks *voxel.PackedCube, queue *CubeQueue) {
	for l.Step(blocks, queue) {
	}
}

// OpacityTable maps a chunk palette through the opacity function, with vacant
// palette slots opaque.
func OpacityTable(palette *voxel.Palette, opacity func(b block.Block) uint8) *voxel.NibbleArray {
	table := voxel.NewNibbleArray(palette.Len())

	for i := 0; i < palette.Len(); i++ {
		entry, ok := palette.Entry(uint32(i))
		if !ok {
			table.Set(i, 15)
			continue
		}

		table.Set(i, opacity(entry))
	}

	return table
}
