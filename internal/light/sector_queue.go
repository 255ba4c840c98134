package light

import "anvilgen/internal/voxel"

// SectorSpills carries the frontier that escaped a sector through its four
// horizontal faces. Each face is indexed by the chunk's face-layer position;
// entries are nil until something spills there.
type SectorSpills struct {
	faces [4][256]*voxel.BitLayer
}

// Four horizontal faces, in the order they are stored.
var sectorFaceDirs = [4]voxel.Dir{voxel.MinusX, voxel.PlusX, voxel.MinusZ, voxel.PlusZ}

func sectorFaceIndex(d voxel.Dir) int {
	switch d {
	case voxel.MinusX:
		return 0
	case voxel.PlusX:
		return 1
	case voxel.MinusZ:
		return 2
	default:
		return 3
	}
}

// chunkFaceLayer maps a boundary chunk to its index on the sector face it
// spills through: X faces use (y, z), Z faces use (x, y).
func chunkFaceLayer(pos voxel.CubePos, d voxel.Dir) voxel.LayerPos {
	switch d {
	case voxel.PlusX, voxel.MinusX:
		return voxel.NewLayerPos(pos.Y(), pos.Z())
	default:
		return voxel.NewLayerPos(pos.X(), pos.Y())
	}
}

// Face returns the spill layers of one horizontal face.
func (s *SectorSpills) Face(d voxel.Dir) *[256]*voxel.BitLayer {
	return &s.faces[sectorFaceIndex(d)]
}

// SectorQueue schedules per-chunk BFS work within one sector, folding chunk
// spills into the neighboring chunk's back buffer and collecting spills that
// leave the sector for the world queue.
type SectorQueue struct {
	front  *voxel.Sector[voxel.BitCube]
	back   *voxel.Sector[voxel.BitCube]
	spills SectorSpills
}

// NewSectorQueue returns an empty queue.
func NewSectorQueue() *SectorQueue {
	return &SectorQueue{
		front: voxel.NewSector[voxel.BitCube](),
		back:  voxel.NewSector[voxel.BitCube](),
	}
}

// ResetFromMask replaces the back buffer with per-chunk masks.
func (q *SectorQueue) ResetFromMask(masks *voxel.Sector[voxel.BitCube]) {
	q.front = voxel.NewSector[voxel.BitCube]()
	q.back = masks
}

// Flip swaps the buffers; false when no chunk has queued work.
func (q *SectorQueue) Flip() bool {
	q.front, q.back = q.back, q.front

	return q.front.Len() > 0
}

// PopFirst takes the next queued chunk and its mask off the front buffer.
func (q *SectorQueue) PopFirst() (voxel.CubePos, *voxel.BitCube, bool) {
	var found voxel.CubePos
	var mask *voxel.BitCube

	q.front.Enumerate(func(pos voxel.CubePos, m *voxel.BitCube) {
		if mask == nil {
			found, mask = pos, m
		}
	})

	if mask == nil {
		return 0, nil, false
	}

	q.front.Remove(found)

	return found, mask, true
}

// EnqueueSpills delivers the six face spills of one chunk: in-sector
// neighbors get them merged into their back-buffer mask, spills across the
// sector's horizontal boundary accumulate for the world queue, and spills
// past the top or bottom of the world are dropped.
func (q *SectorQueue) EnqueueSpills(pos voxel.CubePos, spills [6]voxel.BitLayer) {
	for _, d := range voxel.Dirs {
		spill := &spills[d]
		if spill.IsFilled(false) {
			continue
		}

		if neighbor, ok := pos.Offset(d); ok {
			mask := q.back.GetOrCreate(neighbor, func() *voxel.BitCube { return &voxel.BitCube{} })
			mask.MergeFace(d, spill)
			continue
		}

		if d == voxel.Up || d == voxel.Down {
			continue
		}

		face := q.spills.Face(d)
		index := chunkFaceLayer(pos, d).ZX()

		if face[index] == nil {
			face[index] = &voxel.BitLayer{}
		}
		face[index].Combine(spill)
	}
}

// ResetSpills takes the accumulated sector-boundary spills.
func (q *SectorQueue) ResetSpills() SectorSpills {
	spills := q.spills
	q.spills = SectorSpills{}

	return spills
}
