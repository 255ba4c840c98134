package light

import "anvilgen/internal/voxel"

// WorldQueue reconciles sector spills across the whole world. Sectors are
// partitioned by (x+z) parity: two sectors of the same parity never share a
// face, so all sectors drained in one phase can be lit in parallel without
// their writers ever locking a chunk a same-phase reader is using.
type WorldQueue struct {
	odd  map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube]
	even map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube]
	// phase is the parity drained last; Flip alternates when both sides have work.
	phase uint8
}

// NewWorldQueue returns an empty queue starting on the odd phase.
func NewWorldQueue() *WorldQueue {
	return &WorldQueue{
		odd:   make(map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube]),
		even:  make(map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube]),
		phase: 1,
	}
}

func sectorParity(pos voxel.GlobalSectorPos) uint8 {
	return uint8(pos.X+pos.Z) & 1
}

func (q *WorldQueue) sectorMasks(pos voxel.GlobalSectorPos) *voxel.Sector[voxel.BitCube] {
	side := q.even
	if sectorParity(pos) == 1 {
		side = q.odd
	}

	sector, ok := side[pos]
	if !ok {
		sector = voxel.NewSector[voxel.BitCube]()
		side[pos] = sector
	}

	return sector
}

// EnqueueSpills folds a sector's face spills into the adjacent sectors'
// queued chunk masks.
func (q *WorldQueue) EnqueueSpills(pos voxel.GlobalSectorPos, spills SectorSpills) {
	for _, d := range sectorFaceDirs {
		neighborPos, _ := pos.Offset(d)
		face := spills.Face(d)

		var neighbor *voxel.Sector[voxel.BitCube]

		for index, layer := range face {
			if layer == nil || layer.IsFilled(false) {
				continue
			}

			if neighbor == nil {
				neighbor = q.sectorMasks(neighborPos)
			}

			facePos := voxel.LayerPosFromZX(uint8(index))
			chunk := entryChunk(d, facePos)

			mask := neighbor.GetOrCreate(chunk, func() *voxel.BitCube { return &voxel.BitCube{} })
			mask.MergeFace(d, layer)
		}
	}
}

// entryChunk is the chunk position inside the neighboring sector that a
// spill travelling in direction d lands in.
func entryChunk(d voxel.Dir, face voxel.LayerPos) voxel.CubePos {
	switch d {
	case voxel.PlusX:
		return voxel.NewCubePos(0, face.X(), face.Z())
	case voxel.MinusX:
		return voxel.NewCubePos(15, face.X(), face.Z())
	case voxel.PlusZ:
		return voxel.NewCubePos(face.X(), face.Z(), 0)
	default:
		return voxel.NewCubePos(face.X(), face.Z(), 15)
	}
}

// Flip drains one phase: the non-empty side if only one has work, otherwise
// alternating. Nil once both sides are empty.
func (q *WorldQueue) Flip() map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube] {
	takeOdd := func() map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube] {
		q.phase = 1
		drained := q.odd
		q.odd = make(map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube])

		return drained
	}
	takeEven := func() map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube] {
		q.phase = 0
		drained := q.even
		q.even = make(map[voxel.GlobalSectorPos]*voxel.Sector[voxel.BitCube])

		return drained
	}

	switch {
	case len(q.even) == 0 && len(q.odd) == 0:
		q.phase = 1
		return nil
	case len(q.odd) == 0:
		return takeEven()
	case len(q.even) == 0:
		return takeOdd()
	case q.phase == 1:
		return takeEven()
	default:
		return takeOdd()
	}
}
