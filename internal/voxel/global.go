package voxel

import "fmt"

// GlobalColumnPos identifies a 16x256x16 column in signed world chunk coordinates.
type GlobalColumnPos struct {
	X, Z int32
}

// NewGlobalColumnPos builds a global column position.
func NewGlobalColumnPos(x, z int32) GlobalColumnPos {
	return GlobalColumnPos{X: x, Z: z}
}

// CombineColumn rebuilds a column position from a sector and a layer index inside it.
func CombineColumn(sector GlobalSectorPos, layer LayerPos) GlobalColumnPos {
	return GlobalColumnPos{
		X: sector.X*16 + int32(layer.X()),
		Z: sector.Z*16 + int32(layer.Z()),
	}
}

// Sector returns the sector containing this column (floor division by 16).
func (p GlobalColumnPos) Sector() GlobalSectorPos {
	return GlobalSectorPos{X: p.X >> 4, Z: p.Z >> 4}
}

// LocalLayer returns this column's layer position within its sector.
func (p GlobalColumnPos) LocalLayer() LayerPos {
	return NewLayerPos(uint8(p.X&0xF), uint8(p.Z&0xF))
}

func (p GlobalColumnPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}

// GlobalChunkPos identifies a 16x16x16 cube in signed world chunk coordinates.
type GlobalChunkPos struct {
	X, Y, Z int32
}

// ChunkFromColumn selects the y-th cube of a column.
func ChunkFromColumn(column GlobalColumnPos, y int32) GlobalChunkPos {
	return GlobalChunkPos{X: column.X, Y: y, Z: column.Z}
}

// Column drops the Y component.
func (p GlobalChunkPos) Column() GlobalColumnPos {
	return GlobalColumnPos{X: p.X, Z: p.Z}
}

func (p GlobalChunkPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// GlobalSectorPos identifies a 16x16 chunk sector (one region file).
type GlobalSectorPos struct {
	X, Z int32
}

// NewGlobalSectorPos builds a global sector position.
func NewGlobalSectorPos(x, z int32) GlobalSectorPos {
	return GlobalSectorPos{X: x, Z: z}
}

// Offset returns the neighboring sector in a horizontal direction. Vertical
// directions have no sector neighbor and report false.
func (p GlobalSectorPos) Offset(d Dir) (GlobalSectorPos, bool) {
	switch d {
	case PlusX:
		return GlobalSectorPos{X: p.X + 1, Z: p.Z}, true
	case MinusX:
		return GlobalSectorPos{X: p.X - 1, Z: p.Z}, true
	case PlusZ:
		return GlobalSectorPos{X: p.X, Z: p.Z + 1}, true
	case MinusZ:
		return GlobalSectorPos{X: p.X, Z: p.Z - 1}, true
	default:
		return p, false
	}
}

func (p GlobalSectorPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Z)
}
