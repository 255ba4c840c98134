package decorator

import (
	"anvilgen/internal/block"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

// Lakes are always 16x8x16, so they can never escape the quad.

// LakeBlocks configures what a lake may replace and what it fills with.
type LakeBlocks struct {
	IsLiquid    block.Matcher
	IsSolid     block.Matcher
	Replaceable block.Matcher
	Liquid      block.Block
	Carve       block.Block
}

// LakeSettings sizes the ellipsoid union that forms the lake volume.
type LakeSettings struct {
	// Surface is the Y within the 8-block volume where the liquid ends and
	// the carved air space begins.
	Surface      uint8
	MinSpheroids uint32
	AddSpheroids uint32
}

// DefaultLakeSettings matches the reference: 4-7 spheroids, surface at 4.
func DefaultLakeSettings() LakeSettings {
	return LakeSettings{Surface: 4, MinSpheroids: 4, AddSpheroids: 3}
}

// LakeDecorator sinks a liquid lake into the terrain.
type LakeDecorator struct {
	Blocks   LakeBlocks
	Settings LakeSettings
}

// Generate implements Decorator.
func (d *LakeDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	lower, ok := pos.ToCentered()
	if !ok {
		return SpillError{Pos: pos}
	}

	// Sink through the carve block (air) until terrain is found.
	for lower.Y() > 0 {
		b, _ := quad.Get(voxel.QuadPosCentered(lower))
		if b != d.Blocks.Carve {
			break
		}

		lower = voxel.NewColumnPos(lower.X(), lower.Y()-1, lower.Z())
	}

	// Reads below Y=0 would return air and fail generation anyway.
	if lower.Y() < 4 {
		return nil
	}

	lower = voxel.NewColumnPos(lower.X(), lower.Y()-4, lower.Z())

	lake := newLake(d.Settings.Surface)
	lake.fill(r, d.Settings)
	lake.updateBorder()

	if !d.checkBorder(lake, quad, lower) {
		return nil
	}

	d.fillAndCarve(lake, quad, lower)

	return nil
}

func (d *LakeDecorator) checkBorder(l *lake, quad *voxel.Quad, lower voxel.ColumnPos) bool {
	for x := uint8(0); x < 16; x++ {
		for z := uint8(0); z < 16; z++ {
			for y := uint8(0); y < l.surface; y++ {
				at := voxel.NewQuadPos(lower.X()+x, lower.Y()+y, lower.Z()+z)
				b, _ := quad.Get(at)

				if l.get(lakeBorder(x, y, z)) && b != d.Blocks.Liquid && !d.Blocks.IsSolid.Matches(b) {
					return false
				}
			}

			for y := l.surface; y < 8; y++ {
				at := voxel.NewQuadPos(lower.X()+x, lower.Y()+y, lower.Z()+z)
				b, _ := quad.Get(at)

				if l.get(lakeBorder(x, y, z)) && d.Blocks.IsLiquid.Matches(b) {
					return false
				}
			}
		}
	}

	return true
}

func (d *LakeDecorator) fillAndCarve(l *lake, quad *voxel.Quad, lower voxel.ColumnPos) {
	quad.EnsureAvailable(d.Blocks.Liquid)
	quad.EnsureAvailable(d.Blocks.Carve)

	blocks, palette := quad.FreezePalettes()

	liquid, _ := palette.ReverseLookup(d.Blocks.Liquid)
	carve, _ := palette.ReverseLookup(d.Blocks.Carve)

	for zx := 0; zx < 256; zx++ {
		x := uint8(zx & 0xF)
		z := uint8(zx >> 4)

		for y := uint8(0); y < l.surface; y++ {
			if l.get(lakeVolume(x, y, z)) {
				blocks.Set(voxel.NewQuadPos(lower.X()+x, lower.Y()+y, lower.Z()+z), &liquid)
			}
		}

		for y := l.surface; y < 8; y++ {
			if l.get(lakeVolume(x, y, z)) {
				blocks.Set(voxel.NewQuadPos(lower.X()+x, lower.Y()+y, lower.Z()+z), &carve)
			}
		}
	}
}

// The 16x8x16 volume and its border mask stack into the lower and upper
// halves of a single BitCube.
func lakeVolume(x, y, z uint8) voxel.CubePos {
	return voxel.NewCubePos(x, y%8, z)
}

func lakeBorder(x, y, z uint8) voxel.CubePos {
	return voxel.NewCubePos(x, y%8+8, z)
}

type lake struct {
	shape   voxel.BitCube
	surface uint8
}

func newLake(surface uint8) *lake {
	return &lake{surface: surface}
}

func (l *lake) get(at voxel.CubePos) bool {
	return l.shape.Get(at)
}

func (l *lake) fill(r *rng.Source, settings LakeSettings) {
	count := settings.MinSpheroids + r.NextU32Bound(settings.AddSpheroids+1)

	for i := uint32(0); i < count; i++ {
		dx := r.NextF64()*6.0 + 3.0
		dy := r.NextF64()*4.0 + 2.0
		dz := r.NextF64()*6.0 + 3.0

		cx := r.NextF64()*(16.0-dx-2.0) + 1.0 + dx/2.0
		cy := r.NextF64()*(8.0-dy-4.0) + 2.0 + dy/2.0
		cz := r.NextF64()*(16.0-dz-2.0) + 1.0 + dz/2.0

		l.addSpheroid(cx, cy, cz, dx/2.0, dy/2.0, dz/2.0)
	}
}

func (l *lake) addSpheroid(cx, cy, cz, rx, ry, rz float64) {
	for x := uint8(1); x < 15; x++ {
		for y := uint8(1); y < 7; y++ {
			for z := uint8(1); z < 15; z++ {
				ax := (float64(x) - cx) / rx
				ay := (float64(y) - cy) / ry
				az := (float64(z) - cz) / rz

				l.shape.SetOr(lakeVolume(x, y, z), ax*ax+ay*ay+az*az < 1.0)
			}
		}
	}
}

// updateBorder marks every non-volume cell adjacent to the volume. Edge and
// corner cells of the box can never qualify and are skipped.
func (l *lake) updateBorder() {
	for x := uint8(1); x < 15; x++ {
		for y := uint8(1); y < 7; y++ {
			for z := uint8(1); z < 15; z++ {
				isBorder := !l.get(lakeVolume(x, y, z)) &&
					(l.get(lakeVolume(x+1, y, z)) || l.get(lakeVolume(x-1, y, z)) ||
						l.get(lakeVolume(x, y+1, z)) || l.get(lakeVolume(x, y-1, z)) ||
						l.get(lakeVolume(x, y, z+1)) || l.get(lakeVolume(x, y, z-1)))

				l.shape.Set(lakeBorder(x, y, z), isBorder)
			}
		}
	}

	for x := uint8(1); x < 15; x++ {
		for z := uint8(1); z < 15; z++ {
			l.shape.Set(lakeBorder(x, 0, z), l.get(lakeVolume(x, 1, z)))
			l.shape.Set(lakeBorder(x, 7, z), l.get(lakeVolume(x, 6, z)))
		}
	}

	for x := uint8(1); x < 15; x++ {
		for y := uint8(1); y < 7; y++ {
			l.shape.Set(lakeBorder(x, y, 0), l.get(lakeVolume(x, y, 1)))
			l.shape.Set(lakeBorder(x, y, 15), l.get(lakeVolume(x, y, 14)))
		}
	}

	for z := uint8(1); z < 15; z++ {
		for y := uint8(1); y < 7; y++ {
			l.shape.Set(lakeBorder(0, y, z), l.get(lakeVolume(1, y, z)))
			l.shape.Set(lakeBorder(15, y, z), l.get(lakeVolume(14, y, z)))
		}
	}
}
