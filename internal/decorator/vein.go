package decorator

import (
	"math"

	"anvilgen/internal/block"
	"anvilgen/internal/mcmath"
	"anvilgen/internal/rng"
	"anvilgen/internal/voxel"
)

const (
	// The reference's float π used by the vein angle draw.
	notchianPi = float32(3.1415927)

	// The spheroid radius varies in [0.5, 0.5 + size/radiusDivisor].
	radiusDivisor = 16.0
	// The line extends size/lengthDivisor to either side of the base position.
	lengthDivisor = 8.0
)

// VeinBlocks selects what a vein replaces and with what.
type VeinBlocks struct {
	Replace block.Matcher
	Block   block.Block
}

// VeinDecorator lays index-parameterized spheroids along a random line.
type VeinDecorator struct {
	Blocks VeinBlocks
	Size   uint32
}

// Generate implements Decorator.
func (d *VeinDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	v := createVein(d.Size, int32(pos.X()), int32(pos.Y()), int32(pos.Z()), r)

	return d.Blocks.generate(v, quad, r)
}

// SeasideVeinDecorator gates a vein on ocean presence 8 blocks toward the
// quad origin, the reference's clay-patch condition.
type SeasideVeinDecorator struct {
	Vein  VeinDecorator
	Ocean block.Matcher
}

// Generate implements Decorator.
func (d *SeasideVeinDecorator) Generate(quad *voxel.Quad, r *rng.Source, pos voxel.QuadPos) error {
	check, ok := pos.OffsetXYZ(-8, 0, -8)
	if !ok {
		return SpillError{Pos: pos}
	}

	b, _ := quad.Get(check)
	if !d.Ocean.Matches(b) {
		return nil
	}

	return d.Vein.Generate(quad, r, pos)
}

func (b *VeinBlocks) generate(v *vein, quad *voxel.Quad, r *rng.Source) error {
	quad.EnsureAvailable(b.Block)

	blocks, palette := quad.FreezePalettes()
	assoc, _ := palette.ReverseLookup(b.Block)

	for index := uint32(0); index <= v.size; index++ {
		s := v.spheroid(index, r)

		for y := s.lower[1]; y <= s.upper[1]; y++ {
			for z := s.lower[2]; z <= s.upper[2]; z++ {
				// The reference iterates the Z bounds for the X axis as well,
				// an apparent copy-paste slip that shapes every vein in
				// shipped worlds. Reproduced for compatibility.
				for x := s.lower[2]; x <= s.upper[2]; x++ {
					at := voxel.NewQuadPos(uint8(x), uint8(y), uint8(z))

					if s.distanceSquared(x, y, z) < 1.0 && b.Replace.Matches(blocks.Get(at, palette)) {
						blocks.Set(at, &assoc)
					}
				}
			}
		}
	}

	return nil
}

// vein is the line segment the spheroids are strung along.
type vein struct {
	size    uint32
	sizeF64 float64
	sizeF32 float32
	from    [3]float64
	to      [3]float64
}

func createVein(size uint32, baseX, baseY, baseZ int32, r *rng.Source) *vein {
	sizeF32 := float32(size)

	angle := r.NextF32() * notchianPi
	xSize := mcmath.Sin(angle) * sizeF32 / lengthDivisor
	zSize := mcmath.Cos(angle) * sizeF32 / lengthDivisor

	from := [3]float64{
		float64(float32(baseX) + xSize),
		float64(baseY + 2 + r.NextI32Bound(3)),
		float64(float32(baseZ) + zSize),
	}

	to := [3]float64{
		float64(float32(baseX) - xSize),
		float64(baseY + 2 + r.NextI32Bound(3)),
		float64(float32(baseZ) - zSize),
	}

	return &vein{size: size, sizeF64: float64(size), sizeF32: sizeF32, from: from, to: to}
}

func (v *vein) spheroid(index uint32, r *rng.Source) veinSpheroid {
	indexF64 := float64(index)

	center := [3]float64{
		mcmath.LerpFraction(v.from[0], v.to[0], indexF64, v.sizeF64),
		mcmath.LerpFraction(v.from[1], v.to[1], indexF64, v.sizeF64),
		mcmath.LerpFraction(v.from[2], v.to[2], indexF64, v.sizeF64),
	}

	radiusMultiplier := r.NextF64() * v.sizeF64 / radiusDivisor

	// The sin factor packs larger diameters toward the line's center.
	diameter := float64(mcmath.Sin(float32(index)*notchianPi/v.sizeF32)+1.0)*radiusMultiplier + 1.0
	radius := diameter / 2.0

	return veinSpheroid{
		center: center,
		radius: radius,
		lower: [3]int32{
			int32(math.Floor(center[0] - radius)),
			int32(math.Floor(center[1] - radius)),
			int32(math.Floor(center[2] - radius)),
		},
		upper: [3]int32{
			int32(math.Floor(center[0] + radius)),
			int32(math.Floor(center[1] + radius)),
			int32(math.Floor(center[2] + radius)),
		},
	}
}

type veinSpheroid struct {
	center [3]float64
	radius float64
	lower  [3]int32
	upper  [3]int32
}

func (s *veinSpheroid) distanceSquared(x, y, z int32) float64 {
	dx := (float64(x) + 0.5 - s.center[0]) / s.radius
	dy := (float64(y) + 0.5 - s.center[1]) / s.radius
	dz := (float64(z) + 0.5 - s.center[2]) / s.radius

	return dx*dx + dy*dy + dz*dz
}
