// Package noise implements the permutation-table gradient noise cascade the
// terrain passes sample: classic Perlin in 2D/3D with the vertical-column
// specialization, Perlin-simplex in 2D, and the octave stacks over both.
//
// Construction order is load-bearing everywhere in this package: each
// generator consumes the shared RNG stream, so creating them out of order
// shifts every subsequent noise value.
package noise

import (
	"anvilgen/internal/mcmath"
	"anvilgen/internal/rng"

	"github.com/go-gl/mathgl/mgl64"
)

// gradTable is the classic 16-entry gradient table. The last four entries
// duplicate earlier ones, faithfully to the reference.
var gradTable = [16]mgl64.Vec3{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

// grad returns the dot product of vec with the gradient selected by the hash.
func grad(t uint16, vec mgl64.Vec3) float64 {
	g := gradTable[t&0xF]
	return g[0]*vec[0] + g[1]*vec[1] + g[2]*vec[2]
}

func grad2(t uint16, x, z float64) float64 {
	g := gradTable[t&0xF]
	return g[0]*x + g[2]*z
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

// Permutations is a 256-byte permutation built by Fisher-Yates over the RNG,
// plus the three coordinate offsets drawn immediately after the seed.
type Permutations struct {
	offset mgl64.Vec3
	table  [256]uint8
}

// NewPermutations consumes the RNG in the reference order: three offset
// doubles, then the 256 shuffle draws.
func NewPermutations(r *rng.Source) *Permutations {
	p := &Permutations{
		offset: mgl64.Vec3{
			r.NextF64() * 256.0,
			r.NextF64() * 256.0,
			r.NextF64() * 256.0,
		},
	}

	for i := range p.table {
		p.table[i] = uint8(i)
	}

	for i := uint32(0); i < 256; i++ {
		j := r.NextU32Bound(256-i) + i
		p.table[i], p.table[j] = p.table[j], p.table[i]
	}

	return p
}

func (p *Permutations) hash(i uint16) uint16 {
	return uint16(p.table[i&0xFF])
}

// Perlin is a single gradient-noise layer with a fixed coordinate scale and
// output amplitude.
type Perlin struct {
	p         *Permutations
	scale     mgl64.Vec3
	amplitude float64
}

// NewPerlin builds a layer from an existing permutation table.
func NewPerlin(p *Permutations, scale mgl64.Vec3, amplitude float64) *Perlin {
	return &Perlin{p: p, scale: scale, amplitude: amplitude}
}

// PerlinFromRNG builds a layer consuming the RNG for its permutations.
func PerlinFromRNG(r *rng.Source, scale mgl64.Vec3, amplitude float64) *Perlin {
	return &Perlin{p: NewPermutations(r), scale: scale, amplitude: amplitude}
}

// Generate samples 3D noise at loc (block space).
func (n *Perlin) Generate(loc mgl64.Vec3) float64 {
	scaled := mgl64.Vec3{
		loc[0]*n.scale[0] + n.p.offset[0],
		loc[1]*n.scale[1] + n.p.offset[1],
		loc[2]*n.scale[2] + n.p.offset[2],
	}

	floored := mgl64.Vec3{
		mcmath.FloorClamped(scaled[0]),
		mcmath.FloorClamped(scaled[1]),
		mcmath.FloorClamped(scaled[2]),
	}

	cell := [3]uint16{
		uint16(int32(floored[0]) & 0xFF),
		uint16(int32(floored[1]) & 0xFF),
		uint16(int32(floored[2]) & 0xFF),
	}

	frac := scaled.Sub(floored)

	return n.core(cell, frac, frac[1]) * n.amplitude
}

// GenerateOverride samples 3D noise with the fractional Y replaced by a cached
// value from a column table. The fade is still computed from the true
// fractional Y; only the gradient inputs see the override. This asymmetry is
// what produces the characteristic sharp walls in vertical surface noise.
func (n *Perlin) GenerateOverride(loc mgl64.Vec3, actualY float64) float64 {
	scaled := mgl64.Vec3{
		loc[0]*n.scale[0] + n.p.offset[0],
		loc[1]*n.scale[1] + n.p.offset[1],
		loc[2]*n.scale[2] + n.p.offset[2],
	}

	floored := mgl64.Vec3{
		mcmath.FloorClamped(scaled[0]),
		mcmath.FloorClamped(scaled[1]),
		mcmath.FloorClamped(scaled[2]),
	}

	cell := [3]uint16{
		uint16(int32(floored[0]) & 0xFF),
		uint16(int32(floored[1]) & 0xFF),
		uint16(int32(floored[2]) & 0xFF),
	}

	frac := scaled.Sub(floored)

	return n.core(cell, frac, actualY) * n.amplitude
}

// core evaluates the trilinear gradient blend. fadeFrac supplies the fade
// inputs; gradY replaces the Y used in the gradient dot products.
func (n *Perlin) core(cell [3]uint16, fadeFrac mgl64.Vec3, gradY float64) float64 {
	faded := mgl64.Vec3{fade(fadeFrac[0]), fade(fadeFrac[1]), fade(fadeFrac[2])}
	loc := mgl64.Vec3{fadeFrac[0], gradY, fadeFrac[2]}

	a := n.p.hash(cell[0]) + cell[1]
	aa := n.p.hash(a) + cell[2]
	ab := n.p.hash(a+1) + cell[2]

	b := n.p.hash(cell[0]+1) + cell[1]
	ba := n.p.hash(b) + cell[2]
	bb := n.p.hash(b+1) + cell[2]

	return mcmath.Lerp(
		mcmath.Lerp(
			mcmath.Lerp(
				grad(n.p.hash(aa), loc),
				grad(n.p.hash(ba), loc.Sub(mgl64.Vec3{1, 0, 0})),
				faded[0],
			),
			mcmath.Lerp(
				grad(n.p.hash(ab), loc.Sub(mgl64.Vec3{0, 1, 0})),
				grad(n.p.hash(bb), loc.Sub(mgl64.Vec3{1, 1, 0})),
				faded[0],
			),
			faded[1],
		),
		mcmath.Lerp(
			mcmath.Lerp(
				grad(n.p.hash(aa+1), loc.Sub(mgl64.Vec3{0, 0, 1})),
				grad(n.p.hash(ba+1), loc.Sub(mgl64.Vec3{1, 0, 1})),
				faded[0],
			),
			mcmath.Lerp(
				grad(n.p.hash(ab+1), loc.Sub(mgl64.Vec3{0, 1, 1})),
				grad(n.p.hash(bb+1), loc.Sub(mgl64.Vec3{1, 1, 1})),
				faded[0],
			),
			faded[1],
		),
		faded[2],
	)
}

// GenerateYTable fills table with the sticky fractional-Y values for a column
// starting at start. The fractional part only refreshes when the hashed cell
// index changes, reproducing the reference's per-cell Y caching.
func (n *Perlin) GenerateYTable(start float64, table []float64) {
	actualY := 0.0
	lastCell := uint16(65535)

	for offset := range table {
		y := (start+float64(offset))*n.scale[1] + n.p.offset[1]
		floored := mcmath.FloorClamped(y)
		cell := uint16(int64(floored) % 256)
		y -= floored

		if cell != lastCell {
			actualY = y
		}

		lastCell = cell
		table[offset] = actualY
	}
}

// Sample evaluates the 2D specialization at a block-space point.
func (n *Perlin) Sample(point mgl64.Vec2) float64 {
	scaled := mgl64.Vec2{
		point[0]*n.scale[0] + n.p.offset[0],
		point[1]*n.scale[2] + n.p.offset[2],
	}

	floored := mgl64.Vec2{
		mcmath.FloorClamped(scaled[0]),
		mcmath.FloorClamped(scaled[1]),
	}

	cell := [2]uint16{
		uint16(int32(floored[0]) & 0xFF),
		uint16(int32(floored[1]) & 0xFF),
	}

	frac := scaled.Sub(floored)
	faded := mgl64.Vec2{fade(frac[0]), fade(frac[1])}

	aa := n.p.hash(n.p.hash(cell[0])) + cell[1]
	ba := n.p.hash(n.p.hash(cell[0]+1)) + cell[1]

	return mcmath.Lerp(
		mcmath.Lerp(
			grad2(n.p.hash(aa), frac[0], frac[1]),
			grad2(n.p.hash(ba), frac[0]-1.0, frac[1]),
			faded[0],
		),
		mcmath.Lerp(
			grad2(n.p.hash(aa+1), frac[0], frac[1]-1.0),
			grad2(n.p.hash(ba+1), frac[0]-1.0, frac[1]-1.0),
			faded[0],
		),
		faded[1],
	) * n.amplitude
}
