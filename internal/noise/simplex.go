package noise

import (
	"math"

	"anvilgen/internal/mcmath"
	"anvilgen/internal/rng"

	"github.com/go-gl/mathgl/mgl64"
)

// 12-entry gradient subset for the 2D simplex lattice.
var simplexGrad = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

func simplexDot(hash uint16, x, y float64) float64 {
	g := simplexGrad[hash%12]
	return g[0]*x + g[1]*y
}

const (
	sqrtThree = 1.7320508075688772935

	// Skew and unskew factors for the 2D simplex lattice.
	skewF2   = 0.5 * (sqrtThree - 1.0)
	unskewG2 = (3.0 - sqrtThree) / 6.0
)

// Simplex is a 2D Perlin-simplex noise layer.
type Simplex struct {
	p         *Permutations
	scale     mgl64.Vec2
	amplitude float64
}

// SimplexFromRNG builds a layer consuming the RNG for its permutations.
func SimplexFromRNG(r *rng.Source, scale mgl64.Vec2, amplitude float64) *Simplex {
	return &Simplex{p: NewPermutations(r), scale: scale, amplitude: amplitude}
}

// Sample evaluates the noise at a block-space point.
func (n *Simplex) Sample(point mgl64.Vec2) float64 {
	px := point[0]*n.scale[0] + n.p.offset[0]
	py := point[1]*n.scale[1] + n.p.offset[1]

	s := (px + py) * skewF2
	fx := mcmath.FloorClamped(px + s)
	fy := mcmath.FloorClamped(py + s)
	t := (fx + fy) * unskewG2

	x0 := px - (fx - t)
	y0 := py - (fy - t)

	var biasX, biasY uint16
	if x0 > y0 {
		biasX = 1
	} else {
		biasY = 1
	}

	x1 := x0 - float64(biasX) + unskewG2
	y1 := y0 - float64(biasY) + unskewG2
	x2 := x0 - 1.0 + unskewG2*2.0
	y2 := y0 - 1.0 + unskewG2*2.0

	xi := uint16(int32(fx) & 0xFF)
	yi := uint16(int32(fy) & 0xFF)

	t0 := math.Max(0.5-x0*x0-y0*y0, 0.0)
	n0 := t0 * t0 * t0 * t0 * simplexDot(n.p.hash(xi+n.p.hash(yi)), x0, y0)

	t1 := math.Max(0.5-x1*x1-y1*y1, 0.0)
	n1 := t1 * t1 * t1 * t1 * simplexDot(n.p.hash(xi+biasX+n.p.hash(yi+biasY)), x1, y1)

	t2 := math.Max(0.5-x2*x2-y2*y2, 0.0)
	n2 := t2 * t2 * t2 * t2 * simplexDot(n.p.hash(xi+1+n.p.hash(yi+1)), x2, y2)

	return (70.0 * n.amplitude) * (n0 + n1 + n2)
}
