package decorator

import (
	"math"

	"anvilgen/internal/voxel"
)

// traceLine visits the blocks along the segment from → to by stepping the
// dominant axis once per block and rounding, calling visit at each step.
func traceLine(from, to voxel.QuadPos, visit func(voxel.QuadPos)) {
	dx := int32(to.X()) - int32(from.X())
	dy := int32(to.Y()) - int32(from.Y())
	dz := int32(to.Z()) - int32(from.Z())

	steps := maxI32(absI32(dx), maxI32(absI32(dy), absI32(dz)))
	if steps == 0 {
		return
	}

	vx := float64(dx) / float64(steps)
	vy := float64(dy) / float64(steps)
	vz := float64(dz) / float64(steps)

	px := float64(from.X())
	py := float64(from.Y())
	pz := float64(from.Z())

	for i := int32(0); i < steps; i++ {
		px += vx
		py += vy
		pz += vz

		visit(voxel.NewQuadPos(
			uint8(math.Floor(px+0.5)),
			uint8(math.Floor(py+0.5)),
			uint8(math.Floor(pz+0.5)),
		))
	}
}

func absI32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
