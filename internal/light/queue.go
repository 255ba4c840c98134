// Package light implements the sky- and block-light propagator: a per-chunk
// BFS over double-buffered bit masks, with spill faces carrying the frontier
// across chunk and sector boundaries and an odd/even sector phase scheme that
// keeps the parallel fixpoint safe.
package light

import "anvilgen/internal/voxel"

// CubeQueue is the double-buffered per-chunk BFS queue: positions pop off the
// front mask while new work lands on the back mask, and writes that cross the
// chunk boundary accumulate on the back's spill faces until collected.
type CubeQueue struct {
	front voxel.BitCube
	back  voxel.SpillBitCube
}

// NewCubeQueue returns an empty queue.
func NewCubeQueue() *CubeQueue {
	return &CubeQueue{}
}

// Clear empties both buffers and the spill faces.
func (q *CubeQueue) Clear() {
	q.front.Fill(false)
	q.back.Clear()
}

// ResetFromMask replaces the back buffer with a mask, clearing everything else.
func (q *CubeQueue) ResetFromMask(front *voxel.BitCube) {
	q.front.Fill(false)
	q.back.Clear()
	q.back.Primary.Combine(front)
}

// Flip swaps the buffers and reports whether there is anything to process.
func (q *CubeQueue) Flip() bool {
	q.front, q.back.Primary = q.back.Primary, q.front

	return !q.front.Empty()
}

// PopFirst dequeues the next position from the front buffer.
func (q *CubeQueue) PopFirst() (voxel.CubePos, bool) {
	return q.front.PopFirst()
}

// Enqueue adds one position to the back buffer.
func (q *CubeQueue) Enqueue(pos voxel.CubePos) {
	q.back.Primary.SetTrue(pos)
}

// EnqueueNeighbors adds all six neighbors, spilling across chunk faces.
func (q *CubeQueue) EnqueueNeighbors(pos voxel.CubePos) {
	for _, d := range voxel.Dirs {
		q.back.SetOffsetTrue(pos, d)
	}
}

// Mask exposes the back buffer for initial-source seeding.
func (q *CubeQueue) Mask() *voxel.SpillBitCube {
	return &q.back
}

// ResetSpills takes the accumulated spill faces, leaving them cleared.
func (q *CubeQueue) ResetSpills() [6]voxel.BitLayer {
	spills := q.back.Spills

	for i := range q.back.Spills {
		q.back.Spills[i].Fill(false)
	}

	return spills
}
