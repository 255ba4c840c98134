package gen

import "anvilgen/internal/rng"

// Distribution draws non-negative integers from an RNG. Every draw advances
// the stream, so the choice of distribution and its internal call order are
// part of the deterministic output.
type Distribution interface {
	Next(r *rng.Source) uint32
}

// Constant always returns Value without consuming the RNG.
type Constant struct {
	Value uint32
}

func (d Constant) Next(*rng.Source) uint32 {
	return d.Value
}

// Linear draws uniformly from [Min, Max].
type Linear struct {
	Min, Max uint32
}

func (d Linear) Next(r *rng.Source) uint32 {
	return d.Min + r.NextU32Bound(d.Max-d.Min+1)
}

// Packed2 nests two bounded draws, packing mass toward Min.
type Packed2 struct {
	Min uint32
	// LinearStart is the minimum bound passed to the second (linear) draw.
	LinearStart uint32
	Max         uint32
}

func (d Packed2) Next(r *rng.Source) uint32 {
	initial := r.NextU32Bound(d.Max - d.LinearStart + 2)

	return d.Min + r.NextU32Bound(initial+d.LinearStart-d.Min)
}

// Packed3 nests three bounded draws; the average lands near Max/8.
type Packed3 struct {
	Max uint32
}

func (d Packed3) Next(r *rng.Source) uint32 {
	result := r.NextU32Bound(d.Max + 1)
	result = r.NextU32Bound(result + 1)

	return r.NextU32Bound(result + 1)
}

// Centered draws Center - Radius + two uniform draws of [0, Radius).
type Centered struct {
	Center, Radius uint32
}

func (d Centered) Next(r *rng.Source) uint32 {
	return r.NextU32Bound(d.Radius) + r.NextU32Bound(d.Radius) + d.Center - d.Radius
}

// ChanceOrdering controls whether the payload draw happens when the chance
// check fails. The two orderings consume the RNG differently, which matters
// for everything sampled afterwards.
type ChanceOrdering uint8

const (
	AlwaysGeneratePayload ChanceOrdering = iota
	CheckChanceBeforePayload
)

// Chance gates a base distribution with probability 1/Chance. A Chance of 1
// or 0 never consumes the gating draw and always passes.
type Chance struct {
	Base     Distribution
	Chance   uint32
	Ordering ChanceOrdering
}

func (d Chance) Next(r *rng.Source) uint32 {
	switch d.Ordering {
	case AlwaysGeneratePayload:
		payload := d.Base.Next(r)

		if d.Chance <= 1 || r.NextU32Bound(d.Chance) == 0 {
			return payload
		}

		return 0
	default:
		if d.Chance <= 1 || r.NextU32Bound(d.Chance) == 0 {
			return d.Base.Next(r)
		}

		return 0
	}
}
