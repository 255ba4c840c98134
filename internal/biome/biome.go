// Package biome maps climate samples to surface descriptors through a
// segmented temperature × rainfall grid with a quantized lookup cache.
package biome

import "anvilgen/internal/block"

// Followup is one link of a surface chain below the fill layer, with an
// RNG-drawn thickness up to MaxDepth.
type Followup struct {
	Block    block.Block
	MaxDepth uint32
}

// Surface describes the strata the paint pass lays down for one biome.
type Surface struct {
	Top   block.Block
	Fill  block.Block
	Chain []Followup
}

// Biome is a named surface descriptor.
type Biome struct {
	Name    string
	Surface Surface
}

// Segmented is a piecewise-constant map over [0, 1]: boundaries at ascending
// positions, each segment carrying a value.
type Segmented[T any] struct {
	bounds []float64
	values []T
}

// NewSegmented starts with one segment covering the whole range.
func NewSegmented[T any](def T) *Segmented[T] {
	return &Segmented[T]{bounds: []float64{1.0}, values: []T{def}}
}

// Get returns the value whose segment contains x.
func (s *Segmented[T]) Get(x float64) T {
	for i, bound := range s.bounds {
		if x <= bound {
			return s.values[i]
		}
	}

	return s.values[len(s.values)-1]
}

// forRange applies mutate to every segment inside [lo, hi], splitting
// boundary segments as needed.
func (s *Segmented[T]) forRange(lo, hi float64, clone func(T) T, mutate func(*T)) {
	s.split(lo, clone)
	s.split(hi, clone)

	start := 0.0
	for i := range s.values {
		if start >= lo-1e-9 && s.bounds[i] <= hi+1e-9 {
			mutate(&s.values[i])
		}
		start = s.bounds[i]
	}
}

// split introduces a boundary at x if one is not already there.
func (s *Segmented[T]) split(x float64, clone func(T) T) {
	if x <= 0.0 || x >= 1.0 {
		return
	}

	start := 0.0
	for i, bound := range s.bounds {
		if x == bound {
			return
		}

		if x > start && x < bound {
			s.bounds = append(s.bounds, 0)
			s.values = append(s.values, s.values[len(s.values)-1])
			copy(s.bounds[i+1:], s.bounds[i:])
			copy(s.values[i+1:], s.values[i:])

			s.bounds[i] = x
			s.values[i+1] = clone(s.values[i+1])

			return
		}

		start = bound
	}
}

// Grid is a segmented 2D map over rainfall × temperature. Add replaces the
// biome over an axis-aligned rectangle; Lookup reads by climate, using the
// adjusted rainfall for the outer axis.
type Grid struct {
	outer *Segmented[*Segmented[*Biome]]
}

// NewGrid fills the whole square with the default biome.
func NewGrid(def *Biome) *Grid {
	return &Grid{outer: NewSegmented(NewSegmented(def))}
}

func cloneInner(inner *Segmented[*Biome]) *Segmented[*Biome] {
	out := &Segmented[*Biome]{
		bounds: append([]float64(nil), inner.bounds...),
		values: append([]*Biome(nil), inner.values...),
	}

	return out
}

// Add assigns b over temperature range t and rainfall range r.
func (g *Grid) Add(t, r [2]float64, b *Biome) {
	g.outer.forRange(r[0], r[1], cloneInner, func(inner **Segmented[*Biome]) {
		(*inner).forRange(t[0], t[1],
			func(existing *Biome) *Biome { return existing },
			func(cell **Biome) { *cell = b },
		)
	})
}

// LookupRaw reads by raw axis values.
func (g *Grid) LookupRaw(temperature, adjustedRainfall float64) *Biome {
	return g.outer.Get(adjustedRainfall).Get(temperature)
}
