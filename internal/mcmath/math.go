// Package mcmath collects the small numeric helpers the generation pipeline
// leans on: the imprecise lerp family and the Java-style floor/clamp, plus the
// fixed-point sine emulation in trig.go.
package mcmath

import "math"

// Lerp interpolates between a and b. t may be outside [0, 1], in which case the
// line is continued. This is the single-FMA form, not the numerically "precise" one.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpPrecise is the two-product form of Lerp. The two are not interchangeable
// when reproducing reference output; the shape taper uses this one.
func LerpPrecise(a, b, t float64) float64 {
	return (1.0-t)*a + t*b
}

// LerpFraction is algebraically lerp(a, b, tn/td) with the reference's operation order.
func LerpFraction(a, b, tn, td float64) float64 {
	return a + (b-a)*tn/td
}

// Clamp bounds x into [min, max].
func Clamp(x, min, max float64) float64 {
	return math.Min(math.Max(x, min), max)
}

// FloorClamped floors x and clamps the result into int32 range, matching the
// Java idiom `(double)((int)Math.floor(x))` that the noise cell selection uses.
func FloorClamped(x float64) float64 {
	const (
		maxI32 = 2147483647.0
		minI32 = -2147483648.0
	)

	return Clamp(math.Floor(x), minI32, maxI32)
}
