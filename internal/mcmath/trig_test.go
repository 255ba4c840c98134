package mcmath

import (
	"math"
	"testing"
)

func TestSinIndexSpecialCase(t *testing.T) {
	// Index 32768 (π) is the hardcoded near-zero constant.
	if got := sinIndex(32768); math.Float32bits(got) != 0x250D3132 {
		t.Errorf("sinIndex(32768) = %#x, want 0x250D3132", math.Float32bits(got))
	}
}

func TestSinIndexQuarterSymmetry(t *testing.T) {
	// sin(x) == sin(π - x) across the fold at π/2.
	for _, index := range []uint16{1, 100, 5000, 16000, 16383} {
		a := sinIndex(index)
		b := sinIndex(32768 - index)

		if math.Float32bits(a) != math.Float32bits(b) {
			t.Errorf("sinIndex(%d) = %v, sinIndex(%d) = %v; expected equal", index, a, 32768-index, b)
		}
	}
}

func TestSinIndexNegation(t *testing.T) {
	// sin(x + π) == -sin(x) via the sign bit.
	for _, index := range []uint16{1, 9000, 16383, 20000} {
		a := sinIndex(index)
		b := sinIndex(index + 32768)

		if math.Float32bits(a)^0x80000000 != math.Float32bits(b) {
			t.Errorf("sinIndex(%d) and sinIndex(%d) are not negations", index, index+32768)
		}
	}
}

func TestSinIndexHalfBoundary(t *testing.T) {
	// Index 16384 (π/2) reuses the value of 16383.
	if math.Float32bits(sinIndex(16384)) != math.Float32bits(sinIndex(16383)) {
		t.Error("sinIndex(16384) should reuse the table entry of 16383")
	}
}

func TestSinMatchesTable(t *testing.T) {
	// The quantized sine tracks math.Sin within the table's resolution.
	for _, f := range []float32{0, 0.5, 1.0, 1.5707964, 3.0, 4.5, 6.2} {
		got := float64(Sin(f))
		want := math.Sin(float64(f))

		if math.Abs(got-want) > 1e-3 {
			t.Errorf("Sin(%v) = %v, want about %v", f, got, want)
		}
	}
}

func TestCosIsShiftedSin(t *testing.T) {
	for _, f := range []float32{0, 1.0, 2.5, 4.0} {
		got := float64(Cos(f))
		want := math.Cos(float64(f))

		if math.Abs(got-want) > 1e-3 {
			t.Errorf("Cos(%v) = %v, want about %v", f, got, want)
		}
	}
}

func TestFloorClamped(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.9, 1.0},
		{-1.1, -2.0},
		{0.0, 0.0},
		{3e18, 2147483647.0},
		{-3e18, -2147483648.0},
	}

	for _, c := range cases {
		if got := FloorClamped(c.in); got != c.want {
			t.Errorf("FloorClamped(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLerpVariants(t *testing.T) {
	if got := Lerp(2, 6, 0.5); got != 4 {
		t.Errorf("Lerp midpoint = %v", got)
	}
	if got := LerpPrecise(2, 6, 1.0); got != 6 {
		t.Errorf("LerpPrecise endpoint = %v", got)
	}
	if got := LerpFraction(0, 10, 3, 5); got != 6 {
		t.Errorf("LerpFraction(0,10,3,5) = %v", got)
	}
}
