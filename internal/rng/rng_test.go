package rng

import "testing"

func TestSeedScramble(t *testing.T) {
	// Seed 0 must scramble to the multiplier itself.
	s := New(0)
	if s.State() != 0x5DEECE66D {
		t.Errorf("expected scrambled state 0x5DEECE66D, got %#x", s.State())
	}
}

func TestDeterminism(t *testing.T) {
	a := New(8399452073110208023)
	b := New(8399452073110208023)

	for i := 0; i < 10000; i++ {
		x, y := a.NextI32Bound(100), b.NextI32Bound(100)
		if x != y {
			t.Fatalf("sequence diverged at draw %d: %d != %d", i, x, y)
		}
		if x < 0 || x >= 100 {
			t.Fatalf("draw %d out of range: %d", i, x)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(42)
	a.Next(32)

	b := a.Clone()
	if a.NextU64() != b.NextU64() {
		t.Error("clone did not reproduce the source sequence")
	}

	a.Next(32)
	if a.State() == b.State() {
		t.Error("advancing the original should not advance the clone")
	}
}

func TestPowerOfTwoBound(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		if v := s.NextU32Bound(16); v >= 16 {
			t.Fatalf("bound 16 produced %d", v)
		}
	}
}

func TestNextF64Range(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.NextF64()
		if v < 0 || v >= 1 {
			t.Fatalf("NextF64 out of [0,1): %v", v)
		}
	}
}

func TestNextBoolConsumesOneDraw(t *testing.T) {
	a := New(99)
	b := New(99)

	a.NextBool()
	b.Next(1)

	if a.State() != b.State() {
		t.Error("NextBool must advance the state exactly once")
	}
}
