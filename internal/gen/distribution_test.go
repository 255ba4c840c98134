package gen

import (
	"testing"

	"anvilgen/internal/rng"
)

func TestLinearBounds(t *testing.T) {
	r := rng.New(1)
	d := Linear{Min: 3, Max: 9}

	for i := 0; i < 1000; i++ {
		v := d.Next(r)
		if v < 3 || v > 9 {
			t.Fatalf("linear draw out of bounds: %d", v)
		}
	}
}

func TestPacked3PacksLow(t *testing.T) {
	r := rng.New(8399452073110208023)
	d := Packed3{Max: 39}

	var sum, zeros int
	for i := 0; i < 10000; i++ {
		v := d.Next(r)
		if v > 39 {
			t.Fatalf("packed3 draw out of bounds: %d", v)
		}
		sum += int(v)
		if v == 0 {
			zeros++
		}
	}

	// The triple nesting drives the average to about max/8.
	if avg := float64(sum) / 10000.0; avg > 6.0 {
		t.Errorf("packed3 average %v too high; mass should pack toward 0", avg)
	}
	if zeros < 1000 {
		t.Errorf("packed3 produced only %d zeros in 10000 draws", zeros)
	}
}

func TestCenteredRange(t *testing.T) {
	r := rng.New(7)
	d := Centered{Center: 16, Radius: 16}

	for i := 0; i < 1000; i++ {
		v := d.Next(r)
		if v > 46 {
			t.Fatalf("centered draw out of bounds: %d", v)
		}
	}
}

func TestChanceOrderingConsumesDifferently(t *testing.T) {
	// The two orderings must leave the RNG in different states when the
	// chance check fails, because AlwaysGeneratePayload still draws the payload.
	always := Chance{Base: Linear{Min: 0, Max: 9}, Chance: 1000000, Ordering: AlwaysGeneratePayload}
	checked := Chance{Base: Linear{Min: 0, Max: 9}, Chance: 1000000, Ordering: CheckChanceBeforePayload}

	r1 := rng.New(5)
	always.Next(r1)

	r2 := rng.New(5)
	checked.Next(r2)

	if r1.State() == r2.State() {
		t.Error("orderings consumed the RNG identically")
	}
}

func TestChanceOneNeverDrawsGate(t *testing.T) {
	d := Chance{Base: Constant{Value: 7}, Chance: 1, Ordering: CheckChanceBeforePayload}

	r := rng.New(3)
	before := r.State()

	if v := d.Next(r); v != 7 {
		t.Fatalf("chance 1 must always pass, got %d", v)
	}
	if r.State() != before {
		t.Error("chance 1 with a constant payload must not consume the RNG")
	}
}
