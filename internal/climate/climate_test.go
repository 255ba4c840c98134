package climate

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestClimateRanges(t *testing.T) {
	s := NewSource(8399452073110208023, DefaultSettings())

	for i := 0; i < 500; i++ {
		c := s.Sample(mgl64.Vec2{float64(i) * 13.7, float64(i) * -7.3})

		if c.Temperature < 0 || c.Temperature > 1 {
			t.Fatalf("temperature out of range: %v", c.Temperature)
		}
		if c.Rainfall < 0 || c.Rainfall > 1 {
			t.Fatalf("rainfall out of range: %v", c.Rainfall)
		}
		if ar := c.AdjustedRainfall(); ar < 0 || ar > 1 {
			t.Fatalf("adjusted rainfall out of range: %v", ar)
		}
		if f := c.InfluenceFactor(); f < 0 || f > 1 {
			t.Fatalf("influence factor out of range: %v", f)
		}
	}
}

func TestClimateDeterminism(t *testing.T) {
	a := NewSource(42, DefaultSettings())
	b := NewSource(42, DefaultSettings())

	layerA := a.Chunk(160.0, -320.0)
	layerB := b.Chunk(160.0, -320.0)

	if *layerA != *layerB {
		t.Fatal("climate layer diverged for identical seeds")
	}
}

func TestClimateSeedSensitivity(t *testing.T) {
	a := NewSource(1, DefaultSettings())
	b := NewSource(2, DefaultSettings())

	same := 0
	for i := 0; i < 64; i++ {
		pa := a.Sample(mgl64.Vec2{float64(i) * 100, 0})
		pb := b.Sample(mgl64.Vec2{float64(i) * 100, 0})

		if pa == pb {
			same++
		}
	}

	if same == 64 {
		t.Error("different seeds produced identical climate fields")
	}
}

func TestFreezing(t *testing.T) {
	if !(Climate{Temperature: 0.3}).Freezing() {
		t.Error("cold climate should freeze")
	}
	if (Climate{Temperature: 0.8}).Freezing() {
		t.Error("warm climate should not freeze")
	}
}
