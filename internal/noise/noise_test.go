package noise

import (
	"testing"

	"anvilgen/internal/rng"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPermutationsConsumeRNGInOrder(t *testing.T) {
	// Two identically seeded streams must produce identical tables.
	a := NewPermutations(rng.New(1234))
	b := NewPermutations(rng.New(1234))

	if a.offset != b.offset || a.table != b.table {
		t.Fatal("permutation construction is not deterministic")
	}

	// The table is a permutation of 0..255.
	var seen [256]bool
	for _, v := range a.table {
		if seen[v] {
			t.Fatalf("value %d appears twice", v)
		}
		seen[v] = true
	}
}

func TestPerlinDeterminism(t *testing.T) {
	a := PerlinFromRNG(rng.New(99), mgl64.Vec3{1, 1, 1}, 1.0)
	b := PerlinFromRNG(rng.New(99), mgl64.Vec3{1, 1, 1}, 1.0)

	for i := 0; i < 100; i++ {
		loc := mgl64.Vec3{float64(i) * 0.37, float64(i) * 0.11, float64(i) * 0.73}

		if a.Generate(loc) != b.Generate(loc) {
			t.Fatalf("3D sample %d diverged", i)
		}
		if a.Sample(mgl64.Vec2{loc[0], loc[2]}) != b.Sample(mgl64.Vec2{loc[0], loc[2]}) {
			t.Fatalf("2D sample %d diverged", i)
		}
	}
}

func TestGenerateYTableRepeatsPerCell(t *testing.T) {
	p := PerlinFromRNG(rng.New(5), mgl64.Vec3{1.0 / 4.0, 1.0 / 4.0, 1.0 / 4.0}, 1.0)

	table := make([]float64, 16)
	p.GenerateYTable(0.0, table)

	other := make([]float64, 16)
	p.GenerateYTable(0.0, other)

	for i := range table {
		if table[i] != other[i] {
			t.Fatalf("y table entry %d not deterministic", i)
		}
		if table[i] < 0.0 || table[i] >= 1.0 {
			t.Fatalf("y table entry %d out of cell range: %v", i, table[i])
		}
	}

	// The sticky Y only refreshes on a cell change, so at 1/4 scale each
	// value must persist for at least two consecutive entries somewhere.
	repeats := 0
	for i := 1; i < 16; i++ {
		if table[i] == table[i-1] {
			repeats++
		}
	}
	if repeats == 0 {
		t.Error("expected the cached Y to repeat within lattice cells")
	}
}

func TestPerlinOctavesVerticalDeterminism(t *testing.T) {
	a := NewPerlinOctavesVertical(rng.New(77), 4, mgl64.Vec3{684.412, 684.412, 684.412}, 0.0, 17)
	b := NewPerlinOctavesVertical(rng.New(77), 4, mgl64.Vec3{684.412, 684.412, 684.412}, 0.0, 17)

	for y := 0; y < 17; y++ {
		loc := mgl64.Vec3{3.0, float64(y), 5.0}

		if a.GenerateOverride(loc, y) != b.GenerateOverride(loc, y) {
			t.Fatalf("vertical octave sample at y=%d diverged", y)
		}
	}
}

func TestOctaveOrderMatters(t *testing.T) {
	// Sampling with a different octave count from the same seed must shift
	// the output; this guards against accidentally reusing generator state.
	r1 := rng.New(33)
	a := NewPerlinOctaves(r1, 4, mgl64.Vec3{1, 1, 1})

	r2 := rng.New(33)
	b := NewPerlinOctaves(r2, 2, mgl64.Vec3{1, 1, 1})

	point := mgl64.Vec2{12.5, 7.25}
	if a.Sample(point) == b.Sample(point) {
		t.Error("octave count did not affect output; construction order suspect")
	}
}

func TestSimplexDeterminismAndRange(t *testing.T) {
	a := SimplexFromRNG(rng.New(7), mgl64.Vec2{0.25, 0.25}, 1.0)
	b := SimplexFromRNG(rng.New(7), mgl64.Vec2{0.25, 0.25}, 1.0)

	for i := 0; i < 200; i++ {
		point := mgl64.Vec2{float64(i) * 0.31, float64(i) * 0.17}

		va, vb := a.Sample(point), b.Sample(point)
		if va != vb {
			t.Fatalf("simplex sample %d diverged", i)
		}
		if va < -1.5 || va > 1.5 {
			t.Fatalf("simplex sample %d out of expected envelope: %v", i, va)
		}
	}
}

func BenchmarkPerlinGenerate(b *testing.B) {
	p := PerlinFromRNG(rng.New(1), mgl64.Vec3{684.412, 684.412, 684.412}, 1.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Generate(mgl64.Vec3{float64(i % 512), float64(i % 17), float64(i % 256)})
	}
}

func BenchmarkVerticalOctaveColumn(b *testing.B) {
	o := NewPerlinOctavesVertical(rng.New(1), 16, mgl64.Vec3{684.412, 684.412, 684.412}, 0.0, 17)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for y := 0; y < 17; y++ {
			o.GenerateOverride(mgl64.Vec3{float64(i % 512), float64(y), 0}, y)
		}
	}
}
