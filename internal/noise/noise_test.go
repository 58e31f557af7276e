package noise

import (
	"math"
	"testing"
)

// TestRand2DDeterministic verifies repeated calls agree
func TestRand2DDeterministic(t *testing.T) {
	first := Rand2D(10, 20, 12.9898, 4.1414, 43858.5453)
	for i := 0; i < 100; i++ {
		if v := Rand2D(10, 20, 12.9898, 4.1414, 43858.5453); v != first {
			t.Fatalf("Rand2D not deterministic: %v != %v", v, first)
		}
	}
}

// TestRand1DRange samples many seeds and checks the unit range
func TestRand1DRange(t *testing.T) {
	for i := 0; i < 5000; i++ {
		v := Rand1D(float32(i) * 0.37)
		if v < 0 || v > 1 {
			t.Fatalf("Rand1D(%v) = %v out of [0,1]", float32(i)*0.37, v)
		}
	}
}

func TestRandRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RandRange(-5, 5, float32(i))
		if v < -5 || v > 5 {
			t.Fatalf("RandRange out of bounds: %v", v)
		}
	}
}

func TestBlendHelpers(t *testing.T) {
	if got := Mix(2, 4, 0); got != 2 {
		t.Errorf("Mix t=0: got %v", got)
	}
	if got := Mix(2, 4, 1); got != 4 {
		t.Errorf("Mix t=1: got %v", got)
	}
	if got := MixCubic(0, 1, 0.5); got != 0.5 {
		t.Errorf("MixCubic midpoint: got %v", got)
	}
	if got := MixCubic(0, 1, 0.25); got >= 0.25 {
		t.Errorf("MixCubic should ease in, got %v at t=0.25", got)
	}
	if got := Clamp(3, 0, 1); got != 1 {
		t.Errorf("Clamp high: got %v", got)
	}
	if got := Clamp(-3, 0, 1); got != 0 {
		t.Errorf("Clamp low: got %v", got)
	}
	if got := Fract(-0.25); got != 0.75 {
		t.Errorf("Fract(-0.25) = %v, want 0.75", got)
	}
	if got := Pow(2, 5); got != 32 {
		t.Errorf("Pow(2,5) = %v", got)
	}
	if got := Pow(7, 0); got != 1 {
		t.Errorf("Pow(7,0) = %v", got)
	}
}

func TestGeometryHelpers(t *testing.T) {
	if got := SqrDist2D(3, 4); got != 25 {
		t.Errorf("SqrDist2D = %v", got)
	}
	if got := Dot2D(1, 2, 3, 4); got != 11 {
		t.Errorf("Dot2D = %v", got)
	}
	if got := Area2D(1, 0, 0, 1); got != 0.5 {
		t.Errorf("Area2D = %v", got)
	}
	if got := Area2D(0, 1, 1, 0); got != 0.5 {
		t.Errorf("Area2D should be unsigned, got %v", got)
	}
}

// TestFbm2DBounded checks the octave sum never reaches 1 with persistence 0.5
func TestFbm2DBounded(t *testing.T) {
	p := DefaultFbmParams()
	for x := -50; x < 50; x += 7 {
		for z := -50; z < 50; z += 5 {
			v := Fbm2D(float32(x)*p.ScaleX, float32(z)*p.ScaleZ, p.Persistence, p.Octaves, p.Seed1, p.Seed2, p.Seed3)
			if v < 0 || v > 1 || math.IsNaN(float64(v)) {
				t.Fatalf("Fbm2D(%d,%d) = %v", x, z, v)
			}
		}
	}
}

func TestInterpRand2DMatchesLattice(t *testing.T) {
	p := DefaultFbmParams()
	got := InterpRand2D(3, 7, p.Seed1, p.Seed2, p.Seed3)
	want := Rand2D(3, 7, p.Seed1, p.Seed2, p.Seed3)
	if got != want {
		t.Errorf("InterpRand2D at lattice point = %v, want %v", got, want)
	}
}

func TestSealedFbm2D(t *testing.T) {
	p := DefaultFbmParams()
	a := SealedFbm2D(123, -456, p)
	b := SealedFbm2D(123, -456, p)
	if a != b {
		t.Fatalf("SealedFbm2D not deterministic: %d vs %d", a, b)
	}
	if a < 0 || a > int(p.ScaleY) {
		t.Errorf("SealedFbm2D = %d outside [0,%v]", a, p.ScaleY)
	}

	p.ScaleY = 0
	p.OffsetY = 17
	if got := SealedFbm2D(5, 5, p); got != 17 {
		t.Errorf("zero scale should return the offset, got %d", got)
	}
}

func BenchmarkSealedFbm2D(b *testing.B) {
	p := DefaultFbmParams()
	for i := 0; i < b.N; i++ {
		SealedFbm2D(i, i*3, p)
	}
}
