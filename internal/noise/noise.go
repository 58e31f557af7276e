package noise

import (
	"math"
)

// Deterministic hash-based value noise. Every function is pure and works in
// float32 so terrain stays identical between runs and platforms.

// FbmParams seals all knobs of one fractal field. Height, moisture and
// decoration fields differ only in these values.
type FbmParams struct {
	Persistence float32 `yaml:"persistence"`
	Octaves     int     `yaml:"octaves"`
	Exponent    int     `yaml:"exponent"`
	ScaleX      float32 `yaml:"scale_x"`
	ScaleY      float32 `yaml:"scale_y"`
	ScaleZ      float32 `yaml:"scale_z"`
	OffsetX     int     `yaml:"offset_x"`
	OffsetY     int     `yaml:"offset_y"`
	OffsetZ     int     `yaml:"offset_z"`
	Seed1       float32 `yaml:"seed1"`
	Seed2       float32 `yaml:"seed2"`
	Seed3       float32 `yaml:"seed3"`
}

// DefaultFbmParams returns the base field every table is derived from.
func DefaultFbmParams() FbmParams {
	return FbmParams{
		Persistence: 0.5,
		Octaves:     8,
		Exponent:    4,
		ScaleX:      0.02,
		ScaleY:      30,
		ScaleZ:      0.02,
		Seed1:       12.9898,
		Seed2:       4.1414,
		Seed3:       43858.5453,
	}
}

// Fract returns the fractional part of x.
func Fract(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

// Pow raises base to a non-negative integer power.
func Pow(base float32, exp int) float32 {
	result := float32(1)
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Mix blends a and b linearly, t in [0,1].
func Mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// MixCubic blends a and b with a smoothstep curve.
func MixCubic(a, b, t float32) float32 {
	t = t * t * (3 - 2*t)
	return Mix(a, b, t)
}

func SqrDist2D(dx, dy float32) float32 {
	return dx*dx + dy*dy
}

func Dot2D(ax, ay, bx, by float32) float32 {
	return ax*bx + ay*by
}

// Area2D is the area of the triangle spanned by two vectors.
func Area2D(ax, ay, bx, by float32) float32 {
	return float32(math.Abs(float64(ax*by-bx*ay))) / 2
}

// Rand2D returns a pseudo random value in [0,1) for a 2D point.
func Rand2D(x, y, s1, s2, s3 float32) float32 {
	return Fract(float32(math.Sin(float64(Dot2D(x, y, s1, s2)))) * s3)
}

// Rand1D returns a pseudo random value in [0,1) for a scalar seed.
func Rand1D(seed float32) float32 {
	return Rand2D(seed, seed+123.4, seed+345.6, seed+678.9, seed+987.6)
}

// RandRange returns a pseudo random value in [a,b).
func RandRange(a, b, seed float32) float32 {
	return a + (b-a)*Rand1D(seed)
}

// InterpRand2D is lattice value noise with cubic blending between corners.
func InterpRand2D(x, y, s1, s2, s3 float32) float32 {
	intX := float32(math.Floor(float64(x)))
	intY := float32(math.Floor(float64(y)))
	fx := x - intX
	fy := y - intY

	v1 := Rand2D(intX, intY, s1, s2, s3)
	v2 := Rand2D(intX+1, intY, s1, s2, s3)
	v3 := Rand2D(intX, intY+1, s1, s2, s3)
	v4 := Rand2D(intX+1, intY+1, s1, s2, s3)

	i1 := MixCubic(v1, v2, fx)
	i2 := MixCubic(v3, v4, fx)
	return MixCubic(i1, i2, fy)
}

// Fbm2D sums octaves of InterpRand2D. Frequency doubles and amplitude decays
// before the first octave is sampled, so the result stays below 1.
func Fbm2D(x, y, persistence float32, octaves int, s1, s2, s3 float32) float32 {
	var total float32
	freq := float32(1)
	amp := float32(1)
	for i := 0; i < octaves; i++ {
		freq *= 2
		amp *= persistence
		total += InterpRand2D(x*freq, y*freq, s1, s2, s3) * amp
	}
	return total
}

// SealedFbm2D evaluates the field described by p at an integer column.
func SealedFbm2D(x, z int, p FbmParams) int {
	v := Fbm2D(
		float32(x+p.OffsetX)*p.ScaleX,
		float32(z+p.OffsetZ)*p.ScaleZ,
		p.Persistence, p.Octaves,
		p.Seed1, p.Seed2, p.Seed3,
	)
	return p.OffsetY + int(p.ScaleY*Pow(v, p.Exponent))
}

// ColumnSeed is the per-column seed used by decoration passes.
func ColumnSeed(x, z int) float32 {
	return Rand2D(float32(x%1024), float32(z%1024), 123.4, 345.6, 456.7) * 111
}
