package spatial

import "math"

// Vec2 is an integer xz offset.
type Vec2 struct {
	X, Z int
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }

func (v Vec2) Vec2f() Vec2f { return Vec2f{float32(v.X), float32(v.Z)} }

// Vec2f is a float xz vector.
type Vec2f struct {
	X, Z float32
}

func (v Vec2f) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Z*v.Z)))
}

// Div divides by f. Division by zero yields the +x unit vector.
func (v Vec2f) Div(f float32) Vec2f {
	if f == 0 {
		return Vec2f{1, 0}
	}
	return Vec2f{v.X / f, v.Z / f}
}

func (v Vec2f) Normalize() Vec2f { return v.Div(v.Len()) }

// Radians is the signed angle between v and +x, in (-pi, pi].
func (v Vec2f) Radians() float32 {
	n := v.Normalize()
	a := float32(math.Acos(float64(clampUnit(n.X))))
	if n.Z < 0 {
		return -a
	}
	return a
}

func clampUnit(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
