package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectAlignment(t *testing.T) {
	tests := []struct {
		name   string
		x, z   int
		want16 Rect
		want64 Rect
	}{
		{"origin", 0, 0, Rect{0, 15, 0, 15}, Rect{0, 63, 0, 63}},
		{"positive", 135, 64, Rect{128, 143, 64, 79}, Rect{128, 191, 64, 127}},
		{"negative", -128, -157, Rect{-128, -113, -160, -145}, Rect{-128, -65, -192, -129}},
		{"minus one", -1, -1, Rect{-16, -1, -16, -1}, Rect{-64, -1, -64, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want16, Rect16(tt.x, tt.z))
			assert.Equal(t, tt.want64, Rect64(tt.x, tt.z))
		})
	}
}

func TestRectEqualityByOrigin(t *testing.T) {
	assert.Equal(t, Rect16(3, 5), Rect16(15, 0))
	assert.NotEqual(t, Rect16(3, 5), Rect16(16, 0))
	assert.Equal(t, Rect64(1, 1), Rect64(63, 63))
}

func TestRectQueries(t *testing.T) {
	r := NewRect(10, 0, 5, -5)
	assert.Equal(t, Rect{0, 10, -5, 5}, r, "corners are normalised")
	assert.True(t, r.Contains(0, -5))
	assert.True(t, r.Contains(10, 5))
	assert.False(t, r.Contains(11, 0))
	assert.Equal(t, 5, r.XMid())
	assert.Equal(t, 0, r.ZMid())

	inner := NewRect(2, 3, 0, 1)
	assert.True(t, inner.IsInside(r))
	assert.False(t, r.IsInside(inner))

	got, ok := r.Intersect(NewRect(8, 20, 4, 20))
	require.True(t, ok)
	assert.Equal(t, Rect{8, 10, 4, 5}, got)

	_, ok = r.Intersect(NewRect(11, 20, 0, 0))
	assert.False(t, ok)
	assert.False(t, r.Intersects(NewRect(11, 20, 0, 0)))
}

func TestCapsuleBBox(t *testing.T) {
	r := CapsuleBBox(0, 0, 10, 0, 2)
	assert.Equal(t, Rect{-2, 13, -2, 3}, r)

	r = CapsuleBBox(0.5, 0.5, 0.5, 0.5, 0)
	assert.Equal(t, Rect{0, 1, 0, 1}, r)
}

func TestDomainAddAndHas(t *testing.T) {
	d := NewDomain()
	r := Rect64(70, -10)
	assert.False(t, d.Has(r))

	d.Add64(r)
	assert.True(t, d.Has(r))
	assert.True(t, d.Has(Rect64(127, -1)), "same aligned origin")

	other := NewDomain()
	other.Add64(Rect64(500, 500))
	d.AddDomain(other)
	d.AddDomain(NewDomain())
	d.AddDomain(nil)

	assert.True(t, d.Has(r), "union never removes regions")
	assert.True(t, d.Has(Rect64(500, 500)))
	assert.Equal(t, 2, d.Len())
}

func TestDomainAddRect(t *testing.T) {
	d := NewDomain()
	d.AddRect(NewRect(12, 63, 3, 63))
	assert.Equal(t, 1, d.Len())

	d.AddRect(NewRect(33, 42, 59, 64))
	assert.Equal(t, 2, d.Len())
	assert.True(t, d.Has(Rect64(33, 64)))

	d.AddRect(NewRect(-15, 0, -30, 0))
	assert.True(t, d.Has(Rect64(-1, -1)))

	wide := NewDomain()
	wide.AddRect(NewRect(0, 200, 0, 0))
	assert.Equal(t, 4, wide.Len(), "regions between corners are covered too")
	assert.Equal(t, []Rect{Rect64(0, 0), Rect64(64, 0), Rect64(128, 0), Rect64(192, 0)}, wide.Rects())
}

func TestDomainIntersects(t *testing.T) {
	a := NewDomain()
	a.Add64(Rect64(0, 0))
	b := NewDomain()
	b.Add64(Rect64(64, 0))
	assert.False(t, a.Intersects(b))

	b.Add64(Rect64(10, 10))
	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))

	var none *Domain
	assert.False(t, none.Has(Rect64(0, 0)))
	assert.False(t, none.Intersects(a))
}

func TestVec2fRadians(t *testing.T) {
	assert.InDelta(t, 0, Vec2f{1, 0}.Radians(), 1e-6)
	assert.InDelta(t, math.Pi/2, Vec2f{0, 3}.Radians(), 1e-6)
	assert.InDelta(t, -math.Pi/2, Vec2f{0, -3}.Radians(), 1e-6)
	assert.InDelta(t, math.Pi, Vec2f{-2, 0}.Radians(), 1e-6)

	// zero vector falls back to +x
	assert.Equal(t, Vec2f{1, 0}, Vec2f{}.Normalize())
	assert.InDelta(t, 0, Vec2f{}.Radians(), 1e-6)
}

func TestVec2(t *testing.T) {
	v := Vec2{1, 2}.Add(Vec2{-3, 4})
	assert.Equal(t, Vec2{-2, 6}, v)
	assert.Equal(t, Vec2f{-2, 6}, v.Vec2f())
}
