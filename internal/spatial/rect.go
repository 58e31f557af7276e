package spatial

import (
	"fmt"
	"math"
)

const (
	ChunkSize  = 16
	RegionSize = 64
)

// Rect is an integer rectangle on the xz plane. Both bounds are inclusive.
type Rect struct {
	XMin, XMax int
	ZMin, ZMax int
}

// NewRect builds a rectangle from two corners in any order.
func NewRect(x0, x1, z0, z1 int) Rect {
	return Rect{
		XMin: min(x0, x1), XMax: max(x0, x1),
		ZMin: min(z0, z1), ZMax: max(z0, z1),
	}
}

// Rect16 returns the 16-aligned chunk footprint containing (x, z).
func Rect16(x, z int) Rect {
	ax, az := x&-ChunkSize, z&-ChunkSize
	return Rect{XMin: ax, XMax: ax + ChunkSize - 1, ZMin: az, ZMax: az + ChunkSize - 1}
}

// Rect64 returns the 64-aligned region containing (x, z).
func Rect64(x, z int) Rect {
	ax, az := x&-RegionSize, z&-RegionSize
	return Rect{XMin: ax, XMax: ax + RegionSize - 1, ZMin: az, ZMax: az + RegionSize - 1}
}

// CapsuleBBox bounds a segment (x0,z0)-(x1,z1) swept by radius r.
func CapsuleBBox(x0, z0, x1, z1, r float32) Rect {
	return NewRect(
		minFloor(x0-r, x1-r), maxCeil(x0+r, x1+r),
		minFloor(z0-r, z1-r), maxCeil(z0+r, z1+r),
	)
}

func minFloor(a, b float32) int {
	return min(int(math.Floor(float64(a))), int(math.Floor(float64(b))))
}

func maxCeil(a, b float32) int {
	return max(int(math.Floor(float64(a)))+1, int(math.Floor(float64(b)))+1)
}

func (r Rect) Contains(x, z int) bool {
	return x >= r.XMin && x <= r.XMax && z >= r.ZMin && z <= r.ZMax
}

// IsInside reports whether r lies entirely within other.
func (r Rect) IsInside(other Rect) bool {
	return r.XMin >= other.XMin && r.XMax <= other.XMax &&
		r.ZMin >= other.ZMin && r.ZMax <= other.ZMax
}

func (r Rect) Intersects(other Rect) bool {
	return !(r.XMin > other.XMax || r.XMax < other.XMin ||
		r.ZMin > other.ZMax || r.ZMax < other.ZMin)
}

// Intersect returns the overlap of r and other. ok is false when they are disjoint.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	if !r.Intersects(other) {
		return Rect{}, false
	}
	return Rect{
		XMin: max(r.XMin, other.XMin), XMax: min(r.XMax, other.XMax),
		ZMin: max(r.ZMin, other.ZMin), ZMax: min(r.ZMax, other.ZMax),
	}, true
}

func (r Rect) XMid() int { return (r.XMin + r.XMax) / 2 }
func (r Rect) ZMid() int { return (r.ZMin + r.ZMax) / 2 }

func (r Rect) Width() int { return r.XMax - r.XMin + 1 }
func (r Rect) Depth() int { return r.ZMax - r.ZMin + 1 }

// Origin returns the minimum corner.
func (r Rect) Origin() (int, int) { return r.XMin, r.ZMin }

func (r Rect) String() string {
	return fmt.Sprintf("%d~%d %d~%d", r.XMin, r.XMax, r.ZMin, r.ZMax)
}
