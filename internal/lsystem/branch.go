package lsystem

import (
	"math"

	"riverworld/internal/noise"
	"riverworld/internal/spatial"
)

// Terrain is the world surface a river carves into.
type Terrain interface {
	WaterErode(x, z, restY int)
	// Explored reports whether any generated chunk overlaps r.
	Explored(r spatial.Rect) bool
}

// segment is one drawn stroke. pending lists the chunk footprints the
// stroke still has to carve.
type segment struct {
	x0, z0, x1, z1 float32
	r              float32
	bbox           spatial.Rect
	pending        map[spatial.Rect]struct{}
}

func (s *segment) done() bool { return len(s.pending) == 0 }

// Branch is one unbranched run of a river: a start turtle, its path and
// the strokes the path draws.
type Branch struct {
	start    Turtle
	cur      Turtle
	path     []Symbol
	segments []*segment
	// cursor is the first segment with pending cells
	cursor int
	scale  float32
	sea    int
}

func newBranch(start Turtle, p Params) *Branch {
	return &Branch{start: start, cur: start, scale: p.ErosionScale, sea: p.SeaLevel}
}

// Start returns the turtle the branch begins at.
func (b *Branch) Start() Turtle { return b.start }

// Current returns the turtle after the last appended symbol.
func (b *Branch) Current() Turtle { return b.cur }

// Path returns the appended symbols.
func (b *Branch) Path() []Symbol { return b.path }

// Append adds s to the path and moves the turtle.
func (b *Branch) Append(s Symbol) {
	b.path = append(b.path, s)
	next, draws := advance(b.cur, s)
	if draws {
		b.segments = append(b.segments, b.newSegment(b.cur, next, s.Width/2))
		b.advanceCursor()
	}
	b.cur = next
}

// advance applies one symbol to t. Turns rotate before moving forward;
// symbols without a stroke leave t unchanged.
func advance(t Turtle, s Symbol) (Turtle, bool) {
	switch s.Action {
	case Left:
		t.Dir += s.Angle
	case Right:
		t.Dir -= s.Angle
	case Forward, Lake:
	default:
		return t, false
	}
	dir := float64(t.Dir)
	t.X += s.Length * float32(math.Cos(dir))
	t.Z += s.Length * float32(math.Sin(dir))
	return t, true
}

func (b *Branch) newSegment(from, to Turtle, r float32) *segment {
	seg := &segment{
		x0: from.X, z0: from.Z, x1: to.X, z1: to.Z,
		r:    r,
		bbox: spatial.CapsuleBBox(from.X, from.Z, to.X, to.Z, r*b.scale),
	}
	if r <= 0 {
		return seg
	}
	seg.pending = make(map[spatial.Rect]struct{})
	for x := seg.bbox.XMin & -spatial.ChunkSize; x <= seg.bbox.XMax; x += spatial.ChunkSize {
		for z := seg.bbox.ZMin & -spatial.ChunkSize; z <= seg.bbox.ZMax; z += spatial.ChunkSize {
			seg.pending[spatial.Rect16(x, z)] = struct{}{}
		}
	}
	return seg
}

// Domain returns every region the branch's strokes can touch.
func (b *Branch) Domain() *spatial.Domain {
	d := spatial.NewDomain()
	for _, s := range b.segments {
		d.AddRect(s.bbox)
	}
	return d
}

// Done reports whether every stroke has been carved everywhere.
func (b *Branch) Done() bool { return b.cursor >= len(b.segments) }

// Draw carves the pending cells that lie inside scope. A cell is carved
// once; later calls resume from the first unfinished stroke. It reports
// whether the branch is complete.
func (b *Branch) Draw(scope spatial.Rect, t Terrain) bool {
	for i := b.cursor; i < len(b.segments); i++ {
		seg := b.segments[i]
		if seg.done() {
			continue
		}
		for cell := range seg.pending {
			if !cell.IsInside(scope) {
				continue
			}
			if area, ok := seg.bbox.Intersect(cell); ok {
				b.carve(seg, area, t)
			}
			delete(seg.pending, cell)
		}
	}
	b.advanceCursor()
	return b.Done()
}

// Settle drops pending cells for which skip returns true. The river uses
// it for chunks that already exist and will never be generated again.
func (b *Branch) Settle(skip func(cell spatial.Rect) bool) {
	for i := b.cursor; i < len(b.segments); i++ {
		for cell := range b.segments[i].pending {
			if skip(cell) {
				delete(b.segments[i].pending, cell)
			}
		}
	}
	b.advanceCursor()
}

func (b *Branch) advanceCursor() {
	for b.cursor < len(b.segments) && b.segments[b.cursor].done() {
		b.cursor++
	}
}

// carve lowers every column of area within the stroke's reach. Depth
// follows a cubic profile from r below sea level at the centre line up to
// 1.5 times the reach at the rim.
func (b *Branch) carve(seg *segment, area spatial.Rect, t Terrain) {
	reach := seg.r * b.scale
	for i := area.XMin; i <= area.XMax; i++ {
		for j := area.ZMin; j <= area.ZMax; j++ {
			d2 := distanceSq(float32(i)+0.5, float32(j)+0.5, seg)
			f := float32(math.Sqrt(float64(d2))) / reach
			if f > 1 {
				continue
			}
			restY := int(math.Floor(float64(noise.MixCubic(-seg.r, reach*1.5, f)))) + b.sea
			t.WaterErode(i, j, restY)
		}
	}
}

// distanceSq is the squared distance from (x, z) to the stroke.
func distanceSq(x, z float32, s *segment) float32 {
	dx, dz := s.x1-s.x0, s.z1-s.z0
	length := noise.SqrDist2D(dx, dz)
	switch {
	case length <= 0:
		return noise.SqrDist2D(x-s.x0, z-s.z0)
	case noise.Dot2D(dx, dz, x-s.x0, z-s.z0) < 0:
		return noise.SqrDist2D(x-s.x0, z-s.z0)
	case noise.Dot2D(-dx, -dz, x-s.x1, z-s.z1) < 0:
		return noise.SqrDist2D(x-s.x1, z-s.z1)
	}
	area := noise.Area2D(s.x0-x, s.z0-z, s.x1-x, s.z1-z)
	return 4 * area * area / length
}
