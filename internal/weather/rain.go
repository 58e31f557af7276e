package weather

import (
	"riverworld/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// RainColor is the streak tint used by the world.
var RainColor = mgl32.Vec4{0.28, 0.44, 0.76, 0.8}

const (
	rainShade     = 130
	rainFall      = 100
	bounceHeight  = 129
	streakWidth   = 0.1
	splashSize    = 0.1
	splashWave    = 6
	animStreakLow = 2
	animStreakTop = 3
	animSplash    = 4
)

var splashColor = mgl32.Vec4{0.18, 0.34, 0.66, 0.8}

type drop struct {
	pos    mgl32.Vec3
	dir    mgl32.Vec2
	offset float32
}

// Rain is one 16x16 patch of falling streaks. Columns with a positive
// height draw a splash where the drop lands.
type Rain struct {
	state
	origin  mgl32.Vec3
	color   mgl32.Vec4
	noise   opensimplex.Noise
	drops   [Size * Size]drop
	heights [Size * Size]float32
}

// NewRain seeds a patch at (x, y, z). Even columns start bouncing at sea
// level, the others do not splash until a height is recorded.
func NewRain(n opensimplex.Noise, x, y, z int, color mgl32.Vec4) *Rain {
	r := &Rain{
		origin: mgl32.Vec3{float32(x), float32(y), float32(z)},
		color:  color,
		noise:  n,
	}
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			wx, wz := x+i, z+j
			d := &r.drops[columnIndex(i, j)]
			d.pos = r.origin.Add(mgl32.Vec3{float32(i), jitter(n, wx, wz, 0) * rainFall, float32(j)})
			d.dir = mgl32.Vec2{
				(jitter(n, wx, wz, 1) - 0.5) * 2,
				(jitter(n, wx, wz, 2) - 0.5) * 2,
			}
			d.offset = jitter(n, wx, wz, 3)*4 + 10
			if i%2 == 0 && j%2 == 0 {
				r.heights[columnIndex(i, j)] = bounceHeight + jitter(n, wx, wz, 4)
			} else {
				r.heights[columnIndex(i, j)] = -1
			}
		}
	}
	return r
}

// jitter samples the normalized simplex field in [0, 1) for one column.
// Each salt picks an independent-looking slice of the field.
func jitter(n opensimplex.Noise, x, z, salt int) float32 {
	s := float64(salt) * 17.31
	return float32(n.Eval2(float64(x)*0.713+s, float64(z)*0.713-s))
}

func (r *Rain) Kind() Kind         { return KindRain }
func (r *Rain) Origin() mgl32.Vec3 { return r.origin }
func (r *Rain) Color() mgl32.Vec4  { return r.color }

func (r *Rain) Height(lx, lz int) float32 {
	if lx < 0 || lx >= Size || lz < 0 || lz >= Size {
		return -1
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.heights[columnIndex(lx, lz)]
}

// SetHeight records where drops in a local column land. Negative heights
// disable the splash.
func (r *Rain) SetHeight(lx, lz int, h float32) {
	if lx < 0 || lx >= Size || lz < 0 || lz >= Size {
		return
	}
	if h >= 0 {
		x, z := int(r.origin.X())+lx, int(r.origin.Z())+lz
		h += jitter(r.noise, x, z, 5)
	}
	r.mu.Lock()
	r.heights[columnIndex(lx, lz)] = h
	r.mu.Unlock()
}

// Rebuild regenerates the geometry and bumps the revision.
func (r *Rain) Rebuild() {
	r.install(r.Build())
}

// Build assembles the streak and splash quads.
func (r *Rain) Build() meshing.Buffer {
	r.mu.RLock()
	heights := r.heights
	r.mu.RUnlock()

	var b meshing.Buffer
	for i := range r.drops {
		r.streak(&b, &r.drops[i], heights[i])
	}
	return b
}

func (r *Rain) streak(b *meshing.Buffer, d *drop, height float32) {
	dir := d.dir
	if dir.Len() == 0 {
		dir = mgl32.Vec2{1, 0}
	}
	dir = dir.Normalize()
	normal := mgl32.Vec3{-dir.Y(), 0, -dir.X()}
	side := mgl32.Vec3{streakWidth * dir.X(), 0, streakWidth * dir.Y()}

	low := mgl32.Vec4{-1, -1, rainShade, animStreakLow}
	top := mgl32.Vec4{-1, -1, rainShade, animStreakTop}
	quad(b, [4]mgl32.Vec3{
		d.pos,
		d.pos.Add(side),
		d.pos.Add(side).Add(mgl32.Vec3{0, 1, 0}),
		d.pos.Add(mgl32.Vec3{0, 1, 0}),
	}, normal, r.color, [4]mgl32.Vec4{low, low, top, top})

	px, pz := int(d.pos.X()), int(d.pos.Z())
	if height <= 0 || px%2 != 0 || pz%2 != 0 {
		return
	}
	pos := mgl32.Vec3{d.pos.X(), height + 1, d.pos.Z()}
	color := splashColor
	attr := mgl32.Vec4{-1, d.offset, height, animSplash}
	attrs := [4]mgl32.Vec4{attr, attr, attr, attr}
	up := mgl32.Vec3{0, splashSize, 0}
	for i := 0; i < 3; i++ {
		quad(b, [4]mgl32.Vec3{
			pos,
			pos.Add(side),
			pos.Add(side).Add(up),
			pos.Add(up),
		}, normal, color, attrs)
		if i == 0 {
			pos = pos.Add(side).Add(up)
		} else {
			pos = pos.Sub(side.Mul(2))
		}
		color = color.Add(mgl32.Vec4{0.12, 0.12, 0.012, 0})
		if (px+pz)%splashWave == 0 {
			break
		}
	}
}
