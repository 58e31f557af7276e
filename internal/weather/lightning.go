package weather

import (
	"riverworld/internal/meshing"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	boltRings   = 4
	boltCeiling = 255
	boltShade   = 130
	animBolt    = 5
	animBoltTop = 6
	boltWobble  = 0.1
)

var boltColor = mgl32.Vec4{1, 1, 1, 0.3}

// Lightning is a set of nested hollow columns reaching the sky. Ring
// offsets wobble along a 1D perlin curve.
type Lightning struct {
	state
	origin mgl32.Vec3
	rings  [boltRings]mgl32.Vec3
}

func NewLightning(p *perlin.Perlin, x, y, z int) *Lightning {
	l := &Lightning{origin: mgl32.Vec3{float32(x), float32(y), float32(z)}}
	pos := l.origin.Add(mgl32.Vec3{0.6, 0, 0.6})
	for i := range l.rings {
		t := float64(i) + 0.5
		wobble := mgl32.Vec3{
			float32(p.Noise1D(t*0.37)) * boltWobble,
			0,
			float32(p.Noise1D(t*0.37+50)) * boltWobble,
		}
		l.rings[i] = pos.Add(wobble)
		pos = pos.Sub(mgl32.Vec3{0.2, 0, 0.2})
	}
	return l
}

func (l *Lightning) Kind() Kind         { return KindLightning }
func (l *Lightning) Origin() mgl32.Vec3 { return l.origin }

func (l *Lightning) Rebuild() {
	l.install(l.Build())
}

// Build emits four walls per ring, each running from the ring base to the
// world ceiling.
func (l *Lightning) Build() meshing.Buffer {
	var b meshing.Buffer
	for i, pos := range l.rings {
		length := 0.2 + 0.4*float32(i)
		c0 := pos
		c1 := pos.Add(mgl32.Vec3{0, 0, length})
		c2 := pos.Add(mgl32.Vec3{length, 0, length})
		c3 := pos.Add(mgl32.Vec3{length, 0, 0})
		wall(&b, c0, c1, mgl32.Vec3{-1, 0, 0})
		wall(&b, c1, c2, mgl32.Vec3{0, 0, 1})
		wall(&b, c2, c3, mgl32.Vec3{1, 0, 0})
		wall(&b, c3, c0, mgl32.Vec3{0, 0, -1})
	}
	return b
}

func wall(b *meshing.Buffer, p0, p1, normal mgl32.Vec3) {
	low := mgl32.Vec4{-1, -1, boltShade, animBolt}
	top := mgl32.Vec4{-1, -1, boltShade, animBoltTop}
	quad(b, [4]mgl32.Vec3{
		p0,
		p1,
		{p1.X(), boltCeiling, p1.Z()},
		{p0.X(), boltCeiling, p0.Z()},
	}, normal, boltColor, [4]mgl32.Vec4{low, low, top, top})
}
