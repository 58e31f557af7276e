package weather

import (
	"riverworld/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

const (
	flakeSize  = 0.3
	snowShade  = 130
	animFlake  = 7
	animFlakeT = 8
	// atlas coordinates of the two flake sprites, in tiles
	flakeTile = 8
	flakeRow  = 5
)

type flake struct {
	pos      mgl32.Vec3
	dir      mgl32.Vec2
	velocity mgl32.Vec2
}

// Snow is one 16x16 patch of drifting flakes. The shader reads each
// flake's velocity from the color attribute.
type Snow struct {
	state
	origin mgl32.Vec3
	flakes [Size * Size]flake
}

func NewSnow(n opensimplex.Noise, x, y, z int) *Snow {
	s := &Snow{origin: mgl32.Vec3{float32(x), float32(y), float32(z)}}
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			wx, wz := x+i, z+j
			f := &s.flakes[columnIndex(i, j)]
			f.pos = s.origin.Add(mgl32.Vec3{float32(i), jitter(n, wx, wz, 10) * rainFall, float32(j)})
			f.dir = mgl32.Vec2{jitter(n, wx, wz, 11) - 0.5, jitter(n, wx, wz, 12) - 0.5}
			f.velocity = mgl32.Vec2{
				(jitter(n, wx, wz, 13) - 0.5) * 0.2,
				(jitter(n, wx, wz, 14)-0.5)*0.05 + 0.05,
			}
		}
	}
	return s
}

func (s *Snow) Kind() Kind         { return KindSnow }
func (s *Snow) Origin() mgl32.Vec3 { return s.origin }

func (s *Snow) Rebuild() {
	s.install(s.Build())
}

func (s *Snow) Build() meshing.Buffer {
	var b meshing.Buffer
	for i := range s.flakes {
		s.sprite(&b, &s.flakes[i])
	}
	return b
}

func (s *Snow) sprite(b *meshing.Buffer, f *flake) {
	u, v := float32(flakeTile)+10.0/16, float32(flakeRow)+10.0/16
	if (int(f.pos.X())+int(f.pos.Z()))%2 != 0 {
		u, v = float32(flakeTile)+11.0/16, float32(flakeRow)+12.0/16
	}
	const span = 3.0 / 16

	dir := f.dir
	if dir.Len() == 0 {
		dir = mgl32.Vec2{1, 0}
	}
	dir = dir.Normalize()
	normal := mgl32.Vec3{dir.Y(), 0, dir.X()}
	color := mgl32.Vec4{f.velocity.X(), f.velocity.Y(), 0, 0}
	side := mgl32.Vec3{flakeSize * dir.X(), 0, flakeSize * dir.Y()}
	up := mgl32.Vec3{0, flakeSize, 0}

	quad(b, [4]mgl32.Vec3{
		f.pos,
		f.pos.Add(side),
		f.pos.Add(side).Add(up),
		f.pos.Add(up),
	}, normal, color, [4]mgl32.Vec4{
		{u / 16, v / 16, snowShade, animFlake},
		{(u + span) / 16, v / 16, snowShade, animFlake},
		{(u + span) / 16, (v + span) / 16, snowShade, animFlakeT},
		{u / 16, (v + span) / 16, snowShade, animFlakeT},
	})
}
