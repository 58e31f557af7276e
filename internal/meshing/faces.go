package meshing

import (
	"riverworld/internal/profiling"
	"riverworld/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per vertex:
// pos.xyzw, normal.xyz0, color.rgba, uv, shade, animated
const VertexStride = 16

// Chunk dimensions, mirrored from world to keep this package free of it.
const (
	SizeX = 16
	SizeY = 256
	SizeZ = 16
)

// Source exposes the blocks of one chunk in local coordinates.
type Source interface {
	BlockAt(x, y, z int) registry.BlockType
}

// Neighbors holds the four lateral chunks. A nil entry means the neighbour
// has not been generated; faces against it are drawn.
type Neighbors struct {
	Left  Source // -x
	Right Source // +x
	Front Source // +z
	Back  Source // -z
}

// Buffer is one render pass worth of interleaved vertices and triangle indices.
type Buffer struct {
	Vertices []float32
	Indices  []uint32
}

func (b *Buffer) VertexCount() int   { return len(b.Vertices) / VertexStride }
func (b *Buffer) TriangleCount() int { return len(b.Indices) / 3 }

// FaceCount is the number of quads in the buffer.
func (b *Buffer) FaceCount() int { return len(b.Indices) / 6 }

// ChunkMesh is the geometry payload of one chunk. Blocks that need alpha
// blending never land in Opaque.
type ChunkMesh struct {
	Opaque      Buffer
	Transparent Buffer
}

// corners of each cube face, in winding order
var faceCorners = [6][4]mgl32.Vec3{
	registry.FaceLeft:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	registry.FaceRight:  {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	registry.FaceFront:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	registry.FaceBack:   {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	registry.FaceTop:    {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
	registry.FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
}

// planes of a cross decal, tagged with the face whose UVs they borrow
var crossPlanes = []struct {
	face    registry.BlockFace
	corners [4]mgl32.Vec3
}{
	{registry.FaceFront, [4]mgl32.Vec3{{0, 0, 0.5}, {1, 0, 0.5}, {1, 1, 0.5}, {0, 1, 0.5}}},
	{registry.FaceRight, [4]mgl32.Vec3{{0.5, 0, 1}, {0.5, 0, 0}, {0.5, 1, 0}, {0.5, 1, 1}}},
	{registry.FaceBack, [4]mgl32.Vec3{{1, 0, 0.5}, {0, 0, 0.5}, {0, 1, 0.5}, {1, 1, 0.5}}},
	{registry.FaceLeft, [4]mgl32.Vec3{{0.5, 0, 0}, {0.5, 0, 1}, {0.5, 1, 1}, {0.5, 1, 0}}},
}

// Build meshes the chunk whose minimum corner sits at (originX, originZ).
func Build(originX, originZ int, src Source, nb Neighbors) *ChunkMesh {
	defer profiling.Track("meshing.Build")()
	m := &ChunkMesh{}
	if src == nil {
		return m
	}
	b := builder{src: src, nb: nb, origin: mgl32.Vec3{float32(originX), 0, float32(originZ)}, mesh: m}
	for x := 0; x < SizeX; x++ {
		for y := 0; y < SizeY; y++ {
			for z := 0; z < SizeZ; z++ {
				if t := src.BlockAt(x, y, z); t != registry.BlockEmpty {
					b.visit(x, y, z, t)
				}
			}
		}
	}
	return m
}

type builder struct {
	src    Source
	nb     Neighbors
	origin mgl32.Vec3
	mesh   *ChunkMesh
}

func (b *builder) visit(x, y, z int, t registry.BlockType) {
	pos := b.origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
	if registry.IsCross(t) {
		for _, p := range crossPlanes {
			b.addFace(pos, p.corners, t, p.face)
		}
		return
	}
	for f := registry.FaceLeft; f <= registry.FaceBottom; f++ {
		if ShouldDraw(b.src, b.nb, x, y, z, f) {
			b.addFace(pos, faceCorners[f], t, f)
		}
	}
}

// neighbour resolves the block across face f. ok is false when the cell
// lies in a chunk that does not exist yet.
func neighbour(src Source, nb Neighbors, x, y, z int, f registry.BlockFace) (registry.BlockType, bool) {
	switch f {
	case registry.FaceLeft:
		if x == 0 {
			return edge(nb.Left, SizeX-1, y, z)
		}
		return src.BlockAt(x-1, y, z), true
	case registry.FaceRight:
		if x == SizeX-1 {
			return edge(nb.Right, 0, y, z)
		}
		return src.BlockAt(x+1, y, z), true
	case registry.FaceBack:
		if z == 0 {
			return edge(nb.Back, x, y, SizeZ-1)
		}
		return src.BlockAt(x, y, z-1), true
	case registry.FaceFront:
		if z == SizeZ-1 {
			return edge(nb.Front, x, y, 0)
		}
		return src.BlockAt(x, y, z+1), true
	case registry.FaceTop:
		if y == SizeY-1 {
			return registry.BlockEmpty, false
		}
		return src.BlockAt(x, y+1, z), true
	case registry.FaceBottom:
		if y == 0 {
			return registry.BlockEmpty, false
		}
		return src.BlockAt(x, y-1, z), true
	}
	return registry.BlockEmpty, false
}

func edge(s Source, x, y, z int) (registry.BlockType, bool) {
	if s == nil {
		return registry.BlockEmpty, false
	}
	return s.BlockAt(x, y, z), true
}

// ShouldDraw reports whether face f of the cube at local (x, y, z) is visible.
// Opaque blocks show faces against anything non-opaque; other blocks only
// against empty cells. World floor, ceiling and missing neighbours always draw.
func ShouldDraw(src Source, nb Neighbors, x, y, z int, f registry.BlockFace) bool {
	other, ok := neighbour(src, nb, x, y, z, f)
	if !ok {
		return true
	}
	if registry.IsOpaque(src.BlockAt(x, y, z)) {
		return !registry.IsOpaque(other)
	}
	return other == registry.BlockEmpty
}

func (b *builder) addFace(pos mgl32.Vec3, corners [4]mgl32.Vec3, t registry.BlockType, f registry.BlockFace) {
	var p [4]mgl32.Vec3
	for i := range corners {
		p[i] = pos.Add(corners[i])
	}
	normal := p[0].Sub(p[1]).Cross(p[0].Sub(p[2])).Normalize()

	buf := &b.mesh.Transparent
	if registry.IsOpaque(t) {
		buf = &b.mesh.Opaque
	}
	def := registry.Get(t)
	base := uint32(buf.VertexCount())
	for i := 0; i < 4; i++ {
		u, v := faceUV(def, f, i)
		buf.Vertices = append(buf.Vertices,
			p[i].X(), p[i].Y(), p[i].Z(), 1,
			normal.X(), normal.Y(), normal.Z(), 0,
			0, 0, 0, 0,
			u, v, def.Shade, def.Animated,
		)
	}
	buf.Indices = append(buf.Indices, base, base+1, base+2, base, base+2, base+3)
}

const (
	tileInset = 0.98
	atlasSize = 16
)

// faceUV returns the atlas coordinate of corner i. Liquid side faces are
// rotated so the shader can scroll them downwards.
func faceUV(def *registry.BlockDefinition, f registry.BlockFace, i int) (float32, float32) {
	tile := def.TileFor(f)
	x, y := tile.X, tile.Y
	if (def.ID == registry.BlockLava || def.ID == registry.BlockWater) && f != registry.FaceTop && f != registry.FaceBottom {
		switch i {
		case 0:
			y += tileInset
		case 2:
			x += tileInset
		case 3:
			x += tileInset
			y += tileInset
		}
	} else {
		if i == 1 || i == 2 {
			x += tileInset
		}
		if i == 2 || i == 3 {
			y += tileInset
		}
	}
	return x / atlasSize, y / atlasSize
}
