package meshing

import (
	"testing"

	"riverworld/internal/registry"
)

type grid [SizeX * SizeY * SizeZ]registry.BlockType

func (g *grid) BlockAt(x, y, z int) registry.BlockType { return g[x+y*SizeX+z*SizeX*SizeY] }
func (g *grid) set(x, y, z int, t registry.BlockType)  { g[x+y*SizeX+z*SizeX*SizeY] = t }

func stoneBelow(height int) *grid {
	g := &grid{}
	for x := 0; x < SizeX; x++ {
		for z := 0; z < SizeZ; z++ {
			for y := 0; y < height; y++ {
				g.set(x, y, z, registry.BlockStone)
			}
		}
	}
	return g
}

func TestSingleBlockMesh(t *testing.T) {
	g := &grid{}
	g.set(3, 4, 5, registry.BlockStone)
	m := Build(32, 48, g, Neighbors{})

	if got := m.Opaque.FaceCount(); got != 6 {
		t.Fatalf("single block: got %d faces, want 6", got)
	}
	if got := m.Opaque.VertexCount(); got != 24 {
		t.Fatalf("single block: got %d vertices, want 24", got)
	}
	if len(m.Transparent.Vertices) != 0 {
		t.Fatalf("stone must not produce transparent geometry")
	}

	v := m.Opaque.Vertices[:VertexStride]
	want := []float32{
		35, 4, 53, 1,
		-1, 0, 0, 0,
		0, 0, 0, 0,
		1.01 / 16, 15.01 / 16, 3, 0,
	}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("first vertex attribute %d = %v, want %v (vertex %v)", i, v[i], want[i], v)
		}
	}

	idx := m.Opaque.Indices[:6]
	for i, w := range []uint32{0, 1, 2, 0, 2, 3} {
		if idx[i] != w {
			t.Fatalf("indices %v", idx)
		}
	}
	if m.Opaque.Indices[len(m.Opaque.Indices)-1] != 23 {
		t.Fatalf("last index should reference the last vertex, got %d", m.Opaque.Indices[len(m.Opaque.Indices)-1])
	}
}

// TestFaceNormalsPointOutward checks every cube face normal against its direction
func TestFaceNormalsPointOutward(t *testing.T) {
	g := &grid{}
	g.set(8, 100, 8, registry.BlockDirt)
	m := Build(0, 0, g, Neighbors{})

	want := [][3]float32{
		{-1, 0, 0}, {1, 0, 0}, {0, 0, 1}, {0, 0, -1}, {0, 1, 0}, {0, -1, 0},
	}
	for face, n := range want {
		off := face * 4 * VertexStride
		got := [3]float32{m.Opaque.Vertices[off+4], m.Opaque.Vertices[off+5], m.Opaque.Vertices[off+6]}
		if got != n {
			t.Errorf("%v normal = %v, want %v", registry.BlockFace(face), got, n)
		}
	}
}

// TestExposedGrassOnStone meshes a stone slab with one grass block on top
func TestExposedGrassOnStone(t *testing.T) {
	g := stoneBelow(10)
	g.set(5, 10, 5, registry.BlockGrass)

	full := stoneBelow(10)
	withNeighbours := Build(0, 0, g, Neighbors{Left: full, Right: full, Front: full, Back: full})
	// 255 stone tops, 256 bottoms at y=0, 5 grass faces
	if got := withNeighbours.Opaque.FaceCount(); got != 255+256+5 {
		t.Fatalf("with neighbours: got %d faces, want %d", got, 255+256+5)
	}

	alone := Build(0, 0, g, Neighbors{})
	// missing neighbours expose the 4 outer walls of 16x10 stone
	if got := alone.Opaque.FaceCount(); got != 255+256+5+4*16*10 {
		t.Fatalf("without neighbours: got %d faces, want %d", got, 255+256+5+4*16*10)
	}

	grassFaces := 0
	for f := registry.FaceLeft; f <= registry.FaceBottom; f++ {
		if ShouldDraw(g, Neighbors{}, 5, 10, 5, f) {
			grassFaces++
		}
	}
	if grassFaces != 5 {
		t.Fatalf("grass block: %d visible faces, want 5", grassFaces)
	}
	if ShouldDraw(g, Neighbors{}, 5, 10, 5, registry.FaceBottom) {
		t.Fatalf("grass bottom sits on stone and must be culled")
	}
}

func TestTransparentPass(t *testing.T) {
	g := &grid{}
	g.set(1, 1, 1, registry.BlockWater)
	g.set(2, 1, 1, registry.BlockWater)
	m := Build(0, 0, g, Neighbors{})
	if m.Opaque.FaceCount() != 0 {
		t.Fatalf("water must not enter the opaque pass")
	}
	// the shared face between two water blocks is hidden on both sides
	if got := m.Transparent.FaceCount(); got != 10 {
		t.Fatalf("two water blocks: got %d faces, want 10", got)
	}
}

func TestOpaqueFaceAgainstLiquid(t *testing.T) {
	g := &grid{}
	g.set(4, 4, 4, registry.BlockStone)
	g.set(5, 4, 4, registry.BlockWater)
	m := Build(0, 0, g, Neighbors{})
	if got := m.Opaque.FaceCount(); got != 6 {
		t.Fatalf("stone next to water shows all faces, got %d", got)
	}
	if got := m.Transparent.FaceCount(); got != 5 {
		t.Fatalf("water next to stone hides its shared face, got %d", got)
	}
}

func TestCrossBlockPlanes(t *testing.T) {
	g := stoneBelow(1)
	g.set(7, 1, 7, registry.BlockRedFlower)
	m := Build(0, 0, g, Neighbors{})
	if got := m.Transparent.FaceCount(); got != 4 {
		t.Fatalf("flower should emit 4 planes, got %d", got)
	}
	// decal does not hide the stone below
	if !ShouldDraw(g, Neighbors{}, 7, 0, 7, registry.FaceTop) {
		t.Fatalf("stone under a flower keeps its top face")
	}
}

func TestWorldFloorAndCeiling(t *testing.T) {
	g := &grid{}
	g.set(0, 0, 0, registry.BlockStone)
	g.set(0, SizeY-1, 0, registry.BlockStone)
	if !ShouldDraw(g, Neighbors{}, 0, 0, 0, registry.FaceBottom) {
		t.Error("y=0 bottom face always draws")
	}
	if !ShouldDraw(g, Neighbors{}, 0, SizeY-1, 0, registry.FaceTop) {
		t.Error("y=255 top face always draws")
	}
}

// TestSharedBoundaryDrawnOnce pairs every cube block kind across a chunk seam
func TestSharedBoundaryDrawnOnce(t *testing.T) {
	var kinds []registry.BlockType
	for _, name := range registry.Names() {
		b, _ := registry.ByName(name)
		if b == registry.BlockEmpty || registry.IsCross(b) {
			continue
		}
		kinds = append(kinds, b)
	}
	for _, a := range kinds {
		for _, b := range kinds {
			left, right := &grid{}, &grid{}
			left.set(SizeX-1, 50, 3, a)
			right.set(0, 50, 3, b)

			n := 0
			if ShouldDraw(left, Neighbors{Right: right}, SizeX-1, 50, 3, registry.FaceRight) {
				n++
			}
			if ShouldDraw(right, Neighbors{Left: left}, 0, 50, 3, registry.FaceLeft) {
				n++
			}
			if n > 1 {
				t.Errorf("%v|%v seam drawn %d times", a, b, n)
			}
		}
	}
}

func TestLiquidSideUV(t *testing.T) {
	def := registry.Get(registry.BlockWater)
	lo := [2]float32{14.01, 3.01}
	hi := lo
	hi[0] += tileInset
	hi[1] += tileInset

	u0, v0 := faceUV(def, registry.FaceLeft, 0)
	u1, v1 := faceUV(def, registry.FaceLeft, 1)
	if u0 != lo[0]/16 || v0 != hi[1]/16 {
		t.Errorf("water side corner 0 = %v,%v", u0, v0)
	}
	if u1 != lo[0]/16 || v1 != lo[1]/16 {
		t.Errorf("water side corner 1 = %v,%v", u1, v1)
	}
	u2, v2 := faceUV(def, registry.FaceTop, 2)
	if u2 != hi[0]/16 || v2 != hi[1]/16 {
		t.Errorf("water top corner 2 = %v,%v", u2, v2)
	}
}

func BenchmarkBuildTerrainChunk(b *testing.B) {
	g := stoneBelow(128)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(0, 0, g, Neighbors{})
	}
}
