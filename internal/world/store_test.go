package world

import (
	"crypto/sha256"
	"testing"

	"riverworld/internal/lsystem"
	"riverworld/internal/registry"
	"riverworld/internal/spatial"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashChunkBlocks computes a SHA-256 hash of all blocks in a chunk
func hashChunkBlocks(c *Chunk) [32]byte {
	h := sha256.New()
	for ly := 0; ly < ChunkSizeY; ly++ {
		for lx := 0; lx < ChunkSizeX; lx++ {
			for lz := 0; lz < ChunkSizeZ; lz++ {
				b := c.GetBlock(lx, ly, lz)
				h.Write([]byte{byte(b), byte(b >> 8)})
			}
		}
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

func TestKeyOrigin(t *testing.T) {
	for _, p := range [][2]int{{0, 0}, {-16, 32}, {16, -32}, {-4096, -8192}} {
		x, z := Origin(Key(p[0], p[1]))
		assert.Equal(t, p[0], x)
		assert.Equal(t, p[1], z)
	}
	assert.Equal(t, -16, AlignToChunk(-1))
	assert.Equal(t, 16, AlignToChunk(31))
}

func TestMissingChunk(t *testing.T) {
	s := NewStore(Options{})
	assert.Equal(t, registry.BlockEmpty, s.GetBlockAt(3, 70, 5))
	s.SetBlockAt(3, 70, 5, registry.BlockStone)
	assert.Equal(t, registry.BlockEmpty, s.GetBlockAt(3, 70, 5))
	assert.False(t, s.HasChunk(3, 5, 70))
	assert.Zero(t, s.Len())
}

func TestSetGetBlock(t *testing.T) {
	s := NewStore(Options{})
	s.createChunk(0, 0)
	s.createChunk(-16, -16)

	s.SetBlockAt(3, 70, 5, registry.BlockStone)
	assert.Equal(t, registry.BlockStone, s.GetBlockAt(3, 70, 5))

	s.SetBlockAt(-1, 10, -1, registry.BlockWater)
	assert.Equal(t, registry.BlockWater, s.GetBlockAt(-1, 10, -1))
	assert.Equal(t, registry.BlockWater, s.Chunk(Key(-16, -16)).GetBlock(15, 10, 15))

	// heights outside the column are ignored
	s.SetBlockAt(3, ChunkSizeY, 5, registry.BlockStone)
	s.SetBlockAt(3, -1, 5, registry.BlockStone)
	assert.Equal(t, registry.BlockEmpty, s.GetBlockAt(3, ChunkSizeY, 5))
	assert.Equal(t, registry.BlockEmpty, s.GetBlockAt(3, -1, 5))
	assert.False(t, s.HasChunk(3, 5, ChunkSizeY))
	assert.True(t, s.HasChunk(3, 5, 0))
}

func TestBorderEditMarksNeighbour(t *testing.T) {
	s := NewStore(Options{})
	a := s.createChunk(0, 0)
	b := s.createChunk(16, 0)
	a.SetMesh(nil)
	b.SetMesh(nil)

	s.SetBlockAt(7, 10, 7, registry.BlockStone)
	assert.True(t, a.IsStale())
	assert.False(t, b.IsStale(), "interior edits leave neighbours alone")

	a.SetMesh(nil)
	s.SetBlockAt(15, 10, 7, registry.BlockStone)
	assert.True(t, a.IsStale())
	assert.True(t, b.IsStale())
}

func TestInsertChunk(t *testing.T) {
	s := NewStore(Options{})
	a := NewChunk(0, 0)
	require.True(t, s.InsertChunk(a))
	a.SetMesh(nil)

	require.True(t, s.InsertChunk(NewChunk(16, 0)))
	assert.True(t, a.IsStale(), "a new neighbour exposes boundary faces")
	assert.False(t, s.InsertChunk(NewChunk(5, 5)), "key already taken")
	assert.Equal(t, 2, s.Len())

	l, r, f, b := s.Neighbors(a)
	assert.Nil(t, l)
	assert.NotNil(t, r)
	assert.Nil(t, f)
	assert.Nil(t, b)

	keys := []int64{}
	for _, c := range s.Chunks() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []int64{Key(0, 0), Key(16, 0)}, keys)
}

func TestCheckBorder(t *testing.T) {
	s := NewStore(Options{})
	r, ok := s.CheckBorder(8, 8)
	require.True(t, ok)
	// x outer, z inner: the first cell within reach is (-56, -8)
	assert.Equal(t, spatial.Rect16(-64, -16), r)

	for x := -64; x <= 64; x += 16 {
		for z := -64; z <= 64; z += 16 {
			s.createChunk(x, z)
		}
	}
	_, ok = s.CheckBorder(8, 8)
	assert.False(t, ok)

	near := NewStore(Options{BorderReach: 16})
	r, ok = near.CheckBorder(8, 8)
	require.True(t, ok)
	assert.Equal(t, spatial.Rect16(-8, 8), r)
}

func TestExplored(t *testing.T) {
	s := NewStore(Options{})
	s.createChunk(80, 16)
	assert.True(t, s.Explored(spatial.Rect64(64, 0)))
	assert.False(t, s.Explored(spatial.Rect64(0, 0)))

	d := spatial.NewDomain()
	d.Add64(spatial.Rect64(0, 0))
	d.Add64(spatial.Rect64(64, 0))
	assert.False(t, s.ExploredDomain(d, spatial.Rect64(64, 0)))
	assert.True(t, s.ExploredDomain(d, spatial.Rect64(0, 0)))
}

func TestBuildChunkDeterministic(t *testing.T) {
	a := NewStore(Options{})
	b := NewStore(Options{})
	ca := a.BuildChunk(32, 16)
	cb := b.BuildChunk(32, 16)
	require.Equal(t, hashChunkBlocks(ca), hashChunkBlocks(cb))

	st := NewStore(Options{}).NewStaging(40, 20)
	st.Build()
	assert.Equal(t, hashChunkBlocks(ca), hashChunkBlocks(st.Chunk()), "staging matches live generation")
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			assert.Equal(t, ca.Height(lx, lz), st.Chunk().Height(lx, lz))
		}
	}
}

func countCloud(c *Chunk) int {
	n := 0
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			if c.GetBlock(lx, cloudHeight, lz) == registry.BlockCloud {
				n++
			}
		}
	}
	return n
}

func TestCloudPerRegion(t *testing.T) {
	s := NewStore(Options{})
	assert.GreaterOrEqual(t, countCloud(s.BuildChunk(0, 0)), 25)
	assert.Zero(t, countCloud(s.BuildChunk(16, 0)))
	assert.GreaterOrEqual(t, countCloud(s.BuildChunk(-64, 64)), 25)
}

func TestStagingWritesStayInside(t *testing.T) {
	s := NewStore(Options{})
	live := s.createChunk(16, 0)
	st := s.NewStaging(0, 0)

	st.SetBlockAt(16, 10, 3, registry.BlockStone)
	assert.Equal(t, registry.BlockEmpty, live.GetBlock(0, 10, 3))
	assert.Zero(t, live.Edits())

	live.SetBlock(0, 20, 3, registry.BlockSand)
	assert.Equal(t, registry.BlockSand, st.GetBlockAt(16, 20, 3), "reads fall through to the store")
	assert.False(t, st.Explored(st.Rect()), "the staged chunk is not explored yet")
}

func TestPlayerClick(t *testing.T) {
	s := NewStore(Options{})
	s.createChunk(0, 0)
	s.SetBlockAt(5, 100, 8, registry.BlockStone)
	from := mgl32.Vec3{2.5, 100.5, 8.5}
	east := mgl32.Vec3{1, 0, 0}

	res := s.PlayerClick(from, east, false)
	require.True(t, res.Hit)
	assert.True(t, res.Modified)
	assert.Equal(t, [3]int{5, 100, 8}, res.Changed)
	assert.InDelta(t, 2.5, res.Distance, 1e-4)
	assert.Equal(t, registry.BlockEmpty, s.GetBlockAt(5, 100, 8))
	assert.NotNil(t, s.Chunk(Key(0, 0)).Mesh())

	s.SetBlockAt(5, 100, 8, registry.BlockStone)
	res = s.PlayerClick(from, east, true)
	require.True(t, res.Modified)
	assert.Equal(t, [3]int{4, 100, 8}, res.Changed)
	assert.Equal(t, registry.BlockLava, s.GetBlockAt(4, 100, 8))

	// too close to place
	res = s.PlayerClick(mgl32.Vec3{2.5, 100.5, 8.5}, east, true)
	assert.True(t, res.Hit)
	assert.False(t, res.Modified)
	assert.Equal(t, registry.BlockEmpty, s.GetBlockAt(3, 100, 8))

	res = s.PlayerClick(from, mgl32.Vec3{0, 1, 0}, false)
	assert.False(t, res.Hit)
	assert.False(t, res.Modified)
}

// rainyColumn finds a column where rain falls whose east neighbour shares
// its chunk.
func rainyColumn(t *testing.T, s *Store) (int, int) {
	t.Helper()
	for z := -2048; z < 2048; z += 97 {
		for x := -2048; x < 2048; x += 3 {
			if AlignToChunk(x) == AlignToChunk(x+1) && s.Classifier().CanRain(x, z) {
				return x, z
			}
		}
	}
	t.Skip("no rain column in the search window")
	return 0, 0
}

func TestPlayerClickWeatherColumn(t *testing.T) {
	s := NewStore(Options{})
	x, z := rainyColumn(t, s)
	c := s.createChunk(x, z)
	lx, lz := x-c.X, z-c.Z
	s.SetBlockAt(x+1, 100, z, registry.BlockStone)
	from := mgl32.Vec3{float32(x) - 1.5, 100.5, float32(z) + 0.5}
	east := mgl32.Vec3{1, 0, 0}

	// removing lowers the rain over the cell the ray came from
	res := s.PlayerClick(from, east, false)
	require.True(t, res.Modified)
	assert.Equal(t, [3]int{x, 100, z}, res.AdjacentPosition)
	assert.Equal(t, 99, c.Height(lx, lz))

	s.SetBlockAt(x+1, 100, z, registry.BlockStone)
	res = s.PlayerClick(from, east, true)
	require.True(t, res.Modified)
	assert.Equal(t, [3]int{x, 100, z}, res.Changed)
	assert.Equal(t, 100, c.Height(lx, lz))
}

func TestCommit(t *testing.T) {
	s := NewStore(Options{})
	nb := s.createChunk(16, 0)
	nb.SetBlock(0, 10, 3, registry.BlockStone)
	nb.SetMesh(s.PopulateMesh(nb))

	st := s.NewStaging(0, 0)
	st.SetBlockAt(15, 10, 3, registry.BlockStone)
	p := st.Mesh()
	require.Len(t, p.Neighbors, 1)
	assert.Equal(t, Key(16, 0), p.Neighbors[0].Key)
	assert.Positive(t, p.Triangles())

	require.True(t, s.Commit(st, p))
	c := s.Chunk(Key(0, 0))
	require.NotNil(t, c)
	assert.Same(t, p.Target, c.Mesh())
	assert.Same(t, p.Neighbors[0].Mesh, nb.Mesh())
	assert.False(t, c.IsStale())
	assert.False(t, nb.IsStale())

	assert.False(t, s.Commit(s.NewStaging(0, 0), p), "chunk already present")
}

func TestCommitRebuildsEditedNeighbour(t *testing.T) {
	s := NewStore(Options{})
	nb := s.createChunk(16, 0)
	st := s.NewStaging(0, 0)
	st.SetBlockAt(15, 10, 3, registry.BlockStone)
	p := st.Mesh()

	// the neighbour changes while the payload is in flight
	s.SetBlockAt(16, 10, 3, registry.BlockStone)
	require.True(t, s.Commit(st, p))

	c := s.Chunk(Key(0, 0))
	assert.NotSame(t, p.Neighbors[0].Mesh, nb.Mesh())
	assert.NotSame(t, p.Target, c.Mesh())
	assert.NotNil(t, c.Mesh())
	assert.False(t, nb.IsStale())
}

func TestBootstrap(t *testing.T) {
	if testing.Short() {
		t.Skip("generates a full region")
	}
	s := NewStore(Options{})
	sys := lsystem.NewSystem(lsystem.DefaultParams(), nil)
	assert.Equal(t, 16, s.Bootstrap(sys))
	assert.Equal(t, 16, s.Len())
	for _, c := range s.Chunks() {
		assert.NotNil(t, c.Mesh())
		assert.False(t, c.IsStale())
	}
	assert.True(t, sys.Claimed().Has(spatial.Rect64(0, 0)))
	assert.Zero(t, s.Bootstrap(nil), "existing chunks are not recreated")
}
