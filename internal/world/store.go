package world

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"riverworld/internal/biome"
	"riverworld/internal/meshing"
	"riverworld/internal/physics"
	"riverworld/internal/profiling"
	"riverworld/internal/registry"
	"riverworld/internal/spatial"
	"riverworld/internal/weather"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	borderReach = 80
	borderGrid  = 9

	weatherY = 128
)

// Lightning hangs over a fixed spot once exploration passes this z.
const (
	lightningX     = -32
	lightningZ     = 256
	lightningAfter = 128
)

// Options configures a Store.
type Options struct {
	Generator   *Generator
	Logger      *slog.Logger
	WeatherSeed int64
	// BorderReach is the Manhattan radius scanned by CheckBorder.
	BorderReach int
}

// Store owns every generated chunk and the weather layered over them.
// Chunks are linked only through their keys.
type Store struct {
	mu     sync.RWMutex
	chunks map[int64]*Chunk

	gen     *Generator
	weather *weather.Registry
	log     *slog.Logger
	reach   int
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	if opts.Generator == nil {
		opts.Generator = NewGenerator(biome.NewClassifier(nil), DefaultAssetParams())
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.BorderReach <= 0 {
		opts.BorderReach = borderReach
	}
	return &Store{
		chunks:  make(map[int64]*Chunk),
		gen:     opts.Generator,
		weather: weather.NewRegistry(opts.WeatherSeed),
		log:     opts.Logger,
		reach:   opts.BorderReach,
	}
}

func (s *Store) Generator() *Generator         { return s.gen }
func (s *Store) Weather() *weather.Registry    { return s.weather }
func (s *Store) Classifier() *biome.Classifier { return s.gen.Classifier() }

func (s *Store) lookup(x, z int) *Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks[Key(AlignToChunk(x), AlignToChunk(z))]
}

// GetBlockAt returns Empty for missing chunks and out of range heights.
func (s *Store) GetBlockAt(x, y, z int) registry.BlockType {
	if y < 0 || y >= ChunkSizeY {
		return registry.BlockEmpty
	}
	c := s.lookup(x, z)
	if c == nil {
		return registry.BlockEmpty
	}
	return c.GetBlock(x-c.X, y, z-c.Z)
}

// SetBlockAt writes into an existing chunk and marks its mesh stale, along
// with the neighbour that shares the edited face. Writes to missing chunks
// are dropped.
func (s *Store) SetBlockAt(x, y, z int, t registry.BlockType) {
	if y < 0 || y >= ChunkSizeY {
		return
	}
	c := s.lookup(x, z)
	if c == nil {
		return
	}
	lx, lz := x-c.X, z-c.Z
	if !c.SetBlock(lx, y, lz, t) {
		return
	}
	switch lx {
	case 0:
		s.markStale(c.X-ChunkSizeX, c.Z)
	case ChunkSizeX - 1:
		s.markStale(c.X+ChunkSizeX, c.Z)
	}
	switch lz {
	case 0:
		s.markStale(c.X, c.Z-ChunkSizeZ)
	case ChunkSizeZ - 1:
		s.markStale(c.X, c.Z+ChunkSizeZ)
	}
}

func (s *Store) markStale(x, z int) {
	if nb := s.lookup(x, z); nb != nil {
		nb.MarkStale()
	}
}

// HasChunk reports whether (x, y, z) lies in a generated chunk.
func (s *Store) HasChunk(x, z, y int) bool {
	return s.GetChunk(x, z, y) != nil
}

// GetChunk returns the chunk containing (x, y, z), or nil.
func (s *Store) GetChunk(x, z, y int) *Chunk {
	if y < 0 || y >= ChunkSizeY {
		return nil
	}
	return s.lookup(x, z)
}

// Chunk returns the chunk stored under key, or nil.
func (s *Store) Chunk(key int64) *Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks[key]
}

// Neighbors returns the four lateral neighbours of c, nil where missing.
func (s *Store) Neighbors(c *Chunk) (left, right, front, back *Chunk) {
	return s.lookup(c.X-ChunkSizeX, c.Z),
		s.lookup(c.X+ChunkSizeX, c.Z),
		s.lookup(c.X, c.Z+ChunkSizeZ),
		s.lookup(c.X, c.Z-ChunkSizeZ)
}

// InsertChunk adds c unless its key is taken. Existing neighbours are
// marked stale since their boundary faces may now be hidden.
func (s *Store) InsertChunk(c *Chunk) bool {
	s.mu.Lock()
	if _, ok := s.chunks[c.Key()]; ok {
		s.mu.Unlock()
		return false
	}
	s.chunks[c.Key()] = c
	s.mu.Unlock()

	l, r, f, b := s.Neighbors(c)
	for _, nb := range []*Chunk{l, r, f, b} {
		if nb != nil {
			nb.MarkStale()
		}
	}
	return true
}

// createChunk inserts an empty chunk at the column (x, z) if none exists.
func (s *Store) createChunk(x, z int) *Chunk {
	c := NewChunk(x, z)
	if !s.InsertChunk(c) {
		return s.lookup(x, z)
	}
	return c
}

// Len returns the number of chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Chunks returns every chunk ordered by key.
func (s *Store) Chunks() []*Chunk {
	s.mu.RLock()
	out := make([]*Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// CheckBorder scans the 9x9 chunk grid centred on (x, z), x outer and z
// inner, and returns the first missing chunk within Manhattan distance of
// the configured reach.
func (s *Store) CheckBorder(x, z int) (spatial.Rect, bool) {
	defer profiling.Track("world.CheckBorder")()
	half := (borderGrid / 2) * ChunkSizeX
	for i := 0; i < borderGrid*borderGrid; i++ {
		xi := x + (i/borderGrid)*ChunkSizeX - half
		zi := z + (i%borderGrid)*ChunkSizeZ - half
		if abs(xi-x)+abs(zi-z) > s.reach {
			continue
		}
		if s.lookup(xi, zi) == nil {
			return spatial.Rect16(xi, zi), true
		}
	}
	return spatial.Rect{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Explored reports whether any chunk inside r exists.
func (s *Store) Explored(r spatial.Rect) bool {
	for x := AlignToChunk(r.XMin); x <= r.XMax; x += ChunkSizeX {
		for z := AlignToChunk(r.ZMin); z <= r.ZMax; z += ChunkSizeZ {
			if s.lookup(x, z) != nil {
				return true
			}
		}
	}
	return false
}

// ExploredDomain reports whether any region of d other than ignore holds
// a chunk.
func (s *Store) ExploredDomain(d *spatial.Domain, ignore spatial.Rect) bool {
	skip := spatial.Rect64(ignore.XMin, ignore.ZMin)
	for _, r := range d.Rects() {
		if r == skip {
			continue
		}
		if s.Explored(r) {
			return true
		}
	}
	return false
}

// BuildChunk creates the chunk at (x0, z0) if needed and synthesises its
// base terrain in place.
func (s *Store) BuildChunk(x0, z0 int) *Chunk {
	c := s.createChunk(x0, z0)
	s.gen.BuildChunk(s, c.X, c.Z)
	return c
}

// WaterErode carves a column of the live world.
func (s *Store) WaterErode(x, z, restY int) {
	s.gen.WaterErode(s, x, z, restY)
}

// PlaceAssets decorates scope in the live world.
func (s *Store) PlaceAssets(scope spatial.Rect) {
	s.gen.PlaceAssets(s, scope)
}

// CreateCloud places the cloud of the region whose origin chunk is (x, z).
func (s *Store) CreateCloud(x, z int) {
	s.gen.CreateCloud(s, x, z)
}

// UpdateHeight records a column rest height on the chunk and, where it
// rains, on the rain patch.
func (s *Store) UpdateHeight(x, z, h int) {
	c := s.lookup(x, z)
	if c == nil {
		return
	}
	c.setHeight(x-c.X, z-c.Z, h)
	if rain := s.weather.Rain(c.Key()); rain != nil {
		rain.SetHeight(x-c.X, z-c.Z, float32(h))
	}
}

// BuildWeather creates the effects that belong over the chunk at (x, z).
func (s *Store) BuildWeather(x, z int) {
	x, z = AlignToChunk(x), AlignToChunk(z)
	key := Key(x, z)
	cls := s.Classifier()
	switch {
	case cls.CanRain(x+ChunkSizeX/2, z+ChunkSizeZ/2):
		rain, created := s.weather.AddRain(key, x, weatherY, z, weather.RainColor)
		if created {
			if c := s.Chunk(key); c != nil {
				for lx := 0; lx < ChunkSizeX; lx++ {
					for lz := 0; lz < ChunkSizeZ; lz++ {
						rain.SetHeight(lx, lz, float32(c.Height(lx, lz)))
					}
				}
			}
			rain.Rebuild()
		}
	case cls.CanSnow(x+ChunkSizeX/2, z+ChunkSizeZ/2):
		if snow, created := s.weather.AddSnow(key, x, weatherY, z); created {
			snow.Rebuild()
		}
	}
	if z >= lightningAfter {
		if l, created := s.weather.AddLightning(Key(lightningX, lightningZ), lightningX, 0, lightningZ); created {
			l.Rebuild()
			s.log.Info("lightning spawned", "x", lightningX, "z", lightningZ)
		}
	}
}

// UpdateWeather refreshes the rain landing height of one column.
func (s *Store) UpdateWeather(x, y, z int) {
	if !s.Classifier().CanRain(x, z) {
		return
	}
	s.UpdateHeight(x, z, y)
	if rain := s.weather.Rain(Key(AlignToChunk(x), AlignToChunk(z))); rain != nil {
		rain.Rebuild()
	}
}

// MeshNeighbors resolves the meshing neighbours of c against the store.
func (s *Store) MeshNeighbors(c *Chunk) meshing.Neighbors {
	var nb meshing.Neighbors
	l, r, f, b := s.Neighbors(c)
	if l != nil {
		nb.Left = l
	}
	if r != nil {
		nb.Right = r
	}
	if f != nil {
		nb.Front = f
	}
	if b != nil {
		nb.Back = b
	}
	return nb
}

// PopulateMesh builds the payload of c without installing it.
func (s *Store) PopulateMesh(c *Chunk) *meshing.ChunkMesh {
	blocks, _ := c.Snapshot()
	return meshing.Build(c.X, c.Z, blocks, s.MeshNeighbors(c))
}

// RebuildMesh rebuilds the chunk under key. Unknown keys are ignored.
func (s *Store) RebuildMesh(key int64) {
	c := s.Chunk(key)
	if c == nil {
		return
	}
	c.SetMesh(s.PopulateMesh(c))
}

// RebuildWithNeighbors rebuilds the chunk under key and its four
// neighbours, whose boundary faces depend on it.
func (s *Store) RebuildWithNeighbors(key int64) {
	c := s.Chunk(key)
	if c == nil {
		return
	}
	s.RebuildMesh(key)
	l, r, f, b := s.Neighbors(c)
	for _, nb := range []*Chunk{l, r, f, b} {
		if nb != nil {
			s.RebuildMesh(nb.Key())
		}
	}
}

// RebuildStale rebuilds every chunk whose mesh lags behind its blocks and
// returns how many were rebuilt.
func (s *Store) RebuildStale() int {
	n := 0
	for _, c := range s.Chunks() {
		if c.IsStale() {
			c.SetMesh(s.PopulateMesh(c))
			n++
		}
	}
	return n
}

// RebuildStaleWith is RebuildStale with the meshing spread over pool. It
// returns how many meshes were installed.
func (s *Store) RebuildStaleWith(pool *meshing.WorkerPool) int {
	var stale []*Chunk
	var jobs []meshing.MeshJob
	for _, c := range s.Chunks() {
		if !c.IsStale() {
			continue
		}
		blocks, _ := c.Snapshot()
		stale = append(stale, c)
		jobs = append(jobs, meshing.MeshJob{
			Key:       c.Key(),
			OriginX:   c.X,
			OriginZ:   c.Z,
			Source:    blocks,
			Neighbors: s.MeshNeighbors(c),
		})
	}
	results, err := pool.BuildAll(jobs)
	if err != nil {
		s.log.Warn("mesh batch incomplete", "jobs", len(jobs), "error", err)
	}
	n := 0
	for i, res := range results {
		// failed jobs stay stale for the next rebuild
		if res.Mesh == nil {
			continue
		}
		stale[i].SetMesh(res.Mesh)
		n++
	}
	return n
}

// ClickResult describes the outcome of PlayerClick.
type ClickResult struct {
	physics.RaycastResult
	// Changed is the cell that was written, if any.
	Changed  [3]int
	Modified bool
}

// PlayerClick casts a ray from origin. Removing clears the struck block;
// adding places lava in front of it unless the hit is within arm's reach.
// Affected meshes and weather are rebuilt.
func (s *Store) PlayerClick(origin, dir mgl32.Vec3, add bool) ClickResult {
	defer profiling.Track("world.PlayerClick")()
	hit := physics.Raycast(origin, dir, physics.MaxReachDistance, s)
	res := ClickResult{RaycastResult: hit}
	if !hit.Hit {
		return res
	}
	// weather is refreshed over the cell the ray came from
	back := hit.AdjacentPosition
	var cell [3]int
	rest := back[1]
	if add {
		if hit.Distance <= physics.MinPlaceDistance {
			return res
		}
		cell = back
		s.SetBlockAt(cell[0], cell[1], cell[2], registry.BlockLava)
	} else {
		cell = hit.HitPosition
		s.SetBlockAt(cell[0], cell[1], cell[2], registry.BlockEmpty)
		rest--
	}
	res.Changed = cell
	res.Modified = true
	s.UpdateWeather(back[0], rest, back[2])
	s.RebuildWithNeighbors(Key(AlignToChunk(cell[0]), AlignToChunk(cell[2])))
	s.log.Debug("block edited", "x", cell[0], "y", cell[1], "z", cell[2], "add", add)
	return res
}
