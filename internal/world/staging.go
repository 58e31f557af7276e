package world

import (
	"riverworld/internal/meshing"
	"riverworld/internal/profiling"
	"riverworld/internal/registry"
	"riverworld/internal/spatial"
)

// Staging is a detached chunk generated off the render thread. Reads
// outside the chunk fall through to the live store, writes outside it are
// dropped, so a job never mutates shared chunks.
type Staging struct {
	store *Store
	chunk *Chunk
}

// NewStaging prepares an empty chunk for the column (x, z).
func (s *Store) NewStaging(x, z int) *Staging {
	return &Staging{store: s, chunk: NewChunk(x, z)}
}

func (st *Staging) Chunk() *Chunk      { return st.chunk }
func (st *Staging) Rect() spatial.Rect { return st.chunk.Rect() }

func (st *Staging) owns(x, z int) bool {
	return AlignToChunk(x) == st.chunk.X && AlignToChunk(z) == st.chunk.Z
}

func (st *Staging) GetBlockAt(x, y, z int) registry.BlockType {
	if st.owns(x, z) {
		return st.chunk.GetBlock(x-st.chunk.X, y, z-st.chunk.Z)
	}
	return st.store.GetBlockAt(x, y, z)
}

func (st *Staging) SetBlockAt(x, y, z int, t registry.BlockType) {
	if st.owns(x, z) {
		st.chunk.SetBlock(x-st.chunk.X, y, z-st.chunk.Z, t)
	}
}

func (st *Staging) UpdateHeight(x, z, h int) {
	if st.owns(x, z) {
		st.chunk.setHeight(x-st.chunk.X, z-st.chunk.Z, h)
	}
}

// Build synthesises the base terrain of the staged chunk.
func (st *Staging) Build() {
	st.store.gen.BuildChunk(st, st.chunk.X, st.chunk.Z)
}

// WaterErode carves a column of the staged chunk.
func (st *Staging) WaterErode(x, z, restY int) {
	st.store.gen.WaterErode(st, x, z, restY)
}

// PlaceAssets decorates the staged chunk.
func (st *Staging) PlaceAssets() {
	st.store.gen.PlaceAssets(st, st.Rect())
}

// Explored ignores the staged chunk, which is not part of the world yet.
func (st *Staging) Explored(r spatial.Rect) bool {
	return st.store.Explored(r)
}

// NeighborMesh is a rebuilt mesh for an existing chunk next to a staged one.
type NeighborMesh struct {
	Key  int64
	Mesh *meshing.ChunkMesh
	// Edits is the neighbour's edit counter when its blocks were copied.
	Edits uint64
}

// Payload is the geometry produced for a staged chunk and the neighbours
// whose boundary faces it changes.
type Payload struct {
	Target    *meshing.ChunkMesh
	Neighbors []NeighborMesh
}

// Triangles counts every triangle in the payload.
func (p *Payload) Triangles() int {
	if p == nil || p.Target == nil {
		return 0
	}
	n := p.Target.Opaque.TriangleCount() + p.Target.Transparent.TriangleCount()
	for _, nb := range p.Neighbors {
		n += nb.Mesh.Opaque.TriangleCount() + nb.Mesh.Transparent.TriangleCount()
	}
	return n
}

// Mesh builds the payload of the staged chunk against snapshots of the
// live neighbours.
func (st *Staging) Mesh() *Payload {
	defer profiling.Track("world.StagingMesh")()
	c := st.chunk
	self, _ := c.Snapshot()

	type side struct {
		dx, dz int
		chunk  *Chunk
		blocks *Blocks
		edits  uint64
	}
	sides := []side{{dx: -ChunkSizeX}, {dx: ChunkSizeX}, {dz: ChunkSizeZ}, {dz: -ChunkSizeZ}}
	for i := range sides {
		sides[i].chunk = st.store.lookup(c.X+sides[i].dx, c.Z+sides[i].dz)
		if sides[i].chunk != nil {
			sides[i].blocks, sides[i].edits = sides[i].chunk.Snapshot()
		}
	}

	var nb meshing.Neighbors
	slots := []*meshing.Source{&nb.Left, &nb.Right, &nb.Front, &nb.Back}
	for i, sd := range sides {
		if sd.blocks != nil {
			*slots[i] = sd.blocks
		}
	}
	p := &Payload{Target: meshing.Build(c.X, c.Z, self, nb)}

	for i, sd := range sides {
		if sd.chunk == nil {
			continue
		}
		around := st.store.MeshNeighbors(sd.chunk)
		// the staged chunk sits on the opposite side of the neighbour
		switch i {
		case 0:
			around.Right = self
		case 1:
			around.Left = self
		case 2:
			around.Back = self
		case 3:
			around.Front = self
		}
		p.Neighbors = append(p.Neighbors, NeighborMesh{
			Key:   sd.chunk.Key(),
			Mesh:  meshing.Build(sd.chunk.X, sd.chunk.Z, sd.blocks, around),
			Edits: sd.edits,
		})
	}
	return p
}

// Commit inserts the staged chunk, installs the payload and spawns its
// weather. Neighbours edited after the payload was built are rebuilt
// instead. It reports false when the chunk already exists.
func (s *Store) Commit(st *Staging, p *Payload) bool {
	defer profiling.Track("world.Commit")()
	c := st.chunk
	if !s.InsertChunk(c) {
		return false
	}
	fresh := true
	for _, nm := range p.Neighbors {
		nb := s.Chunk(nm.Key)
		if nb == nil {
			continue
		}
		if nb.Edits() != nm.Edits {
			fresh = false
			s.RebuildMesh(nm.Key)
			continue
		}
		nb.SetMesh(nm.Mesh)
	}
	if fresh && p.Target != nil {
		c.SetMesh(p.Target)
	} else {
		s.RebuildMesh(c.Key())
	}
	s.BuildWeather(c.X, c.Z)
	s.log.Debug("chunk committed", "x", c.X, "z", c.Z, "neighbors", len(p.Neighbors))
	return true
}
