package world

import (
	"sync"

	"riverworld/internal/meshing"
	"riverworld/internal/registry"
	"riverworld/internal/spatial"
)

const (
	// Chunk dimensions
	ChunkSizeX = 16
	ChunkSizeY = 256
	ChunkSizeZ = 16

	ChunkVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ
	columnCount = ChunkSizeX * ChunkSizeZ
)

// Key packs a chunk origin into a map key.
func Key(x, z int) int64 {
	return int64(x)<<32 + int64(z)
}

// Origin unpacks a key produced by Key.
func Origin(key int64) (int, int) {
	z := int64(int32(key))
	return int((key - z) >> 32), int(z)
}

// AlignToChunk floors a world coordinate to its chunk origin.
func AlignToChunk(v int) int {
	return v & -ChunkSizeX
}

func blockIndex(x, y, z int) int {
	return x + y*ChunkSizeX + z*ChunkSizeX*ChunkSizeY
}

// Blocks is a detached copy of a chunk's block array. It implements
// meshing.Source without locking.
type Blocks [ChunkVolume]registry.BlockType

func (b *Blocks) BlockAt(x, y, z int) registry.BlockType {
	return b[blockIndex(x, y, z)]
}

// Chunk represents a 16x256x16 column of the world
type Chunk struct {
	X, Z int

	mu     sync.RWMutex
	blocks Blocks
	// rest heights per column, -1 where the column ends in liquid
	heights [columnCount]int
	edits   uint64

	mesh         *meshing.ChunkMesh
	meshRevision uint64
	stale        bool
}

// NewChunk creates an empty chunk containing the world column (x, z).
func NewChunk(x, z int) *Chunk {
	c := &Chunk{X: AlignToChunk(x), Z: AlignToChunk(z), stale: true}
	for i := range c.heights {
		c.heights[i] = -1
	}
	return c
}

func (c *Chunk) Key() int64 { return Key(c.X, c.Z) }

// Rect is the chunk footprint on the xz plane.
func (c *Chunk) Rect() spatial.Rect { return spatial.Rect16(c.X, c.Z) }

func inChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX && y >= 0 && y < ChunkSizeY && z >= 0 && z < ChunkSizeZ
}

// GetBlock returns the block type at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) registry.BlockType {
	if !inChunk(x, y, z) {
		return registry.BlockEmpty
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[blockIndex(x, y, z)]
}

// BlockAt is GetBlock under the meshing.Source name.
func (c *Chunk) BlockAt(x, y, z int) registry.BlockType {
	return c.GetBlock(x, y, z)
}

// SetBlock stores t at local coordinates and reports whether anything changed.
func (c *Chunk) SetBlock(x, y, z int, t registry.BlockType) bool {
	if !inChunk(x, y, z) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := blockIndex(x, y, z)
	if c.blocks[i] == t {
		return false
	}
	c.blocks[i] = t
	c.edits++
	c.stale = true
	return true
}

// Snapshot copies the block array under the read lock. The returned edit
// counter lets a caller detect writes made after the copy.
func (c *Chunk) Snapshot() (*Blocks, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b := c.blocks
	return &b, c.edits
}

// Edits counts block mutations since creation.
func (c *Chunk) Edits() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.edits
}

// Height returns the recorded rest height of a local column.
func (c *Chunk) Height(lx, lz int) int {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ {
		return -1
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.heights[lx+lz*ChunkSizeX]
}

func (c *Chunk) setHeight(lx, lz, h int) {
	if lx < 0 || lx >= ChunkSizeX || lz < 0 || lz >= ChunkSizeZ {
		return
	}
	c.mu.Lock()
	c.heights[lx+lz*ChunkSizeX] = h
	c.mu.Unlock()
}

// Mesh returns the last geometry payload applied to the chunk.
func (c *Chunk) Mesh() *meshing.ChunkMesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mesh
}

// MeshRevision increases every time SetMesh is called.
func (c *Chunk) MeshRevision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meshRevision
}

// SetMesh installs a payload and clears the stale flag.
func (c *Chunk) SetMesh(m *meshing.ChunkMesh) {
	c.mu.Lock()
	c.mesh = m
	c.meshRevision++
	c.stale = false
	c.mu.Unlock()
}

// IsStale reports whether the mesh lags behind the blocks.
func (c *Chunk) IsStale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// MarkStale forces a rebuild on the next mesh pass.
func (c *Chunk) MarkStale() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}
