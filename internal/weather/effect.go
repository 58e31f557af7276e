// Package weather builds the per-region rain, snow and lightning geometry.
// Effects are plain CPU buffers; the renderer watches Revision to decide
// when to upload again.
package weather

import (
	"sync"

	"riverworld/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// Size is the edge of the square an effect covers.
const Size = 16

type Kind uint8

const (
	KindRain Kind = iota
	KindSnow
	KindLightning
)

func (k Kind) String() string {
	switch k {
	case KindRain:
		return "rain"
	case KindSnow:
		return "snow"
	case KindLightning:
		return "lightning"
	}
	return "unknown"
}

// Effect is what the renderer needs from any weather layer.
type Effect interface {
	Kind() Kind
	Origin() mgl32.Vec3
	Active() bool
	Revision() uint64
	Buffer() meshing.Buffer
}

// state is shared bookkeeping embedded by every effect.
type state struct {
	mu       sync.RWMutex
	active   bool
	revision uint64
	buffer   meshing.Buffer
}

func (s *state) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive toggles drawing without touching the geometry.
func (s *state) SetActive(v bool) {
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
}

func (s *state) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *state) Buffer() meshing.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer
}

func (s *state) install(b meshing.Buffer) {
	s.mu.Lock()
	s.buffer = b
	s.revision++
	s.active = true
	s.mu.Unlock()
}

// quad appends one four-vertex face. attrs holds the u, v, shade and
// animation tag of each corner.
func quad(b *meshing.Buffer, p [4]mgl32.Vec3, normal mgl32.Vec3, color mgl32.Vec4, attrs [4]mgl32.Vec4) {
	base := uint32(b.VertexCount())
	for i := 0; i < 4; i++ {
		b.Vertices = append(b.Vertices,
			p[i].X(), p[i].Y(), p[i].Z(), 1,
			normal.X(), normal.Y(), normal.Z(), 0,
			color.X(), color.Y(), color.Z(), color.W(),
			attrs[i].X(), attrs[i].Y(), attrs[i].Z(), attrs[i].W(),
		)
	}
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}

func columnIndex(lx, lz int) int { return lx*Size + lz }
