package weather

import (
	"sort"
	"sync"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"
)

// Registry owns every weather effect keyed by the chunk key of its origin.
// Adding an effect that already exists is a no-op.
type Registry struct {
	mu        sync.RWMutex
	rain      map[int64]*Rain
	snow      map[int64]*Snow
	lightning map[int64]*Lightning

	simplex opensimplex.Noise
	perlin  *perlin.Perlin
}

func NewRegistry(seed int64) *Registry {
	return &Registry{
		rain:      make(map[int64]*Rain),
		snow:      make(map[int64]*Snow),
		lightning: make(map[int64]*Lightning),
		simplex:   opensimplex.NewNormalized(seed),
		perlin:    perlin.NewPerlin(2, 2, 3, seed),
	}
}

// AddRain creates and builds a rain patch unless one exists at key.
func (r *Registry) AddRain(key int64, x, y, z int, color mgl32.Vec4) (*Rain, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.rain[key]; ok {
		return e, false
	}
	e := NewRain(r.simplex, x, y, z, color)
	r.rain[key] = e
	return e, true
}

func (r *Registry) AddSnow(key int64, x, y, z int) (*Snow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.snow[key]; ok {
		return e, false
	}
	e := NewSnow(r.simplex, x, y, z)
	r.snow[key] = e
	return e, true
}

func (r *Registry) AddLightning(key int64, x, y, z int) (*Lightning, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.lightning[key]; ok {
		return e, false
	}
	e := NewLightning(r.perlin, x, y, z)
	r.lightning[key] = e
	return e, true
}

func (r *Registry) Rain(key int64) *Rain {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rain[key]
}

func (r *Registry) Snow(key int64) *Snow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snow[key]
}

func (r *Registry) Lightning(key int64) *Lightning {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lightning[key]
}

// Len returns the number of effects of each kind.
func (r *Registry) Len() (rain, snow, lightning int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rain), len(r.snow), len(r.lightning)
}

// Effects lists every effect ordered by kind then key.
func (r *Registry) Effects() []Effect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Effect, 0, len(r.rain)+len(r.snow)+len(r.lightning))
	for _, k := range sortedKeys(r.rain) {
		out = append(out, r.rain[k])
	}
	for _, k := range sortedKeys(r.snow) {
		out = append(out, r.snow[k])
	}
	for _, k := range sortedKeys(r.lightning) {
		out = append(out, r.lightning[k])
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
