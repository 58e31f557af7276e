package graphics

import (
	"fmt"
	"image"
	"time"

	"riverworld/internal/profiling"
	"riverworld/internal/weather"
	"riverworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// SkyColor is the clear colour and the fog colour.
var SkyColor = mgl32.Vec3{0.62, 0.76, 0.94}

// RenderStats describes the last frame.
type RenderStats struct {
	Chunks    int
	Effects   int
	Triangles int
	Uploads   int
}

type chunkSlot struct {
	opaque, transparent *GPUMesh
	revision            uint64
	triangles           int
}

type effectKey struct {
	kind    weather.Kind
	x, y, z float32
}

type effectSlot struct {
	mesh      *GPUMesh
	revision  uint64
	active    bool
	triangles int
}

// Renderer mirrors the store's meshes and weather buffers on the GPU and
// draws them. All methods must run on the GL thread.
type Renderer struct {
	shader  *Shader
	atlas   uint32
	chunks  map[int64]*chunkSlot
	effects map[effectKey]*effectSlot
	start   time.Time
	stats   RenderStats

	Wireframe bool
}

func NewRenderer(atlas *image.NRGBA) (*Renderer, error) {
	shader, err := NewShaderSource(worldVertexShader, worldFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("world shader: %w", err)
	}
	return &Renderer{
		shader:  shader,
		atlas:   UploadTexture(atlas),
		chunks:  make(map[int64]*chunkSlot),
		effects: make(map[effectKey]*effectSlot),
		start:   time.Now(),
	}, nil
}

func (r *Renderer) Stats() RenderStats { return r.stats }

// Sync uploads every chunk mesh and weather buffer whose revision moved
// since the last call.
func (r *Renderer) Sync(store *world.Store) {
	defer profiling.Track("renderer.Sync")()
	r.stats = RenderStats{}
	for _, c := range store.Chunks() {
		slot, ok := r.chunks[c.Key()]
		if !ok {
			slot = &chunkSlot{opaque: NewGPUMesh(), transparent: NewGPUMesh()}
			r.chunks[c.Key()] = slot
		}
		rev := c.MeshRevision()
		if rev == slot.revision {
			continue
		}
		slot.revision = rev
		if m := c.Mesh(); m != nil {
			slot.opaque.Upload(m.Opaque)
			slot.transparent.Upload(m.Transparent)
			slot.triangles = m.Opaque.TriangleCount() + m.Transparent.TriangleCount()
		}
		r.stats.Uploads++
	}

	for _, e := range store.Weather().Effects() {
		o := e.Origin()
		key := effectKey{kind: e.Kind(), x: o.X(), y: o.Y(), z: o.Z()}
		slot, ok := r.effects[key]
		if !ok {
			slot = &effectSlot{mesh: NewGPUMesh()}
			r.effects[key] = slot
		}
		slot.active = e.Active()
		if rev := e.Revision(); rev != slot.revision {
			b := e.Buffer()
			slot.mesh.Upload(b)
			slot.revision = rev
			slot.triangles = b.TriangleCount()
			r.stats.Uploads++
		}
	}
}

// Render draws opaque chunk geometry first, then liquids, decals and
// weather with blending.
func (r *Renderer) Render(cam *Camera) {
	defer profiling.Track("renderer.Render")()
	gl.ClearColor(SkyColor.X(), SkyColor.Y(), SkyColor.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	proj := cam.ProjectionMatrix()
	view := cam.ViewMatrix()
	r.shader.Use()
	r.shader.SetMatrix4("uProjection", &proj[0])
	r.shader.SetMatrix4("uView", &view[0])
	r.shader.SetFloat("uTime", float32(time.Since(r.start).Seconds()))
	r.shader.SetVector3("uFog", SkyColor.X(), SkyColor.Y(), SkyColor.Z())
	r.shader.SetInt("uAtlas", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)

	r.stats.Chunks, r.stats.Effects, r.stats.Triangles = 0, 0, 0
	for _, slot := range r.chunks {
		slot.opaque.Draw()
		r.stats.Chunks++
		r.stats.Triangles += slot.triangles
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, slot := range r.chunks {
		slot.transparent.Draw()
	}
	for _, slot := range r.effects {
		if !slot.active {
			continue
		}
		slot.mesh.Draw()
		r.stats.Effects++
		r.stats.Triangles += slot.triangles
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// Delete releases every GPU resource.
func (r *Renderer) Delete() {
	for _, slot := range r.chunks {
		slot.opaque.Delete()
		slot.transparent.Delete()
	}
	for _, slot := range r.effects {
		slot.mesh.Delete()
	}
	gl.DeleteTextures(1, &r.atlas)
	r.shader.Delete()
}
