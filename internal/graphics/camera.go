package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a free flying first person camera. Angles are in degrees.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	// Speed is in blocks per second, Sensitivity in degrees per pixel.
	Speed       float32
	Sensitivity float32
}

func NewCamera(width, height int, fov float32) *Camera {
	c := &Camera{
		Yaw:         -90,
		FOV:         fov,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Speed:       12,
		Sensitivity: 0.1,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. Degenerate sizes are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Front is the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right is the unit vector to the right of the view, parallel to the ground.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

// Look turns the camera by a mouse delta in pixels.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	c.Yaw = float32(math.Mod(float64(c.Yaw), 360))
}

// Move flies along the view axes. Each axis input is in [-1, 1].
func (c *Camera) Move(forward, right, up float32, dt float32) {
	step := c.Speed * dt
	c.Position = c.Position.
		Add(c.Front().Mul(forward * step)).
		Add(c.Right().Mul(right * step)).
		Add(worldUp.Mul(up * step))
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), worldUp)
}
