package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestPressedEdgeLastsOneFrame(t *testing.T) {
	m := NewManager()
	m.KeyEvent(glfw.KeyF, glfw.Press)
	assert.True(t, m.Pressed(ToggleWireframe))
	assert.True(t, m.Held(ToggleWireframe))

	m.EndFrame()
	assert.False(t, m.Pressed(ToggleWireframe))
	assert.True(t, m.Held(ToggleWireframe))

	m.KeyEvent(glfw.KeyF, glfw.Repeat)
	assert.False(t, m.Pressed(ToggleWireframe), "a repeat is not a new press")

	m.KeyEvent(glfw.KeyF, glfw.Release)
	assert.False(t, m.Held(ToggleWireframe))
}

func TestAxis(t *testing.T) {
	m := NewManager()
	assert.Zero(t, m.Axis(MoveForward, MoveBackward))
	m.KeyEvent(glfw.KeyW, glfw.Press)
	assert.Equal(t, float32(1), m.Axis(MoveForward, MoveBackward))
	m.KeyEvent(glfw.KeyDown, glfw.Press)
	assert.Zero(t, m.Axis(MoveForward, MoveBackward))
	m.KeyEvent(glfw.KeyW, glfw.Release)
	assert.Equal(t, float32(-1), m.Axis(MoveForward, MoveBackward))
}

func TestButtonsAndRebinding(t *testing.T) {
	m := NewManager()
	m.ButtonEvent(glfw.MouseButtonRight, glfw.Press)
	assert.True(t, m.Pressed(PlaceBlock))
	assert.False(t, m.Pressed(RemoveBlock))

	m.Unbind(glfw.KeyQ)
	m.KeyEvent(glfw.KeyQ, glfw.Press)
	assert.False(t, m.Held(Quit))

	m.BindKey(glfw.KeyX, Quit)
	m.KeyEvent(glfw.KeyX, glfw.Press)
	assert.True(t, m.Pressed(Quit))

	m.Reset()
	assert.False(t, m.Held(Quit))
	assert.False(t, m.Pressed(PlaceBlock))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "place-block", PlaceBlock.String())
	assert.Equal(t, "quit", Quit.String())
	assert.Equal(t, "action(200)", Action(200).String())
	assert.False(t, NewManager().Held(Action(200)))
}
