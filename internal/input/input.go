// Package input maps GLFW keys and mouse buttons to viewer actions and
// tracks which were held or freshly pressed during a frame.
package input

import (
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command, not a physical key.
type Action uint8

const (
	MoveForward Action = iota
	MoveBackward
	StrafeLeft
	StrafeRight
	Ascend
	Descend
	Sprint
	RemoveBlock
	PlaceBlock
	ReleaseCursor
	ToggleWireframe
	DumpProfile
	Quit

	actionCount
)

var actionNames = [actionCount]string{
	"move-forward", "move-backward", "strafe-left", "strafe-right",
	"ascend", "descend", "sprint", "remove-block", "place-block",
	"release-cursor", "toggle-wireframe", "dump-profile", "quit",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Manager holds the bindings and the per frame state. Events may arrive
// from GLFW callbacks while the frame loop queries.
type Manager struct {
	mu      sync.Mutex
	keys    map[glfw.Key][]Action
	buttons map[glfw.MouseButton][]Action

	held    [actionCount]bool
	pressed [actionCount]bool
}

// NewManager creates a manager with the default free-fly bindings.
func NewManager() *Manager {
	m := &Manager{
		keys:    make(map[glfw.Key][]Action),
		buttons: make(map[glfw.MouseButton][]Action),
	}
	m.BindKey(glfw.KeyW, MoveForward)
	m.BindKey(glfw.KeyUp, MoveForward)
	m.BindKey(glfw.KeyS, MoveBackward)
	m.BindKey(glfw.KeyDown, MoveBackward)
	m.BindKey(glfw.KeyA, StrafeLeft)
	m.BindKey(glfw.KeyLeft, StrafeLeft)
	m.BindKey(glfw.KeyD, StrafeRight)
	m.BindKey(glfw.KeyRight, StrafeRight)
	m.BindKey(glfw.KeySpace, Ascend)
	m.BindKey(glfw.KeyLeftShift, Descend)
	m.BindKey(glfw.KeyLeftControl, Sprint)
	m.BindKey(glfw.KeyEscape, ReleaseCursor)
	m.BindKey(glfw.KeyF, ToggleWireframe)
	m.BindKey(glfw.KeyP, DumpProfile)
	m.BindKey(glfw.KeyQ, Quit)

	m.BindButton(glfw.MouseButtonLeft, RemoveBlock)
	m.BindButton(glfw.MouseButtonRight, PlaceBlock)
	return m
}

// BindKey adds an action to key. A key may drive several actions.
func (m *Manager) BindKey(key glfw.Key, a Action) {
	if a >= actionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = append(m.keys[key], a)
}

// BindButton adds an action to a mouse button.
func (m *Manager) BindButton(b glfw.MouseButton, a Action) {
	if a >= actionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttons[b] = append(m.buttons[b], a)
}

// Unbind drops every action of key.
func (m *Manager) Unbind(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
}

func (m *Manager) apply(actions []Action, down bool) {
	for _, a := range actions {
		if down && !m.held[a] {
			m.pressed[a] = true
		}
		m.held[a] = down
	}
}

// KeyEvent records a key transition. Repeats count as held.
func (m *Manager) KeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.keys[key], action != glfw.Release)
}

// ButtonEvent records a mouse button transition.
func (m *Manager) ButtonEvent(b glfw.MouseButton, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.buttons[b], action == glfw.Press)
}

// Attach installs the key and mouse button callbacks on w.
func (m *Manager) Attach(w *glfw.Window) {
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.KeyEvent(key, action)
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		m.ButtonEvent(b, action)
	})
}

// Held reports whether a is down.
func (m *Manager) Held(a Action) bool {
	if a >= actionCount {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[a]
}

// Pressed reports whether a went down since the last EndFrame.
func (m *Manager) Pressed(a Action) bool {
	if a >= actionCount {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pressed[a]
}

// Axis is +1 while pos is held, -1 while neg is, 0 for both or neither.
func (m *Manager) Axis(pos, neg Action) float32 {
	var v float32
	if m.Held(pos) {
		v++
	}
	if m.Held(neg) {
		v--
	}
	return v
}

// EndFrame clears the pressed edges.
func (m *Manager) EndFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = [actionCount]bool{}
}

// Reset releases everything, as when the window loses focus.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = [actionCount]bool{}
	m.pressed = [actionCount]bool{}
}
