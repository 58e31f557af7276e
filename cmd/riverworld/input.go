package main

import (
	"riverworld/internal/input"
	"riverworld/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const sprint = 4

func (a *App) setupInputHandlers() {
	a.input.Attach(a.window)

	a.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !a.captured {
			return
		}
		if a.firstMouse {
			a.lastX, a.lastY = xpos, ypos
			a.firstMouse = false
			return
		}
		a.camera.Look(float32(xpos-a.lastX), float32(ypos-a.lastY))
		a.lastX, a.lastY = xpos, ypos
	})

	a.window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		a.camera.SetViewport(fbWidth, fbHeight)
	})

	a.window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			a.input.Reset()
			a.capture(false)
		}
	})
}

func (a *App) capture(on bool) {
	a.captured = on
	if on {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		a.firstMouse = true
		return
	}
	a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

// handleInput applies the frame's actions. A click on a released cursor
// only recaptures it.
func (a *App) handleInput(dt float32) {
	defer a.input.EndFrame()

	if a.input.Pressed(input.Quit) {
		a.window.SetShouldClose(true)
	}
	if a.input.Pressed(input.ToggleWireframe) {
		a.renderer.Wireframe = !a.renderer.Wireframe
	}
	if a.input.Pressed(input.DumpProfile) {
		profiling.LogTop(a.log, "frame profile", 8)
	}
	if a.input.Pressed(input.ReleaseCursor) {
		a.capture(false)
	}

	remove, place := a.input.Pressed(input.RemoveBlock), a.input.Pressed(input.PlaceBlock)
	if !a.captured {
		if remove || place {
			a.capture(true)
		}
		return
	}
	if remove {
		a.click(false)
	}
	if place {
		a.click(true)
	}
	a.move(dt)
}

// click removes the targeted block, or places one in front of it.
func (a *App) click(add bool) {
	res := a.store.PlayerClick(a.camera.Position, a.camera.Front(), add)
	if res.Modified {
		a.log.Debug("click", "add", add, "x", res.Changed[0], "y", res.Changed[1], "z", res.Changed[2])
	}
}

func (a *App) move(dt float32) {
	if a.input.Held(input.Sprint) {
		dt *= sprint
	}
	a.camera.Move(
		a.input.Axis(input.MoveForward, input.MoveBackward),
		a.input.Axis(input.StrafeRight, input.StrafeLeft),
		a.input.Axis(input.Ascend, input.Descend),
		dt,
	)
}
