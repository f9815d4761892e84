package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
)

const maxStepsPerUpdate = 10

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) && g.paused {
		g.stepOnce = true
	}

	// Variant selection
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		g.SetVariant(sim.VariantNaive)
	case rl.IsKeyPressed(rl.KeyTwo):
		g.SetVariant(sim.VariantScattered)
	case rl.IsKeyPressed(rl.KeyThree):
		g.SetVariant(sim.VariantCoherent)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyB) {
		g.boids.ShowBounds = !g.boids.ShowBounds
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot(nil)
	}

	g.handleCameraInput()
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	frame := float64(rl.GetFrameTime())

	// Slow automatic orbit
	g.camera.Rotate(g.cfg.Camera.OrbitSpeed*frame, 0)

	// Arrow keys orbit
	const turn = 1.5 // radians per second
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Rotate(turn*frame, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Rotate(-turn*frame, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Rotate(0, turn*frame)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Rotate(0, -turn*frame)
	}

	// Right-drag orbits
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Rotate(-float64(d.X)*0.005, float64(d.Y)*0.005)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 - float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(1.25)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
