package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/ui"
)

var backgroundColor = rl.Color{R: 12, G: 14, B: 18, A: 255}

const controlsText = "SPACE pause | N step | 1/2/3 variant | < > speed | arrows/right-drag orbit | wheel zoom | HOME reset | B bounds | S snapshot"

// Draw renders the flock and the control panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(backgroundColor)

	if g.exportBuffers() {
		g.boids.Draw(renderer.Camera3D(g.camera), g.posBuf, g.velBuf, g.sim.N())
	}

	actions := g.panel.Draw(ui.PanelData{
		Tick:    g.sim.Tick(),
		Count:   g.sim.N(),
		Variant: g.variant,
		Paused:  g.paused,
		Steps:   g.stepsPerUpdate,
		Flock:   g.lastFlock,
		Perf:    g.perf.Stats(),
	})
	g.applyPanelActions(actions)

	screenH := int32(rl.GetScreenHeight())
	rl.DrawText(controlsText, 10, screenH-25, 14, rl.Gray)
	rl.DrawText(fmt.Sprintf("FPS: %d", rl.GetFPS()), int32(rl.GetScreenWidth())-80, 10, 16, rl.LightGray)
}

// applyPanelActions applies what the user clicked this frame.
func (g *Game) applyPanelActions(a ui.PanelActions) {
	if a.SetVariant {
		g.SetVariant(a.Variant)
	}
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.StepOnce {
		g.paused = true
		g.stepOnce = true
	}
	if a.ResetCamera {
		g.camera.Reset()
	}
	if a.Steps >= 1 && a.Steps <= maxStepsPerUpdate {
		g.stepsPerUpdate = a.Steps
	}
}
