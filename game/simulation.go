package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/stream"
	"github.com/pthm-cable/flock/telemetry"
)

// UpdateHeadless runs stepsPerUpdate simulation steps without input or drawing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Update handles input and advances the simulation for one rendered frame.
func (g *Game) Update() {
	g.handleInput()
	g.perf.RecordFrame()

	if g.paused {
		if g.stepOnce {
			g.stepOnce = false
			g.step()
		}
		return
	}

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs a single tick of the simulation followed by its telemetry.
func (g *Game) step() {
	g.sim.Step(g.variant, g.dt)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(g.variant.String())
	g.flushTelemetry()
	g.broadcastFrame()
	g.perf.EndTick()
}

// exportBuffers fills the packed position and velocity buffers.
func (g *Game) exportBuffers() bool {
	if err := g.sim.ExportPositions(g.posBuf); err != nil {
		slog.Error("failed to export positions", "error", err)
		return false
	}
	if err := g.sim.ExportVelocities(g.velBuf); err != nil {
		slog.Error("failed to export velocities", "error", err)
		return false
	}
	return true
}

// broadcastFrame sends the exported state to stream viewers every
// streamInterval ticks.
func (g *Game) broadcastFrame() {
	if g.hub == nil || g.sim.Tick()%g.streamInterval != 0 || g.hub.ClientCount() == 0 {
		return
	}
	if !g.exportBuffers() {
		return
	}

	frame := &stream.Frame{
		Tick:            g.sim.Tick(),
		Count:           g.sim.N(),
		Variant:         g.variant.String(),
		SceneHalfExtent: float32(g.sim.Params().SceneHalfExtent),
		Positions:       g.posBuf,
		Velocities:      g.velBuf,
	}
	if err := g.hub.BroadcastFrame(frame); err != nil {
		slog.Error("failed to broadcast frame", "error", err)
	}
}
