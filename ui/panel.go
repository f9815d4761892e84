// Package ui draws the on-screen control panel for the flock viewer.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

const (
	panelWidth  = 260
	buttonH     = 24
	maxStepsPer = 10 // Upper bound of the steps-per-frame slider
)

// PanelData holds everything the control panel displays.
type PanelData struct {
	Tick    int32
	Count   int
	Variant sim.Variant
	Paused  bool
	Steps   int // Simulation steps per rendered frame
	Flock   telemetry.FlockStats
	Perf    telemetry.PerfStats
}

// PanelActions reports what the user changed this frame.
// Zero value means nothing was clicked.
type PanelActions struct {
	Variant     sim.Variant
	SetVariant  bool
	TogglePause bool
	StepOnce    bool
	ResetCamera bool
	Steps       int
}

// ControlPanel renders the variant selector, transport buttons and live stats.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewControlPanel creates a panel anchored at the given screen position.
func NewControlPanel(x, y int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// Height returns the panel height for the current theme.
func (p *ControlPanel) Height() int32 {
	th := p.renderer.Theme
	rows := int32(2 + 6 + len(telemetry.Phases) + 3)
	return 2*th.Padding + rows*th.LineHeight + 3*(buttonH+6) + 40
}

// Draw renders the panel and returns the actions taken.
func (p *ControlPanel) Draw(data PanelData) PanelActions {
	r := p.renderer
	th := r.Theme
	actions := PanelActions{Variant: data.Variant, Steps: data.Steps}

	r.DrawPanel(p.x, p.y, panelWidth, p.Height())
	x := p.x + th.Padding
	y := p.y + th.Padding
	inner := float32(panelWidth - 2*th.Padding)

	y = r.DrawSectionHeader(x, y, "Variant")
	variants := sim.Variants()
	bw := (inner - float32(len(variants)-1)*4) / float32(len(variants))
	for i, v := range variants {
		bounds := rl.Rectangle{X: float32(x) + float32(i)*(bw+4), Y: float32(y), Width: bw, Height: buttonH}
		if gui.Button(bounds, variantLabel(v, data.Variant)) && v != data.Variant {
			actions.Variant = v
			actions.SetVariant = true
		}
	}
	y += buttonH + 6

	half := (inner - 4) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: buttonH}, toggleText(data.Paused, "Resume", "Pause")) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 4, Y: float32(y), Width: half, Height: buttonH}, "Step") {
		actions.StepOnce = true
	}
	y += buttonH + 6
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: buttonH}, "Reset Camera") {
		actions.ResetCamera = true
	}
	y += buttonH + 6

	rl.DrawText("Steps / frame", x, y, th.FontSize, th.LabelColor)
	y += th.LineHeight
	steps := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: inner - 30, Height: 14},
		"", "",
		float32(data.Steps), 1, maxStepsPer,
	)
	rl.DrawText(fmt.Sprintf("%d", data.Steps), x+int32(inner)-24, y, th.FontSize, th.ValueColor)
	if s := int(steps + 0.5); s != data.Steps {
		actions.Steps = s
	}
	y += th.LineHeight + 8

	y = r.DrawSectionHeader(x, y, "Flock")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Boids", fmt.Sprintf("%d", data.Count))
	y = r.DrawLabelValue(x, y, "Speed p50", fmt.Sprintf("%.3f", data.Flock.SpeedP50))
	y = r.DrawBar(x, y, "Polarization", data.Flock.Polarization, int32(inner))
	y = r.DrawLabelValue(x, y, "Occupied cells", fmt.Sprintf("%d", data.Flock.OccupiedCells))
	y = r.DrawLabelValue(x, y, "Max per cell", fmt.Sprintf("%d", data.Flock.MaxCellOccupancy))
	y += 4

	y = r.DrawSectionHeader(x, y, "Performance")
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f", data.Perf.FPS))
	y = r.DrawLabelValue(x, y, "Step", formatMicros(data.Perf.AvgTickDuration.Microseconds()))
	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, data.Perf.PhasePct[phase]/100, int32(inner))
	}

	return actions
}

func variantLabel(v, active sim.Variant) string {
	if v == active {
		return "[" + v.String() + "]"
	}
	return v.String()
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

func formatMicros(us int64) string {
	if us >= 1000 {
		return fmt.Sprintf("%.2f ms", float64(us)/1000)
	}
	return fmt.Sprintf("%d us", us)
}
