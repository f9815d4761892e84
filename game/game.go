// Package game wires the flock simulation to telemetry, output, the
// viewer and the frame stream.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/stream"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
)

// Options configures a Game. Zero values fall back to the config.
type Options struct {
	Count          int    // Number of boids (0 = config)
	Seed           int64  // RNG seed (0 = config)
	Variant        string // Step variant name (empty = config)
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	RestorePath    string // Snapshot to resume from
	Headless       bool
	StepsPerUpdate int
	Hub            *stream.Hub // Frame broadcast target (nil = disabled)
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the running simulation and everything observing it.
type Game struct {
	cfg     *config.Config
	sim     *sim.Simulation
	variant sim.Variant
	dt      float64

	// Telemetry
	perf             *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	lastFlock        telemetry.FlockStats
	logStats         bool
	snapshotDir      string

	// Streaming
	hub            *stream.Hub
	streamInterval int32

	// Export buffers shared by the viewer and the stream
	posBuf, velBuf []float32

	// Viewer
	camera *camera.Orbit
	boids  *renderer.BoidRenderer
	panel  *ui.ControlPanel

	// State
	paused         bool
	stepOnce       bool
	stepsPerUpdate int
}

// NewGame creates a game from a loaded config.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	params := sim.ParamsFromConfig(cfg)
	if opts.Seed != 0 {
		params.Seed = opts.Seed
	}

	variantName := cfg.Simulation.Variant
	if opts.Variant != "" {
		variantName = opts.Variant
	}

	count := cfg.Simulation.Count
	if opts.Count > 0 {
		count = opts.Count
	}

	var restore *telemetry.Snapshot
	if opts.RestorePath != "" {
		snap, err := telemetry.LoadSnapshot(opts.RestorePath)
		if err != nil {
			return nil, fmt.Errorf("restoring: %w", err)
		}
		if snap.SceneHalfExtent != params.SceneHalfExtent {
			return nil, fmt.Errorf("restoring: snapshot scene half extent %v does not match config %v",
				snap.SceneHalfExtent, params.SceneHalfExtent)
		}
		restore = snap
		count = len(snap.Agents)
		params.Seed = snap.RNGSeed
		if opts.Variant == "" && snap.Variant != "" {
			variantName = snap.Variant
		}
	}

	variant, err := sim.ParseVariant(variantName)
	if err != nil {
		return nil, err
	}

	s, err := sim.New(count, params)
	if err != nil {
		return nil, err
	}
	if restore != nil {
		pos, vel := restore.State()
		if err := s.Restore(pos, vel, restore.Tick); err != nil {
			s.Close()
			return nil, fmt.Errorf("restoring: %w", err)
		}
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:              cfg,
		sim:              s,
		variant:          variant,
		dt:               cfg.Simulation.DT,
		perf:             telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		hub:              opts.Hub,
		streamInterval:   int32(max(cfg.Stream.IntervalTicks, 1)),
		posBuf:           make([]float32, sim.ExportStride*count),
		velBuf:           make([]float32, sim.ExportStride*count),
		stepsPerUpdate:   stepsPerUpdate,
	}
	g.collector.StartAt(s.Tick())
	s.SetPerf(tickTimer{g.perf})

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			s.Close()
			return nil, err
		}
		g.outputManager = om
	}

	if !opts.Headless {
		g.camera = camera.New(cfg.Derived.CameraDistance, cfg.Camera.Yaw, cfg.Camera.Pitch, params.SceneHalfExtent)
		g.boids = renderer.NewBoidRenderer(float32(params.SceneHalfExtent))
		g.panel = ui.NewControlPanel(10, 10)
	}

	slog.Info("game created",
		"count", count,
		"variant", variant.String(),
		"seed", s.Seed(),
		"tick", s.Tick(),
		"cells", s.Grid().CellCount,
	)

	return g, nil
}

// tickTimer lets the game time the telemetry phase inside the same tick
// before closing it.
type tickTimer struct {
	*telemetry.PerfCollector
}

func (tickTimer) EndTick() {}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Variant returns the variant used for subsequent steps.
func (g *Game) Variant() sim.Variant {
	return g.variant
}

// SetVariant switches the step variant. Takes effect on the next step.
func (g *Game) SetVariant(v sim.Variant) {
	if v == g.variant {
		return
	}
	slog.Info("variant changed", "from", g.variant.String(), "to", v.String(), "tick", g.sim.Tick())
	g.variant = v
}

// Sim exposes the underlying simulation.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Unload saves a final snapshot when a snapshot directory is set and
// releases all resources.
func (g *Game) Unload() {
	if g.snapshotDir != "" {
		g.saveSnapshot(nil)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.sim.Close()
}
