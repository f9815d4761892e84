package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	variant := flag.String("variant", "", "Step variant: naive, scattered or coherent (empty = use config)")
	count := flag.Int("count", 0, "Number of boids (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot", "", "Directory for snapshot files (bookmarks and exit)")
	restorePath := flag.String("restore", "", "Snapshot file to resume from")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	serveAddr := flag.String("serve", "", "Stream frames over websocket on this address (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var hub *stream.Hub
	addr := cfg.Stream.Addr
	if *serveAddr != "" {
		addr = *serveAddr
	}
	if addr != "" {
		hub = stream.NewHub()
		go func() {
			if err := stream.Serve(ctx, addr, hub); err != nil {
				slog.Error("stream server failed", "error", err)
			}
		}()
	}

	opts := game.Options{
		Count:          *count,
		Seed:           *seed,
		Variant:        *variant,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		RestorePath:    *restorePath,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Hub:            hub,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGame(cfg, opts)
		if err != nil {
			slog.Error("failed to create game", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
			"serve", addr,
		)

		for ctx.Err() == nil {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
		slog.Info("interrupted", "tick", g.Tick())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flock")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
