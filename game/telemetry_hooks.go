package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	// Naive steps leave the cell table from the last grid step
	var cells *systems.CellTable
	if g.variant != sim.VariantNaive {
		cells = g.sim.Cells()
	}
	g.lastFlock = telemetry.ComputeFlockStats(g.sim.Velocities(), cells)

	stats := g.collector.Flush(tick, g.lastFlock)
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" || g.outputManager != nil {
			g.saveSnapshot(&bm)
		}
	}
}

// SaveSnapshot writes the current state and returns the file path.
func (g *Game) SaveSnapshot() (string, error) {
	return g.writeSnapshot(g.createSnapshot(nil))
}

// saveSnapshot creates and saves a snapshot, logging the outcome.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)
	path, err := g.writeSnapshot(snapshot)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	if path != "" {
		slog.Info("snapshot saved", "path", path, "tick", snapshot.Tick)
	}
}

// writeSnapshot saves to the snapshot directory, or the output directory
// when only that is set. Returns "" when neither is.
func (g *Game) writeSnapshot(snapshot *telemetry.Snapshot) (string, error) {
	if g.snapshotDir != "" {
		return telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	}
	return g.outputManager.WriteSnapshot(snapshot)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := telemetry.NewSnapshot(
		g.sim.Seed(),
		g.sim.Tick(),
		g.sim.Params().SceneHalfExtent,
		g.variant.String(),
		g.sim.Positions(),
		g.sim.Velocities(),
	)
	snapshot.Bookmark = bookmark
	return snapshot
}

// Flock returns the flock stats from the most recent window flush.
func (g *Game) Flock() telemetry.FlockStats {
	return g.lastFlock
}
