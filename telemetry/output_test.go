package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flock/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is safe on nil.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Error(err)
	}
	if path, err := om.WriteSnapshot(&Snapshot{}); path != "" || err != nil {
		t.Errorf("WriteSnapshot = %q, %v", path, err)
	}
	if om.Dir() != "" {
		t.Error("nil manager reported a directory")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for tick := int32(50); tick <= 150; tick += 50 {
		if err := om.WriteStats(WindowStats{WindowEndTick: tick, Variant: "coherent", Count: 100}); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseSort: 10}}, 150); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkCrowding, Tick: 150, Description: "dense"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("stats.csv has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,variant,") {
		t.Errorf("stats header = %q", lines[0])
	}
	if strings.Contains(lines[2], "window_end") {
		t.Error("header repeated")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(perf), "sort_pct") {
		t.Errorf("perf.csv missing phase columns:\n%s", perf)
	}

	marks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(marks), "crowding") {
		t.Errorf("bookmarks.csv = %q", marks)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestOutputManagerWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	path, err := om.WriteSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 7})
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "snapshots") {
		t.Errorf("snapshot written to %s", path)
	}
}
