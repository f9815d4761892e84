package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Simulation.Count != 5000 {
		t.Errorf("count = %d, want 5000", cfg.Simulation.Count)
	}
	if cfg.Simulation.Variant != "coherent" {
		t.Errorf("variant = %q, want coherent", cfg.Simulation.Variant)
	}
	if cfg.Derived.MaxRuleDistance != 5.0 {
		t.Errorf("max rule distance = %v, want 5", cfg.Derived.MaxRuleDistance)
	}
	if cfg.Derived.CameraDistance != 250 {
		t.Errorf("camera distance = %v, want 250", cfg.Derived.CameraDistance)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("simulation:\n  count: 64\nrules:\n  rule2_distance: 9.0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Simulation.Count != 64 {
		t.Errorf("count = %d, want 64", cfg.Simulation.Count)
	}
	if cfg.Rules.Rule1Distance != 5.0 {
		t.Errorf("rule1 distance = %v, want default 5", cfg.Rules.Rule1Distance)
	}
	if cfg.Derived.MaxRuleDistance != 9.0 {
		t.Errorf("max rule distance = %v, want 9", cfg.Derived.MaxRuleDistance)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestComputeDerivedFloors(t *testing.T) {
	c := &Config{}
	c.computeDerived()
	if c.Parallel.WorkUnitSize != 128 {
		t.Errorf("work unit size = %d, want 128", c.Parallel.WorkUnitSize)
	}
	if c.Stream.IntervalTicks != 1 {
		t.Errorf("interval ticks = %d, want 1", c.Stream.IntervalTicks)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Rules.Rule3Scale = 0.42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if back.Rules.Rule3Scale != 0.42 {
		t.Errorf("rule3 scale = %v, want 0.42", back.Rules.Rule3Scale)
	}
}
