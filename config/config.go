// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Rules      RulesConfig      `yaml:"rules"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Screen     ScreenConfig     `yaml:"screen"`
	Camera     CameraConfig     `yaml:"camera"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds run-level parameters.
type SimulationConfig struct {
	Count        int     `yaml:"count"`         // Number of boids
	Variant      string  `yaml:"variant"`       // naive, scattered or coherent
	DT           float64 `yaml:"dt"`            // Seconds per step
	Seed         int64   `yaml:"seed"`          // RNG seed (0 = time-based)
	InitialSpeed float64 `yaml:"initial_speed"` // Magnitude scale of random initial velocities
}

// RulesConfig holds the three flocking rule radii and weights.
type RulesConfig struct {
	Rule1Distance float64 `yaml:"rule1_distance"` // Cohesion radius
	Rule2Distance float64 `yaml:"rule2_distance"` // Separation radius
	Rule3Distance float64 `yaml:"rule3_distance"` // Alignment radius
	Rule1Scale    float64 `yaml:"rule1_scale"`
	Rule2Scale    float64 `yaml:"rule2_scale"`
	Rule3Scale    float64 `yaml:"rule3_scale"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	MaxSpeed        float64 `yaml:"max_speed"`
	SceneHalfExtent float64 `yaml:"scene_half_extent"` // Wrap boundary on every axis
}

// ParallelConfig holds worker pool tuning. None of it changes results.
type ParallelConfig struct {
	WorkUnitSize int    `yaml:"work_unit_size"` // Items per dispatched chunk
	Workers      int    `yaml:"workers"`        // 0 = GOMAXPROCS
	Sorter       string `yaml:"sorter"`         // radix or comparison
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds the initial orbit camera pose.
type CameraConfig struct {
	Distance   float64 `yaml:"distance"`    // Multiple of scene_half_extent
	Yaw        float64 `yaml:"yaw"`         // Radians
	Pitch      float64 `yaml:"pitch"`       // Radians
	OrbitSpeed float64 `yaml:"orbit_speed"` // Radians per second of automatic orbit
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// StreamConfig holds websocket frame streaming parameters.
type StreamConfig struct {
	Addr          string `yaml:"addr"`           // Listen address (empty = disabled)
	IntervalTicks int    `yaml:"interval_ticks"` // Broadcast every N ticks
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32            float32
	MaxRuleDistance float64
	CameraDistance  float64 // Absolute orbit distance in world units
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.MaxRuleDistance = max(c.Rules.Rule1Distance, c.Rules.Rule2Distance, c.Rules.Rule3Distance)
	c.Derived.CameraDistance = c.Camera.Distance * c.Physics.SceneHalfExtent

	if c.Parallel.WorkUnitSize < 1 {
		c.Parallel.WorkUnitSize = 128
	}
	if c.Stream.IntervalTicks < 1 {
		c.Stream.IntervalTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
