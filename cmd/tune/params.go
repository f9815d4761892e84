package main

import (
	"github.com/pthm-cable/flock/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the rule weight search space.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "rule1_scale", Path: "rules.rule1_scale", Min: 0.001, Max: 0.05, Default: 0.01},
			{Name: "rule2_scale", Path: "rules.rule2_scale", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "rule3_scale", Path: "rules.rule3_scale", Min: 0.01, Max: 0.5, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Rules.Rule1Scale = clamped[0]
	cfg.Rules.Rule2Scale = clamped[1]
	cfg.Rules.Rule3Scale = clamped[2]
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Rules.Rule1Scale,
		cfg.Rules.Rule2Scale,
		cfg.Rules.Rule3Scale,
	}
}
