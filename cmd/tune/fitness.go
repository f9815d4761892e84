package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how close the
// flock's polarization settles to a target.
type FitnessEvaluator struct {
	params      *ParamVector
	baseConfig  *config.Config
	target      float64
	count       int
	maxTicks    int32
	seeds       []int64
	statsWindow float64

	mu               sync.Mutex
	lastPolarization float64 // mean settled polarization from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, target float64, count int, maxTicks int32, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		baseConfig:  baseCfg,
		target:      target,
		count:       count,
		maxTicks:    maxTicks,
		seeds:       seeds,
		statsWindow: 10.0,
	}
}

// LastPolarization returns the settled polarization from the most recent evaluation.
func (fe *FitnessEvaluator) LastPolarization() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastPolarization
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel; fitness is the mean over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	type seedResult struct {
		polarization float64
		ok           bool
	}
	results := make([]seedResult, len(fe.seeds))

	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			p, ok := fe.runSimulation(x, s)
			results[idx] = seedResult{polarization: p, ok: ok}
		}(i, seed)
	}
	wg.Wait()

	var total, polar float64
	for _, r := range results {
		if !r.ok {
			return math.Inf(1)
		}
		polar += r.polarization
		total += fe.score(r.polarization)
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastPolarization = polar / n
	fe.mu.Unlock()

	return total / n
}

// score is the squared distance from the target polarization.
func (fe *FitnessEvaluator) score(polarization float64) float64 {
	d := polarization - fe.target
	return d * d
}

// runSimulation runs one headless simulation and returns the mean
// polarization over the second half of its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (float64, bool) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g, err := game.NewGame(cfg, game.Options{
		Count:          fe.count,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return 0, false
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}

	return settledPolarization(windows)
}

// settledPolarization averages polarization over the later half of the
// windows, skipping the transient from the random start.
func settledPolarization(windows []telemetry.WindowStats) (float64, bool) {
	if len(windows) == 0 {
		return 0, false
	}
	settled := windows[len(windows)/2:]
	var sum float64
	for _, w := range settled {
		sum += w.Polarization
	}
	return sum / float64(len(settled)), true
}

// copyConfig creates a copy of the base config. Config holds only
// value fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
