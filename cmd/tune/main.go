// Package main searches the flocking rule weights for a target
// polarization using Nelder-Mead over headless runs.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flock/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	target := flag.Float64("target", 0.8, "Target settled polarization in [0, 1]")
	count := flag.Int("count", 1000, "Boids per run")
	maxTicks := flag.Int("max-ticks", 1000, "Ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Runs are created per evaluation; keep their info logs quiet
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(1)
	}
	if *target < 0 || *target > 1 {
		slog.Error("--target must be in [0, 1]", "target", *target)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, baseCfg, *target, *count, int32(*maxTicks), evalSeeds)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	// Open log file
	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "polarization"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			polarization := evaluator.LastPolarization()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			// Log clamped values (these are the values actually used)
			row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.4f", polarization)}
			for _, v := range clamped {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: polarization=%.3f fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, polarization, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}
	method := &optimize.NelderMead{
		SimplexSize: 0.2,
	}

	fmt.Printf("Starting Nelder-Mead with %d parameters, target=%.2f, max_evals=%d\n", dim, *target, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, boids: %d, ticks per run: %d\n", *seeds, *count, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		slog.Error("no evaluation completed")
		os.Exit(1)
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to reload config", "error", err)
		os.Exit(1)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
