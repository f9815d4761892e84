// Package telemetry provides flock statistics, step timing, bookmarks,
// snapshots and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/systems"
)

// FlockStats is a point-in-time summary of the flock.
type FlockStats struct {
	Count int

	// Speed distribution
	SpeedMean float64
	SpeedStd  float64
	SpeedP10  float64
	SpeedP50  float64
	SpeedP90  float64

	// Polarization is |Σ v̂| / n over moving agents: 1 when every agent
	// heads the same way, near 0 for random headings.
	Polarization float64

	// Grid occupancy from the most recent grid step
	OccupiedCells    int
	MaxCellOccupancy int
}

// ComputeFlockStats summarizes velocities and, when cells is non-nil,
// the occupancy of the located cell table.
func ComputeFlockStats(vel []r3.Vec, cells *systems.CellTable) FlockStats {
	n := len(vel)
	fs := FlockStats{Count: n}
	if n == 0 {
		return fs
	}

	speeds := make([]float64, n)
	var heading r3.Vec
	moving := 0
	for i, v := range vel {
		speeds[i] = r3.Norm(v)
		if speeds[i] > 0 {
			heading = r3.Add(heading, r3.Scale(1/speeds[i], v))
			moving++
		}
	}
	if moving > 0 {
		fs.Polarization = r3.Norm(heading) / float64(moving)
	}

	fs.SpeedMean, fs.SpeedStd = stat.PopMeanStdDev(speeds, nil)
	sort.Float64s(speeds)
	fs.SpeedP10 = Percentile(speeds, 0.10)
	fs.SpeedP50 = Percentile(speeds, 0.50)
	fs.SpeedP90 = Percentile(speeds, 0.90)

	if cells != nil {
		for c := 0; c < cells.Len(); c++ {
			r, ok := cells.Range(c, n)
			if !ok || r.Len() == 0 {
				continue
			}
			fs.OccupiedCells++
			fs.MaxCellOccupancy = max(fs.MaxCellOccupancy, r.Len())
		}
	}

	return fs
}

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Steps during window
	Variant         string `csv:"variant"`
	Steps           int    `csv:"steps"`
	VariantSwitches int    `csv:"variant_switches"`

	// Flock state sampled at window end
	Count            int     `csv:"count"`
	SpeedMean        float64 `csv:"speed_mean"`
	SpeedStd         float64 `csv:"speed_std"`
	SpeedP10         float64 `csv:"speed_p10"`
	SpeedP50         float64 `csv:"speed_p50"`
	SpeedP90         float64 `csv:"speed_p90"`
	Polarization     float64 `csv:"polarization"`
	OccupiedCells    int     `csv:"occupied_cells"`
	MaxCellOccupancy int     `csv:"max_cell_occupancy"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("variant", s.Variant),
		slog.Int("steps", s.Steps),
		slog.Int("variant_switches", s.VariantSwitches),
		slog.Int("count", s.Count),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("polarization", s.Polarization),
		slog.Int("occupied_cells", s.OccupiedCells),
		slog.Int("max_cell_occupancy", s.MaxCellOccupancy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"variant", s.Variant,
		"steps", s.Steps,
		"count", s.Count,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"polarization", s.Polarization,
		"occupied_cells", s.OccupiedCells,
		"max_cell_occupancy", s.MaxCellOccupancy,
	)
}
