package telemetry

import "math"

// Collector accumulates step counts within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	steps           int
	variantSwitches int
	lastVariant     string
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// StartAt aligns the first window with a restored tick.
func (c *Collector) StartAt(tick int32) {
	c.windowStartTick = tick
}

// RecordStep records one step taken with the named variant.
func (c *Collector) RecordStep(variant string) {
	if c.lastVariant != "" && variant != c.lastVariant {
		c.variantSwitches++
	}
	c.lastVariant = variant
	c.steps++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window counters and the flock
// sampled at currentTick, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, flock FlockStats) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Variant:         c.lastVariant,
		Steps:           c.steps,
		VariantSwitches: c.variantSwitches,

		Count:            flock.Count,
		SpeedMean:        flock.SpeedMean,
		SpeedStd:         flock.SpeedStd,
		SpeedP10:         flock.SpeedP10,
		SpeedP50:         flock.SpeedP50,
		SpeedP90:         flock.SpeedP90,
		Polarization:     flock.Polarization,
		OccupiedCells:    flock.OccupiedCells,
		MaxCellOccupancy: flock.MaxCellOccupancy,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.steps = 0
	c.variantSwitches = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
