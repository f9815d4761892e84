package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkAlignment   BookmarkType = "alignment"
	BookmarkDispersal   BookmarkType = "dispersal"
	BookmarkCrowding    BookmarkType = "crowding"
	BookmarkSteadyState BookmarkType = "steady_state"
)

// Detection thresholds.
const (
	alignedPolarization = 0.9
	dispersalDrop       = 0.3
	crowdingFactor      = 2.0
	crowdingMinAgents   = 20
	steadyPolarVar      = 0.0004 // std below 0.02
	steadyWindows       = 5
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the flock.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPolarPeak    float64 // highest polarization since the last dispersal
	steadyWindowsCount int     // consecutive windows with flat polarization
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Alignment: polarization rose through the aligned threshold
		if b := bd.checkAlignment(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Dispersal: polarization fell well below its recent peak
		if b := bd.checkDispersal(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Crowding: densest cell > 2x rolling average
		if b := bd.checkCrowding(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Steady state: polarization flat over 5+ windows
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Polarization > bd.recentPolarPeak {
		bd.recentPolarPeak = stats.Polarization
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkAlignment(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	prev := history[len(history)-1]

	if prev.Polarization < alignedPolarization && stats.Polarization >= alignedPolarization {
		return &Bookmark{
			Type:        BookmarkAlignment,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Polarization rose from %.2f to %.2f", prev.Polarization, stats.Polarization),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkDispersal(stats WindowStats) *Bookmark {
	if bd.recentPolarPeak == 0 {
		return nil
	}

	drop := bd.recentPolarPeak - stats.Polarization
	if drop > dispersalDrop {
		// Reset peak after dispersal
		oldPeak := bd.recentPolarPeak
		bd.recentPolarPeak = stats.Polarization

		return &Bookmark{
			Type:        BookmarkDispersal,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Polarization fell from peak %.2f to %.2f", oldPeak, stats.Polarization),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkCrowding(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.MaxCellOccupancy
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	occ := float64(stats.MaxCellOccupancy)
	if occ > avg*crowdingFactor && stats.MaxCellOccupancy >= crowdingMinAgents {
		return &Bookmark{
			Type:        BookmarkCrowding,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Densest cell holds %d agents, %.1fx average (%.1f)", stats.MaxCellOccupancy, occ/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Count == 0 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Variance over the last 3 windows plus this one
	recent := append(history[len(history)-3:len(history):len(history)], stats)
	var sum float64
	for _, h := range recent {
		sum += h.Polarization
	}
	mean := sum / float64(len(recent))

	var variance float64
	for _, h := range recent {
		d := h.Polarization - mean
		variance += d * d
	}
	variance /= float64(len(recent))

	if variance < steadyPolarVar {
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == steadyWindows { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Polarization steady at %.2f over %d windows", mean, steadyWindows),
		}
	}

	return nil
}
