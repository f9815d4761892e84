package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_NoBookmarksInitially(t *testing.T) {
	bd := NewBookmarkDetector(10)

	stats := WindowStats{
		WindowEndTick: 600,
		Count:         1000,
		Polarization:  0.95,
	}

	bookmarks := bd.Check(stats)
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks on first check, got %d", len(bookmarks))
	}
}

func TestBookmarkDetector_Alignment(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 50), Count: 1000, Polarization: 0.4 + 0.1*float64(i)})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 150, Count: 1000, Polarization: 0.92})
	if !hasBookmark(bookmarks, BookmarkAlignment) {
		t.Error("expected alignment bookmark")
	}

	// Staying aligned does not re-trigger.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 200, Count: 1000, Polarization: 0.95})
	if hasBookmark(bookmarks, BookmarkAlignment) {
		t.Error("alignment bookmark repeated while still aligned")
	}
}

func TestBookmarkDetector_Dispersal(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 50), Count: 1000, Polarization: 0.85})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 150, Count: 1000, Polarization: 0.4})
	if !hasBookmark(bookmarks, BookmarkDispersal) {
		t.Error("expected dispersal bookmark")
	}

	// Peak resets to the dispersed level.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 200, Count: 1000, Polarization: 0.35})
	if hasBookmark(bookmarks, BookmarkDispersal) {
		t.Error("dispersal bookmark repeated without a new peak")
	}
}

func TestBookmarkDetector_Crowding(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 50), Count: 1000, MaxCellOccupancy: 12})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 200, Count: 1000, MaxCellOccupancy: 40})
	if !hasBookmark(bookmarks, BookmarkCrowding) {
		t.Error("expected crowding bookmark")
	}

	small := NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		small.Check(WindowStats{WindowEndTick: int32(i * 50), Count: 10, MaxCellOccupancy: 2})
	}
	if hasBookmark(small.Check(WindowStats{Count: 10, MaxCellOccupancy: 8}), BookmarkCrowding) {
		t.Error("crowding bookmark for a cell below the minimum size")
	}
}

func TestBookmarkDetector_SteadyState(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		stats := WindowStats{
			WindowEndTick: int32(i * 50),
			Count:         1000,
			Polarization:  0.7,
		}
		if hasBookmark(bd.Check(stats), BookmarkSteadyState) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("steady state triggered %d times, want exactly 1", triggered)
	}
}

func TestBookmarkDetector_HistoryOrder(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 7; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i)})
	}

	h := bd.getHistory()
	if len(h) != 5 {
		t.Fatalf("history length = %d, want 5", len(h))
	}
	for i, w := range h {
		if w.WindowEndTick != int32(i+2) {
			t.Errorf("history[%d] ends at %d, want %d", i, w.WindowEndTick, i+2)
		}
	}
}
