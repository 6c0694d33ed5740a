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

func TestBookmarkDetector_HeatSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Cool history
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), HeatMean: 0.1})
	}

	// Mean heat 4x the rolling average
	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, HeatMean: 0.4})
	if !hasBookmark(bookmarks, BookmarkHeatSurge) {
		t.Error("expected heat_surge bookmark")
	}
}

func TestBookmarkDetector_HeatCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), HotFraction: 0.6})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, HotFraction: 0.2})
	if !hasBookmark(bookmarks, BookmarkHeatCollapse) {
		t.Error("expected heat_collapse bookmark")
	}

	// Peak resets after triggering, so the same level does not fire again
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, HotFraction: 0.2})
	if hasBookmark(bookmarks, BookmarkHeatCollapse) {
		t.Error("collapse should not repeat at the new level")
	}
}

func TestBookmarkDetector_SchedulerStall(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bookmarks := bd.Check(WindowStats{Frames: 60}); hasBookmark(bookmarks, BookmarkSchedulerStall) {
		t.Error("no discards should not be a stall")
	}
	if bookmarks := bd.Check(WindowStats{Frames: 60, Discards: 2}); !hasBookmark(bookmarks, BookmarkSchedulerStall) {
		t.Error("expected scheduler_stall bookmark")
	}
}

func TestBookmarkDetector_SteadyConvection(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			HeatMean:      0.4,
			HotFraction:   0.3,
		})
		if hasBookmark(bookmarks, BookmarkSteadyConvection) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected steady_convection exactly once, got %d", fired)
	}
}

func TestBookmarkDetector_HistoryOrder(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 7; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i)})
	}

	history := bd.getHistory()
	if len(history) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(history))
	}
	for i, h := range history {
		if h.WindowEndTick != int32(i+2) {
			t.Errorf("history[%d] = tick %d, want %d", i, h.WindowEndTick, i+2)
		}
	}
}
