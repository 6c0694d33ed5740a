package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHeatSurge        BookmarkType = "heat_surge"
	BookmarkHeatCollapse     BookmarkType = "heat_collapse"
	BookmarkSchedulerStall   BookmarkType = "scheduler_stall"
	BookmarkSteadyConvection BookmarkType = "steady_convection"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the lamp's behavior.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentHotPeak      float64 // peak hot fraction in recent history
	steadyWindowsCount int     // consecutive windows with steady heat
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady convection detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkStall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkHeatSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkHeatCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyConvection(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.HotFraction > bd.recentHotPeak {
		bd.recentHotPeak = stats.HotFraction
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

// checkStall fires when the scheduler had to drop time in this window.
func (bd *BookmarkDetector) checkStall(stats WindowStats) *Bookmark {
	if stats.Discards == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSchedulerStall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d frames hit the catch-up cap", stats.Discards, stats.Frames),
	}
}

// checkHeatSurge fires when mean heat doubles against the rolling average.
func (bd *BookmarkDetector) checkHeatSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.HeatMean
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.HeatMean > avg*2.0 && stats.HeatMean > 0.3 {
		return &Bookmark{
			Type:        BookmarkHeatSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean heat %.2f is %.1fx average (%.2f)", stats.HeatMean, stats.HeatMean/avg, avg),
		}
	}
	return nil
}

// checkHeatCollapse fires when the hot fraction falls more than half from
// its recent peak.
func (bd *BookmarkDetector) checkHeatCollapse(stats WindowStats) *Bookmark {
	if bd.recentHotPeak < 0.1 {
		return nil
	}

	drop := 1.0 - stats.HotFraction/bd.recentHotPeak
	if drop > 0.5 {
		oldPeak := bd.recentHotPeak
		bd.recentHotPeak = stats.HotFraction

		return &Bookmark{
			Type:        BookmarkHeatCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Hot fraction fell %.0f%% from peak %.2f to %.2f", drop*100, oldPeak, stats.HotFraction),
		}
	}
	return nil
}

// checkSteadyConvection fires once after five consecutive windows whose
// mean heat varies little while some, but not all, particles are hot.
func (bd *BookmarkDetector) checkSteadyConvection(stats WindowStats) *Bookmark {
	if stats.HotFraction < 0.05 || stats.HotFraction > 0.95 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	means := make([]float64, len(recent))
	for i, h := range recent {
		means[i] = h.HeatMean
	}
	mean, variance := stat.PopMeanVariance(means, nil)

	// CV^2 < 0.01 means CV < 0.1
	if mean > 0 && variance/(mean*mean) < 0.01 {
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkSteadyConvection,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady convection at mean heat %.2f, %.0f%% hot, over 5+ windows", stats.HeatMean, stats.HotFraction*100),
		}
	}
	return nil
}
