package game

import (
	"log/slog"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.neighbors = g.sim.NeighborCounts(g.neighbors)
	stats := g.collector.Flush(g.tick, g.sim.Particles, g.neighbors, g.sim.Viewport.H)
	perfStats := g.perf.Stats()
	g.lastStats = stats

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot saves the current state to a snapshot file. Manual snapshots
// without a snapshot directory go to the working directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	dir := g.snapshotDir
	if dir == "" {
		dir = "."
	}

	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot captures the particle state and the settings needed to
// resume it.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	low, high := g.pal.Colors()
	return &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RNGSeed:   g.rngSeed,
		Width:     g.sim.Viewport.W,
		Height:    g.sim.Viewport.H,
		Tick:      g.tick,
		LowColor:  low,
		HighColor: high,
		Particles: append([]components.Particle(nil), g.sim.Particles...),
		Bookmark:  bookmark,
	}
}
