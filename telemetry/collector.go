package telemetry

import (
	"math"

	"github.com/pthm-cable/lava/components"
)

// Collector accumulates scheduler events within time windows and produces
// WindowStats. A tick is one physics step.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32
	hotThreshold        float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	frames   int
	steps    int
	discards int
	reseeds  int

	heats []float64 // scratch reused across flushes
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
// hotThreshold: heat above which a particle counts as hot
func NewCollector(windowDurationSec float64, dt float32, hotThreshold float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		hotThreshold:        hotThreshold,
	}
}

// RecordFrame records one scheduler frame and the steps it ran.
func (c *Collector) RecordFrame(steps int, discarded bool) {
	c.frames++
	c.steps += steps
	if discarded {
		c.discards++
	}
}

// RecordReseed records a full particle reinitialization.
func (c *Collector) RecordReseed() {
	c.reseeds++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the current particle state and resets
// counters for the next window. neighbors holds the per-particle neighbor
// counts from the last step and may be shorter than particles (missing
// entries count as zero).
func (c *Collector) Flush(currentTick int32, particles []components.Particle, neighbors []int, height float32) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		Frames:          c.frames,
		Steps:           c.steps,
		Discards:        c.discards,
		Reseeds:         c.reseeds,
		Particles:       len(particles),
	}

	n := len(particles)
	if n > 0 {
		c.heats = c.heats[:0]
		var speedSum, ySum, hotYSum float64
		var neighborSum, isolated, hot int

		for i := range particles {
			p := &particles[i]
			c.heats = append(c.heats, float64(p.Heat))
			speedSum += math.Hypot(float64(p.VX), float64(p.VY))
			ySum += float64(p.Y)
			if float64(p.Heat) > c.hotThreshold {
				hotYSum += float64(p.Y)
				hot++
			}

			nb := 0
			if i < len(neighbors) {
				nb = neighbors[i]
			}
			neighborSum += nb
			if nb == 0 {
				isolated++
			}
		}

		heat := ComputeHeatStats(c.heats, c.hotThreshold)
		stats.HeatMean = heat.Mean
		stats.HeatStd = heat.Std
		stats.HeatP10 = heat.P10
		stats.HeatP50 = heat.P50
		stats.HeatP90 = heat.P90
		stats.HotFraction = heat.HotFraction

		stats.NeighborsMean = float64(neighborSum) / float64(n)
		stats.IsolatedFraction = float64(isolated) / float64(n)
		stats.SpeedMean = speedSum / float64(n)
		if height > 0 {
			stats.CentroidY = ySum / float64(n) / float64(height)
			if hot > 0 {
				stats.HotHeight = hotYSum / float64(hot) / float64(height)
			}
		}
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.steps = 0
	c.discards = 0
	c.reseeds = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
