package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scheduler activity during window
	Frames   int `csv:"frames"`
	Steps    int `csv:"steps"`
	Discards int `csv:"discards"` // Frames that dropped leftover time after the catch-up cap
	Reseeds  int `csv:"reseeds"`

	// Particle state at window end
	Particles int `csv:"particles"`

	// Heat distribution
	HeatMean    float64 `csv:"heat_mean"`
	HeatStd     float64 `csv:"heat_std"`
	HeatP10     float64 `csv:"heat_p10"`
	HeatP50     float64 `csv:"heat_p50"`
	HeatP90     float64 `csv:"heat_p90"`
	HotFraction float64 `csv:"hot_fraction"`

	// Clumping
	NeighborsMean    float64 `csv:"neighbors_mean"`
	IsolatedFraction float64 `csv:"isolated_fraction"`

	// Motion
	SpeedMean float64 `csv:"speed_mean"`
	CentroidY float64 `csv:"centroid_y"`     // Mean y over height; 0 = top
	HotHeight float64 `csv:"hot_centroid_y"` // Mean y of hot particles over height
}

// Percentile returns the p-th quantile of a sorted slice using gonum's
// linear interpolation of the empirical distribution. p is clamped to [0, 1].
// Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(max(0, min(p, 1)), stat.LinInterp, sorted, nil)
}

// HeatSummary is the distribution of particle heat at one instant.
type HeatSummary struct {
	Mean, Std     float64
	P10, P50, P90 float64
	HotFraction   float64
}

// ComputeHeatStats summarizes heat values. Std is the population standard
// deviation. hot counts values strictly above hotThreshold.
func ComputeHeatStats(values []float64, hotThreshold float64) HeatSummary {
	n := len(values)
	if n == 0 {
		return HeatSummary{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)

	var hot int
	for _, v := range values {
		if v > hotThreshold {
			hot++
		}
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return HeatSummary{
		Mean:        mean,
		Std:         math.Sqrt(variance),
		P10:         Percentile(sorted, 0.10),
		P50:         Percentile(sorted, 0.50),
		P90:         Percentile(sorted, 0.90),
		HotFraction: float64(hot) / float64(n),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Int("steps", s.Steps),
		slog.Int("discards", s.Discards),
		slog.Int("reseeds", s.Reseeds),
		slog.Int("particles", s.Particles),
		slog.Float64("heat_mean", s.HeatMean),
		slog.Float64("heat_std", s.HeatStd),
		slog.Float64("heat_p10", s.HeatP10),
		slog.Float64("heat_p50", s.HeatP50),
		slog.Float64("heat_p90", s.HeatP90),
		slog.Float64("hot_fraction", s.HotFraction),
		slog.Float64("neighbors_mean", s.NeighborsMean),
		slog.Float64("isolated_fraction", s.IsolatedFraction),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("hot_centroid_y", s.HotHeight),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"frames", s.Frames,
		"steps", s.Steps,
		"discards", s.Discards,
		"particles", s.Particles,
		"heat_mean", s.HeatMean,
		"heat_p10", s.HeatP10,
		"heat_p50", s.HeatP50,
		"heat_p90", s.HeatP90,
		"hot_fraction", s.HotFraction,
		"neighbors_mean", s.NeighborsMean,
		"isolated_fraction", s.IsolatedFraction,
		"speed_mean", s.SpeedMean,
		"centroid_y", s.CentroidY,
		"hot_centroid_y", s.HotHeight,
	)
}
