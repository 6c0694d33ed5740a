package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/lava/components"
)

func TestCollectorWindowTicks(t *testing.T) {
	c := NewCollector(10, 1.0/60, 0.5)
	if c.ShouldFlush(599) {
		t.Error("should not flush before a full window")
	}
	if !c.ShouldFlush(600) {
		t.Error("should flush after a full window")
	}

	tests := []struct {
		name   string
		window float64
		dt     float32
		want   int32
	}{
		{"60hz rounds down float32 step", 10, 1.0 / 60, 600},
		{"60hz from nanoseconds", 10, float32(16666666e-9), 600},
		{"120hz", 5, 1.0 / 120, 600},
		{"30hz", 1, 1.0 / 30, 30},
		{"shorter than a tick", 0.001, 1.0 / 60, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCollector(tt.window, tt.dt, 0.5).WindowDurationTicks()
			if got != tt.want {
				t.Errorf("WindowDurationTicks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0.5, 0.5)

	c.RecordFrame(1, false)
	c.RecordFrame(5, true)
	c.RecordReseed()

	particles := []components.Particle{
		{X: 0, Y: 100, VX: 3, VY: 4, Heat: 0.9},
		{X: 0, Y: 300, Heat: 0.1},
	}
	neighbors := []int{2}

	s := c.Flush(4, particles, neighbors, 400)

	if s.WindowStartTick != 0 || s.WindowEndTick != 4 {
		t.Errorf("window = [%d,%d], want [0,4]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.SimTimeSec != 2 {
		t.Errorf("SimTimeSec = %v, want 2", s.SimTimeSec)
	}
	if s.Frames != 2 || s.Steps != 6 || s.Discards != 1 || s.Reseeds != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 2/6/1/1", s.Frames, s.Steps, s.Discards, s.Reseeds)
	}
	if s.Particles != 2 {
		t.Errorf("Particles = %d, want 2", s.Particles)
	}
	if math.Abs(s.HeatMean-0.5) > 1e-6 {
		t.Errorf("HeatMean = %v, want 0.5", s.HeatMean)
	}
	if s.HotFraction != 0.5 {
		t.Errorf("HotFraction = %v, want 0.5", s.HotFraction)
	}
	if s.NeighborsMean != 1 {
		t.Errorf("NeighborsMean = %v, want 1", s.NeighborsMean)
	}
	// Second particle has no neighbor entry
	if s.IsolatedFraction != 0.5 {
		t.Errorf("IsolatedFraction = %v, want 0.5", s.IsolatedFraction)
	}
	if math.Abs(s.SpeedMean-2.5) > 1e-6 {
		t.Errorf("SpeedMean = %v, want 2.5", s.SpeedMean)
	}
	if math.Abs(s.CentroidY-0.5) > 1e-6 {
		t.Errorf("CentroidY = %v, want 0.5", s.CentroidY)
	}
	if math.Abs(s.HotHeight-0.25) > 1e-6 {
		t.Errorf("HotHeight = %v, want 0.25", s.HotHeight)
	}

	next := c.Flush(6, nil, nil, 400)
	if next.WindowStartTick != 4 {
		t.Errorf("next window start = %d, want 4", next.WindowStartTick)
	}
	if next.Frames != 0 || next.Steps != 0 || next.Discards != 0 || next.Reseeds != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.HeatMean != 0 || next.Particles != 0 {
		t.Errorf("empty flush should have zero heat stats: %+v", next)
	}
}
