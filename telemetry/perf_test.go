package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseNeighbors)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseGrid]; !ok {
		t.Error("expected grid phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseNeighbors]; !ok {
		t.Error("expected neighbors phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrid)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)
	clock := time.Unix(0, 0)
	pc.SetClock(func() time.Time { return clock })

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		clock = clock.Add(10 * time.Microsecond)
		pc.StartPhase("slow")
		clock = clock.Add(90 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if math.Abs(fastPct-10) > 1e-9 || math.Abs(slowPct-90) > 1e-9 {
		t.Errorf("phase split = %v%% / %v%%, want 10%% / 90%%", fastPct, slowPct)
	}
	if stats.AvgTickDuration != 100*time.Microsecond {
		t.Errorf("AvgTickDuration = %v, want 100µs", stats.AvgTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// Sleep never undershoots, so a 16ms frame caps FPS at 62.5
	if stats.FPS > 63 {
		t.Errorf("expected FPS at most 63 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_RepeatedPhasesAccumulate(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	for step := 0; step < 3; step++ {
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseHeat)
	}
	pc.StartPhase(PhaseRender)
	pc.EndTick()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseIntegrate] < 150*time.Microsecond {
		t.Errorf("expected three integrate passes to add up, got %v", stats.PhaseAvg[PhaseIntegrate])
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			PhaseIntegrate: 10,
			PhaseNeighbors: 40,
			PhaseRender:    50,
		},
	}

	row := s.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 2000 {
		t.Errorf("unexpected header fields: %+v", row)
	}
	if row.IntegratePct != 10 || row.NeighborsPct != 40 || row.RenderPct != 50 {
		t.Errorf("unexpected phase columns: %+v", row)
	}
	if row.GridPct != 0 || row.HeatPct != 0 {
		t.Errorf("missing phases should be zero: %+v", row)
	}
}
