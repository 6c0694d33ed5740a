package main

import (
	"testing"

	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/telemetry"
)

func TestComputeQualityWarmupOnly(t *testing.T) {
	windows := make([]telemetry.WindowStats, qualityWarmupWindows)
	if q := computeQuality(windows); q != 0 {
		t.Errorf("quality = %v, want 0 for warmup-only runs", q)
	}
}

func TestComputeQualityPrefersConvection(t *testing.T) {
	still := make([]telemetry.WindowStats, 8)
	lively := make([]telemetry.WindowStats, 8)
	for i := range lively {
		still[i] = telemetry.WindowStats{HotFraction: 0, HeatStd: 0.01, IsolatedFraction: 0.9, HotHeight: 0}
		lively[i] = telemetry.WindowStats{
			HotFraction:      targetHotFraction,
			HeatStd:          targetHeatStd,
			IsolatedFraction: 0.1,
			HotHeight:        0.3 + 0.2*float64(i%2),
		}
	}

	qs, ql := computeQuality(still), computeQuality(lively)
	if ql <= qs {
		t.Errorf("lively quality %v should beat still quality %v", ql, qs)
	}
	if ql < 0 || ql > 1 || qs < 0 || qs > 1 {
		t.Errorf("quality outside [0,1]: still=%v lively=%v", qs, ql)
	}
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if d := raw[i] - back[i]; d > 1e-12 || d < -1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e6
	}
	pv.ApplyToConfig(cfg, values)
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got[i], spec.Max)
		}
	}
}
