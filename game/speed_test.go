package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/lava/config"
)

func TestSpeedScale(t *testing.T) {
	config.MustInit("")
	cfg := config.Cfg().Speed

	tests := []struct {
		name  string
		index int
		want  float64
	}{
		{"frozen", 0, 0},
		{"negative frozen", -3, 0},
		{"midpoint", cfg.Midpoint, cfg.MidScale},
		{"top", cfg.Steps, cfg.MaxScale},
		{"past top", cfg.Steps + 5, cfg.MaxScale},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SpeedScale(tc.index, cfg)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("SpeedScale(%d) = %v, want %v", tc.index, got, tc.want)
			}
		})
	}
}

func TestSpeedScaleIsEvenRatio(t *testing.T) {
	cfg := config.SpeedConfig{Steps: 20, Midpoint: 10, MidScale: 0.5, MaxScale: 4}

	prev := SpeedScale(1, cfg)
	if prev <= 0 {
		t.Fatalf("index 1 = %v, want positive", prev)
	}
	ratio := SpeedScale(2, cfg) / prev
	for i := 2; i <= cfg.Steps; i++ {
		cur := SpeedScale(i, cfg)
		if cur <= prev {
			t.Fatalf("not increasing at %d: %v <= %v", i, cur, prev)
		}
		if r := cur / prev; math.Abs(r-ratio) > 1e-9 {
			t.Errorf("ratio at %d = %v, want %v", i, r, ratio)
		}
		prev = cur
	}
}

func TestClampSpeedIndex(t *testing.T) {
	for _, tc := range []struct{ in, want int }{{-1, 0}, {0, 0}, {7, 7}, {20, 20}, {21, 20}} {
		if got := clampSpeedIndex(tc.in, 20); got != tc.want {
			t.Errorf("clampSpeedIndex(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
