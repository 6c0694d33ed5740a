package game

import (
	"math"

	"github.com/pthm-cable/lava/config"
)

// SpeedScale maps a slider index to a time-scale multiplier. Index 0 freezes
// time, Midpoint maps to MidScale and Steps to MaxScale. In between the
// curve is exponential in the index, so each slider notch changes speed by
// the same ratio.
func SpeedScale(index int, cfg config.SpeedConfig) float64 {
	if index <= 0 {
		return 0
	}
	if index >= cfg.Steps {
		return cfg.MaxScale
	}
	t := float64(index-cfg.Midpoint) / float64(cfg.Steps-cfg.Midpoint)
	return cfg.MidScale * math.Pow(cfg.MaxScale/cfg.MidScale, t)
}

// clampSpeedIndex keeps a slider index inside [0, steps].
func clampSpeedIndex(index, steps int) int {
	return max(0, min(index, steps))
}
