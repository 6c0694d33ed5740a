package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/game"
	"github.com/pthm-cable/lava/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how lamp-like
// their convection looks.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better). Seeds
// run in parallel, each on its own config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			qualities[idx] = computeQuality(fe.runSimulation(x, s))
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(qualities, nil)

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return -quality
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Seed:     seed,
		Headless: true,
		NoRender: true,
		Config:   cfg,
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		windows = append(windows, stats)
	})

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig returns a copy of the base config that a run may modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Render.BlockSizes = append([]config.BlockSize(nil), fe.baseConfig.Render.BlockSizes...)
	return &cfg
}

// Quality component weights and targets.
const (
	qualityWeightHot         = 0.30
	qualityWeightMix         = 0.25
	qualityWeightClump       = 0.20
	qualityWeightCirculation = 0.25

	targetHotFraction = 0.3
	targetHeatStd     = 0.3
	fullCirculation   = 0.08 // Std of the hot centroid across windows that scores 1

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores a run in [0, 1]. A good lamp keeps a minority of
// particles hot, a wide heat spread, particles clumped into blobs, and a
// hot centroid that moves between windows.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	hot := make([]float64, len(valid))
	mix := make([]float64, len(valid))
	clump := make([]float64, len(valid))
	hotHeight := make([]float64, len(valid))
	for i, w := range valid {
		hot[i] = gaussian(w.HotFraction, targetHotFraction, 0.15)
		mix[i] = gaussian(w.HeatStd, targetHeatStd, 0.12)
		clump[i] = 1 - w.IsolatedFraction
		hotHeight[i] = w.HotHeight
	}

	circulation := 0.0
	if len(hotHeight) >= 2 {
		circulation = clamp01(stat.StdDev(hotHeight, nil) / fullCirculation)
	}

	quality := qualityWeightHot*stat.Mean(hot, nil) +
		qualityWeightMix*stat.Mean(mix, nil) +
		qualityWeightClump*stat.Mean(clump, nil) +
		qualityWeightCirculation*circulation

	return clamp01(quality)
}

// gaussian scores v by its distance from target in units of width.
func gaussian(v, target, width float64) float64 {
	d := (v - target) / width
	return math.Exp(-d * d)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}
