// Package game wires the simulation, palette, renderer, waveform and
// telemetry into the frame loop driven by main.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
	"github.com/pthm-cable/lava/renderer"
	"github.com/pthm-cable/lava/systems"
	"github.com/pthm-cable/lava/telemetry"
	"github.com/pthm-cable/lava/ui"
	"github.com/pthm-cable/lava/waveform"
)

// Options configures a new game.
type Options struct {
	Seed        int64               // RNG seed (0 = time-based)
	LogStats    bool                // Log window and perf stats via slog
	SnapshotDir string              // Save a snapshot on every bookmark (empty = off)
	OutputDir   string              // CSV and config output (empty = off)
	Headless    bool                // No window; CPU rasterizer on a synthetic clock
	NoRender    bool                // Headless only: skip rasterizing entirely
	Resume      *telemetry.Snapshot // Start from a saved snapshot
	Width       int                 // Viewport size (0 = screen config)
	Height      int
	Config      *config.Config // Per-run config (nil = global)
}

// WaveformSink receives the waveform sample array once per frame.
type WaveformSink interface {
	SetWaveform(samples []float32)
}

// Game holds the complete lamp state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	sim  *systems.Sim
	seed systems.SeedParams
	pal  *palette.Palette

	// Exactly one of these is set
	renderer renderer.Renderer
	raster   *renderer.Rasterizer

	sched     *Scheduler
	clock     time.Time // Synthetic clock for headless runs
	lastFrame time.Time
	frameDT   float64 // Wall seconds since the previous frame
	ptr       components.Pointer

	// UI
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlStrip
	bindings  *ui.Bindings
	showHUD   bool
	showPerf  bool

	// Audio
	wave *waveform.Session
	sink WaveformSink

	// State
	tick       int32
	paused     bool
	speedIndex int
	headless   bool
	noRender   bool
	width      int
	height     int

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	logStats      bool
	snapshotDir   string
	neighbors     []int
	lastStats     telemetry.WindowStats
	statsCallback func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game. In windowed mode the raylib window
// must already exist.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = cfg.Screen.Width, cfg.Screen.Height
	}

	seed := opts.Seed
	if opts.Resume != nil {
		seed = opts.Resume.RNGSeed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(seed)),
		rngSeed:     seed,
		seed:        systems.SeedParamsFromConfig(cfg),
		speedIndex:  clampSpeedIndex(cfg.Speed.DefaultIndex, cfg.Speed.Steps),
		headless:    opts.Headless,
		noRender:    opts.Headless && opts.NoRender,
		width:       width,
		height:      height,
		logStats:    opts.LogStats,
		snapshotDir: opts.SnapshotDir,
		showHUD:     true,
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(
			cfg.Telemetry.StatsWindow,
			float32(cfg.Derived.FixedStep.Seconds()),
			cfg.Telemetry.HotThreshold,
		),
		bookmarks: telemetry.NewBookmarkDetector(10),
		sched:     NewScheduler(cfg.Derived.FixedStep, cfg.Derived.MaxFrameGap, cfg.Scheduler.MaxCatchUp),
	}

	params := systems.PhysicsParamsFromConfig(cfg)
	low, high := cfg.Colors.Low, cfg.Colors.High
	if snap := opts.Resume; snap != nil {
		particles := snap.Particles
		if maxCount := cfg.Particles.MaxCount; len(particles) > maxCount {
			slog.Warn("snapshot exceeds particle cap, truncating",
				"particles", len(particles),
				"max_count", maxCount,
			)
			particles = particles[:maxCount]
		}
		g.sim = systems.NewSim(snap.Width, snap.Height, params)
		g.sim.SetParticles(append([]components.Particle(nil), particles...))
		g.sim.Resize(float32(width), float32(height))
		g.tick = snap.Tick
		low, high = snap.LowColor, snap.HighColor
		slog.Info("resumed from snapshot", "tick", snap.Tick, "particles", len(particles))
	} else {
		g.sim = systems.NewSim(float32(width), float32(height), params)
		g.sim.Reset(g.rng, g.particleCount(), g.seed)
	}
	g.sim.OnPhase = g.perf.StartPhase

	drift := palette.NewDrift(g.rng, cfg.Colors.DriftMinRate, cfg.Colors.DriftMaxRate)
	pal, err := palette.New(low, high, drift)
	if err != nil {
		return nil, fmt.Errorf("building palette: %w", err)
	}
	pal.SetRainbow(cfg.Colors.Rainbow)
	pal.SetSpectrum(cfg.Colors.Spectrum)
	g.pal = pal

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.outputManager = om

	if g.headless {
		if !g.noRender {
			g.raster = renderer.NewRasterizer(
				float32(cfg.Render.ParticleRadius),
				float32(cfg.Render.Threshold),
				cfg.Render.BlockSizes,
				cfg.Render.Workers,
			)
			g.raster.Resize(width, height)
		}
		g.clock = time.Unix(0, 0)
		g.sched.Advance(g.clock)
	} else {
		g.renderer = renderer.New(cfg, width, height)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel()
		g.controls = ui.NewControlStrip()
		g.bindings = ui.NewBindings()
		g.sink = g.hud
		g.startAudio()
	}

	slog.Info("game created",
		"seed", seed,
		"particles", len(g.sim.Particles),
		"width", width,
		"height", height,
		"headless", g.headless,
	)
	return g, nil
}

// particleCount returns the seed count for the current viewport.
func (g *Game) particleCount() int {
	return systems.ParticleCount(g.width, g.height, g.cfg.Particles.Density, g.cfg.Particles.MaxCount)
}

// startAudio opens the waveform session when audio is enabled. Failures are
// logged and leave the lamp running without a waveform strip.
func (g *Game) startAudio() {
	if !g.cfg.Audio.Enabled {
		return
	}
	wave := waveform.NewSession(waveform.OptionsFromConfig(g.cfg.Audio))
	if err := wave.Initialize(); err != nil {
		slog.Warn("audio unavailable", "error", err)
		return
	}
	if err := wave.Resume(); err != nil {
		slog.Warn("audio unavailable", "error", err)
		wave.Dispose()
		return
	}
	g.wave = wave
	slog.Info("audio started", "path", g.cfg.Audio.Path, "output", g.cfg.Audio.Output)
}

// Update runs one display frame: input, every due physics step, then a
// single render.
func (g *Game) Update() {
	now := time.Now()
	if !g.lastFrame.IsZero() {
		g.frameDT = now.Sub(g.lastFrame).Seconds()
	}
	g.lastFrame = now

	g.handleInput()
	g.perf.StartTick()

	if g.paused {
		// No catch-up burst when resuming
		g.sched.Reset()
		g.Draw()
		return
	}

	steps := g.sched.Frame(now, g.step, g.Draw)
	g.collector.RecordFrame(steps, g.sched.Discarded())
}

// UpdateHeadless advances the synthetic clock by one fixed step and runs a
// frame without a window.
func (g *Game) UpdateHeadless() {
	g.clock = g.clock.Add(g.cfg.Derived.FixedStep)
	g.frameDT = g.cfg.Derived.FixedStep.Seconds()

	g.perf.StartTick()
	steps := g.sched.Frame(g.clock, g.step, g.drawHeadless)
	g.collector.RecordFrame(steps, g.sched.Discarded())
	g.perf.EndTick()
}

// step runs one fixed physics step at the current speed.
func (g *Game) step() {
	dt := float32(SpeedScale(g.speedIndex, g.cfg.Speed))
	g.sim.Step(dt, g.ptr)
	g.tick++

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// Draw renders one frame to the window.
func (g *Game) Draw() {
	g.perf.RecordFrame()

	g.perf.StartPhase(telemetry.PhasePalette)
	if !g.paused {
		g.pal.Update(g.frameDT)
	}
	g.feedWaveform()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.perf.StartPhase(telemetry.PhaseRender)
	g.renderer.Draw(g.sim.Particles, g.pal)

	if g.showHUD {
		g.drawHUD()
	}
	if g.showPerf {
		g.perfPanel.Draw(g.perf.Stats())
	}

	g.perf.EndTick()
	rl.EndDrawing()
}

// drawHeadless advances the palette and rasterizes into the offscreen frame.
func (g *Game) drawHeadless() {
	g.perf.RecordFrame()

	g.perf.StartPhase(telemetry.PhasePalette)
	g.pal.Update(g.frameDT)

	if g.noRender {
		return
	}
	g.perf.StartPhase(telemetry.PhaseRender)
	g.raster.Rasterize(g.sim.Particles, g.pal.LUT())
}

// drawHUD renders the stats panel, the control strip and the key legend.
func (g *Game) drawHUD() {
	summary := g.liveHeat()
	lut := g.pal.LUT()
	g.hud.Draw(ui.HUDData{
		FPS:         rl.GetFPS(),
		Tick:        g.tick,
		Particles:   len(g.sim.Particles),
		Renderer:    g.renderer.Name(),
		SpeedIndex:  g.speedIndex,
		SpeedScale:  SpeedScale(g.speedIndex, g.cfg.Speed),
		Paused:      g.paused,
		HeatMean:    float32(summary.Mean),
		HotFraction: float32(summary.HotFraction),
		Low:         lut[0],
		High:        lut[palette.Size-1],
		Rainbow:     g.pal.Rainbow(),
		Spectrum:    g.pal.Spectrum(),
	})

	res := g.controls.Draw(ui.ControlState{
		SpeedIndex: g.speedIndex,
		MaxIndex:   g.cfg.Speed.Steps,
		Rainbow:    g.pal.Rainbow(),
		Spectrum:   g.pal.Spectrum(),
	})
	g.applyControls(res)

	g.hud.DrawControls(int32(rl.GetScreenHeight())-g.controls.Height(), g.bindings.Legend(""))
}

// liveHeat summarizes the current heat distribution for the HUD.
func (g *Game) liveHeat() telemetry.HeatSummary {
	heats := make([]float64, len(g.sim.Particles))
	for i, p := range g.sim.Particles {
		heats[i] = float64(p.Heat)
	}
	return telemetry.ComputeHeatStats(heats, g.cfg.Telemetry.HotThreshold)
}

// applyControls copies edits from the control strip back into game state.
func (g *Game) applyControls(res ui.ControlResult) {
	g.speedIndex = clampSpeedIndex(res.SpeedIndex, g.cfg.Speed.Steps)
	if res.Rainbow != g.pal.Rainbow() {
		g.pal.SetRainbow(res.Rainbow)
	}
	if res.Spectrum != g.pal.Spectrum() {
		g.pal.SetSpectrum(res.Spectrum)
	}
	if res.Reseed {
		g.Reseed()
	}
}

// feedWaveform pulls this frame's audio through the session when nothing
// else drives it, then hands the samples and loudest band to the sink.
func (g *Game) feedWaveform() {
	if g.wave == nil || g.sink == nil {
		return
	}
	g.wave.Pump(int(float64(g.cfg.Audio.SampleRate) * g.frameDT))
	g.sink.SetWaveform(g.wave.Waveform(g.cfg.Audio.WaveformPoints))

	if g.hud == nil {
		return
	}
	bands := g.cfg.Audio.SpectrumBands
	if i, level := waveform.PeakBand(g.wave.Spectrum(bands)); i >= 0 {
		lo, hi := g.wave.BandRange(i, bands)
		g.hud.SetPeak(fmt.Sprintf("%.0f-%.0f Hz %.2f", lo, hi, level))
	} else {
		g.hud.SetPeak("")
	}
}

// SetWaveformSink replaces the receiver of the waveform sample array.
func (g *Game) SetWaveformSink(sink WaveformSink) {
	g.sink = sink
}

// Resize propagates a new viewport size. Particles are clamped, never
// reseeded.
func (g *Game) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == g.width && height == g.height) {
		return
	}
	g.width, g.height = width, height
	g.sim.Resize(float32(width), float32(height))
	if g.renderer != nil {
		g.renderer.Resize(width, height)
	}
	if g.raster != nil {
		g.raster.Resize(width, height)
	}
	slog.Info("viewport resized", "width", width, "height", height)
}

// Reseed replaces every particle with a fresh seeding for the current
// viewport.
func (g *Game) Reseed() {
	g.sim.Reset(g.rng, g.particleCount(), g.seed)
	g.collector.RecordReseed()
	slog.Info("reseeded", "tick", g.tick, "particles", len(g.sim.Particles))
}

// Tick returns the number of physics steps run.
func (g *Game) Tick() int32 {
	return g.tick
}

// Particles returns the live particle slice. Callers must not modify it.
func (g *Game) Particles() []components.Particle {
	return g.sim.Particles
}

// Stats returns the most recently flushed window stats.
func (g *Game) Stats() telemetry.WindowStats {
	return g.lastStats
}

// SetStatsCallback sets a function called on every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// SetSpeedIndex sets the speed slider position, clamped to its range.
func (g *Game) SetSpeedIndex(index int) {
	g.speedIndex = clampSpeedIndex(index, g.cfg.Speed.Steps)
}

// RendererName returns the active renderer, or "none" in headless runs
// without rasterizing.
func (g *Game) RendererName() string {
	switch {
	case g.renderer != nil:
		return g.renderer.Name()
	case g.raster != nil:
		return "cpu-headless"
	default:
		return "none"
	}
}

// Unload releases GPU, audio and file resources.
// Calling it again is a no-op.
func (g *Game) Unload() {
	if g.renderer != nil {
		g.renderer.Unload()
		g.renderer = nil
	}
	if g.raster != nil {
		g.raster.Close()
		g.raster = nil
	}
	if g.wave != nil {
		if err := g.wave.Dispose(); err != nil {
			slog.Error("failed to dispose audio", "error", err)
		}
		g.wave = nil
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}
