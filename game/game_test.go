package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/systems"
	"github.com/pthm-cable/lava/telemetry"
)

func headlessGame(t *testing.T, opts Options) *Game {
	t.Helper()
	config.MustInit("")
	opts.Headless = true
	if opts.Width == 0 {
		opts.Width, opts.Height = 320, 240
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func run(g *Game, frames int) {
	for i := 0; i < frames; i++ {
		g.UpdateHeadless()
	}
}

func TestHeadlessRunsOneStepPerUpdate(t *testing.T) {
	g := headlessGame(t, Options{Seed: 1, NoRender: true})
	cfg := config.Cfg()
	want := systems.ParticleCount(320, 240, cfg.Particles.Density, cfg.Particles.MaxCount)

	run(g, 120)

	if g.Tick() != 120 {
		t.Errorf("Tick() = %d, want 120", g.Tick())
	}
	if len(g.Particles()) != want {
		t.Errorf("particle count = %d, want %d", len(g.Particles()), want)
	}
	if g.RendererName() != "none" {
		t.Errorf("RendererName() = %q, want none", g.RendererName())
	}
}

func TestHeadlessRasterizes(t *testing.T) {
	g := headlessGame(t, Options{Seed: 1, Width: 64, Height: 48})
	run(g, 10)

	if g.RendererName() != "cpu-headless" {
		t.Errorf("RendererName() = %q, want cpu-headless", g.RendererName())
	}
	if g.Tick() != 10 {
		t.Errorf("Tick() = %d, want 10", g.Tick())
	}
}

func TestHeadlessDeterministic(t *testing.T) {
	a := headlessGame(t, Options{Seed: 7, NoRender: true})
	b := headlessGame(t, Options{Seed: 7, NoRender: true})
	run(a, 60)
	run(b, 60)

	pa, pb := a.Particles(), b.Particles()
	if len(pa) != len(pb) {
		t.Fatalf("particle counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestStatsCallbackOncePerWindow(t *testing.T) {
	g := headlessGame(t, Options{Seed: 3, NoRender: true})
	windowTicks := int(g.collector.WindowDurationTicks())

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		windows = append(windows, s)
	})
	run(g, windowTicks)

	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	w := windows[0]
	if int(w.WindowEndTick) != windowTicks {
		t.Errorf("WindowEndTick = %d, want %d", w.WindowEndTick, windowTicks)
	}
	if w.Particles != len(g.Particles()) {
		t.Errorf("Particles = %d, want %d", w.Particles, len(g.Particles()))
	}
	if w.Discards != 0 {
		t.Errorf("Discards = %d, want 0 on a steady clock", w.Discards)
	}
	if w.HeatMean < 0 || w.HeatMean > 1 {
		t.Errorf("HeatMean = %v outside [0,1]", w.HeatMean)
	}
	if g.Stats().WindowEndTick != w.WindowEndTick {
		t.Error("Stats() should return the last flushed window")
	}
}

func TestResizeClampsWithoutReseed(t *testing.T) {
	g := headlessGame(t, Options{Seed: 5, NoRender: true})
	run(g, 30)
	before := len(g.Particles())

	g.Resize(100, 80)

	if len(g.Particles()) != before {
		t.Errorf("particle count changed on resize: %d -> %d", before, len(g.Particles()))
	}
	for i, p := range g.Particles() {
		if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 80 {
			t.Fatalf("particle %d at (%v, %v) outside 100x80", i, p.X, p.Y)
		}
	}

	run(g, 30)
	if len(g.Particles()) != before {
		t.Errorf("particle count changed after stepping: %d", len(g.Particles()))
	}
}

func TestReseedRecorded(t *testing.T) {
	g := headlessGame(t, Options{Seed: 9, NoRender: true})
	windowTicks := int(g.collector.WindowDurationTicks())

	var reseeds int
	g.SetStatsCallback(func(s telemetry.WindowStats) { reseeds = s.Reseeds })

	g.Reseed()
	g.Reseed()
	run(g, windowTicks)

	if reseeds != 2 {
		t.Errorf("Reseeds = %d, want 2", reseeds)
	}
}

func TestZeroSpeedFreezesParticles(t *testing.T) {
	g := headlessGame(t, Options{Seed: 11, NoRender: true})
	g.SetSpeedIndex(0)
	before := append(g.Particles()[:0:0], g.Particles()...)

	run(g, 20)

	if g.Tick() != 20 {
		t.Errorf("Tick() = %d, want 20", g.Tick())
	}
	for i, p := range g.Particles() {
		if p.X != before[i].X || p.Y != before[i].Y {
			t.Fatalf("particle %d moved at speed 0", i)
		}
	}
}

func TestSnapshotResume(t *testing.T) {
	a := headlessGame(t, Options{Seed: 13, NoRender: true})
	run(a, 30)
	snap := a.createSnapshot(nil)

	b := headlessGame(t, Options{Resume: snap, NoRender: true})
	if b.Tick() != 30 {
		t.Errorf("resumed Tick() = %d, want 30", b.Tick())
	}
	if b.rngSeed != 13 {
		t.Errorf("resumed seed = %d, want 13", b.rngSeed)
	}

	run(a, 30)
	run(b, 30)
	pa, pb := a.Particles(), b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d diverged after resume: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestOutputDirWritesFiles(t *testing.T) {
	dir := t.TempDir()
	g := headlessGame(t, Options{Seed: 17, NoRender: true, OutputDir: dir})
	run(g, int(g.collector.WindowDurationTicks()))
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(data) == 0 {
		t.Error("telemetry.csv is empty")
	}
}

func TestSnapshotResumeTruncatesToCap(t *testing.T) {
	a := headlessGame(t, Options{Seed: 19, NoRender: true})
	snap := a.createSnapshot(nil)
	if len(snap.Particles) < 10 {
		t.Fatalf("need at least 10 particles, got %d", len(snap.Particles))
	}

	cfg := *config.Cfg()
	cfg.Particles.MaxCount = len(snap.Particles) / 2
	b := headlessGame(t, Options{Resume: snap, NoRender: true, Config: &cfg})

	if got := len(b.Particles()); got != cfg.Particles.MaxCount {
		t.Fatalf("resumed particle count = %d, want cap %d", got, cfg.Particles.MaxCount)
	}
	for i, p := range b.Particles() {
		if p != snap.Particles[i] {
			t.Fatalf("particle %d = %+v, want %+v", i, p, snap.Particles[i])
		}
	}

	run(b, 30)
	if got := len(b.Particles()); got != cfg.Particles.MaxCount {
		t.Errorf("particle count after stepping = %d, want %d", got, cfg.Particles.MaxCount)
	}
}
