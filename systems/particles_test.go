package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/lava/config"
)

func TestParticleCount(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		density float64
		max     int
		want    int
	}{
		{name: "rounded", w: 100, h: 100, density: 0.0018, max: 1000, want: 18},
		{name: "capped", w: 1920, h: 1080, density: 0.0018, max: 1400, want: 1400},
		{name: "empty viewport", w: 0, h: 480, density: 0.0018, max: 1400, want: 0},
		{name: "zero max", w: 640, h: 480, density: 0.0018, max: 0, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParticleCount(tc.w, tc.h, tc.density, tc.max); got != tc.want {
				t.Errorf("ParticleCount(%d,%d,%v,%d) = %d, want %d", tc.w, tc.h, tc.density, tc.max, got, tc.want)
			}
		})
	}
}

func TestCreateParticlesWithinBounds(t *testing.T) {
	config.MustInit("")
	seed := SeedParamsFromConfig(config.Cfg())

	for _, n := range []int{0, 1, 7, 500} {
		particles := CreateParticles(rand.New(rand.NewSource(11)), 320, 200, n, seed)
		if len(particles) != n {
			t.Fatalf("expected %d particles, got %d", n, len(particles))
		}
		for i, p := range particles {
			if p.X < 0 || p.X > 320 || p.Y < 0 || p.Y > 200 {
				t.Errorf("n=%d: particle %d at (%f,%f) out of bounds", n, i, p.X, p.Y)
			}
			if p.Heat < 0 || p.Heat > 1 {
				t.Errorf("n=%d: particle %d heat %f out of range", n, i, p.Heat)
			}
			if p.VX != 0 || p.VY != 0 {
				t.Errorf("n=%d: particle %d should start at rest", n, i)
			}
		}
	}
}

func TestCreateParticlesDeterministic(t *testing.T) {
	config.MustInit("")
	seed := SeedParamsFromConfig(config.Cfg())

	a := CreateParticles(rand.New(rand.NewSource(42)), 640, 480, 300, seed)
	b := CreateParticles(rand.New(rand.NewSource(42)), 640, 480, 300, seed)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs for identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCreateParticlesLooseHeatCap(t *testing.T) {
	seed := SeedParams{ClumpCount: 1, ClumpFraction: 0, ClumpRadius: 0.1, LooseMaxHeat: 0.3}
	particles := CreateParticles(rand.New(rand.NewSource(5)), 100, 100, 200, seed)
	for i, p := range particles {
		if p.Heat >= 0.3 {
			t.Errorf("loose particle %d heat %f should be below 0.3", i, p.Heat)
		}
	}
}
