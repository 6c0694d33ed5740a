package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
)

// SeedParams controls the initial particle layout.
type SeedParams struct {
	ClumpCount    int
	ClumpFraction float32
	ClumpRadius   float32 // Fraction of min(width, height)
	LooseMaxHeat  float32
}

// SeedParamsFromConfig extracts seeding parameters from the loaded config.
func SeedParamsFromConfig(cfg *config.Config) SeedParams {
	return SeedParams{
		ClumpCount:    cfg.Particles.ClumpCount,
		ClumpFraction: float32(cfg.Particles.ClumpFraction),
		ClumpRadius:   float32(cfg.Particles.ClumpRadius),
		LooseMaxHeat:  float32(cfg.Particles.LooseMaxHeat),
	}
}

// ParticleCount derives the particle count from viewport area, capped at max.
func ParticleCount(width, height int, density float64, max int) int {
	n := int(math.Round(float64(width) * float64(height) * density))
	if n < 0 {
		n = 0
	}
	if n > max {
		n = max
	}
	return n
}

// CreateParticles seeds count particles. Most of them are grouped into
// circular clumps centered in the lower half of the viewport, each clump
// sharing one starting heat; the rest are scattered uniformly.
func CreateParticles(rng *rand.Rand, width, height float32, count int, p SeedParams) []components.Particle {
	particles := make([]components.Particle, 0, count)
	if count == 0 {
		return particles
	}

	clumps := p.ClumpCount
	if clumps < 1 {
		clumps = 1
	}
	inClumps := int(float32(count) * p.ClumpFraction)
	if inClumps > count {
		inClumps = count
	}
	perClump := inClumps / clumps

	radius := p.ClumpRadius * min(width, height)

	for c := 0; c < clumps && perClump > 0; c++ {
		cx := rng.Float32() * width
		// Biased toward the bottom: centers land in [0.5H, H)
		cy := height * (0.5 + 0.5*rng.Float32())
		heat := rng.Float32()

		for k := 0; k < perClump; k++ {
			angle := rng.Float64() * 2 * math.Pi
			r := radius * float32(math.Sqrt(rng.Float64()))
			particles = append(particles, components.Particle{
				X:    clampf(cx+r*float32(math.Cos(angle)), 0, width),
				Y:    clampf(cy+r*float32(math.Sin(angle)), 0, height),
				Heat: heat,
			})
		}
	}

	for len(particles) < count {
		particles = append(particles, components.Particle{
			X:    rng.Float32() * width,
			Y:    rng.Float32() * height,
			Heat: rng.Float32() * p.LooseMaxHeat,
		})
	}

	return particles
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
