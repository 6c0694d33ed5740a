// Package systems contains the lava lamp simulation: particle seeding, the
// spatial grid and the physics stepper.
package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
)

// PhysicsParams holds the stepper constants as float32 for the hot path.
type PhysicsParams struct {
	Gravity            float32
	Buoyancy           float32
	Friction           float32
	CohesionRadius     float32
	CohesionStrength   float32
	Conduction         float32
	HeatSourceFraction float32
	HeatSourceRate     float32
	CoolingRate        float32
	AirFloor           float32
	MaxNeighbors       int
	PointerRadius      float32
	PointerHeat        float32
	Bounce             float32
	MaxDT              float32
}

// PhysicsParamsFromConfig converts the physics section of the config.
func PhysicsParamsFromConfig(cfg *config.Config) PhysicsParams {
	p := cfg.Physics
	return PhysicsParams{
		Gravity:            float32(p.Gravity),
		Buoyancy:           float32(p.Buoyancy),
		Friction:           float32(p.Friction),
		CohesionRadius:     float32(p.CohesionRadius),
		CohesionStrength:   float32(p.CohesionStrength),
		Conduction:         float32(p.Conduction),
		HeatSourceFraction: float32(p.HeatSourceFraction),
		HeatSourceRate:     float32(p.HeatSourceRate),
		CoolingRate:        float32(p.CoolingRate),
		AirFloor:           float32(p.AirFloor),
		MaxNeighbors:       p.MaxNeighbors,
		PointerRadius:      float32(p.PointerRadius),
		PointerHeat:        float32(p.PointerHeat),
		Bounce:             float32(p.Bounce),
		MaxDT:              float32(p.MaxDT),
	}
}

// Sim is the simulation context shared by the step phases. Within a step each
// phase is the sole writer of the state it touches: integrate writes
// positions, velocities and pointer heat; rebuildGrid writes the grid;
// interact writes velocities, heat and neighbor counts; exchangeHeat writes
// heat. Renderers read Particles between steps only.
type Sim struct {
	Particles []components.Particle
	Viewport  components.Viewport
	Params    PhysicsParams

	// OnPhase, when set, is called with a phase name as each step phase
	// begins. Used for per-phase timing.
	OnPhase func(phase string)

	neighbors []uint8
	grid      *Grid
}

// Step phase names reported through Sim.OnPhase.
const (
	PhaseIntegrate = "integrate"
	PhaseGrid      = "grid"
	PhaseNeighbors = "neighbors"
	PhaseHeat      = "heat"
)

// NewSim creates a simulation with no particles. Call Reset to seed it.
func NewSim(width, height float32, params PhysicsParams) *Sim {
	return &Sim{
		Viewport: components.Viewport{W: width, H: height},
		Params:   params,
		grid:     NewGrid(),
	}
}

// Reset replaces every particle with a freshly seeded set of count particles.
func (s *Sim) Reset(rng *rand.Rand, count int, seed SeedParams) {
	s.SetParticles(CreateParticles(rng, s.Viewport.W, s.Viewport.H, count, seed))
}

// SetParticles installs an explicit particle set, replacing the current one.
func (s *Sim) SetParticles(particles []components.Particle) {
	s.Particles = particles
	s.neighbors = make([]uint8, len(particles))
	s.grid.Reset()
}

// Resize changes the viewport. The grid is invalidated and particles are
// clamped into the new bounds; none are added, removed or reseeded.
func (s *Sim) Resize(width, height float32) {
	if width == s.Viewport.W && height == s.Viewport.H {
		return
	}
	s.Viewport = components.Viewport{W: width, H: height}
	s.grid.Reset()
	s.clampAll()
}

// Grid exposes the spatial grid as built by the last step.
func (s *Sim) Grid() *Grid {
	return s.grid
}

// Neighbors returns the neighbor count of particle i from the last step.
func (s *Sim) Neighbors(i int) int {
	return int(s.neighbors[i])
}

// NeighborCounts copies every particle's neighbor count into dst, growing it
// as needed, and returns it.
func (s *Sim) NeighborCounts(dst []int) []int {
	dst = dst[:0]
	for _, n := range s.neighbors {
		dst = append(dst, int(n))
	}
	return dst
}

func (s *Sim) phase(name string) {
	if s.OnPhase != nil {
		s.OnPhase(name)
	}
}

// Step advances the simulation by dt (clamped to [0, MaxDT]).
func (s *Sim) Step(dt float32, ptr components.Pointer) {
	if dt < 0 || math.IsNaN(float64(dt)) {
		dt = 0
	}
	if dt > s.Params.MaxDT {
		dt = s.Params.MaxDT
	}

	s.phase(PhaseIntegrate)
	s.integrate(dt, ptr)

	// Frozen time: nothing interacts
	if dt == 0 {
		s.clampAll()
		return
	}

	s.phase(PhaseGrid)
	s.rebuildGrid()
	s.phase(PhaseNeighbors)
	s.interact(dt)
	s.phase(PhaseHeat)
	s.exchangeHeat(dt)
	s.clampAll()
}

// integrate applies buoyancy, friction and pointer heat, then moves particles.
func (s *Sim) integrate(dt float32, ptr components.Pointer) {
	p := &s.Params
	friction := float32(math.Pow(float64(p.Friction), float64(dt)))
	pointerR2 := p.PointerRadius * p.PointerRadius

	for i := range s.Particles {
		pt := &s.Particles[i]

		pt.VY += (p.Gravity - pt.Heat*pt.Heat*p.Buoyancy) * dt
		pt.VX *= friction
		pt.VY *= friction
		pt.X += pt.VX * dt
		pt.Y += pt.VY * dt

		if ptr.Active && p.PointerRadius > 0 {
			dx := pt.X - ptr.X
			dy := pt.Y - ptr.Y
			d2 := dx*dx + dy*dy
			if d2 < pointerR2 {
				falloff := 1 - float32(math.Sqrt(float64(d2)))/p.PointerRadius
				delta := p.PointerHeat * falloff * dt
				if ptr.Cooling {
					delta = -delta
				}
				pt.Heat += delta
			}
		}

		s.neighbors[i] = 0
		s.clampBounds(pt)
	}
}

// rebuildGrid resizes the grid if needed and rebuilds every cell chain.
func (s *Sim) rebuildGrid() {
	s.grid.Ensure(s.Viewport.W, s.Viewport.H, len(s.Particles), s.Params.CohesionRadius)
	s.grid.Build(s.Particles)
}

// interact applies cohesion and conduction to every pair within the
// cohesion radius. Each unordered pair is visited once.
func (s *Sim) interact(dt float32) {
	p := &s.Params
	r := p.CohesionRadius
	r2 := r * r
	pull := p.CohesionStrength * dt
	conduct := p.Conduction * dt
	cols, rows := s.grid.Dims()

	for i := range s.Particles {
		a := &s.Particles[i]
		cx, cy := s.grid.CellOf(a.X, a.Y)

		for ny := cy - 1; ny <= cy+1; ny++ {
			if ny < 0 || ny >= rows {
				continue
			}
			for nx := cx - 1; nx <= cx+1; nx++ {
				if nx < 0 || nx >= cols {
					continue
				}
				for j := s.grid.Head(nx, ny); j != NoParticle; j = s.grid.Next(j) {
					if int(j) <= i {
						continue
					}
					b := &s.Particles[j]
					dx := b.X - a.X
					dy := b.Y - a.Y
					d2 := dx*dx + dy*dy
					if d2 > r2 {
						continue
					}

					if s.neighbors[i] < math.MaxUint8 {
						s.neighbors[i]++
					}
					if s.neighbors[j] < math.MaxUint8 {
						s.neighbors[j]++
					}

					dist := float32(math.Sqrt(float64(d2)))
					f := pull * (1 - dist/r) / (dist + 1e-6)
					ix := dx * f
					iy := dy * f
					a.VX += ix
					a.VY += iy
					b.VX -= ix
					b.VY -= iy

					q := (b.Heat - a.Heat) * conduct
					a.Heat += q
					b.Heat -= q
				}
			}
		}
	}
}

// exchangeHeat heats particles near the bottom and cools the rest, faster
// when they have fewer neighbors.
func (s *Sim) exchangeHeat(dt float32) {
	p := &s.Params
	band := p.HeatSourceFraction * s.Viewport.H
	maxN := p.MaxNeighbors
	if maxN < 1 {
		maxN = 1
	}

	for i := range s.Particles {
		pt := &s.Particles[i]
		fromBottom := s.Viewport.H - pt.Y

		if band > 0 && fromBottom < band {
			pt.Heat += p.HeatSourceRate * (1 - fromBottom/band) * dt
		} else {
			n := min(int(s.neighbors[i]), maxN)
			exposure := 1 - float32(n)/float32(maxN)
			pt.Heat -= p.CoolingRate * (p.AirFloor + (1-p.AirFloor)*exposure) * dt
		}

		pt.Heat = clampf(pt.Heat, 0, 1)
	}
}

// clampAll clamps heat and bounds for every particle.
func (s *Sim) clampAll() {
	for i := range s.Particles {
		pt := &s.Particles[i]
		pt.Heat = clampf(pt.Heat, 0, 1)
		s.clampBounds(pt)
	}
}

// clampBounds keeps a particle inside the viewport, damping and reversing
// the outward velocity component.
func (s *Sim) clampBounds(pt *components.Particle) {
	bounce := s.Params.Bounce
	if pt.X < 0 {
		pt.X = 0
		if pt.VX < 0 {
			pt.VX *= bounce
		}
	} else if pt.X > s.Viewport.W {
		pt.X = s.Viewport.W
		if pt.VX > 0 {
			pt.VX *= bounce
		}
	}
	if pt.Y < 0 {
		pt.Y = 0
		if pt.VY < 0 {
			pt.VY *= bounce
		}
	} else if pt.Y > s.Viewport.H {
		pt.Y = s.Viewport.H
		if pt.VY > 0 {
			pt.VY *= bounce
		}
	}
}
