// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Particles ParticlesConfig `yaml:"particles"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Render    RenderConfig    `yaml:"render"`
	Colors    ColorsConfig    `yaml:"colors"`
	Speed     SpeedConfig     `yaml:"speed"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// SchedulerConfig holds fixed-timestep loop parameters.
type SchedulerConfig struct {
	StepHz      float64 `yaml:"step_hz"`       // Logical physics rate
	MaxCatchUp  int     `yaml:"max_catch_up"`  // Max physics steps per display frame
	MaxFrameGap float64 `yaml:"max_frame_gap"` // Elapsed-time clamp per frame, milliseconds
}

// ParticlesConfig holds particle seeding parameters.
type ParticlesConfig struct {
	Density       float64 `yaml:"density"`        // Particles per square pixel
	MaxCount      int     `yaml:"max_count"`      // Hard cap regardless of viewport size
	ClumpCount    int     `yaml:"clump_count"`    // Number of seed clumps
	ClumpFraction float64 `yaml:"clump_fraction"` // Share of particles placed in clumps
	ClumpRadius   float64 `yaml:"clump_radius"`   // Clump radius as a fraction of min(width, height)
	LooseMaxHeat  float64 `yaml:"loose_max_heat"` // Upper bound of heat for non-clump particles
}

// PhysicsConfig holds stepper constants. Time is measured in steps of the
// fixed scheduler rate, so dt=1 is one 60 Hz step at speed scale 1.
type PhysicsConfig struct {
	Gravity            float64 `yaml:"gravity"`
	Buoyancy           float64 `yaml:"buoyancy"`
	Friction           float64 `yaml:"friction"`        // Velocity retained per unit dt
	CohesionRadius     float64 `yaml:"cohesion_radius"` // Also the grid cell size
	CohesionStrength   float64 `yaml:"cohesion_strength"`
	Conduction         float64 `yaml:"conduction"`
	HeatSourceFraction float64 `yaml:"heat_source_fraction"` // Heat band height as a fraction of viewport height
	HeatSourceRate     float64 `yaml:"heat_source_rate"`
	CoolingRate        float64 `yaml:"cooling_rate"`
	AirFloor           float64 `yaml:"air_floor"`     // Share of cooling applied even when fully surrounded
	MaxNeighbors       int     `yaml:"max_neighbors"` // Neighbor count at which air exposure reaches zero
	PointerRadius      float64 `yaml:"pointer_radius"`
	PointerHeat        float64 `yaml:"pointer_heat"`
	Bounce             float64 `yaml:"bounce"` // Outward velocity multiplier at walls
	MaxDT              float64 `yaml:"max_dt"`
}

// BlockSize maps canvas areas to CPU rasterizer block sizes.
type BlockSize struct {
	MaxArea int `yaml:"max_area"` // Inclusive upper bound on width*height (0 = unbounded)
	Size    int `yaml:"size"`
}

// RenderConfig holds metaball rendering parameters.
type RenderConfig struct {
	Mode            string      `yaml:"mode"` // auto, cpu or gpu
	ParticleRadius  float64     `yaml:"particle_radius"`
	Threshold       float64     `yaml:"threshold"`
	BlockSizes      []BlockSize `yaml:"block_sizes"`
	GPUMaxParticles int         `yaml:"gpu_max_particles"`
	MaxTextureWidth int         `yaml:"max_texture_width"`
	Workers         int         `yaml:"workers"` // CPU rasterizer bands in flight (0 = GOMAXPROCS)
}

// ColorsConfig holds the heat gradient endpoints and color modes.
type ColorsConfig struct {
	Low          string  `yaml:"low"`
	High         string  `yaml:"high"`
	Rainbow      bool    `yaml:"rainbow"`
	Spectrum     bool    `yaml:"spectrum"`
	DriftMinRate float64 `yaml:"drift_min_rate"` // Degrees per second
	DriftMaxRate float64 `yaml:"drift_max_rate"`
}

// SpeedConfig holds the speed slider curve.
type SpeedConfig struct {
	Steps        int     `yaml:"steps"`    // Highest slider index
	Midpoint     int     `yaml:"midpoint"` // Index mapped to MidScale
	MidScale     float64 `yaml:"mid_scale"`
	MaxScale     float64 `yaml:"max_scale"`
	DefaultIndex int     `yaml:"default_index"`
}

// AudioConfig holds the waveform source parameters.
type AudioConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Path           string  `yaml:"path"`   // WAV file; empty = generated tone
	Output         bool    `yaml:"output"` // Play through the speaker
	SampleRate     int     `yaml:"sample_rate"`
	ToneHz         float64 `yaml:"tone_hz"`
	BufferMs       int     `yaml:"buffer_ms"`
	WaveformPoints int     `yaml:"waveform_points"`
	SpectrumBands  int     `yaml:"spectrum_bands"`
	HistorySize    int     `yaml:"history_size"` // Ring buffer length in samples (power of two)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulated time per stats record
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	HotThreshold        float64 `yaml:"hot_threshold"` // Heat above which a particle counts as hot
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FixedStep   time.Duration // 1/StepHz
	MaxFrameGap time.Duration // Scheduler.MaxFrameGap as a duration
	RadiusSq32  float32       // Render.ParticleRadius squared
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	switch c.Render.Mode {
	case "auto", "cpu", "gpu":
	default:
		return fmt.Errorf("render.mode: unknown mode %q", c.Render.Mode)
	}
	if c.Physics.CohesionRadius <= 0 {
		return fmt.Errorf("physics.cohesion_radius must be positive, got %v", c.Physics.CohesionRadius)
	}
	if c.Scheduler.StepHz <= 0 {
		return fmt.Errorf("scheduler.step_hz must be positive, got %v", c.Scheduler.StepHz)
	}
	if c.Speed.Midpoint <= 0 || c.Speed.Midpoint >= c.Speed.Steps {
		return fmt.Errorf("speed.midpoint must be in (0, %d), got %d", c.Speed.Steps, c.Speed.Midpoint)
	}
	if len(c.Render.BlockSizes) == 0 {
		return fmt.Errorf("render.block_sizes must not be empty")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FixedStep = time.Duration(float64(time.Second) / c.Scheduler.StepHz)
	c.Derived.MaxFrameGap = time.Duration(c.Scheduler.MaxFrameGap * float64(time.Millisecond))
	r := float32(c.Render.ParticleRadius)
	c.Derived.RadiusSq32 = r * r

	// Bounded entries ascending, unbounded (0) last
	sort.SliceStable(c.Render.BlockSizes, func(i, j int) bool {
		a, b := c.Render.BlockSizes[i].MaxArea, c.Render.BlockSizes[j].MaxArea
		if a == 0 {
			return false
		}
		if b == 0 {
			return true
		}
		return a < b
	})
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
