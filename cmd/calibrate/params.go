package main

import (
	"github.com/pthm-cable/lava/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable physics parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "buoyancy", Path: "physics.buoyancy", Min: 0.03, Max: 0.2, Default: 0.08},
			{Name: "cooling_rate", Path: "physics.cooling_rate", Min: 0.0005, Max: 0.008, Default: 0.0025},
			{Name: "heat_source_rate", Path: "physics.heat_source_rate", Min: 0.004, Max: 0.04, Default: 0.012},
			{Name: "cohesion_strength", Path: "physics.cohesion_strength", Min: 0.005, Max: 0.06, Default: 0.02},
			{Name: "conduction", Path: "physics.conduction", Min: 0.005, Max: 0.06, Default: 0.02},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = max(spec.Min, min(v[i], spec.Max))
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Physics.Buoyancy = clamped[0]
	cfg.Physics.CoolingRate = clamped[1]
	cfg.Physics.HeatSourceRate = clamped[2]
	cfg.Physics.CohesionStrength = clamped[3]
	cfg.Physics.Conduction = clamped[4]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.Buoyancy,
		cfg.Physics.CoolingRate,
		cfg.Physics.HeatSourceRate,
		cfg.Physics.CohesionStrength,
		cfg.Physics.Conduction,
	}
}
