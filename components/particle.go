// Package components holds the plain data types shared by the simulation,
// renderers and telemetry.
package components

// Particle is a single blob of lamp fluid. Heat is kept in [0, 1].
type Particle struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	VX   float32 `json:"vx"`
	VY   float32 `json:"vy"`
	Heat float32 `json:"heat"`
}

// Viewport is the simulated area in pixels.
type Viewport struct {
	W, H float32
}

// Contains reports whether the point lies inside the viewport bounds.
func (v Viewport) Contains(x, y float32) bool {
	return x >= 0 && x <= v.W && y >= 0 && y <= v.H
}

// Pointer is the raw pointer feed written by the input handler and read once
// per physics step.
type Pointer struct {
	X, Y    float32
	Active  bool
	Cooling bool // Subtract heat instead of injecting it
}
