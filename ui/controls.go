package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is what the control strip edits.
type ControlState struct {
	SpeedIndex int
	MaxIndex   int
	Rainbow    bool
	Spectrum   bool
}

// ControlResult reports edits made through the strip this frame.
type ControlResult struct {
	ControlState
	Reseed bool
}

// ControlStrip renders a raygui strip along the bottom edge with the speed
// slider, color mode toggles and a reseed button.
type ControlStrip struct {
	renderer *Renderer
	height   int32
}

// NewControlStrip creates a new control strip.
func NewControlStrip() *ControlStrip {
	return &ControlStrip{renderer: NewRenderer(), height: 40}
}

// Height returns the strip height in pixels.
func (c *ControlStrip) Height() int32 {
	return c.height
}

// Contains reports whether a screen point lies on the strip, so pointer
// presses there do not also heat the lamp.
func (c *ControlStrip) Contains(x, y float32) bool {
	return y >= float32(int32(rl.GetScreenHeight())-c.height)
}

// Draw renders the strip and returns the edited state.
func (c *ControlStrip) Draw(state ControlState) ControlResult {
	w := float32(rl.GetScreenWidth())
	top := float32(int32(rl.GetScreenHeight()) - c.height)
	c.renderer.DrawPanel(0, int32(top), int32(w), c.height)

	y := top + 10
	x := float32(60)

	rl.DrawText("Speed", 10, int32(y)+4, 12, c.renderer.Theme.LabelColor)
	speed := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: 200, Height: 20},
		"0", fmt.Sprintf("%d", state.MaxIndex),
		float32(state.SpeedIndex), 0, float32(state.MaxIndex),
	)
	x += 240

	res := ControlResult{ControlState: state}
	res.SpeedIndex = int(speed + 0.5)

	res.Rainbow = gui.CheckBox(rl.Rectangle{X: x, Y: y + 2, Width: 16, Height: 16}, "Rainbow", state.Rainbow)
	x += 100
	res.Spectrum = gui.CheckBox(rl.Rectangle{X: x, Y: y + 2, Width: 16, Height: 16}, "Spectrum", state.Spectrum)
	x += 110

	res.Reseed = gui.Button(rl.Rectangle{X: x, Y: y - 2, Width: 80, Height: 24}, "Reseed")

	return res
}
