package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lava/ui"
)

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if g.bindings.Pressed(ui.ActionFullscreen) {
		rl.ToggleFullscreen()
	}

	if g.bindings.Pressed(ui.ActionPause) {
		g.paused = !g.paused
		g.setAudioPaused(g.paused)
	}
	if g.bindings.Pressed(ui.ActionReseed) {
		g.Reseed()
	}

	// Speed slider with < > keys (comma and period)
	if g.bindings.Pressed(ui.ActionSlower) {
		g.SetSpeedIndex(g.speedIndex - 1)
	}
	if g.bindings.Pressed(ui.ActionFaster) {
		g.SetSpeedIndex(g.speedIndex + 1)
	}

	if g.bindings.Pressed(ui.ActionRainbow) {
		g.pal.SetRainbow(!g.pal.Rainbow())
	}
	if g.bindings.Pressed(ui.ActionSpectrum) {
		g.pal.SetSpectrum(!g.pal.Spectrum())
	}

	if g.bindings.Pressed(ui.ActionHUD) {
		g.showHUD = !g.showHUD
	}
	if g.bindings.Pressed(ui.ActionPerf) {
		g.showPerf = !g.showPerf
	}
	if g.bindings.Pressed(ui.ActionSnapshot) {
		g.saveSnapshot(nil)
	}

	g.handlePointer()
}

// handlePointer writes the raw pointer feed read by the next physics step.
// Left button heats; right button or ctrl+left cools.
func (g *Game) handlePointer() {
	pos := rl.GetMousePosition()
	left := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	right := rl.IsMouseButtonDown(rl.MouseButtonRight)
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)

	g.ptr.X, g.ptr.Y = pos.X, pos.Y
	g.ptr.Active = left || right
	g.ptr.Cooling = right || (left && ctrl)

	// Presses on the control strip belong to the widgets
	if g.showHUD && g.controls.Contains(pos.X, pos.Y) {
		g.ptr.Active = false
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() && !rl.IsWindowFullscreen() {
		return
	}
	g.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
}

// setAudioPaused follows the lamp's pause state with the waveform session.
func (g *Game) setAudioPaused(paused bool) {
	if g.wave == nil {
		return
	}
	var err error
	if paused {
		err = g.wave.Suspend()
	} else {
		err = g.wave.Resume()
	}
	if err != nil {
		slog.Warn("audio state change failed", "paused", paused, "error", err)
	}
}
