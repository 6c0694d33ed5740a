// Palette preview tool - interactive heat LUT editor with sliders.
//
// Usage: go run ./cmd/palettepreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	previewWidth = 512
	stripHeight  = 60
	panelWidth   = windowWidth - previewWidth - 30
)

// Endpoint holds one gradient endpoint in HSL.
type Endpoint struct {
	Hue, Sat, Light float32
}

func endpointFromHex(hex string) Endpoint {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Endpoint{}
	}
	h, s, l := c.Hsl()
	return Endpoint{Hue: float32(h), Sat: float32(s), Light: float32(l)}
}

func (e Endpoint) Hex() string {
	return colorful.Hsl(float64(e.Hue), float64(e.Sat), float64(e.Light)).Clamped().Hex()
}

func main() {
	config.MustInit("")
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Palette Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := [2]Endpoint{endpointFromHex(cfg.Colors.Low), endpointFromHex(cfg.Colors.High)}
	ends := defaults
	rainbow := cfg.Colors.Rainbow
	spectrum := cfg.Colors.Spectrum

	drift := palette.NewDrift(rand.New(rand.NewSource(1)), cfg.Colors.DriftMinRate, cfg.Colors.DriftMaxRate)
	pal, err := palette.New(ends[0].Hex(), ends[1].Hex(), drift)
	if err != nil {
		panic(err)
	}

	img := rl.GenImageColor(palette.Size, 1, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	rl.SetTextureFilter(texture, rl.FilterPoint)

	var lastVersion uint64
	needsColors := false

	for !rl.WindowShouldClose() {
		if needsColors {
			if err := pal.SetColors(ends[0].Hex(), ends[1].Hex()); err != nil {
				panic(err)
			}
			needsColors = false
		}
		pal.Update(float64(rl.GetFrameTime()))

		lut := pal.LUT()
		if pal.Version() != lastVersion {
			rl.UpdateTexture(texture, lut[:])
			lastVersion = pal.Version()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// LUT strip
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: palette.Size, Height: 1},
			rl.Rectangle{X: 10, Y: 10, Width: previewWidth, Height: stripHeight},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewWidth, stripHeight, rl.DarkGray)

		// Heat swatches at fixed points
		y := int32(stripHeight + 25)
		for i, heat := range []float32{0, 0.25, 0.5, 0.75, 1} {
			x := int32(10 + i*104)
			rl.DrawRectangle(x, y, 96, 96, lut.Lookup(heat))
			rl.DrawText(fmt.Sprintf("heat %.2f", heat), x, y+100, 14, rl.DarkGray)
		}
		y += 130

		low, high := pal.Colors()
		rl.DrawText(fmt.Sprintf("Low: %s  High: %s", low, high), 15, y, 16, rl.DarkGray)
		y += 20
		dirText := "forward"
		if pal.Direction() < 0 {
			dirText = "backward"
		}
		rl.DrawText(fmt.Sprintf("Hue direction: %s (fixed at first build)", dirText), 15, y, 16, rl.DarkGray)
		y += 20
		dl, dh := drift.Rates()
		rl.DrawText(fmt.Sprintf("Drift: low %+.1f deg/s  high %+.1f deg/s", dl, dh), 15, y, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewWidth + 20)
		panelY := float32(10)

		rl.DrawText("Heat Gradient", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for i, name := range []string{"Low", "High"} {
			rl.DrawText(name, int32(panelX), int32(panelY), 16, rl.DarkGray)
			panelY += 22

			edited := ends[i]
			edited.Hue = slider(panelX, &panelY, "Hue", "0", "360", ends[i].Hue, 0, 360, "%.0f")
			edited.Sat = slider(panelX, &panelY, "Saturation", "0", "1", ends[i].Sat, 0, 1, "%.2f")
			edited.Light = slider(panelX, &panelY, "Lightness", "0", "1", ends[i].Light, 0, 1, "%.2f")
			if edited != ends[i] {
				ends[i] = edited
				needsColors = true
			}

			rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
			panelY += 15
		}

		// Mode toggles
		if r := gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 20, Height: 20}, "Rainbow drift", rainbow); r != rainbow {
			rainbow = r
			pal.SetRainbow(rainbow)
		}
		if s := gui.CheckBox(rl.Rectangle{X: panelX + 160, Y: panelY, Width: 20, Height: 20}, "Spectrum", spectrum); s != spectrum {
			spectrum = s
			pal.SetSpectrum(spectrum)
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Swap") {
			ends[0], ends[1] = ends[1], ends[0]
			needsColors = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			ends = defaults
			needsColors = true
		}
		panelY += 50

		// Output YAML
		yaml := fmt.Sprintf("colors:\n  low: %q\n  high: %q\n  rainbow: %t\n  spectrum: %t",
			ends[0].Hex(), ends[1].Hex(), rainbow, spectrum)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		// Instructions
		rl.DrawText("Press Y to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyY) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labeled slider bar and advances y past it.
func slider(x float32, y *float32, label, minText, maxText string, value, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 30
	return v
}
