package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lava/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	FPS         int32
	Tick        int32
	Particles   int
	Renderer    string
	SpeedIndex  int
	SpeedScale  float64
	Paused      bool
	HeatMean    float32
	HotFraction float32
	Low, High   rl.Color
	Rainbow     bool
	Spectrum    bool
}

// HUD renders the main heads-up display. It also receives the waveform
// sample array and spectrum bands each frame.
type HUD struct {
	renderer *Renderer
	panel    PanelDescriptor
	wave     []float32
	peak     string
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	h := &HUD{renderer: NewRenderer()}
	h.panel = h.describe()
	return h
}

// SetWaveform stores the latest waveform samples for the oscilloscope strip.
func (h *HUD) SetWaveform(samples []float32) {
	h.wave = append(h.wave[:0], samples...)
}

// SetPeak stores the label of the loudest spectrum band.
func (h *HUD) SetPeak(label string) {
	h.peak = label
}

// describe builds the HUD panel layout.
func (h *HUD) describe() PanelDescriptor {
	hud := func(d any) HUDData { return d.(HUDData) }
	return PanelDescriptor{
		ID:     "hud",
		Title:  "Lava",
		Width:  220,
		Anchor: AnchorTopLeft,
		Sections: []SectionDescriptor{
			{
				ID: "sim",
				Fields: []FieldDescriptor{
					{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f",
						Getter: func(d any) float32 { return float32(hud(d).FPS) }},
					{ID: "particles", Label: "Particles", Widget: WidgetText, Format: "%.0f",
						Getter: func(d any) float32 { return float32(hud(d).Particles) }},
					{ID: "renderer", Label: "Renderer", Widget: WidgetText,
						TextGetter: func(d any) string { return hud(d).Renderer }},
					{ID: "speed", Label: "Speed", Widget: WidgetText,
						TextGetter: func(d any) string {
							data := hud(d)
							if data.Paused {
								return "paused"
							}
							return fmt.Sprintf("%d (%.2fx)", data.SpeedIndex, data.SpeedScale)
						}},
				},
			},
			{
				ID:    "heat",
				Title: "Heat",
				Fields: []FieldDescriptor{
					{ID: "heat_mean", Label: "Mean", Widget: WidgetBar,
						Getter: func(d any) float32 { return hud(d).HeatMean }},
					{ID: "hot", Label: "Hot", Widget: WidgetBar,
						Getter: func(d any) float32 { return hud(d).HotFraction }},
				},
			},
			{
				ID:    "colors",
				Title: "Colors",
				Fields: []FieldDescriptor{
					{ID: "low", Label: "Low", Widget: WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color { return hud(d).Low }},
					{ID: "high", Label: "High", Widget: WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color { return hud(d).High }},
					{ID: "mode", Label: "Mode", Widget: WidgetText,
						TextGetter: func(d any) string { return colorMode(hud(d)) }},
				},
			},
			{
				ID:      "audio",
				Title:   "Waveform",
				Visible: func(any) bool { return len(h.wave) > 0 },
				Fields: []FieldDescriptor{
					{ID: "wave", Widget: WidgetWaveform,
						SamplesGetter: func(any) []float32 { return h.wave }},
					{ID: "peak", Label: "Peak", Widget: WidgetText,
						Visible:    func(any) bool { return h.peak != "" },
						TextGetter: func(any) string { return h.peak }},
				},
			},
		},
	}
}

func colorMode(d HUDData) string {
	switch {
	case d.Rainbow && d.Spectrum:
		return "rainbow+spectrum"
	case d.Rainbow:
		return "rainbow"
	case d.Spectrum:
		return "spectrum"
	default:
		return "gradient"
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	h.renderer.DrawPanelDescriptor(h.panel, data, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame time breakdown.
type PerfPanel struct {
	renderer *Renderer
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{renderer: NewRenderer()}
}

// Draw renders the performance panel in the top-right corner.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	width := int32(230)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)
	phases := telemetry.Phases()

	p.renderer.DrawPanel(x, y, width, int32(len(phases))*14+54)
	x += 10
	y += 8

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Frame: %s  FPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 12, rl.Yellow)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
