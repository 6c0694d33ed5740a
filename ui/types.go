// Package ui provides a descriptor-driven HUD for the lamp. Panels are
// defined as metadata (sections of fields with getters) so the HUD layout
// can change without touching the drawing code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetColorSwatch                   // Color preview square
	WidgetWaveform                      // Oscilloscope strip of samples in [-1, 1]
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID            string              // Unique identifier for the field
	Label         string              // Display label
	Widget        WidgetType          // How to render
	Format        string              // Printf format for text (e.g., "%.2f")
	Visible       func(any) bool      // Optional visibility check (nil = always visible)
	Getter        func(any) float32   // Value extractor (for numeric fields)
	TextGetter    func(any) string    // Value extractor (for text fields)
	ColorGetter   func(any) rl.Color  // Color extractor (for color swatches)
	SamplesGetter func(any) []float32 // Sample extractor (for waveforms)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	ID       string              // Unique identifier
	Title    string              // Panel title (optional)
	Sections []SectionDescriptor // Sections in order
	Width    int32               // Panel width
	Anchor   PanelAnchor         // Where to position
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	WaveColor      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	WaveHeight     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 10, B: 12, A: 200},
		PanelBorder:    rl.Color{R: 60, G: 60, B: 70, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 230, G: 120, B: 40, A: 255},
		WaveColor:      rl.Color{R: 120, G: 220, B: 160, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     76,
		BarHeight:      12,
		WaveHeight:     36,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
