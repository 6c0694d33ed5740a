package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ActionID uniquely identifies a keyboard action.
type ActionID string

// Standard action IDs.
const (
	ActionPause      ActionID = "pause"
	ActionReseed     ActionID = "reseed"
	ActionFullscreen ActionID = "fullscreen"
	ActionSlower     ActionID = "slower"
	ActionFaster     ActionID = "faster"
	ActionRainbow    ActionID = "rainbow"
	ActionSpectrum   ActionID = "spectrum"
	ActionHUD        ActionID = "hud"
	ActionPerf       ActionID = "perf"
	ActionSnapshot   ActionID = "snapshot"
)

// Binding maps an action to a key.
type Binding struct {
	ID       ActionID // Unique identifier
	Name     string   // Display name
	Key      int32    // Keyboard key
	KeyLabel string   // Key label for display (e.g., "R")
	Category string   // Grouping (e.g., "sim", "colors", "view")
}

// Bindings manages key bindings in registration order.
type Bindings struct {
	byID  map[ActionID]Binding
	order []ActionID
}

// NewBindings creates a registry with the default key map.
func NewBindings() *Bindings {
	b := &Bindings{byID: make(map[ActionID]Binding)}
	b.registerDefaults()
	return b
}

// registerDefaults adds the standard bindings.
func (b *Bindings) registerDefaults() {
	b.Register(Binding{ID: ActionPause, Name: "Pause", Key: rl.KeySpace, KeyLabel: "Space", Category: "sim"})
	b.Register(Binding{ID: ActionReseed, Name: "Reseed", Key: rl.KeyR, KeyLabel: "R", Category: "sim"})
	b.Register(Binding{ID: ActionSlower, Name: "Slower", Key: rl.KeyComma, KeyLabel: ",", Category: "sim"})
	b.Register(Binding{ID: ActionFaster, Name: "Faster", Key: rl.KeyPeriod, KeyLabel: ".", Category: "sim"})
	b.Register(Binding{ID: ActionSnapshot, Name: "Snapshot", Key: rl.KeyP, KeyLabel: "P", Category: "sim"})
	b.Register(Binding{ID: ActionRainbow, Name: "Rainbow", Key: rl.KeyC, KeyLabel: "C", Category: "colors"})
	b.Register(Binding{ID: ActionSpectrum, Name: "Spectrum", Key: rl.KeyS, KeyLabel: "S", Category: "colors"})
	b.Register(Binding{ID: ActionHUD, Name: "HUD", Key: rl.KeyH, KeyLabel: "H", Category: "view"})
	b.Register(Binding{ID: ActionPerf, Name: "Perf", Key: rl.KeyF3, KeyLabel: "F3", Category: "view"})
	b.Register(Binding{ID: ActionFullscreen, Name: "Fullscreen", Key: rl.KeyF11, KeyLabel: "F11", Category: "view"})
}

// Register adds or replaces a binding.
func (b *Bindings) Register(binding Binding) {
	if _, exists := b.byID[binding.ID]; !exists {
		b.order = append(b.order, binding.ID)
	}
	b.byID[binding.ID] = binding
}

// Get returns a binding by ID.
func (b *Bindings) Get(id ActionID) (Binding, bool) {
	binding, ok := b.byID[id]
	return binding, ok
}

// Pressed reports whether the action's key went down this frame.
func (b *Bindings) Pressed(id ActionID) bool {
	binding, ok := b.byID[id]
	return ok && rl.IsKeyPressed(binding.Key)
}

// Legend returns a one-line key legend for the given category, or every
// binding when category is empty.
func (b *Bindings) Legend(category string) string {
	parts := make([]string, 0, len(b.order))
	for _, id := range b.order {
		binding := b.byID[id]
		if category != "" && binding.Category != category {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", binding.KeyLabel, binding.Name))
	}
	return strings.Join(parts, "  ")
}
