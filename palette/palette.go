package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette owns the current endpoint colors and mode toggles and keeps the
// LUT in sync with them. Version increments on every rebuild so renderers
// can skip re-uploading an unchanged table.
type Palette struct {
	low, high colorful.Color
	rainbow   bool

	builder *Builder
	drift   *Drift
	lut     LUT
	version uint64
}

// New parses the endpoint colors and builds the initial table.
func New(low, high string, drift *Drift) (*Palette, error) {
	p := &Palette{
		builder: NewBuilder(),
		drift:   drift,
	}
	if err := p.SetColors(low, high); err != nil {
		return nil, err
	}
	return p, nil
}

// SetColors replaces both endpoints and rebuilds.
func (p *Palette) SetColors(low, high string) error {
	lo, err := colorful.Hex(low)
	if err != nil {
		return fmt.Errorf("parsing low color %q: %w", low, err)
	}
	hi, err := colorful.Hex(high)
	if err != nil {
		return fmt.Errorf("parsing high color %q: %w", high, err)
	}
	p.low, p.high = lo, hi
	p.rebuild()
	return nil
}

// Colors returns the current endpoint colors as hex strings, drift included.
func (p *Palette) Colors() (low, high string) {
	lo, hi := p.effective()
	return lo.Clamped().Hex(), hi.Clamped().Hex()
}

// SetRainbow toggles hue drift. Turning it off snaps back to the base colors.
func (p *Palette) SetRainbow(on bool) {
	if p.rainbow == on {
		return
	}
	p.rainbow = on
	if !on && p.drift != nil {
		p.drift.Reset()
	}
	p.rebuild()
}

// Rainbow reports whether hue drift is on.
func (p *Palette) Rainbow() bool {
	return p.rainbow
}

// SetSpectrum toggles the full hue sweep preview.
func (p *Palette) SetSpectrum(on bool) {
	if p.builder.Spectrum == on {
		return
	}
	p.builder.Spectrum = on
	p.rebuild()
}

// Spectrum reports whether the full hue sweep is on.
func (p *Palette) Spectrum() bool {
	return p.builder.Spectrum
}

// Update advances drift by dt seconds and rebuilds when it is active.
func (p *Palette) Update(dt float64) {
	if !p.rainbow || p.drift == nil || dt <= 0 {
		return
	}
	p.drift.Advance(dt)
	p.rebuild()
}

// LUT returns the current table.
func (p *Palette) LUT() *LUT {
	return &p.lut
}

// Direction returns the hue direction fixed by the first build: 1 forward,
// -1 backward.
func (p *Palette) Direction() int {
	return p.builder.Direction()
}

// Version returns the rebuild counter.
func (p *Palette) Version() uint64 {
	return p.version
}

func (p *Palette) effective() (colorful.Color, colorful.Color) {
	if p.rainbow && p.drift != nil {
		return p.drift.Apply(p.low, p.high)
	}
	return p.low, p.high
}

func (p *Palette) rebuild() {
	lo, hi := p.effective()
	p.lut = p.builder.BuildColors(lo, hi)
	p.version++
}
