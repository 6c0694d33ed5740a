// Package palette builds the heat to color lookup table shared by both
// renderers, plus the rainbow drift that rotates its endpoint hues.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of LUT entries.
const Size = 256

// LUT maps a heat value in [0, 1] to an opaque display color.
type LUT [Size]color.RGBA

// Index returns the table index for heat, round(heat*255) clamped.
func Index(heat float32) int {
	i := int(math.Round(float64(heat) * (Size - 1)))
	if i < 0 {
		return 0
	}
	if i > Size-1 {
		return Size - 1
	}
	return i
}

// Lookup returns the color for heat.
func (l *LUT) Lookup(heat float32) color.RGBA {
	return l[Index(heat)]
}

// Builder turns two endpoint colors into a LUT. The direction in which hue
// travels from low to high is chosen on the first build (shortest arc) and
// reused afterwards, so drifting endpoints never make the gradient flip
// around the color wheel.
type Builder struct {
	// Spectrum sweeps the full hue wheel starting at the low hue.
	Spectrum bool

	dir int // 0 until the first build, then +1 or -1
}

// NewBuilder creates a builder with no direction chosen yet.
func NewBuilder() *Builder {
	return &Builder{}
}

// Direction returns the fixed hue direction, or 0 before the first build.
func (b *Builder) Direction() int {
	return b.dir
}

// Build parses two hex colors ("#rrggbb" or "#rgb") and builds the table.
func (b *Builder) Build(low, high string) (LUT, error) {
	lo, err := colorful.Hex(low)
	if err != nil {
		return LUT{}, fmt.Errorf("parsing low color %q: %w", low, err)
	}
	hi, err := colorful.Hex(high)
	if err != nil {
		return LUT{}, fmt.Errorf("parsing high color %q: %w", high, err)
	}
	return b.BuildColors(lo, hi), nil
}

// BuildColors builds the table from already parsed endpoint colors.
func (b *Builder) BuildColors(low, high colorful.Color) LUT {
	low = low.Clamped()
	high = high.Clamped()

	h0, s0, l0 := low.Hsl()
	h1, s1, l1 := high.Hsl()

	// A gray endpoint has no meaningful hue; borrow the other one
	if s0 == 0 {
		h0 = h1
	}
	if s1 == 0 {
		h1 = h0
	}

	if b.dir == 0 {
		b.dir = shortestDirection(h0, h1)
	}

	var sweep float64
	if b.Spectrum {
		sweep = 360 * float64(b.dir)
	} else if b.dir > 0 {
		sweep = wrapHue(h1 - h0)
	} else {
		sweep = -wrapHue(h0 - h1)
	}

	var lut LUT
	for i := range lut {
		t := float64(i) / (Size - 1)
		h := wrapHue(h0 + sweep*t)
		s := s0 + (s1-s0)*t
		l := l0 + (l1-l0)*t
		lut[i] = toRGBA(colorful.Hsl(h, s, l))
	}

	// Endpoints are exact, not HSL round trips
	lut[0] = toRGBA(low)
	if !b.Spectrum {
		lut[Size-1] = toRGBA(high)
	}
	return lut
}

// shortestDirection picks the direction of the shorter arc from h0 to h1.
// Equal hues and exact opposites go forward.
func shortestDirection(h0, h1 float64) int {
	d := wrapHue(h1 - h0)
	if d > 180 {
		return -1
	}
	return 1
}

// wrapHue maps any angle into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
