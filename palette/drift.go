package palette

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Drift rotates the hues of the two endpoint colors at independent rates and
// directions. Rates are in degrees per second.
type Drift struct {
	rates   [2]float64
	offsets [2]float64
}

// NewDrift picks a random rate in [minRate, maxRate] and a random direction
// for each endpoint.
func NewDrift(rng *rand.Rand, minRate, maxRate float64) *Drift {
	d := &Drift{}
	for i := range d.rates {
		rate := minRate + rng.Float64()*(maxRate-minRate)
		if rng.Intn(2) == 0 {
			rate = -rate
		}
		d.rates[i] = rate
	}
	return d
}

// Advance moves both hue offsets forward by dt seconds.
func (d *Drift) Advance(dt float64) {
	for i := range d.offsets {
		d.offsets[i] = wrapHue(d.offsets[i] + d.rates[i]*dt)
	}
}

// Reset returns both offsets to zero.
func (d *Drift) Reset() {
	d.offsets = [2]float64{}
}

// Rates returns the signed rates of the low and high endpoints.
func (d *Drift) Rates() (low, high float64) {
	return d.rates[0], d.rates[1]
}

// Apply returns low and high with their hues rotated by the current offsets.
// Saturation and lightness are untouched.
func (d *Drift) Apply(low, high colorful.Color) (colorful.Color, colorful.Color) {
	return rotateHue(low, d.offsets[0]), rotateHue(high, d.offsets[1])
}

func rotateHue(c colorful.Color, deg float64) colorful.Color {
	if deg == 0 {
		return c
	}
	h, s, l := c.Hsl()
	return colorful.Hsl(wrapHue(h+deg), s, l)
}
