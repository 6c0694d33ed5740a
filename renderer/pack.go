package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/lava/components"
)

// TexelsPerParticle is the particle texture footprint: one texel holds x and
// y, the next holds heat.
const TexelsPerParticle = 2

// fixed16 maps v in [0, 1] to a 16-bit fixed point value.
func fixed16(v float32) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return math.MaxUint16
	}
	return uint16(math.Round(float64(v) * math.MaxUint16))
}

// unfixed16 is the inverse of fixed16.
func unfixed16(hi, lo uint8) float32 {
	return float32(uint16(hi)<<8|uint16(lo)) / math.MaxUint16
}

// PackParticles writes particles into dst, two texels each. Positions are
// normalized by the viewport so the shader scales them back by its
// resolution. Texels past the last particle are zeroed. It returns the
// number of particles packed, capped by len(dst)/2.
//
// Layout per particle i:
//
//	dst[2i]   = {x hi, x lo, y hi, y lo}
//	dst[2i+1] = {heat hi, heat lo, 0, 255}
func PackParticles(dst []color.RGBA, particles []components.Particle, width, height float32) int {
	n := min(len(particles), len(dst)/TexelsPerParticle)

	invW, invH := float32(0), float32(0)
	if width > 0 {
		invW = 1 / width
	}
	if height > 0 {
		invH = 1 / height
	}

	for i := 0; i < n; i++ {
		p := &particles[i]
		x := fixed16(p.X * invW)
		y := fixed16(p.Y * invH)
		h := fixed16(p.Heat)

		dst[2*i] = color.RGBA{R: uint8(x >> 8), G: uint8(x), B: uint8(y >> 8), A: uint8(y)}
		dst[2*i+1] = color.RGBA{R: uint8(h >> 8), G: uint8(h), A: 255}
	}
	clear(dst[n*TexelsPerParticle:])
	return n
}

// UnpackParticle reverses PackParticles for particle i. Velocities are not
// packed and come back as zero.
func UnpackParticle(src []color.RGBA, i int, width, height float32) components.Particle {
	pos := src[2*i]
	heat := src[2*i+1]
	return components.Particle{
		X:    unfixed16(pos.R, pos.G) * width,
		Y:    unfixed16(pos.B, pos.A) * height,
		Heat: unfixed16(heat.R, heat.G),
	}
}

// lutVersion remembers the palette version last uploaded to the LUT texture.
type lutVersion struct {
	sent    bool
	version uint64
}

// stale reports whether version differs from the last upload and records it.
func (l *lutVersion) stale(version uint64) bool {
	if l.sent && l.version == version {
		return false
	}
	l.sent, l.version = true, version
	return true
}
