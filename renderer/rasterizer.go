package renderer

import (
	"image/color"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
)

var black = color.RGBA{A: 255}

// Frame is a CPU pixel buffer in row-major order.
type Frame struct {
	W, H int
	Pix  []color.RGBA
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) color.RGBA {
	return f.Pix[y*f.W+x]
}

// Rasterizer evaluates the metaball field once per pixel block and writes
// the result into a Frame. Every block scans every particle.
type Rasterizer struct {
	radiusSq   float32
	threshold  float32
	blockSizes []config.BlockSize

	width, height int
	block         int
	frame         *Frame
	pool          *bandPool
}

// NewRasterizer creates a rasterizer. workers <= 0 uses GOMAXPROCS bands.
func NewRasterizer(radius, threshold float32, blockSizes []config.BlockSize, workers int) *Rasterizer {
	return &Rasterizer{
		radiusSq:   radius * radius,
		threshold:  threshold,
		blockSizes: blockSizes,
		pool:       newBandPool(workers),
	}
}

// Resize sets the canvas size and drops the pixel buffer so the next
// Rasterize allocates a fresh one.
func (r *Rasterizer) Resize(width, height int) {
	if width == r.width && height == r.height && r.frame != nil {
		return
	}
	r.width = width
	r.height = height
	r.block = BlockSizeFor(r.blockSizes, width*height)
	r.frame = nil
}

// BlockSize returns the block edge in pixels for the current canvas.
func (r *Rasterizer) BlockSize() int {
	return r.block
}

// Frame returns the last rasterized frame, or nil after a resize.
func (r *Rasterizer) Frame() *Frame {
	return r.frame
}

// Close stops the band workers.
func (r *Rasterizer) Close() {
	r.pool.stop()
}

// Rasterize renders particles into the frame buffer and returns it.
func (r *Rasterizer) Rasterize(particles []components.Particle, lut *palette.LUT) *Frame {
	if r.frame == nil {
		r.frame = &Frame{
			W:   r.width,
			H:   r.height,
			Pix: make([]color.RGBA, r.width*r.height),
		}
	}
	f := r.frame
	if len(f.Pix) == 0 {
		return f
	}

	fill(f.Pix, black)

	rows := (f.H + r.block - 1) / r.block
	r.pool.run(rows, func(start, end int) {
		r.rasterizeRows(f, start, end, particles, lut)
	})
	return f
}

// rasterizeRows handles block rows [start, end).
func (r *Rasterizer) rasterizeRows(f *Frame, start, end int, particles []components.Particle, lut *palette.LUT) {
	bs := r.block
	for by := start; by < end; by++ {
		y0 := by * bs
		y1 := min(y0+bs, f.H)
		sy := float32(y0)

		for x0 := 0; x0 < f.W; x0 += bs {
			sx := float32(x0)

			var total, weighted float32
			for i := range particles {
				p := &particles[i]
				dx := p.X - sx
				dy := p.Y - sy
				inf := r.radiusSq / (dx*dx + dy*dy + 1)
				total += inf
				weighted += inf * p.Heat
			}
			if total <= r.threshold {
				continue
			}

			c := lut.Lookup(weighted / total)
			x1 := min(x0+bs, f.W)
			for y := y0; y < y1; y++ {
				row := f.Pix[y*f.W : y*f.W+f.W]
				for x := x0; x < x1; x++ {
					row[x] = c
				}
			}
		}
	}
}

// BlockSizeFor picks the block size for a canvas area from a table sorted
// by ascending MaxArea with the unbounded entry last.
func BlockSizeFor(sizes []config.BlockSize, area int) int {
	for _, bs := range sizes {
		if bs.MaxArea == 0 || area <= bs.MaxArea {
			return max(bs.Size, 1)
		}
	}
	if len(sizes) > 0 {
		return max(sizes[len(sizes)-1].Size, 1)
	}
	return 1
}

// fill sets every pixel to c by doubling copies.
func fill(pix []color.RGBA, c color.RGBA) {
	if len(pix) == 0 {
		return
	}
	pix[0] = c
	for n := 1; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}
}
