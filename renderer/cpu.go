package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
)

// CPURenderer rasterizes on the CPU and blits the frame as a texture.
type CPURenderer struct {
	raster *Rasterizer

	tex         rl.Texture2D
	texW, texH  int
	initialized bool
}

// NewCPURenderer creates the CPU path (must be called after raylib window is created).
func NewCPURenderer(cfg *config.Config, width, height int) *CPURenderer {
	c := &CPURenderer{
		raster: NewRasterizer(
			float32(cfg.Render.ParticleRadius),
			float32(cfg.Render.Threshold),
			cfg.Render.BlockSizes,
			cfg.Render.Workers,
		),
	}
	c.Resize(width, height)
	return c
}

// Name identifies the renderer in logs and the HUD.
func (c *CPURenderer) Name() string {
	return "cpu"
}

// Resize invalidates the pixel buffer and the texture.
func (c *CPURenderer) Resize(width, height int) {
	c.raster.Resize(width, height)
	if c.initialized && (c.texW != width || c.texH != height) {
		rl.UnloadTexture(c.tex)
		c.initialized = false
	}
}

// Draw rasterizes the particles and draws the result at the origin.
func (c *CPURenderer) Draw(particles []components.Particle, pal *palette.Palette) {
	frame := c.raster.Rasterize(particles, pal.LUT())
	if frame.W == 0 || frame.H == 0 {
		return
	}

	if !c.initialized {
		img := rl.GenImageColor(frame.W, frame.H, rl.Black)
		c.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		c.texW, c.texH = frame.W, frame.H
		c.initialized = true
	}

	rl.UpdateTexture(c.tex, frame.Pix)
	rl.DrawTexture(c.tex, 0, 0, rl.White)
}

// Unload frees resources.
func (c *CPURenderer) Unload() {
	c.raster.Close()
	if c.initialized {
		rl.UnloadTexture(c.tex)
		c.initialized = false
	}
}
