// Package renderer draws the particle field as metaballs, either with a
// CPU block rasterizer uploaded as a texture or with a fragment shader.
package renderer

import (
	"log/slog"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
)

// Renderer draws one frame of particles colored through the LUT. It must be
// called between rl.BeginDrawing and rl.EndDrawing.
type Renderer interface {
	Name() string
	Resize(width, height int)
	Draw(particles []components.Particle, pal *palette.Palette)
	Unload()
}

// New picks the renderer once, after the raylib window exists. In "auto" and
// "gpu" modes the shader path is tried first and any initialization failure
// falls back to the CPU rasterizer.
func New(cfg *config.Config, width, height int) Renderer {
	if cfg.Render.Mode != "cpu" {
		gpu, err := NewGPURenderer(cfg, width, height)
		if err == nil {
			slog.Info("renderer selected", "name", gpu.Name(), "max_particles", cfg.Render.GPUMaxParticles)
			return gpu
		}
		slog.Warn("gpu renderer unavailable, falling back to cpu", "mode", cfg.Render.Mode, "error", err)
	}

	cpu := NewCPURenderer(cfg, width, height)
	slog.Info("renderer selected", "name", cpu.Name(), "block_size", cpu.raster.BlockSize())
	return cpu
}
