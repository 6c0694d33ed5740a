package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
)

//go:embed shaders/metaball.fs
var metaballShader string

// maxParticlesDefine is replaced with the configured cap before compiling.
const maxParticlesDefine = "#define MAX_PARTICLES 1400"

// errNoShader reports a shader that failed to compile or link.
var errNoShader = errors.New("metaball shader failed to compile")

// GPURenderer evaluates the metaball field per pixel in a fragment shader.
type GPURenderer struct {
	shader        rl.Shader
	particlesLoc  int32
	lutLoc        int32
	countLoc      int32
	resolutionLoc int32
	radiusSqLoc   int32
	thresholdLoc  int32

	particleTex rl.Texture2D
	lutTex      rl.Texture2D
	packed      []color.RGBA
	maxCount    int

	lutSync lutVersion

	width, height int
}

// GPUSource returns the fragment shader source with MAX_PARTICLES set.
func GPUSource(maxParticles int) string {
	return strings.Replace(metaballShader, maxParticlesDefine,
		fmt.Sprintf("#define MAX_PARTICLES %d", maxParticles), 1)
}

// NewGPURenderer compiles the shader and allocates the data textures. It
// fails when the particle texture would be too wide, when the configured
// particle cap exceeds what the shader loops over, or when compilation
// leaves any uniform unresolved.
func NewGPURenderer(cfg *config.Config, width, height int) (*GPURenderer, error) {
	maxCount := cfg.Render.GPUMaxParticles
	texW := maxCount * TexelsPerParticle
	if maxCount <= 0 || texW > cfg.Render.MaxTextureWidth {
		return nil, fmt.Errorf("particle texture width %d outside (0, %d]", texW, cfg.Render.MaxTextureWidth)
	}
	if cfg.Particles.MaxCount > maxCount {
		return nil, fmt.Errorf("particle cap %d exceeds gpu cap %d", cfg.Particles.MaxCount, maxCount)
	}

	shader := rl.LoadShaderFromMemory("", GPUSource(maxCount))
	if shader.ID == 0 {
		return nil, errNoShader
	}

	g := &GPURenderer{
		shader:   shader,
		maxCount: maxCount,
		packed:   make([]color.RGBA, texW),
	}

	locs := []struct {
		name string
		dst  *int32
	}{
		{"particles", &g.particlesLoc},
		{"lut", &g.lutLoc},
		{"count", &g.countLoc},
		{"resolution", &g.resolutionLoc},
		{"radiusSq", &g.radiusSqLoc},
		{"threshold", &g.thresholdLoc},
	}
	for _, l := range locs {
		*l.dst = rl.GetShaderLocation(shader, l.name)
		if *l.dst == -1 {
			// Raylib substitutes its default shader on failure, which has none of these
			rl.UnloadShader(shader)
			return nil, fmt.Errorf("%w: uniform %q not found", errNoShader, l.name)
		}
	}

	img := rl.GenImageColor(texW, 1, rl.Blank)
	g.particleTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	img = rl.GenImageColor(palette.Size, 1, rl.Black)
	g.lutTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	rl.SetTextureFilter(g.particleTex, rl.FilterPoint)
	rl.SetTextureFilter(g.lutTex, rl.FilterPoint)

	radius := float32(cfg.Render.ParticleRadius)
	rl.SetShaderValue(shader, g.radiusSqLoc, []float32{radius * radius}, rl.ShaderUniformFloat)
	rl.SetShaderValue(shader, g.thresholdLoc, []float32{float32(cfg.Render.Threshold)}, rl.ShaderUniformFloat)

	g.Resize(width, height)
	return g, nil
}

// Name identifies the renderer in logs and the HUD.
func (g *GPURenderer) Name() string {
	return "gpu"
}

// Resize updates the resolution uniform.
func (g *GPURenderer) Resize(width, height int) {
	g.width, g.height = width, height
	resolution := []float32{float32(width), float32(height)}
	rl.SetShaderValue(g.shader, g.resolutionLoc, resolution, rl.ShaderUniformVec2)
}

// Draw uploads particles (and the LUT when it changed) and runs the shader
// over a full-screen rectangle.
func (g *GPURenderer) Draw(particles []components.Particle, pal *palette.Palette) {
	n := PackParticles(g.packed, particles, float32(g.width), float32(g.height))
	rl.UpdateTexture(g.particleTex, g.packed)

	if g.lutSync.stale(pal.Version()) {
		lut := pal.LUT()
		rl.UpdateTexture(g.lutTex, lut[:])
	}

	rl.SetShaderValue(g.shader, g.countLoc, []float32{float32(n)}, rl.ShaderUniformFloat)

	rl.BeginShaderMode(g.shader)
	rl.SetShaderValueTexture(g.shader, g.particlesLoc, g.particleTex)
	rl.SetShaderValueTexture(g.shader, g.lutLoc, g.lutTex)
	rl.DrawRectangle(0, 0, int32(g.width), int32(g.height), rl.White)
	rl.EndShaderMode()
}

// Unload frees resources.
func (g *GPURenderer) Unload() {
	rl.UnloadShader(g.shader)
	rl.UnloadTexture(g.particleTex)
	rl.UnloadTexture(g.lutTex)
}
