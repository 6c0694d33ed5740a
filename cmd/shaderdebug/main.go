// Shader debug tool - renders the metaball shader over a simulated particle
// field to a PNG file for inspection, optionally next to the CPU rasterizer.
//
// Usage: go run ./cmd/shaderdebug -out debug.png -steps 600 -compare
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lava/components"
	"github.com/pthm-cable/lava/config"
	"github.com/pthm-cable/lava/palette"
	"github.com/pthm-cable/lava/renderer"
	"github.com/pthm-cable/lava/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	width := flag.Int("width", 512, "Render width")
	height := flag.Int("height", 512, "Render height")
	seed := flag.Int64("seed", 42, "RNG seed for the particle field")
	steps := flag.Int("steps", 300, "Physics steps to run before rendering")
	compare := flag.Bool("compare", false, "Also rasterize on the CPU and report differences")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	particles := simulate(cfg, *width, *height, *seed, *steps)
	pal, err := palette.New(cfg.Colors.Low, cfg.Colors.High, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build palette: %v\n", err)
		os.Exit(1)
	}
	pal.SetSpectrum(cfg.Colors.Spectrum)

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	gpu, err := renderer.NewGPURenderer(cfg, *width, *height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shader: %v\n", err)
		os.Exit(1)
	}
	defer gpu.Unload()

	// Render shader to texture
	target := rl.LoadRenderTexture(int32(*width), int32(*height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	gpu.Draw(particles, pal)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	gpuPix := rl.LoadImageColors(img)

	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)
	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Shader rendered to: %s (%dx%d, %d particles)\n", *outPath, *width, *height, len(particles))

	if !*compare {
		return
	}

	raster := renderer.NewRasterizer(
		float32(cfg.Render.ParticleRadius),
		float32(cfg.Render.Threshold),
		cfg.Render.BlockSizes,
		cfg.Render.Workers,
	)
	defer raster.Close()
	raster.Resize(*width, *height)
	frame := raster.Rasterize(particles, pal.LUT())

	cpuPath := strings.TrimSuffix(*outPath, ".png") + "-cpu.png"
	cpuImg := rl.NewImageFromImage(frameImage(frame))
	success = rl.ExportImage(*cpuImg, cpuPath)
	rl.UnloadImage(cpuImg)
	if !success {
		fmt.Fprintf(os.Stderr, "Failed to export CPU image\n")
		os.Exit(1)
	}

	coverage, meanDiff := diff(gpuPix, frame.Pix)
	fmt.Printf("CPU rendered to: %s (block size %d)\n", cpuPath, raster.BlockSize())
	fmt.Printf("Coverage mismatch: %.2f%%  Mean channel diff on shared pixels: %.1f\n", coverage*100, meanDiff)
}

// simulate seeds a field and steps it so the blobs have formed.
func simulate(cfg *config.Config, width, height int, seed int64, steps int) []components.Particle {
	rng := rand.New(rand.NewSource(seed))
	sim := systems.NewSim(float32(width), float32(height), systems.PhysicsParamsFromConfig(cfg))
	count := systems.ParticleCount(width, height, cfg.Particles.Density, cfg.Particles.MaxCount)
	sim.Reset(rng, count, systems.SeedParamsFromConfig(cfg))
	for i := 0; i < steps; i++ {
		sim.Step(1, components.Pointer{})
	}
	return sim.Particles
}

// frameImage wraps a rasterized frame as an image for export.
func frameImage(f *renderer.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetRGBA(x, y, f.At(x, y))
		}
	}
	return img
}

// diff returns the fraction of pixels lit in one frame but not the other,
// and the mean per-channel difference where both are lit.
func diff(a, b []color.RGBA) (coverage, meanDiff float64) {
	n := min(len(a), len(b))
	if n == 0 {
		return 0, 0
	}
	lit := func(c color.RGBA) bool { return c.R|c.G|c.B != 0 }

	var mismatched, shared int
	var total float64
	for i := 0; i < n; i++ {
		la, lb := lit(a[i]), lit(b[i])
		switch {
		case la != lb:
			mismatched++
		case la:
			shared++
			total += absDiff(a[i].R, b[i].R) + absDiff(a[i].G, b[i].G) + absDiff(a[i].B, b[i].B)
		}
	}
	coverage = float64(mismatched) / float64(n)
	if shared > 0 {
		meanDiff = total / float64(shared*3)
	}
	return coverage, meanDiff
}

func absDiff(a, b uint8) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
