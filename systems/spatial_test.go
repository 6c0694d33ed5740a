package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/lava/components"
)

func TestGridEveryParticleInExactlyOneChain(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	particles := make([]components.Particle, 500)
	for i := range particles {
		// Include some positions outside the area to exercise clamping
		particles[i] = components.Particle{
			X: rng.Float32()*340 - 20,
			Y: rng.Float32()*260 - 20,
		}
	}

	g := NewGrid()
	g.Ensure(300, 220, len(particles), 18)
	g.Build(particles)

	cols, rows := g.Dims()
	if cols != 17 || rows != 13 {
		t.Fatalf("expected 17x13 cells, got %dx%d", cols, rows)
	}

	seen := make([]int, len(particles))
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			for i := g.Head(cx, cy); i != NoParticle; i = g.Next(i) {
				seen[i]++
				px, py := g.CellOf(particles[i].X, particles[i].Y)
				if px != cx || py != cy {
					t.Errorf("particle %d in chain (%d,%d) but belongs to (%d,%d)", i, cx, cy, px, py)
				}
			}
		}
	}

	for i, n := range seen {
		if n != 1 {
			t.Errorf("particle %d appears in %d chains", i, n)
		}
	}
}

func TestGridChainOrderIsFrontInsertion(t *testing.T) {
	particles := []components.Particle{
		{X: 1, Y: 1},
		{X: 2, Y: 2},
		{X: 3, Y: 3},
	}
	g := NewGrid()
	g.Ensure(100, 100, len(particles), 10)
	g.Build(particles)

	var order []int32
	for i := g.Head(0, 0); i != NoParticle; i = g.Next(i) {
		order = append(order, i)
	}
	want := []int32{2, 1, 0}
	if len(order) != len(want) {
		t.Fatalf("expected chain %v, got %v", want, order)
	}
	for k := range want {
		if order[k] != want[k] {
			t.Fatalf("expected chain %v, got %v", want, order)
		}
	}
}

func TestGridEnsureReallocatesOnlyOnChange(t *testing.T) {
	g := NewGrid()
	g.Ensure(100, 100, 10, 10)
	heads := &g.heads[0]

	g.Ensure(100, 100, 10, 10)
	if &g.heads[0] != heads {
		t.Error("expected no reallocation for identical inputs")
	}

	g.Ensure(100, 100, 11, 10)
	if len(g.next) != 11 {
		t.Errorf("expected next resized to 11, got %d", len(g.next))
	}

	g.Ensure(200, 100, 11, 10)
	if cols, _ := g.Dims(); cols != 20 {
		t.Errorf("expected 20 columns, got %d", cols)
	}

	g.Reset()
	if g.heads != nil {
		t.Error("expected Reset to drop the allocation")
	}
}

func TestGridCellOfClamps(t *testing.T) {
	g := NewGrid()
	g.Ensure(95, 45, 0, 10)

	tests := []struct {
		name   string
		x, y   float32
		cx, cy int
	}{
		{name: "origin", x: 0, y: 0, cx: 0, cy: 0},
		{name: "interior", x: 35, y: 21, cx: 3, cy: 2},
		{name: "negative", x: -5, y: -0.1, cx: 0, cy: 0},
		{name: "far edge", x: 95, y: 45, cx: 9, cy: 4},
		{name: "beyond", x: 500, y: 500, cx: 9, cy: 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cx, cy := g.CellOf(tc.x, tc.y)
			if cx != tc.cx || cy != tc.cy {
				t.Errorf("CellOf(%v,%v) = (%d,%d), want (%d,%d)", tc.x, tc.y, cx, cy, tc.cx, tc.cy)
			}
		})
	}
}
