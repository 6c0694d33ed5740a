package systems

import (
	"math"

	"github.com/pthm-cable/lava/components"
)

// NoParticle terminates a cell chain.
const NoParticle int32 = -1

// Grid provides O(1) neighbor lookups using a cell-based grid.
// Cells are singly-linked chains threaded through flat arrays: heads holds
// the first particle index of each cell and next links particles within a
// cell. The grid is rebuilt from scratch every step.
type Grid struct {
	cellSize float32
	cols     int
	rows     int
	heads    []int32
	next     []int32
}

// NewGrid creates an empty grid. Call Ensure before Build.
func NewGrid() *Grid {
	return &Grid{}
}

// Ensure sizes the grid for the given area, particle count and cell size.
// Arrays are only reallocated when one of those inputs changes.
func (g *Grid) Ensure(width, height float32, count int, cellSize float32) {
	cols := int(math.Ceil(float64(width / cellSize)))
	rows := int(math.Ceil(float64(height / cellSize)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	if cols == g.cols && rows == g.rows && cellSize == g.cellSize && count == len(g.next) && g.heads != nil {
		return
	}

	g.cellSize = cellSize
	g.cols = cols
	g.rows = rows
	g.heads = make([]int32, cols*rows)
	g.next = make([]int32, count)
}

// Reset drops the current allocation so the next Ensure reallocates.
func (g *Grid) Reset() {
	g.cols = 0
	g.rows = 0
	g.heads = nil
	g.next = nil
}

// Index returns the flat cell index for cell coordinates.
func (g *Grid) Index(cx, cy int) int {
	return cy*g.cols + cx
}

// CellOf returns the clamped cell coordinates for a position.
func (g *Grid) CellOf(x, y float32) (int, int) {
	cx := int(math.Floor(float64(x / g.cellSize)))
	cy := int(math.Floor(float64(y / g.cellSize)))

	// Clamp to valid range
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}

	return cx, cy
}

// Build clears all chains and inserts every particle in index order, each
// pushed onto the front of its cell's chain.
func (g *Grid) Build(particles []components.Particle) {
	for i := range g.heads {
		g.heads[i] = NoParticle
	}
	for i := range particles {
		cx, cy := g.CellOf(particles[i].X, particles[i].Y)
		cell := g.Index(cx, cy)
		g.next[i] = g.heads[cell]
		g.heads[cell] = int32(i)
	}
}

// Head returns the first particle index in the cell, or NoParticle.
func (g *Grid) Head(cx, cy int) int32 {
	return g.heads[g.Index(cx, cy)]
}

// Next returns the particle after i in its cell chain, or NoParticle.
func (g *Grid) Next(i int32) int32 {
	return g.next[i]
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (cols, rows int) {
	return g.cols, g.rows
}
