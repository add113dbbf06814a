// Package grid implements the spatial grid index used for neighborhood
// materialization. Instances are bucketed into square cells whose side
// equals the neighbor distance threshold, so all neighbors of an instance
// live in the 3x3 window around its cell.
package grid

import (
	"math"

	"github.com/colocation-mining/pkg/model"
)

// Grid is a row-major 2-D grid of cells. Each cell holds the indices of the
// instances whose coordinates fall inside it.
type Grid struct {
	Width  int
	Height int

	minX, minY float64
	cellSize   float64

	// cells[gy*Width + gx] lists instance indices in insertion order.
	cells [][]int
}

// Build buckets the instances into cells of side dMin. An empty instance
// set yields an empty grid; downstream stages then produce empty results.
func Build(instances []model.Instance, dMin float64) *Grid {
	if len(instances) == 0 {
		return &Grid{}
	}

	minX, minY := instances[0].X, instances[0].Y
	maxX, maxY := minX, minY
	for i := range instances {
		inst := &instances[i]
		if inst.X < minX {
			minX = inst.X
		}
		if inst.Y < minY {
			minY = inst.Y
		}
		if inst.X > maxX {
			maxX = inst.X
		}
		if inst.Y > maxY {
			maxY = inst.Y
		}
	}

	width := int(math.Ceil((maxX - minX) / dMin))
	height := int(math.Ceil((maxY - minY) / dMin))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	g := &Grid{
		Width:    width,
		Height:   height,
		minX:     minX,
		minY:     minY,
		cellSize: dMin,
		cells:    make([][]int, width*height),
	}

	for i := range instances {
		gx, gy := g.cellOf(instances[i].X, instances[i].Y)
		cell := gy*width + gx
		g.cells[cell] = append(g.cells[cell], i)
	}

	return g
}

// cellOf maps coordinates to cell indices, clamping coordinates on the
// max edge into the last cell.
func (g *Grid) cellOf(x, y float64) (gx, gy int) {
	gx = int((x - g.minX) / g.cellSize)
	gy = int((y - g.minY) / g.cellSize)
	if gx >= g.Width {
		gx = g.Width - 1
	}
	if gy >= g.Height {
		gy = g.Height - 1
	}
	return gx, gy
}

// NumCells returns the number of cells in the grid.
func (g *Grid) NumCells() int {
	return len(g.cells)
}

// Cell returns the instance indices bucketed into the given linear cell.
func (g *Grid) Cell(idx int) []int {
	return g.cells[idx]
}

// NeighborCells returns the linear indices of the in-bounds 3x3 window
// around the given cell, in row-major order. With cell side equal to the
// distance threshold no point outside this window can be a neighbor.
func (g *Grid) NeighborCells(idx int) []int {
	curX := idx % g.Width
	curY := idx / g.Width

	neighbors := make([]int, 0, 9)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx := curX + dx
			ny := curY + dy
			if nx < 0 || nx >= g.Width || ny < 0 || ny >= g.Height {
				continue
			}
			neighbors = append(neighbors, ny*g.Width+nx)
		}
	}
	return neighbors
}
