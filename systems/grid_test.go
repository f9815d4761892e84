package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewUniformGrid(t *testing.T) {
	g := NewUniformGrid(5, 3, 5, 100)

	if g.CellWidth != 10 {
		t.Errorf("cell width = %v, want 10", g.CellWidth)
	}
	if g.InverseCellWidth != 0.1 {
		t.Errorf("inverse cell width = %v, want 0.1", g.InverseCellWidth)
	}
	if g.SideCount != 22 {
		t.Errorf("side count = %d, want 22", g.SideCount)
	}
	if g.CellCount != 22*22*22 {
		t.Errorf("cell count = %d, want %d", g.CellCount, 22*22*22)
	}
	want := r3.Vec{X: -110, Y: -110, Z: -110}
	if g.Origin != want {
		t.Errorf("origin = %v, want %v", g.Origin, want)
	}
}

func TestUniformGridCoversScene(t *testing.T) {
	tests := []struct {
		name               string
		r1, r2, r3, extent float64
	}{
		{"default", 5, 3, 5, 100},
		{"exact multiple", 5, 5, 5, 50},
		{"radius wider than scene", 40, 1, 1, 10},
		{"separation largest", 1, 7, 2, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewUniformGrid(tt.r1, tt.r2, tt.r3, tt.extent)
			far := g.Origin.X + g.CellWidth*float64(g.SideCount)

			// One full cell of margin beyond the scene on both sides.
			if g.Origin.X > -tt.extent || far < tt.extent {
				t.Errorf("grid [%v, %v] does not cover scene ±%v", g.Origin.X, far, tt.extent)
			}
			if g.CellWidth < 2*max(tt.r1, tt.r2, tt.r3) {
				t.Errorf("cell width %v narrower than twice the largest radius", g.CellWidth)
			}
		})
	}
}

func TestCellIndex(t *testing.T) {
	g := NewUniformGrid(5, 3, 5, 100)

	tests := []struct {
		name string
		p    r3.Vec
		want int
	}{
		{"origin corner", r3.Vec{X: -110, Y: -110, Z: -110}, 0},
		{"scene center", r3.Vec{}, 11 + 11*22 + 11*22*22},
		{"x steps fastest", r3.Vec{X: -99.5, Y: -110, Z: -110}, 1},
		{"y stride", r3.Vec{X: -110, Y: -99.5, Z: -110}, 22},
		{"z stride", r3.Vec{X: -110, Y: -110, Z: -99.5}, 22 * 22},
		{"scene max corner", r3.Vec{X: 100, Y: 100, Z: 100}, 21 + 21*22 + 21*22*22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.CellIndex(tt.p); got != tt.want {
				t.Errorf("CellIndex(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestCellBoxClampsToLastCell(t *testing.T) {
	g := NewUniformGrid(5, 3, 5, 100)
	last := g.SideCount - 1

	lo, hi := g.CellBox(r3.Vec{X: 100, Y: 100, Z: 100}, 5)
	for axis := 0; axis < 3; axis++ {
		if hi[axis] != last {
			t.Errorf("axis %d: hi = %d, want %d (never SideCount)", axis, hi[axis], last)
		}
		if lo[axis] != 20 {
			t.Errorf("axis %d: lo = %d, want 20", axis, lo[axis])
		}
	}

	lo, hi = g.CellBox(r3.Vec{X: -109, Y: -109, Z: -109}, 5)
	for axis := 0; axis < 3; axis++ {
		if lo[axis] != 0 || hi[axis] != 0 {
			t.Errorf("axis %d: box = [%d, %d], want [0, 0]", axis, lo[axis], hi[axis])
		}
	}
}

func TestCellBoxSpansAtMostTwoCellsPerAxis(t *testing.T) {
	g := NewUniformGrid(5, 3, 5, 100)
	points := []r3.Vec{
		{X: 0.1, Y: 0.1, Z: 0.1},
		{X: 4.99, Y: -4.99, Z: 9.99},
		{X: -37.2, Y: 61.8, Z: 12.0},
	}
	for _, p := range points {
		lo, hi := g.CellBox(p, 5)
		for axis := 0; axis < 3; axis++ {
			if span := hi[axis] - lo[axis] + 1; span < 1 || span > 2 {
				t.Errorf("point %v axis %d spans %d cells", p, axis, span)
			}
		}
	}
}

func TestAssignGridIndices(t *testing.T) {
	g := NewUniformGrid(5, 3, 5, 100)
	pos := []r3.Vec{{}, {X: -110, Y: -110, Z: -110}, {X: -99.5, Y: -110, Z: -110}}
	grid := make([]int32, len(pos))
	perm := []int32{9, 9, 9}

	AssignGridIndices(g, pos, grid, perm, 0, 2)
	AssignGridIndices(g, pos, grid, perm, 2, 3)

	for i := range pos {
		if int(grid[i]) != g.CellIndex(pos[i]) {
			t.Errorf("grid[%d] = %d, want %d", i, grid[i], g.CellIndex(pos[i]))
		}
		if perm[i] != int32(i) {
			t.Errorf("perm[%d] = %d, want identity", i, perm[i])
		}
	}
}
