// Package systems provides the per-step flocking kernels: grid indexing,
// key sorting, cell boundaries, neighbor rules and integration.
//
// Every kernel works on a half-open item range [lo, hi) so callers can
// split a stage across workers; kernels only write their own slots.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// UniformGrid is the fixed spatial partition of the scene into cubic cells.
// It is computed once per run and never changes.
type UniformGrid struct {
	CellWidth        float64
	InverseCellWidth float64
	Origin           r3.Vec // Minimum corner
	SideCount        int    // Cells per axis
	CellCount        int    // SideCount³
}

// NewUniformGrid derives the grid from the rule radii and the scene half extent.
// Cells are twice the largest radius wide, so a neighborhood of one cell in
// each direction always covers the interaction radius.
func NewUniformGrid(rule1Distance, rule2Distance, rule3Distance, sceneHalfExtent float64) UniformGrid {
	cellWidth := 2 * max(rule1Distance, rule2Distance, rule3Distance)
	halfSide := int(math.Floor(sceneHalfExtent/cellWidth)) + 1
	side := 2 * halfSide
	o := -cellWidth * float64(halfSide)

	return UniformGrid{
		CellWidth:        cellWidth,
		InverseCellWidth: 1 / cellWidth,
		Origin:           r3.Vec{X: o, Y: o, Z: o},
		SideCount:        side,
		CellCount:        side * side * side,
	}
}

// CellCoord returns the unclamped 3D cell coordinate containing p.
func (g UniformGrid) CellCoord(p r3.Vec) (x, y, z int) {
	d := r3.Scale(g.InverseCellWidth, r3.Sub(p, g.Origin))
	return floorInt(d.X), floorInt(d.Y), floorInt(d.Z)
}

// Flatten maps a 3D cell coordinate to its flat index (x fastest).
func (g UniformGrid) Flatten(x, y, z int) int {
	return x + y*g.SideCount + z*g.SideCount*g.SideCount
}

// CellIndex returns the flat cell index containing p. Positions outside
// the grid flatten to an index that CellTable.Range rejects.
func (g UniformGrid) CellIndex(p r3.Vec) int {
	x, y, z := g.CellCoord(p)
	return g.Flatten(x, y, z)
}

// CellBox returns the inclusive cell-coordinate box covering p ± radius,
// clamped to [0, SideCount-1] on every axis.
func (g UniformGrid) CellBox(p r3.Vec, radius float64) (lo, hi [3]int) {
	r := r3.Vec{X: radius, Y: radius, Z: radius}
	lx, ly, lz := g.CellCoord(r3.Sub(p, r))
	hx, hy, hz := g.CellCoord(r3.Add(p, r))

	last := g.SideCount - 1
	lo = [3]int{clampInt(lx, 0, last), clampInt(ly, 0, last), clampInt(lz, 0, last)}
	hi = [3]int{clampInt(hx, 0, last), clampInt(hy, 0, last), clampInt(hz, 0, last)}
	return lo, hi
}

// AssignGridIndices writes each agent's flat cell index and the identity
// permutation for agents in [lo, hi).
func AssignGridIndices(g UniformGrid, pos []r3.Vec, gridIndices, arrayIndices []int32, lo, hi int) {
	for i := lo; i < hi; i++ {
		gridIndices[i] = int32(g.CellIndex(pos[i]))
		arrayIndices[i] = int32(i)
	}
}
