package systems

// emptyCell marks a cell with no agents in the start/end tables.
const emptyCell = -1

// CellRange is a half-open [Start, End) interval of sorted slots.
type CellRange struct {
	Start, End int
}

// Len returns the number of slots in the range.
func (r CellRange) Len() int {
	return r.End - r.Start
}

// CellTable maps each grid cell to the slots it occupies in the sorted
// order. Entries hold emptyCell until Locate opens or closes them.
type CellTable struct {
	Start []int32
	End   []int32
}

// NewCellTable allocates a table for cellCount cells, all empty.
func NewCellTable(cellCount int) *CellTable {
	t := &CellTable{
		Start: make([]int32, cellCount),
		End:   make([]int32, cellCount),
	}
	t.Reset(0, cellCount)
	return t
}

// Len returns the number of cells in the table.
func (t *CellTable) Len() int {
	return len(t.Start)
}

// Reset marks cells in [lo, hi) empty.
func (t *CellTable) Reset(lo, hi int) {
	for c := lo; c < hi; c++ {
		t.Start[c] = emptyCell
		t.End[c] = emptyCell
	}
}

// Locate classifies sorted slots [lo, hi) of sortedKeys as cell
// boundaries. Each table entry is written by exactly one slot, so disjoint
// slot ranges may run concurrently. Keys outside the table are skipped.
func (t *CellTable) Locate(sortedKeys []int32, lo, hi int) {
	n := len(sortedKeys)
	for p := lo; p < hi; p++ {
		k := sortedKeys[p]
		if p == 0 {
			t.setStart(k, 0)
		} else if prev := sortedKeys[p-1]; k != prev {
			t.setEnd(prev, p)
			t.setStart(k, p)
		}
		if p == n-1 {
			t.setEnd(k, n)
		}
	}
}

func (t *CellTable) setStart(cell int32, p int) {
	if cell >= 0 && int(cell) < len(t.Start) {
		t.Start[cell] = int32(p)
	}
}

func (t *CellTable) setEnd(cell int32, p int) {
	if cell >= 0 && int(cell) < len(t.End) {
		t.End[cell] = int32(p)
	}
}

// Range returns the occupied slots of cell for a population of n agents.
// ok is false for cells outside the table, empty cells, and ranges that
// do not lie within [0, n]; callers treat those as contributing nothing.
func (t *CellTable) Range(cell, n int) (r CellRange, ok bool) {
	if cell < 0 || cell >= len(t.Start) {
		return CellRange{}, false
	}
	start, end := int(t.Start[cell]), int(t.End[cell])
	if start < 0 || end < start || end > n {
		return CellRange{}, false
	}
	return CellRange{Start: start, End: end}, true
}
