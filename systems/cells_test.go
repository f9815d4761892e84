package systems

import (
	"math/rand"
	"slices"
	"testing"
)

func TestCellTableLocate(t *testing.T) {
	table := NewCellTable(8)
	keys := []int32{0, 0, 2, 2, 2, 5}

	table.Locate(keys, 0, len(keys))

	tests := []struct {
		cell   int
		want   CellRange
		wantOK bool
	}{
		{0, CellRange{0, 2}, true},
		{1, CellRange{}, false},
		{2, CellRange{2, 5}, true},
		{3, CellRange{}, false},
		{5, CellRange{5, 6}, true},
		{7, CellRange{}, false},
	}
	for _, tt := range tests {
		got, ok := table.Range(tt.cell, len(keys))
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Range(%d) = %v, %v; want %v, %v", tt.cell, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCellTableEmptyPopulation(t *testing.T) {
	table := NewCellTable(4)
	table.Locate(nil, 0, 0)
	for c := 0; c < table.Len(); c++ {
		if table.Start[c] != emptyCell || table.End[c] != emptyCell {
			t.Errorf("cell %d = [%d, %d), want sentinel", c, table.Start[c], table.End[c])
		}
	}
}

func TestCellTableSingleAgent(t *testing.T) {
	table := NewCellTable(4)
	table.Locate([]int32{3}, 0, 1)

	r, ok := table.Range(3, 1)
	if !ok || r != (CellRange{0, 1}) {
		t.Errorf("Range(3) = %v, %v; want [0,1), true", r, ok)
	}
}

func TestCellTableRangeRejectsInvalid(t *testing.T) {
	table := NewCellTable(4)
	table.Start[1], table.End[1] = 3, 2 // end before start
	table.Start[2], table.End[2] = 0, 9 // end past population

	tests := []struct {
		name string
		cell int
	}{
		{"negative cell", -1},
		{"cell past table", 4},
		{"sentinel", 0},
		{"inverted", 1},
		{"past population", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := table.Range(tt.cell, 5); ok {
				t.Errorf("Range(%d) accepted an invalid range", tt.cell)
			}
		})
	}
}

func TestCellTableSkipsOutOfTableKeys(t *testing.T) {
	table := NewCellTable(3)
	keys := []int32{-4, 1, 1, 7}
	table.Locate(keys, 0, len(keys))

	r, ok := table.Range(1, len(keys))
	if !ok || r != (CellRange{1, 3}) {
		t.Errorf("Range(1) = %v, %v; want [1,3), true", r, ok)
	}
}

// TestCellTablePartition checks that located ranges tile [0, N) exactly
// and that each slot's range is the one for its own key, with Locate
// split into out-of-order chunks the way workers would run it.
func TestCellTablePartition(t *testing.T) {
	for _, n := range []int{1, 2, 10, 333, 4096} {
		rng := rand.New(rand.NewSource(int64(n)))
		const cells = 64
		keys := make([]int32, n)
		for i := range keys {
			keys[i] = rng.Int31n(cells)
		}
		slices.Sort(keys)

		table := NewCellTable(cells)
		const chunk = 7
		for lo := ((n - 1) / chunk) * chunk; lo >= 0; lo -= chunk {
			table.Locate(keys, lo, min(lo+chunk, n))
		}

		covered := make([]int, n)
		for c := 0; c < cells; c++ {
			r, ok := table.Range(c, n)
			if !ok {
				continue
			}
			if r.Len() <= 0 {
				t.Errorf("n=%d cell %d: non-empty range expected, got %v", n, c, r)
			}
			for p := r.Start; p < r.End; p++ {
				covered[p]++
				if int(keys[p]) != c {
					t.Errorf("n=%d: slot %d has key %d but lies in cell %d", n, p, keys[p], c)
				}
			}
		}
		for p, count := range covered {
			if count != 1 {
				t.Errorf("n=%d: slot %d covered %d times", n, p, count)
			}
		}
	}
}

func TestCellTableReset(t *testing.T) {
	table := NewCellTable(5)
	table.Locate([]int32{0, 1, 4}, 0, 3)
	table.Reset(0, table.Len())
	for c := 0; c < table.Len(); c++ {
		if _, ok := table.Range(c, 3); ok {
			t.Errorf("cell %d still occupied after Reset", c)
		}
	}
}
