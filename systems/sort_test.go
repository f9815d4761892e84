package systems

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func sorters() map[string]PairSorter {
	return map[string]PairSorter{
		SorterRadix:      NewRadixSorter(),
		SorterComparison: ComparisonSorter{},
	}
}

func TestSortPairsKnownCase(t *testing.T) {
	for name, s := range sorters() {
		t.Run(name, func(t *testing.T) {
			keys := []int32{0, 1, 0, 3, 0, 2, 2, 0, 5, 6}
			values := []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

			s.SortPairs(keys, values)

			wantKeys := []int32{0, 0, 0, 0, 1, 2, 2, 3, 5, 6}
			if !slices.Equal(keys, wantKeys) {
				t.Fatalf("keys = %v, want %v", keys, wantKeys)
			}

			zeros := slices.Clone(values[:4])
			slices.Sort(zeros)
			if !slices.Equal(zeros, []int32{0, 2, 4, 7}) {
				t.Errorf("zero-keyed values = %v, want {0,2,4,7}", values[:4])
			}
			if values[4] != 1 {
				t.Errorf("values[4] = %d, want 1", values[4])
			}
			twos := slices.Clone(values[5:7])
			slices.Sort(twos)
			if !slices.Equal(twos, []int32{5, 6}) {
				t.Errorf("two-keyed values = %v, want {5,6}", values[5:7])
			}
			if !slices.Equal(values[7:], []int32{3, 8, 9}) {
				t.Errorf("tail values = %v, want [3 8 9]", values[7:])
			}
		})
	}
}

func TestSortPairsIsPermutation(t *testing.T) {
	sizes := []int{0, 1, 2, 17, 256, 5000}
	for name, s := range sorters() {
		for _, n := range sizes {
			rng := rand.New(rand.NewSource(int64(n) + 7))
			keys := make([]int32, n)
			values := make([]int32, n)
			orig := make(map[int32]int32, n)
			for i := range keys {
				// Include negative keys and a wide spread so every radix byte matters.
				keys[i] = rng.Int31n(1<<24) - 1<<20
				values[i] = int32(i)
				orig[int32(i)] = keys[i]
			}

			s.SortPairs(keys, values)

			if !slices.IsSorted(keys) {
				t.Errorf("%s n=%d: keys not sorted", name, n)
			}
			seen := make([]bool, n)
			for p, v := range values {
				if v < 0 || int(v) >= n || seen[v] {
					t.Fatalf("%s n=%d: values is not a permutation at slot %d (%d)", name, n, p, v)
				}
				seen[v] = true
				if orig[v] != keys[p] {
					t.Errorf("%s n=%d: value %d carried key %d, want %d", name, n, v, keys[p], orig[v])
				}
			}
		}
	}
}

func TestRadixSorterReusesScratch(t *testing.T) {
	s := NewRadixSorter()
	for round := 0; round < 3; round++ {
		keys := []int32{9, 3, 7, 3, 1}
		values := []int32{0, 1, 2, 3, 4}
		s.SortPairs(keys, values)
		if !slices.Equal(keys, []int32{1, 3, 3, 7, 9}) {
			t.Fatalf("round %d: keys = %v", round, keys)
		}
		if values[0] != 4 || values[3] != 2 || values[4] != 0 {
			t.Errorf("round %d: values = %v", round, values)
		}
	}
}

func TestRadixSorterUniformKeys(t *testing.T) {
	keys := []int32{4, 4, 4, 4}
	values := []int32{3, 1, 2, 0}
	NewRadixSorter().SortPairs(keys, values)
	if !slices.Equal(values, []int32{3, 1, 2, 0}) {
		t.Errorf("equal keys should leave values untouched, got %v", values)
	}
}

func TestNewSorter(t *testing.T) {
	if _, ok := mustSorter(t, "radix").(*RadixSorter); !ok {
		t.Error("radix should build a *RadixSorter")
	}
	if _, ok := mustSorter(t, "").(*RadixSorter); !ok {
		t.Error("empty name should default to radix")
	}
	if _, ok := mustSorter(t, "comparison").(ComparisonSorter); !ok {
		t.Error("comparison should build a ComparisonSorter")
	}

	_, err := NewSorter("bogo")
	if !errors.Is(err, ErrUnknownSorter) {
		t.Errorf("NewSorter(bogo) error = %v, want ErrUnknownSorter", err)
	}
}

func mustSorter(t *testing.T, name string) PairSorter {
	t.Helper()
	s, err := NewSorter(name)
	if err != nil {
		t.Fatalf("NewSorter(%q): %v", name, err)
	}
	return s
}

func BenchmarkRadixSorter(b *testing.B) {
	benchmarkSorter(b, NewRadixSorter())
}

func BenchmarkComparisonSorter(b *testing.B) {
	benchmarkSorter(b, ComparisonSorter{})
}

func benchmarkSorter(b *testing.B, s PairSorter) {
	const n = 50000
	rng := rand.New(rand.NewSource(1))
	src := make([]int32, n)
	for i := range src {
		src[i] = rng.Int31n(10648)
	}
	keys := make([]int32, n)
	values := make([]int32, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(keys, src)
		for j := range values {
			values[j] = int32(j)
		}
		s.SortPairs(keys, values)
	}
}
