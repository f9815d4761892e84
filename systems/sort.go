package systems

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSorter is returned by NewSorter for an unrecognized name.
var ErrUnknownSorter = errors.New("unknown sorter")

// Sorter names accepted by NewSorter.
const (
	SorterRadix      = "radix"
	SorterComparison = "comparison"
)

// PairSorter sorts parallel key/value arrays by key ascending.
// Order among equal keys is unspecified. values must remain a permutation
// of its input, and both slices must have equal length.
type PairSorter interface {
	SortPairs(keys, values []int32)
}

// NewSorter returns the sorter registered under name.
func NewSorter(name string) (PairSorter, error) {
	switch name {
	case SorterRadix, "":
		return NewRadixSorter(), nil
	case SorterComparison:
		return ComparisonSorter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSorter, name)
	}
}

// RadixSorter is an LSD radix sort over int32 keys, one byte per pass.
// It keeps its scratch buffers between calls and is not safe for
// concurrent use.
type RadixSorter struct {
	keys   []int32
	values []int32
}

// NewRadixSorter creates a radix sorter with empty scratch buffers.
func NewRadixSorter() *RadixSorter {
	return &RadixSorter{}
}

// SortPairs sorts keys ascending, carrying values along.
func (s *RadixSorter) SortPairs(keys, values []int32) {
	n := len(keys)
	if n < 2 {
		return
	}
	if cap(s.keys) < n {
		s.keys = make([]int32, n)
		s.values = make([]int32, n)
	}

	srcK, srcV := keys, values
	dstK, dstV := s.keys[:n], s.values[:n]

	for shift := 0; shift < 32; shift += 8 {
		var count [256]int
		for _, k := range srcK {
			count[radixDigit(k, shift)]++
		}

		// Every key shares this byte; the pass would be the identity.
		if count[radixDigit(srcK[0], shift)] == n {
			continue
		}

		offset := 0
		for b := range count {
			c := count[b]
			count[b] = offset
			offset += c
		}

		for i, k := range srcK {
			d := radixDigit(k, shift)
			dstK[count[d]] = k
			dstV[count[d]] = srcV[i]
			count[d]++
		}

		srcK, dstK = dstK, srcK
		srcV, dstV = dstV, srcV
	}

	if &srcK[0] != &keys[0] {
		copy(keys, srcK)
		copy(values, srcV)
	}
}

// radixDigit extracts the byte at shift with the sign bit flipped so
// negative keys order before non-negative ones.
func radixDigit(k int32, shift int) int {
	return int(((uint32(k) ^ 0x80000000) >> shift) & 0xFF)
}

// ComparisonSorter sorts with sort.Sort over the paired arrays.
type ComparisonSorter struct{}

// SortPairs sorts keys ascending, carrying values along.
func (ComparisonSorter) SortPairs(keys, values []int32) {
	sort.Sort(pairSlice{keys: keys, values: values})
}

type pairSlice struct {
	keys, values []int32
}

func (p pairSlice) Len() int           { return len(p.keys) }
func (p pairSlice) Less(i, j int) bool { return p.keys[i] < p.keys[j] }
func (p pairSlice) Swap(i, j int) {
	p.keys[i], p.keys[j] = p.keys[j], p.keys[i]
	p.values[i], p.values[j] = p.values[j], p.values[i]
}
