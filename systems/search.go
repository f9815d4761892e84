package systems

import "gonum.org/v1/gonum/spatial/r3"

// maxCandidateCells bounds the cell box when cells are at least twice the
// search radius wide (3×3×3).
const maxCandidateCells = 27

// SearchNaive writes the new velocity of agents [lo, hi) by checking every
// other agent. O(N²); the baseline the grid searches must agree with.
func SearchNaive(p RuleParams, pos, vel, velNext []r3.Vec, lo, hi int) {
	for i := lo; i < hi; i++ {
		velNext[i] = EvaluateRules(p, i, pos, vel)
	}
}

// GridSearch evaluates the rules over the cells around each agent.
// Cells must already be located against the current sorted keys.
type GridSearch struct {
	Rules RuleParams
	Grid  UniformGrid
	Cells *CellTable
}

// candidateRanges appends the occupied ranges of the cells covering
// p ± the largest rule radius. Invalid ranges are skipped.
func (s GridSearch) candidateRanges(dst []CellRange, p r3.Vec, n int) []CellRange {
	lo, hi := s.Grid.CellBox(p, s.Rules.MaxDistance())
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				r, ok := s.Cells.Range(s.Grid.Flatten(x, y, z), n)
				if !ok {
					continue
				}
				dst = append(dst, r)
			}
		}
	}
	return dst
}

// Scattered writes the new velocity of agents [lo, hi). Agent data stays
// in its original order; sorted slots resolve to agents through
// arrayIndices.
func (s GridSearch) Scattered(arrayIndices []int32, pos, vel, velNext []r3.Vec, lo, hi int) {
	n := len(pos)
	var buf [maxCandidateCells]CellRange

	for i := lo; i < hi; i++ {
		acc := NewRuleAccumulator(s.Rules, pos[i])
		for _, r := range s.candidateRanges(buf[:0], pos[i], n) {
			for b := r.Start; b < r.End; b++ {
				j := int(arrayIndices[b])
				if j == i {
					continue
				}
				acc.Add(pos[j], vel[j])
			}
		}
		velNext[i] = acc.Velocity(s.Rules, vel[i])
	}
}

// Coherent writes the new velocity of agents [lo, hi). pos and vel must
// already be reordered into sorted slot order, so cell ranges index them
// directly.
func (s GridSearch) Coherent(pos, vel, velNext []r3.Vec, lo, hi int) {
	n := len(pos)
	var buf [maxCandidateCells]CellRange

	for i := lo; i < hi; i++ {
		acc := NewRuleAccumulator(s.Rules, pos[i])
		for _, r := range s.candidateRanges(buf[:0], pos[i], n) {
			for j := r.Start; j < r.End; j++ {
				if j == i {
					continue
				}
				acc.Add(pos[j], vel[j])
			}
		}
		velNext[i] = acc.Velocity(s.Rules, vel[i])
	}
}
