package systems

import "gonum.org/v1/gonum/spatial/r3"

// ShuffleInto gathers src into sorted slot order for slots [lo, hi):
// dst[p] = src[arrayIndices[p]]. dst and src must not alias.
func ShuffleInto(dst, src []r3.Vec, arrayIndices []int32, lo, hi int) {
	for p := lo; p < hi; p++ {
		dst[p] = src[arrayIndices[p]]
	}
}
