package systems

import "math"

// floorInt returns floor(v) as an int.
func floorInt(v float64) int {
	return int(math.Floor(v))
}

// clampInt clamps v to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
