package systems

import "gonum.org/v1/gonum/spatial/r3"

// Integrate advances agents [lo, hi) by velNext·dt and wraps each axis
// at ±halfExtent.
func Integrate(pos, velNext []r3.Vec, dt, halfExtent float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		p := r3.Add(pos[i], r3.Scale(dt, velNext[i]))
		pos[i] = r3.Vec{
			X: WrapAxis(p.X, halfExtent),
			Y: WrapAxis(p.Y, halfExtent),
			Z: WrapAxis(p.Z, halfExtent),
		}
	}
}

// WrapAxis teleports a coordinate that left [-h, h] to the opposite face.
func WrapAxis(c, h float64) float64 {
	if c < -h {
		return h
	}
	if c > h {
		return -h
	}
	return c
}
