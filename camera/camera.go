// Package camera provides an orbit camera around the scene origin.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pitch stays short of the poles so the up vector is never parallel to
// the view direction.
const maxPitch = math.Pi/2 - 0.01

// Orbit looks at the origin from a point on a sphere.
// Supports orbit (yaw/pitch) and zoom (distance).
type Orbit struct {
	// Yaw rotates about +Y, Pitch lifts toward +Y (radians)
	Yaw, Pitch float64

	// Distance from the origin
	Distance float64

	// Distance constraints
	MinDistance, MaxDistance float64

	// Initial pose for Reset
	homeYaw, homePitch, homeDistance float64
}

// New creates an orbit camera. sceneHalfExtent bounds zoom so the scene
// cube can neither swallow the camera nor shrink to a dot.
func New(distance, yaw, pitch, sceneHalfExtent float64) *Orbit {
	o := &Orbit{
		MinDistance: sceneHalfExtent * 0.25,
		MaxDistance: sceneHalfExtent * 10,
	}
	o.SetDistance(distance)
	o.Yaw = wrapAngle(yaw)
	o.Pitch = clamp(pitch, -maxPitch, maxPitch)

	o.homeYaw, o.homePitch, o.homeDistance = o.Yaw, o.Pitch, o.Distance
	return o
}

// Eye returns the camera position in world coordinates.
func (o *Orbit) Eye() r3.Vec {
	cp := math.Cos(o.Pitch)
	return r3.Vec{
		X: o.Distance * cp * math.Sin(o.Yaw),
		Y: o.Distance * math.Sin(o.Pitch),
		Z: o.Distance * cp * math.Cos(o.Yaw),
	}
}

// Forward returns the unit view direction.
func (o *Orbit) Forward() r3.Vec {
	return r3.Unit(r3.Scale(-1, o.Eye()))
}

// Rotate orbits by the given yaw and pitch deltas in radians.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = wrapAngle(o.Yaw + dYaw)
	o.Pitch = clamp(o.Pitch+dPitch, -maxPitch, maxPitch)
}

// SetDistance sets the distance, clamped to min/max.
func (o *Orbit) SetDistance(d float64) {
	o.Distance = clamp(d, o.MinDistance, o.MaxDistance)
}

// ZoomBy multiplies the current distance by the given factor.
func (o *Orbit) ZoomBy(factor float64) {
	o.SetDistance(o.Distance * factor)
}

// Reset returns the camera to its initial pose.
func (o *Orbit) Reset() {
	o.Yaw, o.Pitch, o.Distance = o.homeYaw, o.homePitch, o.homeDistance
}

// wrapAngle wraps a to [-pi, pi].
func wrapAngle(a float64) float64 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
