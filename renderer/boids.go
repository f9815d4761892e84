package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/camera"
)

// Size of the cube drawn per boid, in world units.
const boidSize = 0.6

// BoidRenderer draws the exported flock buffers in 3D.
type BoidRenderer struct {
	SceneHalfExtent float32
	BoundsColor     rl.Color
	ShowBounds      bool
}

// NewBoidRenderer creates a renderer for a scene cube of the given half extent.
func NewBoidRenderer(sceneHalfExtent float32) *BoidRenderer {
	return &BoidRenderer{
		SceneHalfExtent: sceneHalfExtent,
		BoundsColor:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		ShowBounds:      true,
	}
}

// Camera3D converts an orbit pose to a raylib camera looking at the origin.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	eye := o.Eye()
	return rl.Camera3D{
		Position:   rl.Vector3{X: float32(eye.X), Y: float32(eye.Y), Z: float32(eye.Z)},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders n boids from the position and velocity export buffers.
// Positions are normalized by the scene half extent and scaled back here.
func (r *BoidRenderer) Draw(cam rl.Camera3D, positions, velocities []float32, n int) {
	rl.BeginMode3D(cam)
	defer rl.EndMode3D()

	if r.ShowBounds {
		side := 2 * r.SceneHalfExtent
		rl.DrawCubeWires(rl.Vector3{}, side, side, side, r.BoundsColor)
	}

	h := r.SceneHalfExtent
	for i := 0; i < n; i++ {
		o := 4 * i
		if o+3 > len(positions) || o+3 > len(velocities) {
			break
		}
		p := rl.Vector3{X: positions[o] * h, Y: positions[o+1] * h, Z: positions[o+2] * h}
		color := VelocityColor(velocities[o], velocities[o+1], velocities[o+2])
		rl.DrawCube(p, boidSize, boidSize, boidSize, color)
	}
}

// VelocityColor maps one exported velocity (already offset for display)
// to a color, one channel per axis.
func VelocityColor(x, y, z float32) rl.Color {
	return rl.Color{
		R: channel(x),
		G: channel(y),
		B: channel(z),
		A: 255,
	}
}

func channel(c float32) uint8 {
	c = float32(math.Abs(float64(c)))
	if c > 1 {
		c = 1
	}
	// Keep slow boids visible against the dark background
	return uint8(40 + c*215)
}
