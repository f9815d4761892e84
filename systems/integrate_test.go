package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestWrapAxis(t *testing.T) {
	tests := []struct {
		name string
		c    float64
		want float64
	}{
		{"inside", 42, 42},
		{"on positive face", 100, 100},
		{"on negative face", -100, -100},
		{"past positive face", 100.25, -100},
		{"past negative face", -100.25, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapAxis(tt.c, 100); got != tt.want {
				t.Errorf("WrapAxis(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestIntegrate(t *testing.T) {
	pos := []r3.Vec{
		{X: 1, Y: 2, Z: 3},
		{X: 99.5, Y: 0, Z: -99.5},
		{X: -99.9, Y: 99.9, Z: 0},
	}
	vel := []r3.Vec{
		{X: 0.5, Y: -0.5, Z: 0},
		{X: 1, Y: 0, Z: -1},
		{X: -0.2, Y: 0.2, Z: 0.1},
	}

	Integrate(pos, vel, 1, 100, 0, 1)
	Integrate(pos, vel, 1, 100, 1, 3)

	want := []r3.Vec{
		{X: 1.5, Y: 1.5, Z: 3},
		{X: -100, Y: 0, Z: 100},
		{X: 100, Y: -100, Z: 0.1},
	}
	for i := range pos {
		if !vecNear(pos[i], want[i], 1e-12) {
			t.Errorf("pos[%d] = %v, want %v", i, pos[i], want[i])
		}
	}
}

func TestIntegrateScalesByDT(t *testing.T) {
	pos := []r3.Vec{{}}
	Integrate(pos, []r3.Vec{{X: 1, Y: -2, Z: 0.5}}, 0.25, 100, 0, 1)
	if !vecNear(pos[0], r3.Vec{X: 0.25, Y: -0.5, Z: 0.125}, 1e-12) {
		t.Errorf("pos = %v", pos[0])
	}
}
