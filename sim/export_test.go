package sim

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestExportLayout(t *testing.T) {
	s := newTestSim(t, 2, testParams())
	pos := []r3.Vec{{X: 50, Y: -100, Z: 0}, {X: -25, Y: 10, Z: 100}}
	vel := []r3.Vec{{X: 0.2, Y: -0.3, Z: 0}, {X: -0.5, Y: 0.7, Z: 0.1}}
	if err := s.Restore(pos, vel, 0); err != nil {
		t.Fatal(err)
	}

	gotPos := make([]float32, 2*ExportStride)
	if err := s.ExportPositions(gotPos); err != nil {
		t.Fatalf("ExportPositions: %v", err)
	}
	wantPos := []float32{0.5, -1, 0, 1, -0.25, 0.1, 1, 1}
	for i := range wantPos {
		if diff := gotPos[i] - wantPos[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("positions[%d] = %v, want %v", i, gotPos[i], wantPos[i])
		}
	}

	gotVel := make([]float32, 2*ExportStride)
	if err := s.ExportVelocities(gotVel); err != nil {
		t.Fatalf("ExportVelocities: %v", err)
	}
	wantVel := []float32{0.5, 0, 0.3, 1, -0.2, 1.0, 0.4, 1}
	for i := range wantVel {
		if diff := gotVel[i] - wantVel[i]; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("velocities[%d] = %v, want %v", i, gotVel[i], wantVel[i])
		}
	}
}

func TestExportShortBuffer(t *testing.T) {
	s := newTestSim(t, 3, testParams())
	dst := make([]float32, 3*ExportStride-1)

	if err := s.ExportPositions(dst); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("ExportPositions error = %v, want ErrShortBuffer", err)
	}
	if err := s.ExportVelocities(dst); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("ExportVelocities error = %v, want ErrShortBuffer", err)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %v written on error", i, v)
		}
	}
}

func TestExportLargerBufferLeavesTail(t *testing.T) {
	s := newTestSim(t, 100, testParams())
	dst := make([]float32, 100*ExportStride+4)
	dst[len(dst)-1] = -7

	if err := s.ExportPositions(dst); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if dst[i*ExportStride+3] != 1 {
			t.Fatalf("agent %d w = %v, want 1", i, dst[i*ExportStride+3])
		}
	}
	if dst[len(dst)-1] != -7 {
		t.Error("export wrote past 4·N values")
	}
}
