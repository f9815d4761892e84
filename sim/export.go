package sim

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when an export target holds fewer than 4·N values.
var ErrShortBuffer = errors.New("export buffer too short")

// velocityColorOffset lifts velocity components so a still agent is not
// drawn black.
const velocityColorOffset = 0.3

// ExportStride is the number of float32 values written per agent.
const ExportStride = 4

// ExportPositions packs positions scaled into [-1, 1] as xyzw with w = 1.
func (s *Simulation) ExportPositions(dst []float32) error {
	pos := s.store.Pos
	if err := checkExport(dst, len(pos)); err != nil {
		return err
	}
	scale := 1 / s.params.SceneHalfExtent
	s.pool.run("export", len(pos), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			o := i * ExportStride
			dst[o+0] = float32(pos[i].X * scale)
			dst[o+1] = float32(pos[i].Y * scale)
			dst[o+2] = float32(pos[i].Z * scale)
			dst[o+3] = 1
		}
	})
	return nil
}

// ExportVelocities packs velocities offset for use as colours, xyzw with w = 1.
func (s *Simulation) ExportVelocities(dst []float32) error {
	vel := s.store.Vel
	if err := checkExport(dst, len(vel)); err != nil {
		return err
	}
	s.pool.run("export", len(vel), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			o := i * ExportStride
			dst[o+0] = float32(vel[i].X + velocityColorOffset)
			dst[o+1] = float32(vel[i].Y + velocityColorOffset)
			dst[o+2] = float32(vel[i].Z + velocityColorOffset)
			dst[o+3] = 1
		}
	})
	return nil
}

func checkExport(dst []float32, n int) error {
	if len(dst) < n*ExportStride {
		return fmt.Errorf("%w: need %d values, got %d", ErrShortBuffer, n*ExportStride, len(dst))
	}
	return nil
}
