// Package stream broadcasts flock frames to websocket viewers.
package stream

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrFrameLayout is returned when a frame's buffers do not match its count.
var ErrFrameLayout = errors.New("stream: frame buffers do not match count")

// Frame is one exported simulation state, encoded as msgpack.
// Positions and Velocities use the 4-float-per-agent export layout.
type Frame struct {
	Tick            int32     `msgpack:"tick"`
	Count           int       `msgpack:"count"`
	Variant         string    `msgpack:"variant"`
	SceneHalfExtent float32   `msgpack:"half_extent"`
	Positions       []float32 `msgpack:"pos"`
	Velocities      []float32 `msgpack:"vel"`
}

// Validate checks that both buffers hold exactly Count agents.
func (f *Frame) Validate() error {
	want := 4 * f.Count
	if f.Count < 0 || len(f.Positions) != want || len(f.Velocities) != want {
		return fmt.Errorf("%w: count %d, pos %d, vel %d", ErrFrameLayout, f.Count, len(f.Positions), len(f.Velocities))
	}
	return nil
}

// EncodeFrame validates and marshals a frame.
func EncodeFrame(f *Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return data, nil
}

// DecodeFrame unmarshals and validates a frame.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
