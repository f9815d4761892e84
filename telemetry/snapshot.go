package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/spatial/r3"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned when loading a snapshot written in another format.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Snapshot holds the complete flock state for replay.
type Snapshot struct {
	Version int   `msgpack:"version"`
	RNGSeed int64 `msgpack:"rng_seed"`

	SceneHalfExtent float64 `msgpack:"scene_half_extent"`
	Variant         string  `msgpack:"variant"`

	Tick int32 `msgpack:"tick"`

	Agents []AgentState `msgpack:"agents"`

	Bookmark *Bookmark `msgpack:"bookmark,omitempty"`
}

// AgentState holds one agent's position and velocity.
type AgentState struct {
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
	Z  float64 `msgpack:"z"`
	VX float64 `msgpack:"vx"`
	VY float64 `msgpack:"vy"`
	VZ float64 `msgpack:"vz"`
}

// NewSnapshot captures pos and vel, which must be index-parallel.
func NewSnapshot(seed int64, tick int32, halfExtent float64, variant string, pos, vel []r3.Vec) *Snapshot {
	agents := make([]AgentState, len(pos))
	for i := range pos {
		agents[i] = AgentState{
			X: pos[i].X, Y: pos[i].Y, Z: pos[i].Z,
			VX: vel[i].X, VY: vel[i].Y, VZ: vel[i].Z,
		}
	}
	return &Snapshot{
		Version:         SnapshotVersion,
		RNGSeed:         seed,
		SceneHalfExtent: halfExtent,
		Variant:         variant,
		Tick:            tick,
		Agents:          agents,
	}
}

// State returns the stored positions and velocities.
func (s *Snapshot) State() (pos, vel []r3.Vec) {
	pos = make([]r3.Vec, len(s.Agents))
	vel = make([]r3.Vec, len(s.Agents))
	for i, a := range s.Agents {
		pos[i] = r3.Vec{X: a.X, Y: a.Y, Z: a.Z}
		vel[i] = r3.Vec{X: a.VX, Y: a.VY, Z: a.VZ}
	}
	return pos, vel
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".msgpack"

	path := filepath.Join(dir, name)

	data, err := msgpack.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snapshot.Version)
	}

	return &snapshot, nil
}
