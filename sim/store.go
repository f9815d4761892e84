package sim

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleStore holds the per-agent state as index-parallel slices.
// VelNext is scratch written during the neighbor search; Pos and Vel are
// the only values carried from one step to the next.
type ParticleStore struct {
	Pos     []r3.Vec
	Vel     []r3.Vec
	VelNext []r3.Vec

	// Gather targets for the coherent variant.
	shuffledPos []r3.Vec
	shuffledVel []r3.Vec
}

// NewParticleStore allocates a zeroed store for n agents.
func NewParticleStore(n int) *ParticleStore {
	return &ParticleStore{
		Pos:         make([]r3.Vec, n),
		Vel:         make([]r3.Vec, n),
		VelNext:     make([]r3.Vec, n),
		shuffledPos: make([]r3.Vec, n),
		shuffledVel: make([]r3.Vec, n),
	}
}

// Len returns the number of agents.
func (s *ParticleStore) Len() int {
	return len(s.Pos)
}

// Seed places agents uniformly in [-halfExtent, halfExtent]³ with
// velocities uniform in [-speed, speed)³.
func (s *ParticleStore) Seed(rng *rand.Rand, halfExtent, speed float64) {
	for i := range s.Pos {
		s.Pos[i] = randomVec(rng, halfExtent)
		s.Vel[i] = randomVec(rng, speed)
	}
}

func randomVec(rng *rand.Rand, scale float64) r3.Vec {
	return r3.Vec{
		X: (rng.Float64()*2 - 1) * scale,
		Y: (rng.Float64()*2 - 1) * scale,
		Z: (rng.Float64()*2 - 1) * scale,
	}
}

// PromoteVelocity makes the freshly computed velocities current.
func (s *ParticleStore) PromoteVelocity() {
	s.Vel, s.VelNext = s.VelNext, s.Vel
}

// SwapShuffled installs the gathered buffers as Pos and Vel. The
// previous slices become the next step's gather targets.
func (s *ParticleStore) SwapShuffled() {
	s.Pos, s.shuffledPos = s.shuffledPos, s.Pos
	s.Vel, s.shuffledVel = s.shuffledVel, s.Vel
}

func (s *ParticleStore) release() {
	*s = ParticleStore{}
}
