// Package sim owns the flock state and runs the per-step pipeline:
// grid indexing, sort, cell boundaries, neighbor search and integration,
// each stage split across a worker pool with a barrier between stages.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Construction errors.
var (
	ErrNegativeCount = errors.New("negative agent count")
	ErrInvalidParams = errors.New("invalid simulation parameters")
	ErrStateSize     = errors.New("state length does not match agent count")
)

const defaultWorkUnitSize = 128

// Params configures a Simulation.
type Params struct {
	Rules           systems.RuleParams
	SceneHalfExtent float64
	InitialSpeed    float64
	Seed            int64 // 0 picks a time-based seed
	WorkUnitSize    int
	Workers         int // 0 = GOMAXPROCS
	Sorter          string
}

// ParamsFromConfig maps a loaded configuration onto Params.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Rules: systems.RuleParams{
			Rule1Distance: cfg.Rules.Rule1Distance,
			Rule2Distance: cfg.Rules.Rule2Distance,
			Rule3Distance: cfg.Rules.Rule3Distance,
			Rule1Scale:    cfg.Rules.Rule1Scale,
			Rule2Scale:    cfg.Rules.Rule2Scale,
			Rule3Scale:    cfg.Rules.Rule3Scale,
			MaxSpeed:      cfg.Physics.MaxSpeed,
		},
		SceneHalfExtent: cfg.Physics.SceneHalfExtent,
		InitialSpeed:    cfg.Simulation.InitialSpeed,
		Seed:            cfg.Simulation.Seed,
		WorkUnitSize:    cfg.Parallel.WorkUnitSize,
		Workers:         cfg.Parallel.Workers,
		Sorter:          cfg.Parallel.Sorter,
	}
}

func (p Params) validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"rule1 distance", p.Rules.Rule1Distance},
		{"rule2 distance", p.Rules.Rule2Distance},
		{"rule3 distance", p.Rules.Rule3Distance},
		{"max speed", p.Rules.MaxSpeed},
		{"scene half extent", p.SceneHalfExtent},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 1) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidParams, f.name, f.v)
		}
	}
	if p.InitialSpeed < 0 || math.IsNaN(p.InitialSpeed) {
		return fmt.Errorf("%w: initial speed %v", ErrInvalidParams, p.InitialSpeed)
	}
	return nil
}

// PhaseTimer receives per-phase timing from each step.
// telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// Simulation holds the complete flock state.
type Simulation struct {
	params Params
	seed   int64
	grid   systems.UniformGrid
	search systems.GridSearch

	store        *ParticleStore
	gridIndices  []int32
	arrayIndices []int32
	cells        *systems.CellTable
	sorter       systems.PairSorter

	pool *workerPool
	perf PhaseTimer

	tick   int32
	closed bool
}

// New allocates a simulation of n agents with random initial state.
func New(n int, p Params) (*Simulation, error) {
	if n < 0 {
		return nil, fmt.Errorf("creating simulation: %w: %d", ErrNegativeCount, n)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	sorter, err := systems.NewSorter(p.Sorter)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	if p.WorkUnitSize < 1 {
		p.WorkUnitSize = defaultWorkUnitSize
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	grid := systems.NewUniformGrid(p.Rules.Rule1Distance, p.Rules.Rule2Distance, p.Rules.Rule3Distance, p.SceneHalfExtent)
	cells := systems.NewCellTable(grid.CellCount)

	s := &Simulation{
		params:       p,
		seed:         seed,
		grid:         grid,
		search:       systems.GridSearch{Rules: p.Rules, Grid: grid, Cells: cells},
		store:        NewParticleStore(n),
		gridIndices:  make([]int32, n),
		arrayIndices: make([]int32, n),
		cells:        cells,
		sorter:       sorter,
		pool:         newWorkerPool(p.Workers, p.WorkUnitSize),
	}
	for i := range s.arrayIndices {
		s.arrayIndices[i] = int32(i)
	}
	s.store.Seed(rand.New(rand.NewSource(seed)), p.SceneHalfExtent, p.InitialSpeed)

	return s, nil
}

// SetPerf attaches a phase timer. nil disables timing.
func (s *Simulation) SetPerf(t PhaseTimer) {
	s.perf = t
}

// Step advances one tick with the chosen variant.
func (s *Simulation) Step(v Variant, dt float64) {
	switch v {
	case VariantNaive:
		s.StepNaive(dt)
	case VariantScattered:
		s.StepScattered(dt)
	case VariantCoherent:
		s.StepCoherent(dt)
	default:
		panic(fmt.Sprintf("sim: step with %v", v))
	}
}

// StepNaive advances one tick checking every pair of agents.
func (s *Simulation) StepNaive(dt float64) {
	if s.closed {
		return
	}
	s.beginTick()
	st := s.store
	n := st.Len()

	s.phase(telemetry.PhaseNeighborSearch)
	s.pool.run(telemetry.PhaseNeighborSearch, n, func(lo, hi int) {
		systems.SearchNaive(s.params.Rules, st.Pos, st.Vel, st.VelNext, lo, hi)
	})

	s.integrate(dt)
	s.endTick()
}

// StepScattered advances one tick searching the grid, reading neighbor
// data through the sorted permutation.
func (s *Simulation) StepScattered(dt float64) {
	if s.closed {
		return
	}
	s.beginTick()
	st := s.store
	n := st.Len()

	s.buildGrid()

	s.phase(telemetry.PhaseNeighborSearch)
	s.pool.run(telemetry.PhaseNeighborSearch, n, func(lo, hi int) {
		s.search.Scattered(s.arrayIndices, st.Pos, st.Vel, st.VelNext, lo, hi)
	})

	s.integrate(dt)
	s.endTick()
}

// StepCoherent advances one tick after reordering agent data into sorted
// cell order. Slot p afterwards holds the agent previously at
// LastPermutation()[p].
func (s *Simulation) StepCoherent(dt float64) {
	if s.closed {
		return
	}
	s.beginTick()
	st := s.store
	n := st.Len()

	s.buildGrid()

	s.phase(telemetry.PhaseShuffle)
	s.pool.run(telemetry.PhaseShuffle, n, func(lo, hi int) {
		systems.ShuffleInto(st.shuffledPos, st.Pos, s.arrayIndices, lo, hi)
		systems.ShuffleInto(st.shuffledVel, st.Vel, s.arrayIndices, lo, hi)
	})
	st.SwapShuffled()

	s.phase(telemetry.PhaseNeighborSearch)
	s.pool.run(telemetry.PhaseNeighborSearch, n, func(lo, hi int) {
		s.search.Coherent(st.Pos, st.Vel, st.VelNext, lo, hi)
	})

	s.integrate(dt)
	s.endTick()
}

// buildGrid computes cell keys, sorts them with the permutation and
// rebuilds the cell table.
func (s *Simulation) buildGrid() {
	st := s.store
	n := st.Len()

	s.phase(telemetry.PhaseGridIndex)
	s.pool.run(telemetry.PhaseGridIndex, n, func(lo, hi int) {
		systems.AssignGridIndices(s.grid, st.Pos, s.gridIndices, s.arrayIndices, lo, hi)
	})

	s.phase(telemetry.PhaseSort)
	s.sorter.SortPairs(s.gridIndices, s.arrayIndices)

	s.phase(telemetry.PhaseCellBounds)
	s.pool.run(telemetry.PhaseCellBounds, s.cells.Len(), s.cells.Reset)
	s.pool.run(telemetry.PhaseCellBounds, n, func(lo, hi int) {
		s.cells.Locate(s.gridIndices, lo, hi)
	})
}

func (s *Simulation) integrate(dt float64) {
	st := s.store
	s.phase(telemetry.PhaseIntegrate)
	s.pool.run(telemetry.PhaseIntegrate, st.Len(), func(lo, hi int) {
		systems.Integrate(st.Pos, st.VelNext, dt, s.params.SceneHalfExtent, lo, hi)
	})
	st.PromoteVelocity()
	s.tick++
}

func (s *Simulation) beginTick() {
	if s.perf != nil {
		s.perf.StartTick()
	}
}

func (s *Simulation) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

func (s *Simulation) endTick() {
	if s.perf != nil {
		s.perf.EndTick()
	}
}

// Restore replaces positions and velocities with saved state. Both
// slices must hold exactly N entries.
func (s *Simulation) Restore(pos, vel []r3.Vec, tick int32) error {
	n := s.store.Len()
	if len(pos) != n || len(vel) != n {
		return fmt.Errorf("restoring state: %w: have %d agents, got %d positions and %d velocities",
			ErrStateSize, n, len(pos), len(vel))
	}
	copy(s.store.Pos, pos)
	copy(s.store.Vel, vel)
	for i := range s.arrayIndices {
		s.arrayIndices[i] = int32(i)
	}
	s.tick = tick
	return nil
}

// Close stops the workers and releases all buffers. Steps after Close
// do nothing.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.pool.stopWorkers()
	s.store.release()
	s.gridIndices = nil
	s.arrayIndices = nil
	s.cells = nil
	s.search.Cells = nil
	s.closed = true
}

// N returns the number of agents.
func (s *Simulation) N() int { return s.store.Len() }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int32 { return s.tick }

// Seed returns the seed the initial state was drawn from.
func (s *Simulation) Seed() int64 { return s.seed }

// Params returns the parameters the simulation was built with.
func (s *Simulation) Params() Params { return s.params }

// Grid returns the fixed uniform grid.
func (s *Simulation) Grid() systems.UniformGrid { return s.grid }

// Positions returns the live position slice. Callers must not modify it.
func (s *Simulation) Positions() []r3.Vec { return s.store.Pos }

// Velocities returns the live velocity slice. Callers must not modify it.
func (s *Simulation) Velocities() []r3.Vec { return s.store.Vel }

// LastPermutation returns the slot-to-agent permutation sorted by the
// most recent grid step. It is the identity before any grid step and is
// not updated by naive steps.
func (s *Simulation) LastPermutation() []int32 { return s.arrayIndices }

// Cells returns the cell table of the most recent grid step.
func (s *Simulation) Cells() *systems.CellTable { return s.cells }
