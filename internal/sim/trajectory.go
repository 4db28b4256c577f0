package sim

import (
	"iter"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
)

// Trajectory is a lazy, unbounded and non-restartable sequence of system
// snapshots. The first snapshot is the initial state; every further one
// is one step later.
type Trajectory[A dynamo.Array] struct {
	stepper Stepper[A]
	bodies  []physics.Body[A]
	dt      float64
	step    int
	started bool
	err     error
}

// NewTrajectory takes ownership of bodies.
func NewTrajectory[A dynamo.Array](stepper Stepper[A], bodies []physics.Body[A], dt float64) *Trajectory[A] {
	return &Trajectory[A]{
		stepper: stepper,
		bodies:  bodies,
		dt:      dt,
	}
}

// Next returns the next snapshot. Once a step fails the trajectory is
// finished and every later call returns the same *dynamo.SimulationError.
func (tr *Trajectory[A]) Next() (Snapshot[A], error) {
	if tr.err != nil {
		return Snapshot[A]{}, tr.err
	}
	if !tr.started {
		tr.started = true
		return tr.snapshot(), nil
	}

	bodies, err := tr.stepper.Step(tr.bodies, tr.dt)
	if err != nil {
		tr.err = &dynamo.SimulationError{Step: tr.step + 1, Time: tr.Time(), Wrapped: err}
		return Snapshot[A]{}, tr.err
	}

	tr.bodies = bodies
	tr.step++
	return tr.snapshot(), nil
}

// All yields snapshots until the consumer stops or a step fails; the failing
// step is yielded with its error and ends the sequence.
func (tr *Trajectory[A]) All() iter.Seq2[Snapshot[A], error] {
	return func(yield func(Snapshot[A], error) bool) {
		for {
			s, err := tr.Next()
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

func (tr *Trajectory[A]) Steps() int { return tr.step }

// Time is derived from the step count so it does not accumulate rounding.
func (tr *Trajectory[A]) Time() float64 { return float64(tr.step) * tr.dt }

func (tr *Trajectory[A]) Err() error { return tr.err }

func (tr *Trajectory[A]) snapshot() Snapshot[A] {
	return Snapshot[A]{
		Step:   tr.step,
		Time:   tr.Time(),
		Bodies: physics.Clone(tr.bodies),
	}
}
