package sim

import (
	"fmt"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
)

// Stepper advances a body collection by one time step. *physics.Gravity
// implements it.
type Stepper[A dynamo.Array] interface {
	Step(bodies []physics.Body[A], dt float64) ([]physics.Body[A], error)
}

// StepFunc adapts a plain function such as physics.Step to Stepper.
type StepFunc[A dynamo.Array] func(bodies []physics.Body[A], dt float64) ([]physics.Body[A], error)

func (f StepFunc[A]) Step(bodies []physics.Body[A], dt float64) ([]physics.Body[A], error) {
	return f(bodies, dt)
}

// Snapshot is an independent copy of the system after Step steps.
type Snapshot[A dynamo.Array] struct {
	Step   int
	Time   float64
	Bodies []physics.Body[A]
}

type Metric[A dynamo.Array] interface {
	Name() string
	Observe(bodies []physics.Body[A], t float64)
	Value() float64
	Reset()
}

type Observer[A dynamo.Array] interface {
	OnStep(s Snapshot[A])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[A dynamo.Array] func(s Snapshot[A])

func (f ObserverFunc[A]) OnStep(s Snapshot[A]) { f(s) }

type Config struct {
	Dt    float64
	Steps int
	// SampleEvery records every n-th snapshot in the result. Zero records
	// only the initial and final state.
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.0001,
		Steps:         10000,
		SampleEvery:   100,
		ValidateState: true,
	}
}

type Result[A dynamo.Array] struct {
	Snapshots  []Snapshot[A]
	Final      Snapshot[A]
	Metrics    map[string]float64
	StepsTaken int
}

// Table flattens the recorded snapshots into a header and one row per
// snapshot: time, then position and velocity components of every body.
func (r *Result[A]) Table() ([]string, [][]float64) {
	if len(r.Snapshots) == 0 {
		return nil, nil
	}

	first := r.Snapshots[0].Bodies
	dim := dynamo.Zero[A]().Dim()

	header := []string{"time"}
	for b := range first {
		for i := 0; i < dim; i++ {
			header = append(header, fmt.Sprintf("b%d_x%d", b, i))
		}
		for i := 0; i < dim; i++ {
			header = append(header, fmt.Sprintf("b%d_v%d", b, i))
		}
	}

	rows := make([][]float64, 0, len(r.Snapshots))
	for _, s := range r.Snapshots {
		row := make([]float64, 0, len(header))
		row = append(row, s.Time)
		for _, b := range s.Bodies {
			row = append(row, b.Position.Slice()...)
			row = append(row, b.Velocity.Slice()...)
		}
		rows = append(rows, row)
	}

	return header, rows
}
