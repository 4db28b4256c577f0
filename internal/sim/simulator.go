package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
)

// Simulator drives a Trajectory for a bounded number of steps, feeding
// metrics and observers with every snapshot.
type Simulator[A dynamo.Array] struct {
	stepper   Stepper[A]
	metrics   []Metric[A]
	observers []Observer[A]
}

func New[A dynamo.Array](stepper Stepper[A]) *Simulator[A] {
	return &Simulator[A]{
		stepper:   stepper,
		metrics:   make([]Metric[A], 0),
		observers: make([]Observer[A], 0),
	}
}

func (s *Simulator[A]) AddMetric(m Metric[A])     { s.metrics = append(s.metrics, m) }
func (s *Simulator[A]) AddObserver(o Observer[A]) { s.observers = append(s.observers, o) }

// Run simulates cfg.Steps steps starting from a copy of bodies. On failure
// it returns the partial result together with the error.
func (s *Simulator[A]) Run(ctx context.Context, bodies []physics.Body[A], cfg Config) (*Result[A], error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	capacity := 2
	if cfg.SampleEvery > 0 {
		capacity += cfg.Steps / cfg.SampleEvery
	}
	result := &Result[A]{
		Snapshots: make([]Snapshot[A], 0, capacity),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	defer func() {
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}()

	tr := NewTrajectory(s.stepper, physics.Clone(bodies), cfg.Dt)
	for snap, err := range tr.All() {
		if err != nil {
			return result, err
		}

		if cfg.ValidateState && !physics.Finite(snap.Bodies) {
			return result, &dynamo.SimulationError{Step: snap.Step, Time: snap.Time, Wrapped: dynamo.ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(snap.Bodies, snap.Time)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		last := snap.Step >= cfg.Steps
		if snap.Step == 0 || last || (cfg.SampleEvery > 0 && snap.Step%cfg.SampleEvery == 0) {
			result.Snapshots = append(result.Snapshots, snap)
		}
		result.Final = snap
		result.StepsTaken = snap.Step

		if last {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
	}

	return result, nil
}

func (s *Simulator[A]) validateConfig(cfg Config) error {
	if cfg.Dt == 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be finite and non-zero, got %g", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}
