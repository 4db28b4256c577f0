package analysis

import (
	"context"
	"errors"
	"math"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// LyapunovConfig controls the two-trajectory estimate.
type LyapunovConfig struct {
	Dt    float64
	Steps int
	// Perturbation is the initial phase-space separation, applied to the
	// first position component of body 0.
	Perturbation float64
	// Renormalize is the number of steps between rescaling the separation
	// back to Perturbation.
	Renormalize int
}

func DefaultLyapunovConfig() LyapunovConfig {
	return LyapunovConfig{Dt: 0.001, Steps: 10000, Perturbation: 1e-8, Renormalize: 10}
}

// Lyapunov estimates the largest Lyapunov exponent of bodies by following a
// reference trajectory and a perturbed copy, summing the logarithmic growth
// of their separation in (position, velocity) space at every
// renormalization. A clearly positive result indicates chaotic motion.
//
// Both trajectories are stepped by their own stepper from newStepper.
func Lyapunov[A dynamo.Array](ctx context.Context, newStepper func() sim.Stepper[A], bodies []physics.Body[A], cfg LyapunovConfig) (float64, error) {
	if cfg.Steps <= 0 || cfg.Renormalize <= 0 || !(cfg.Perturbation > 0) {
		return 0, errors.New("lyapunov needs positive steps, renormalization interval and perturbation")
	}
	if cfg.Dt == 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return 0, dynamo.ErrInvalidTimeStep
	}
	if len(bodies) == 0 {
		return 0, dynamo.ErrInsufficientBodies
	}

	ref := physics.Clone(bodies)
	pert := physics.Clone(bodies)
	pert[0].Position.AddAssign(unit[A](cfg.Perturbation))

	a, b := newStepper(), newStepper()
	sumLog := 0.0
	elapsed := 0

	var err error
	for step := 1; step <= cfg.Steps; step++ {
		if ref, err = a.Step(ref, cfg.Dt); err != nil {
			return 0, &dynamo.SimulationError{Step: step, Time: float64(step-1) * cfg.Dt, Wrapped: err}
		}
		if pert, err = b.Step(pert, cfg.Dt); err != nil {
			return 0, &dynamo.SimulationError{Step: step, Time: float64(step-1) * cfg.Dt, Wrapped: err}
		}

		if step%cfg.Renormalize != 0 && step != cfg.Steps {
			continue
		}

		d := separation(ref, pert)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, &dynamo.SimulationError{Step: step, Time: float64(step) * cfg.Dt, Wrapped: dynamo.ErrInvalidState}
		}
		sumLog += math.Log(d / cfg.Perturbation)
		elapsed = step
		rescale(ref, pert, cfg.Perturbation/d)

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}
	}

	return sumLog / (float64(elapsed) * math.Abs(cfg.Dt)), nil
}

func unit[A dynamo.Array](length float64) dynamo.Vector[A] {
	var c A
	c[0] = length
	return dynamo.New(c)
}

func phase[A dynamo.Array](bodies []physics.Body[A]) []float64 {
	out := make([]float64, 0, 2*len(bodies)*dynamo.Zero[A]().Dim())
	for i := range bodies {
		out = append(out, bodies[i].Position.Slice()...)
		out = append(out, bodies[i].Velocity.Slice()...)
	}
	return out
}

func separation[A dynamo.Array](ref, pert []physics.Body[A]) float64 {
	return floats.Distance(phase(ref), phase(pert), 2)
}

// rescale moves pert towards ref so that their separation shrinks by k.
func rescale[A dynamo.Array](ref, pert []physics.Body[A], k float64) {
	for i := range pert {
		dp := pert[i].Position.Sub(ref[i].Position)
		dv := pert[i].Velocity.Sub(ref[i].Velocity)
		pert[i].Position = ref[i].Position.Add(dp.Scale(k))
		pert[i].Velocity = ref[i].Velocity.Add(dv.Scale(k))
	}
}
