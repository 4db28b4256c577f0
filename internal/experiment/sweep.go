package experiment

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/metrics"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// SweepPoint is one time step of a convergence sweep.
type SweepPoint struct {
	Dt      float64
	Steps   int
	Metrics map[string]float64
	Final   [][]float64
	// Deviation is the Euclidean distance of the final positions from those
	// of the smallest time step in the sweep.
	Deviation float64
}

// Sweep integrates cfg up to the same end time cfg.Steps*cfg.Dt with every
// time step in dts, concurrently. Points come back sorted by ascending |dt|.
func Sweep(ctx context.Context, cfg *config.Config, dts []float64) ([]SweepPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Steps == 0 {
		return nil, fmt.Errorf("sweep needs a positive step count")
	}
	if len(dts) == 0 {
		return nil, fmt.Errorf("sweep needs at least one time step")
	}

	sorted := append([]float64(nil), dts...)
	sort.Slice(sorted, func(i, j int) bool { return math.Abs(sorted[i]) < math.Abs(sorted[j]) })

	var (
		points []SweepPoint
		err    error
	)
	switch cfg.Dimensions {
	case 1:
		points, err = sweep[[1]float64](ctx, cfg, sorted)
	case 2:
		points, err = sweep[[2]float64](ctx, cfg, sorted)
	case 3:
		points, err = sweep[[3]float64](ctx, cfg, sorted)
	case 4:
		points, err = sweep[[4]float64](ctx, cfg, sorted)
	default:
		return nil, fmt.Errorf("%w: unsupported dimension %d", dynamo.ErrDimensionMismatch, cfg.Dimensions)
	}
	if err != nil {
		return nil, err
	}

	ref := flatten(points[0].Final)
	for i := range points {
		points[i].Deviation = floats.Distance(flatten(points[i].Final), ref, 2)
	}
	return points, nil
}

func sweep[A dynamo.Array](ctx context.Context, cfg *config.Config, dts []float64) ([]SweepPoint, error) {
	bodies, err := Bodies[A](cfg)
	if err != nil {
		return nil, err
	}

	end := float64(cfg.Steps) * cfg.Dt
	cfgs := make([]sim.Config, len(dts))
	for i, dt := range dts {
		if dt == 0 || math.IsNaN(dt) || math.IsInf(dt, 0) || (dt > 0) != (cfg.Dt > 0) {
			return nil, fmt.Errorf("%w: sweep step %g", dynamo.ErrInvalidTimeStep, dt)
		}
		steps := max(1, int(math.Round(end/dt)))
		cfgs[i] = sim.Config{Dt: dt, Steps: steps, ValidateState: true}
	}

	e := sim.NewEnsemble(
		func() sim.Stepper[A] { return gravity[A](cfg) },
		func() []sim.Metric[A] { return metrics.Defaults[A](cfg.Gravity) },
	)
	results, err := e.Run(ctx, bodies, cfgs)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(results))
	for i, r := range results {
		points[i] = SweepPoint{
			Dt:      cfgs[i].Dt,
			Steps:   r.StepsTaken,
			Metrics: r.Metrics,
			Final:   positions(r.Final.Bodies),
		}
	}
	return points, nil
}

func flatten(vs [][]float64) []float64 {
	var out []float64
	for _, v := range vs {
		out = append(out, v...)
	}
	return out
}

