package sim

import (
	"context"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulations of the same initial state, one per
// config, concurrently. Every run gets its own stepper and metrics from the
// factories, since steppers keep scratch state.
type Ensemble[A dynamo.Array] struct {
	newStepper func() Stepper[A]
	newMetrics func() []Metric[A]
}

func NewEnsemble[A dynamo.Array](newStepper func() Stepper[A], newMetrics func() []Metric[A]) *Ensemble[A] {
	return &Ensemble[A]{newStepper: newStepper, newMetrics: newMetrics}
}

// Run returns one result per config, in config order. The first failing run
// cancels the others.
func (e *Ensemble[A]) Run(ctx context.Context, bodies []physics.Body[A], cfgs []Config) ([]*Result[A], error) {
	results := make([]*Result[A], len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		g.Go(func() error {
			s := New(e.newStepper())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, bodies, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
