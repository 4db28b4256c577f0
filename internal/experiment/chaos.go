package experiment

import (
	"context"
	"fmt"

	"github.com/Phwatang/basic-n-body-simulation/internal/analysis"
	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
)

// Lyapunov estimates the largest Lyapunov exponent of the scenario over
// cfg.Steps steps of cfg.Dt.
func Lyapunov(ctx context.Context, cfg *config.Config, perturbation float64, renormalize int) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	lc := analysis.LyapunovConfig{
		Dt:           cfg.Dt,
		Steps:        cfg.Steps,
		Perturbation: perturbation,
		Renormalize:  renormalize,
	}

	switch cfg.Dimensions {
	case 1:
		return lyapunov[[1]float64](ctx, cfg, lc)
	case 2:
		return lyapunov[[2]float64](ctx, cfg, lc)
	case 3:
		return lyapunov[[3]float64](ctx, cfg, lc)
	case 4:
		return lyapunov[[4]float64](ctx, cfg, lc)
	}
	return 0, fmt.Errorf("%w: unsupported dimension %d", dynamo.ErrDimensionMismatch, cfg.Dimensions)
}

func lyapunov[A dynamo.Array](ctx context.Context, cfg *config.Config, lc analysis.LyapunovConfig) (float64, error) {
	bodies, err := Bodies[A](cfg)
	if err != nil {
		return 0, err
	}
	return analysis.Lyapunov(ctx, func() sim.Stepper[A] { return gravity[A](cfg) }, bodies, lc)
}
