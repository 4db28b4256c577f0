// Package experiment turns a runtime scenario description into a typed
// simulation of the matching dimension.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/metrics"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
)

// Outcome is the dimension-independent view of a finished run.
type Outcome struct {
	Name       string
	Dimensions int
	Bodies     int
	Header     []string
	Rows       [][]float64
	Metrics    map[string]float64
	StepsTaken int
	Time       float64
	Final      [][]float64
	Elapsed    time.Duration
}

// Run simulates cfg.Steps steps with the default metrics attached. When a
// step fails the partial outcome is returned with the error.
func Run(ctx context.Context, cfg *config.Config) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Steps == 0 {
		return nil, fmt.Errorf("run needs a positive step count")
	}

	switch cfg.Dimensions {
	case 1:
		return run[[1]float64](ctx, cfg)
	case 2:
		return run[[2]float64](ctx, cfg)
	case 3:
		return run[[3]float64](ctx, cfg)
	case 4:
		return run[[4]float64](ctx, cfg)
	}
	return nil, fmt.Errorf("%w: unsupported dimension %d", dynamo.ErrDimensionMismatch, cfg.Dimensions)
}

func run[A dynamo.Array](ctx context.Context, cfg *config.Config) (*Outcome, error) {
	bodies, err := Bodies[A](cfg)
	if err != nil {
		return nil, err
	}

	s := sim.New[A](gravity[A](cfg))
	for _, m := range metrics.Defaults[A](cfg.Gravity) {
		s.AddMetric(m)
	}

	start := time.Now()
	res, err := s.Run(ctx, bodies, simConfig(cfg))
	if res == nil {
		return nil, err
	}
	out := outcome(cfg, res)
	out.Elapsed = time.Since(start)
	return out, err
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	}
}

func outcome[A dynamo.Array](cfg *config.Config, res *sim.Result[A]) *Outcome {
	header, rows := res.Table()
	return &Outcome{
		Name:       cfg.Name,
		Dimensions: cfg.Dimensions,
		Bodies:     len(cfg.Bodies),
		Header:     header,
		Rows:       rows,
		Metrics:    res.Metrics,
		StepsTaken: res.StepsTaken,
		Time:       res.Final.Time,
		Final:      positions(res.Final.Bodies),
	}
}
