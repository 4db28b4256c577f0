// Package automation runs scripted batches of scenarios and randomized
// stability trials.
package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/experiment"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// Batch is a scripted sequence of runs.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun selects a scenario by preset name or scenario file, with
// optional overrides. Config paths are relative to the batch file.
type BatchRun struct {
	Preset  string   `yaml:"preset"`
	Config  string   `yaml:"config"`
	Dt      *float64 `yaml:"dt"`
	Steps   *int     `yaml:"steps"`
	Workers *int     `yaml:"workers"`
	SaveAs  string   `yaml:"save_as"`

	dir string
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range b.Runs {
		b.Runs[i].dir = filepath.Dir(path)
	}
	return &b, nil
}

// Scenario resolves the run to a validated scenario.
func (r BatchRun) Scenario() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		if cfg = config.GetPreset(r.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", r.Preset)
		}
	}
	if r.Config != "" {
		path := r.Config
		if !filepath.IsAbs(path) && r.dir != "" {
			path = filepath.Join(r.dir, path)
		}
		loaded, err := config.LoadOver(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if r.Dt != nil {
		cfg.Dt = *r.Dt
	}
	if r.Steps != nil {
		cfg.Steps = *r.Steps
	}
	if r.Workers != nil {
		cfg.Workers = *r.Workers
	}
	if r.SaveAs != "" {
		cfg.Name = r.SaveAs
	}
	return cfg, cfg.Validate()
}

// BatchResult pairs a resolved scenario with its outcome.
type BatchResult struct {
	Scenario *config.Config
	Outcome  *experiment.Outcome
}

// RunBatch executes the runs in order, reporting progress to log, and stops
// at the first failure. Results of the completed runs are returned with the
// error.
func RunBatch(ctx context.Context, b *Batch, log io.Writer) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(b.Runs))

	for i, run := range b.Runs {
		cfg, err := run.Scenario()
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		fmt.Fprintf(log, "Running %d/%d: %s\n", i+1, len(b.Runs), cfg.Name)

		out, err := experiment.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, cfg.Name, err)
		}
		results = append(results, BatchResult{Scenario: cfg, Outcome: out})
	}

	return results, nil
}

// MonteCarloConfig perturbs every position and velocity component of a
// scenario by a uniform relative amount in [-Perturbation, Perturbation].
type MonteCarloConfig struct {
	Perturbation float64
	Trials       int
	Seed         int64
	// EscapeFactor marks a trial unstable when a body ends farther from the
	// centre of the initial configuration than EscapeFactor times its
	// initial extent.
	EscapeFactor float64
	Workers      int
}

type MonteCarloResult struct {
	Trial  int
	Stable bool
	// Err is the failure of the trial, such as a close encounter ending in
	// coincident bodies. Failed trials count as unstable.
	Err     error
	Outcome *experiment.Outcome
}

// RunMonteCarlo runs Trials perturbed copies of base concurrently. Trial
// perturbations depend only on Seed and the trial number.
func RunMonteCarlo(ctx context.Context, base *config.Config, mc MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.Trials <= 0 || base.Steps <= 0 {
		return nil, fmt.Errorf("monte carlo needs at least one trial of a positive step count")
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	escape := mc.EscapeFactor
	if escape <= 0 {
		escape = 10
	}
	centre, extent := bounds(base)

	results := make([]MonteCarloResult, mc.Trials)
	g, ctx := errgroup.WithContext(ctx)
	if mc.Workers > 0 {
		g.SetLimit(mc.Workers)
	}
	for trial := range mc.Trials {
		g.Go(func() error {
			cfg := perturb(base, mc.Perturbation, rand.New(rand.NewSource(mc.Seed+int64(trial))))
			out, err := experiment.Run(ctx, cfg)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r := MonteCarloResult{Trial: trial, Err: err, Outcome: out}
			r.Stable = err == nil && contained(out.Final, centre, escape*extent)
			results[trial] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stable, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}

func perturb(base *config.Config, amount float64, rng *rand.Rand) *config.Config {
	cfg := base.Clone()
	for i := range cfg.Bodies {
		b := &cfg.Bodies[i]
		for k := range b.Position {
			b.Position[k] += b.Position[k] * (rng.Float64()*2 - 1) * amount
			b.Velocity[k] += b.Velocity[k] * (rng.Float64()*2 - 1) * amount
		}
	}
	return cfg
}

// bounds returns the mean initial position and the largest distance of a
// body from it, at least 1.
func bounds(cfg *config.Config) ([]float64, float64) {
	centre := make([]float64, cfg.Dimensions)
	for _, b := range cfg.Bodies {
		for k, x := range b.Position {
			centre[k] += x / float64(len(cfg.Bodies))
		}
	}
	extent := 0.0
	for _, b := range cfg.Bodies {
		extent = math.Max(extent, dist(b.Position, centre))
	}
	return centre, math.Max(extent, 1)
}

func contained(positions [][]float64, centre []float64, radius float64) bool {
	for _, p := range positions {
		if !(dist(p, centre) <= radius) {
			return false
		}
	}
	return true
}

func dist(a, b []float64) float64 { return floats.Distance(a, b, 2) }
