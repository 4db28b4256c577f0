package experiment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
)

// pair places two unit masses on the first axis of a d-dimensional space.
func pair(d int) *config.Config {
	cfg := &config.Config{Name: "pair", Dimensions: d, Dt: 0.01, Steps: 10, Gravity: 1, SampleEvery: 5}
	for _, x := range []float64{-1, 1} {
		pos := make([]float64, d)
		pos[0] = x
		cfg.Bodies = append(cfg.Bodies, config.BodyConfig{Mass: 1, Position: pos, Velocity: make([]float64, d)})
	}
	return cfg
}

func TestBodies(t *testing.T) {
	bodies, err := Bodies[[2]float64](config.DefaultConfig())
	if err != nil {
		t.Fatalf("Bodies failed: %v", err)
	}
	if len(bodies) != 2 || bodies[1].Velocity != dynamo.New([2]float64{0, 0.1}) {
		t.Errorf("unexpected bodies %v", bodies)
	}

	_, err = Bodies[[3]float64](config.DefaultConfig())
	var be *dynamo.BodyError
	if !errors.Is(err, dynamo.ErrDimensionMismatch) || !errors.As(err, &be) || be.Index != 0 {
		t.Errorf("expected dimension mismatch on body 0, got %v", err)
	}
}

func TestRunAllDimensions(t *testing.T) {
	for d := 1; d <= dynamo.MaxDim; d++ {
		out, err := Run(context.Background(), pair(d))
		if err != nil {
			t.Fatalf("dimension %d: %v", d, err)
		}
		if out.Dimensions != d || out.StepsTaken != 10 {
			t.Errorf("dimension %d: unexpected outcome %+v", d, out)
		}
		if len(out.Header) != 1+2*2*d {
			t.Errorf("dimension %d: header has %d columns", d, len(out.Header))
		}
		if len(out.Rows) != 3 {
			t.Errorf("dimension %d: expected 3 sampled rows, got %d", d, len(out.Rows))
		}
		// attraction pulls the bodies together along the first axis only
		if out.Final[0][0] <= -1 || out.Final[1][0] >= 1 {
			t.Errorf("dimension %d: bodies did not approach, final %v", d, out.Final)
		}
		for k := 1; k < d; k++ {
			if out.Final[0][k] != 0 {
				t.Errorf("dimension %d: motion off axis %v", d, out.Final[0])
			}
		}
		if _, ok := out.Metrics["energy_drift"]; !ok {
			t.Errorf("dimension %d: default metrics missing", d)
		}
	}
}

func TestRunErrors(t *testing.T) {
	cfg := pair(2)
	cfg.Steps = 0
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Error("expected error for unbounded run")
	}

	cfg = pair(2)
	cfg.Bodies[0].Mass = 0
	if _, err := Run(context.Background(), cfg); !errors.Is(err, dynamo.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}

	cfg = pair(3)
	cfg.Bodies[1].Position = []float64{-1, 0, 0}
	out, err := Run(context.Background(), cfg)
	if !errors.Is(err, dynamo.ErrCoincidentBodies) {
		t.Fatalf("expected ErrCoincidentBodies, got %v", err)
	}
	if out == nil || out.StepsTaken != 0 || len(out.Rows) != 1 {
		t.Errorf("expected partial outcome with the initial state, got %+v", out)
	}
}

func TestTrace(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 3

	var buf bytes.Buffer
	if err := Trace(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("Trace failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "Body 1: [0, -1] | Body 2: [0, 1]" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Body 1: [0, -1.0000") {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestTraceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DefaultConfig()
	cfg.Steps = 0

	var buf bytes.Buffer
	err := Trace(ctx, cfg, &buf)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected only the initial line, got %q", buf.String())
	}
}

func TestSource(t *testing.T) {
	src, err := NewSource(config.GetPreset("lagrange"))
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	if src.Dimensions() != 2 || src.Steps() != 0 {
		t.Fatalf("unexpected initial source state")
	}

	initial := src.Positions()
	e0 := src.Energy()

	if err := src.Advance(100); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if src.Steps() != 100 || math.Abs(src.Time()-0.1) > 1e-12 {
		t.Errorf("expected step 100 at t=0.1, got %d at %v", src.Steps(), src.Time())
	}
	if src.Positions()[0][0] == initial[0][0] {
		t.Error("positions did not change")
	}
	if math.Abs(src.Energy()-e0)/math.Abs(e0) > 1e-2 {
		t.Errorf("energy drifted from %v to %v", e0, src.Energy())
	}

	src.Reset()
	if src.Steps() != 0 || src.Positions()[0][0] != initial[0][0] {
		t.Error("Reset did not restore the initial state")
	}
}

func TestSourceFailure(t *testing.T) {
	cfg := pair(1)
	cfg.Bodies[1].Position = []float64{-1}

	src, err := NewSource(cfg)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	if err := src.Advance(1); !errors.Is(err, dynamo.ErrCoincidentBodies) {
		t.Errorf("expected ErrCoincidentBodies, got %v", err)
	}
	if src.Steps() != 0 {
		t.Error("failed source should stay at its last good state")
	}
}

func TestSweep(t *testing.T) {
	cfg := config.GetPreset("figure-eight")
	cfg.Steps = 100

	points, err := Sweep(context.Background(), cfg, []float64{0.004, 0.001, 0.002})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	wantSteps := []int{100, 50, 25}
	for i, p := range points {
		if p.Steps != wantSteps[i] {
			t.Errorf("point %d: expected %d steps, got %d", i, wantSteps[i], p.Steps)
		}
	}
	if points[0].Dt != 0.001 || points[0].Deviation != 0 {
		t.Errorf("smallest step should be the reference, got %+v", points[0])
	}
	if !(points[2].Deviation > points[1].Deviation) {
		t.Errorf("deviation should grow with dt: %v, %v", points[1].Deviation, points[2].Deviation)
	}

	if _, err := Sweep(context.Background(), cfg, []float64{-0.001}); !errors.Is(err, dynamo.ErrInvalidTimeStep) {
		t.Errorf("expected ErrInvalidTimeStep for opposite sign, got %v", err)
	}
	if _, err := Sweep(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for empty sweep")
	}
}

func TestBench(t *testing.T) {
	r, err := Bench(16, 4, 3, 1)
	if err != nil {
		t.Fatalf("Bench failed: %v", err)
	}
	if r.Bodies != 16 || r.Workers != 4 || r.Steps != 3 {
		t.Errorf("unexpected bench result %+v", r)
	}
	if r.PerStep() > r.Elapsed {
		t.Error("per step time larger than total")
	}

	a, b := RandomBodies(8, 42), RandomBodies(8, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("RandomBodies not deterministic for a fixed seed")
		}
	}
}

func TestLyapunov(t *testing.T) {
	cfg := config.GetPreset("single")

	lambda, err := Lyapunov(context.Background(), cfg, 1e-8, 10)
	if err != nil {
		t.Fatalf("Lyapunov failed: %v", err)
	}
	if math.Abs(lambda) > 1e-3 {
		t.Errorf("a lone body should not diverge, got %v", lambda)
	}

	if _, err := Lyapunov(context.Background(), cfg, 0, 10); err == nil {
		t.Error("expected error for zero perturbation")
	}
}
