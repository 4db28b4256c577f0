package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
)

func orbit() []physics.Body[[2]float64] {
	// equal masses on a circular orbit of radius 0.5 around the origin, G = 1
	v := math.Sqrt(0.5)
	return []physics.Body[[2]float64]{
		{Mass: 1, Position: dynamo.New([2]float64{-0.5, 0}), Velocity: dynamo.New([2]float64{0, -v})},
		{Mass: 1, Position: dynamo.New([2]float64{0.5, 0}), Velocity: dynamo.New([2]float64{0, v})},
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift[[2]float64](1)
	bodies := orbit()

	m.Observe(bodies, 0)
	m.Observe(bodies, 1)
	if m.Value() != 0 {
		t.Errorf("unchanged state should not drift, got %v", m.Value())
	}

	// E0 = 0.5 - 1 = -0.5, doubling speed gives E = 2 - 1 = 1
	fast := physics.Clone(bodies)
	for i := range fast {
		fast[i].Velocity.ScaleAssign(2)
	}
	m.Observe(fast, 2)
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected drift 3, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift[[2]float64]()
	bodies := orbit()

	m.Observe(bodies, 0)
	kicked := physics.Clone(bodies)
	kicked[0].Velocity = dynamo.New([2]float64{0, 0})
	m.Observe(kicked, 1)

	// |dp| = v, scale = 2v
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected drift 0.5, got %v", m.Value())
	}

	m.Reset()
	m.Observe(kicked, 0)
	if m.Value() != 0 {
		t.Error("first observation after reset should set the baseline")
	}
}

func TestEnergyFluctuation(t *testing.T) {
	m := NewEnergyFluctuation[[2]float64](1)
	if m.Value() != 0 {
		t.Error("expected zero with no samples")
	}

	bodies := orbit()
	m.Observe(bodies, 0)
	m.Observe(bodies, 1)
	if m.Value() != 0 {
		t.Errorf("constant energy should not fluctuate, got %v", m.Value())
	}
}

func TestDefaultsWithSimulator(t *testing.T) {
	s := sim.New[[2]float64](&physics.Gravity[[2]float64]{G: 1, Workers: 1})
	for _, m := range Defaults[[2]float64](1) {
		s.AddMetric(m)
	}

	result, err := s.Run(context.Background(), orbit(), sim.Config{Dt: 0.001, Steps: 2000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, name := range []string{"energy_drift", "momentum_drift", "energy_fluctuation"} {
		v, ok := result.Metrics[name]
		if !ok {
			t.Errorf("missing metric %q", name)
			continue
		}
		if math.IsNaN(v) || v < 0 {
			t.Errorf("%s = %v", name, v)
		}
	}

	if result.Metrics["energy_drift"] > 1e-2 {
		t.Errorf("energy drift too large for a circular orbit: %v", result.Metrics["energy_drift"])
	}
	if result.Metrics["momentum_drift"] > 1e-12 {
		t.Errorf("momentum should be conserved, drift %v", result.Metrics["momentum_drift"])
	}
}
