package metrics

import (
	"math"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"gonum.org/v1/gonum/stat"
)

// EnergyDrift tracks the largest relative deviation |E-E0|/|E0| of the total
// energy from its first observed value.
type EnergyDrift[A dynamo.Array] struct {
	g        float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift[A dynamo.Array](g float64) *EnergyDrift[A] {
	return &EnergyDrift[A]{g: g}
}

func (e *EnergyDrift[A]) Name() string { return "energy_drift" }

func (e *EnergyDrift[A]) Observe(bodies []physics.Body[A], t float64) {
	energy := physics.TotalEnergy(bodies, e.g)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift[A]) Value() float64 { return e.maxDrift }

func (e *EnergyDrift[A]) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyFluctuation is the coefficient of variation of the total energy over
// all observations. Fewer than two samples report zero.
type EnergyFluctuation[A dynamo.Array] struct {
	g        float64
	energies []float64
}

func NewEnergyFluctuation[A dynamo.Array](g float64) *EnergyFluctuation[A] {
	return &EnergyFluctuation[A]{g: g}
}

func (e *EnergyFluctuation[A]) Name() string { return "energy_fluctuation" }

func (e *EnergyFluctuation[A]) Observe(bodies []physics.Body[A], t float64) {
	e.energies = append(e.energies, physics.TotalEnergy(bodies, e.g))
}

func (e *EnergyFluctuation[A]) Value() float64 {
	if len(e.energies) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(e.energies, nil)
	if mean == 0 {
		return std
	}
	return std / math.Abs(mean)
}

func (e *EnergyFluctuation[A]) Reset() { e.energies = e.energies[:0] }
