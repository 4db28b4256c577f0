// Package metrics provides conservation diagnostics that plug into a
// sim.Simulator.
package metrics

import (
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
)

// Defaults returns fresh instances of every metric for gravitational
// constant g.
func Defaults[A dynamo.Array](g float64) []sim.Metric[A] {
	return []sim.Metric[A]{
		NewEnergyDrift[A](g),
		NewMomentumDrift[A](),
		NewEnergyFluctuation[A](g),
	}
}
