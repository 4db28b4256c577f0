package metrics

import (
	"math"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"gonum.org/v1/gonum/floats"
)

// MomentumDrift tracks the largest Euclidean distance between the total
// momentum and its first observed value, normalised by the initial momentum
// scale sum(m|v|). A system at rest reports the absolute distance.
type MomentumDrift[A dynamo.Array] struct {
	initial  []float64
	scale    float64
	maxDrift float64
}

func NewMomentumDrift[A dynamo.Array]() *MomentumDrift[A] {
	return &MomentumDrift[A]{}
}

func (m *MomentumDrift[A]) Name() string { return "momentum_drift" }

func (m *MomentumDrift[A]) Observe(bodies []physics.Body[A], t float64) {
	p := physics.Momentum(bodies).Slice()
	if m.initial == nil {
		m.initial = p
		m.scale = 0
		for i := range bodies {
			m.scale += bodies[i].Mass * bodies[i].Velocity.Norm()
		}
		return
	}

	drift := floats.Distance(p, m.initial, 2)
	if m.scale > 0 {
		drift /= m.scale
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift[A]) Value() float64 { return m.maxDrift }

func (m *MomentumDrift[A]) Reset() {
	m.initial = nil
	m.scale = 0
	m.maxDrift = 0
}
