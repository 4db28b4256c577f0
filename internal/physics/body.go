package physics

import (
	"fmt"
	"math"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
)

// Body is a point mass. Bodies have no identity beyond their index in the
// collection passed to Step.
type Body[A dynamo.Array] struct {
	Mass     float64
	Position dynamo.Vector[A]
	Velocity dynamo.Vector[A]
}

// NewBody returns a body with the given mass, position and velocity.
// It fails with ErrInvalidMass unless mass is positive and finite.
func NewBody[A dynamo.Array](mass float64, position, velocity A) (Body[A], error) {
	if !validMass(mass) {
		return Body[A]{}, fmt.Errorf("%w: got %g", dynamo.ErrInvalidMass, mass)
	}
	return Body[A]{
		Mass:     mass,
		Position: dynamo.New(position),
		Velocity: dynamo.New(velocity),
	}, nil
}

func (b Body[A]) Momentum() dynamo.Vector[A] {
	return b.Velocity.Scale(b.Mass)
}

func (b Body[A]) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

func (b Body[A]) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite() && !math.IsNaN(b.Mass) && !math.IsInf(b.Mass, 0)
}

func (b Body[A]) String() string {
	return fmt.Sprintf("m=%g p=%v v=%v", b.Mass, b.Position, b.Velocity)
}

// Clone returns an independent copy of bodies.
func Clone[A dynamo.Array](bodies []Body[A]) []Body[A] {
	c := make([]Body[A], len(bodies))
	copy(c, bodies)
	return c
}

func validMass(m float64) bool {
	return m > 0 && !math.IsInf(m, 0)
}
