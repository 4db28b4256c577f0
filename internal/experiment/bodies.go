package experiment

import (
	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
)

// Bodies builds the typed initial state of cfg. The component count of every
// vector must equal the dimension of A.
func Bodies[A dynamo.Array](cfg *config.Config) ([]physics.Body[A], error) {
	bodies := make([]physics.Body[A], len(cfg.Bodies))
	for i, bc := range cfg.Bodies {
		pos, err := dynamo.FromSlice[A](bc.Position)
		if err != nil {
			return nil, &dynamo.BodyError{Index: i, Wrapped: err}
		}
		vel, err := dynamo.FromSlice[A](bc.Velocity)
		if err != nil {
			return nil, &dynamo.BodyError{Index: i, Wrapped: err}
		}
		b, err := physics.NewBody(bc.Mass, pos.Components(), vel.Components())
		if err != nil {
			return nil, &dynamo.BodyError{Index: i, Wrapped: err}
		}
		bodies[i] = b
	}
	return bodies, nil
}

func gravity[A dynamo.Array](cfg *config.Config) *physics.Gravity[A] {
	return &physics.Gravity[A]{G: cfg.Gravity, Workers: cfg.Workers}
}

func positions[A dynamo.Array](bodies []physics.Body[A]) [][]float64 {
	out := make([][]float64, len(bodies))
	for i := range bodies {
		out[i] = bodies[i].Position.Slice()
	}
	return out
}
