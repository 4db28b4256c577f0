package physics

import "github.com/Phwatang/basic-n-body-simulation/internal/dynamo"

// Momentum returns the total linear momentum of the system.
func Momentum[A dynamo.Array](bodies []Body[A]) dynamo.Vector[A] {
	var p dynamo.Vector[A]
	for i := range bodies {
		p.AddScaled(bodies[i].Velocity, bodies[i].Mass)
	}
	return p
}

func TotalMass[A dynamo.Array](bodies []Body[A]) float64 {
	m := 0.0
	for i := range bodies {
		m += bodies[i].Mass
	}
	return m
}

// CenterOfMass returns the mass-weighted mean position. It is the zero
// vector for an empty collection.
func CenterOfMass[A dynamo.Array](bodies []Body[A]) dynamo.Vector[A] {
	var c dynamo.Vector[A]
	m := TotalMass(bodies)
	if m == 0 {
		return c
	}
	for i := range bodies {
		c.AddScaled(bodies[i].Position, bodies[i].Mass)
	}
	c.ScaleAssign(1.0 / m)
	return c
}

func KineticEnergy[A dynamo.Array](bodies []Body[A]) float64 {
	ke := 0.0
	for i := range bodies {
		ke += bodies[i].KineticEnergy()
	}
	return ke
}

// PotentialEnergy returns the gravitational potential energy for constant g.
// Coincident pairs are skipped.
func PotentialEnergy[A dynamo.Array](bodies []Body[A], g float64) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].Position.Dist(bodies[j].Position)
			if r > 0 {
				pe -= g * bodies[i].Mass * bodies[j].Mass / r
			}
		}
	}
	return pe
}

func TotalEnergy[A dynamo.Array](bodies []Body[A], g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}

// Finite reports whether every position and velocity is free of NaN and Inf.
func Finite[A dynamo.Array](bodies []Body[A]) bool {
	for i := range bodies {
		if !bodies[i].IsFinite() {
			return false
		}
	}
	return true
}
