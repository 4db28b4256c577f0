// Package physics implements the direct-summation gravity kernel.
//
// A [Body] is a point mass with a position and velocity of fixed dimension.
// [Gravity] advances a collection of bodies by one time step:
//
//  1. every unordered pair (i, j), i < j, exchanges equal and opposite
//     impulses G*m_i*m_j/r^2 * dt along the line between them
//  2. every position advances by its updated velocity * dt
//
// This is semi-implicit (symplectic) Euler. The force phase always finishes
// before any position moves, also when it runs on several goroutines.
//
// # Errors
//
// Step fails rather than producing NaN state:
//
//   - [dynamo.ErrInsufficientBodies] for an empty collection
//   - [dynamo.ErrInvalidMass] (wrapped in [dynamo.BodyError]) for a mass <= 0
//   - [dynamo.ErrCoincidentBodies] (wrapped in [dynamo.PairError]) when two
//     bodies share a position, or are too close for 1/r^2 to be finite
//   - [dynamo.ErrInvalidState] (wrapped in [dynamo.PairError] or
//     [dynamo.BodyError]) when a force or the updated state overflows
//
// # Conservation
//
// [Momentum], [TotalEnergy] and [CenterOfMass] are available to monitor a run:
//
//	p0 := physics.Momentum(bodies)
//	bodies, err := physics.Step(bodies, dt)
//	if err != nil {
//	    return err
//	}
//	drift := physics.Momentum(bodies).Dist(p0)
package physics
