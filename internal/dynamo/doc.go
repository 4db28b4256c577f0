// Package dynamo provides the numeric primitives of the gravity kernel.
//
//   - [Vector]: fixed-dimension real vector; the dimension is a type parameter
//     ([Vec2], [Vec3], ...), so mixing dimensions does not compile
//   - domain errors ([ErrDegenerateVector], [ErrCoincidentBodies], ...) and the
//     typed wrappers [BodyError], [PairError] and [SimulationError]
//   - [ParallelFor]: chunked fan-out used by the parallel force phase
//
// # Example
//
//	d := dynamo.New([2]float64{0, 2}).Sub(dynamo.New([2]float64{0, -1}))
//	if err := d.Normalize(); err != nil {
//	    // zero-length displacement
//	}
//
// Vectors are plain values and may be copied freely. The in-place methods
// (AddAssign, ScaleAssign, Normalize, ...) mutate only their receiver.
package dynamo
