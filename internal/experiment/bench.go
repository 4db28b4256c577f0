package experiment

import (
	"math/rand"
	"time"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
)

// BenchResult is the wall time of a fixed number of steps.
type BenchResult struct {
	Bodies  int
	Workers int
	Steps   int
	Elapsed time.Duration
}

func (r BenchResult) PerStep() time.Duration {
	if r.Steps == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Steps)
}

// Bench times steps of n random bodies in 3D with the given worker count.
// The same seed gives the same bodies.
func Bench(n, workers, steps int, seed int64) (BenchResult, error) {
	bodies := RandomBodies(n, seed)
	g := &physics.Gravity[[3]float64]{G: physics.G, Workers: workers}

	effective := 1
	if workers > 1 && n > 2 {
		effective = dynamo.Workers(workers, n-1)
	}

	start := time.Now()
	for range steps {
		var err error
		if bodies, err = g.Step(bodies, 0.01); err != nil {
			return BenchResult{}, err
		}
	}
	return BenchResult{
		Bodies:  n,
		Workers: effective,
		Steps:   steps,
		Elapsed: time.Since(start),
	}, nil
}

// RandomBodies scatters n bodies in a unit cube with small random
// velocities and masses between 1e3 and 1e4.
func RandomBodies(n int, seed int64) []physics.Body[[3]float64] {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]physics.Body[[3]float64], n)
	for i := range bodies {
		bodies[i] = physics.Body[[3]float64]{
			Mass:     1e3 + 9e3*rng.Float64(),
			Position: dynamo.New([3]float64{rng.Float64(), rng.Float64(), rng.Float64()}),
			Velocity: dynamo.New([3]float64{rng.NormFloat64() * 1e-3, rng.NormFloat64() * 1e-3, rng.NormFloat64() * 1e-3}),
		}
	}
	return bodies
}
