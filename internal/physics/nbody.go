package physics

import (
	"fmt"
	"math"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// G is the Newtonian gravitational constant in SI units.
const G = 6.6743e-11

// errCoincident is reported for a pair at zero separation, or one so close
// that 1/r^2 overflows: the inverse-square magnitude is unbounded.
var errCoincident = fmt.Errorf("%w: %w", dynamo.ErrCoincidentBodies, dynamo.ErrDegenerateVector)

// errForceOverflow is reported for a pair whose force exceeds the float64
// range.
var errForceOverflow = fmt.Errorf("%w: force overflow", dynamo.ErrInvalidState)

// Gravity advances bodies under mutual Newtonian attraction using
// semi-implicit Euler integration with exact pairwise summation.
//
// A Gravity keeps scratch buffers between calls and must not be shared by
// concurrent callers.
type Gravity[A dynamo.Array] struct {
	// G is the gravitational constant applied to every pair.
	G float64
	// Workers is the number of goroutines used for the force phase. Values
	// below 2 keep the step on the calling goroutine.
	Workers int

	scratch [][]dynamo.Vector[A]
}

// NewGravity returns a serial stepper using the SI gravitational constant.
func NewGravity[A dynamo.Array]() *Gravity[A] {
	return &Gravity[A]{G: G, Workers: 1}
}

// Step advances bodies by dt with the SI gravitational constant on the
// calling goroutine. See Gravity.Step.
func Step[A dynamo.Array](bodies []Body[A], dt float64) ([]Body[A], error) {
	return NewGravity[A]().Step(bodies, dt)
}

// Step takes ownership of bodies, advances them by dt and returns the same
// collection.
//
// Velocities are updated first from the pairwise forces at the pre-step
// positions, pairs visited with i ascending then j > i ascending. Positions
// are then advanced with the updated velocities. A negative dt integrates
// backwards in time.
//
// On error the collection is returned unmodified. A single body feels no
// force and drifts by velocity*dt.
func (g *Gravity[A]) Step(bodies []Body[A], dt float64) ([]Body[A], error) {
	if err := validate(bodies, dt); err != nil {
		return bodies, err
	}

	n := len(bodies)
	workers := 1
	if g.Workers > 1 && n > 2 {
		workers = dynamo.Workers(g.Workers, n-1)
	}

	if n > 1 {
		dv, err := g.accumulate(bodies, dt, workers)
		if err != nil {
			return bodies, err
		}
		if err := checkFinite(bodies, dv, dt); err != nil {
			return bodies, err
		}
		for i := range bodies {
			bodies[i].Velocity.AddAssign(dv[i])
		}
	} else if err := checkFinite(bodies, nil, dt); err != nil {
		return bodies, err
	}

	if workers == 1 {
		for i := range bodies {
			bodies[i].Position.AddScaled(bodies[i].Velocity, dt)
		}
		return bodies, nil
	}

	err := dynamo.ParallelFor(n, workers, func(_, start, end int) error {
		for i := start; i < end; i++ {
			bodies[i].Position.AddScaled(bodies[i].Velocity, dt)
		}
		return nil
	})
	return bodies, err
}

// Force returns the gravitational force exerted on a by b.
func (g *Gravity[A]) Force(a, b Body[A]) (dynamo.Vector[A], error) {
	dist := b.Position.Dist(a.Position)
	inv := 1.0 / (dist * dist)
	if math.IsInf(inv, 0) {
		return dynamo.Vector[A]{}, errCoincident
	}

	f := b.Position.Sub(a.Position)
	if err := f.Normalize(); err != nil {
		return dynamo.Vector[A]{}, err
	}
	f.ScaleAssign(g.G * b.Mass * a.Mass * inv)
	if !f.IsFinite() {
		return dynamo.Vector[A]{}, errForceOverflow
	}
	return f, nil
}

// accumulate computes the velocity change of every body into a buffer indexed
// by body. With several workers each one owns an interleaved set of rows i and
// a private buffer; the buffers are summed in worker order afterwards so the
// result only depends on the worker count.
func (g *Gravity[A]) accumulate(bodies []Body[A], dt float64, workers int) ([]dynamo.Vector[A], error) {
	n := len(bodies)
	bufs := g.buffers(workers, n)

	if workers == 1 {
		if err := g.rows(bodies, dt, bufs[0], 0, 1); err != nil {
			return nil, err
		}
		return bufs[0], nil
	}

	errs := make([]*dynamo.PairError, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			if err := g.rows(bodies, dt, bufs[w], w, workers); err != nil {
				errs[w] = err
				return err
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, lowestPair(errs)
	}

	err := dynamo.ParallelFor(n, workers, func(_, start, end int) error {
		for i := start; i < end; i++ {
			for w := 1; w < workers; w++ {
				bufs[0][i].AddAssign(bufs[w][i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bufs[0], nil
}

// rows applies every pair (i, j > i) for i = first, first+stride, ... to dv.
// It stops at the first failing pair, which is the lowest of its rows.
func (g *Gravity[A]) rows(bodies []Body[A], dt float64, dv []dynamo.Vector[A], first, stride int) *dynamo.PairError {
	n := len(bodies)
	for i := first; i < n-1; i += stride {
		for j := i + 1; j < n; j++ {
			impulse, err := g.Force(bodies[i], bodies[j])
			if err != nil {
				return &dynamo.PairError{I: i, J: j, Wrapped: err}
			}
			impulse.ScaleAssign(dt)
			if !impulse.IsFinite() {
				return &dynamo.PairError{I: i, J: j, Wrapped: errForceOverflow}
			}
			dv[i].AddScaled(impulse, 1.0/bodies[i].Mass)
			dv[j].AddScaled(impulse, -1.0/bodies[j].Mass)
		}
	}
	return nil
}

func (g *Gravity[A]) buffers(workers, n int) [][]dynamo.Vector[A] {
	if len(g.scratch) < workers {
		g.scratch = append(g.scratch, make([][]dynamo.Vector[A], workers-len(g.scratch))...)
	}
	bufs := g.scratch[:workers]
	for w := range bufs {
		if cap(bufs[w]) < n {
			bufs[w] = make([]dynamo.Vector[A], n)
		}
		bufs[w] = bufs[w][:n]
		clear(bufs[w])
	}
	return bufs
}

// checkFinite reports the first body whose velocity plus dv, or position
// after the drift, would leave the float64 range. dv may be nil.
func checkFinite[A dynamo.Array](bodies []Body[A], dv []dynamo.Vector[A], dt float64) error {
	for i := range bodies {
		v := bodies[i].Velocity
		if dv != nil {
			v = v.Add(dv[i])
		}
		if !v.IsFinite() || !bodies[i].Position.Add(v.Scale(dt)).IsFinite() {
			return &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

func lowestPair(errs []*dynamo.PairError) error {
	var lowest *dynamo.PairError
	for _, e := range errs {
		if e == nil {
			continue
		}
		if lowest == nil || e.I < lowest.I || (e.I == lowest.I && e.J < lowest.J) {
			lowest = e
		}
	}
	return lowest
}

func validate[A dynamo.Array](bodies []Body[A], dt float64) error {
	if len(bodies) == 0 {
		return dynamo.ErrInsufficientBodies
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidTimeStep, dt)
	}
	for i := range bodies {
		if !validMass(bodies[i].Mass) {
			return &dynamo.BodyError{Index: i, Wrapped: dynamo.ErrInvalidMass}
		}
	}
	return nil
}
