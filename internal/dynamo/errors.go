package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the simulation kernel.
var (
	// ErrDimensionMismatch indicates input components that do not match the
	// vector dimension. Inside the kernel dimensions are checked by the type
	// system; this only surfaces when decoding external input.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrDegenerateVector indicates a zero-length (or non-finite) vector was normalized.
	ErrDegenerateVector = errors.New("dynamo: cannot normalize degenerate vector")

	// ErrInvalidMass indicates a zero, negative or non-finite body mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrCoincidentBodies indicates two bodies share the same position.
	ErrCoincidentBodies = errors.New("dynamo: coincident bodies")

	// ErrInsufficientBodies indicates a step on an empty collection.
	ErrInsufficientBodies = errors.New("dynamo: at least one body is required")

	// ErrInvalidTimeStep indicates a NaN or infinite time step.
	ErrInvalidTimeStep = errors.New("dynamo: time step must be finite")

	// ErrInvalidState indicates a body state containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// BodyError attaches the offending body index to an error.
type BodyError struct {
	Index   int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// PairError attaches the offending pair of body indices to an error.
type PairError struct {
	I, J    int
	Wrapped error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("bodies %d and %d: %v", e.I, e.J, e.Wrapped)
}

func (e *PairError) Unwrap() error {
	return e.Wrapped
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
