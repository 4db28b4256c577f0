package experiment

import (
	"fmt"

	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
)

// Source is an interactive, dimension-independent handle on a running
// trajectory.
type Source interface {
	// Advance takes n steps. After a failure the source stays at the last
	// good state and keeps returning the error until Reset.
	Advance(n int) error
	Positions() [][]float64
	Time() float64
	Steps() int
	Energy() float64
	Dimensions() int
	Reset()
}

func NewSource(cfg *config.Config) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Dimensions {
	case 1:
		return newSource[[1]float64](cfg)
	case 2:
		return newSource[[2]float64](cfg)
	case 3:
		return newSource[[3]float64](cfg)
	case 4:
		return newSource[[4]float64](cfg)
	}
	return nil, fmt.Errorf("%w: unsupported dimension %d", dynamo.ErrDimensionMismatch, cfg.Dimensions)
}

type source[A dynamo.Array] struct {
	cfg     *config.Config
	initial []physics.Body[A]
	tr      *sim.Trajectory[A]
	current sim.Snapshot[A]
}

func newSource[A dynamo.Array](cfg *config.Config) (*source[A], error) {
	bodies, err := Bodies[A](cfg)
	if err != nil {
		return nil, err
	}
	s := &source[A]{cfg: cfg, initial: bodies}
	s.Reset()
	return s, nil
}

func (s *source[A]) Advance(n int) error {
	for range n {
		snap, err := s.tr.Next()
		if err != nil {
			return err
		}
		s.current = snap
	}
	return nil
}

func (s *source[A]) Positions() [][]float64 { return positions(s.current.Bodies) }
func (s *source[A]) Time() float64          { return s.current.Time }
func (s *source[A]) Steps() int             { return s.current.Step }
func (s *source[A]) Dimensions() int        { return s.cfg.Dimensions }

func (s *source[A]) Energy() float64 {
	return physics.TotalEnergy(s.current.Bodies, s.cfg.Gravity)
}

func (s *source[A]) Reset() {
	s.tr = sim.NewTrajectory[A](gravity[A](s.cfg), physics.Clone(s.initial), s.cfg.Dt)
	// the first snapshot is the initial state and cannot fail
	s.current, _ = s.tr.Next()
}
