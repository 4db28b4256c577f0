package experiment

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	"github.com/Phwatang/basic-n-body-simulation/internal/sim"
)

// Trace writes the position of every body before each step, one line per
// step:
//
//	Body 1: [0, -1] | Body 2: [0, 1]
//
// With cfg.Steps == 0 it runs until ctx is done or a step fails.
func Trace(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch cfg.Dimensions {
	case 1:
		return trace[[1]float64](ctx, cfg, w)
	case 2:
		return trace[[2]float64](ctx, cfg, w)
	case 3:
		return trace[[3]float64](ctx, cfg, w)
	case 4:
		return trace[[4]float64](ctx, cfg, w)
	}
	return fmt.Errorf("%w: unsupported dimension %d", dynamo.ErrDimensionMismatch, cfg.Dimensions)
}

func trace[A dynamo.Array](ctx context.Context, cfg *config.Config, w io.Writer) error {
	bodies, err := Bodies[A](cfg)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	defer out.Flush()

	tr := sim.NewTrajectory[A](gravity[A](cfg), bodies, cfg.Dt)
	for snap, err := range tr.All() {
		if err != nil {
			return err
		}
		if cfg.Steps > 0 && snap.Step >= cfg.Steps {
			break
		}
		if _, err := out.WriteString(FormatLine(snap.Bodies)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return out.Flush()
}

// FormatLine renders the positions of bodies in trace format, newline
// terminated.
func FormatLine[A dynamo.Array](bodies []physics.Body[A]) string {
	var sb strings.Builder
	for i := range bodies {
		if i > 0 {
			sb.WriteString(" | ")
		}
		fmt.Fprintf(&sb, "Body %d: %v", i+1, bodies[i].Position)
	}
	sb.WriteByte('\n')
	return sb.String()
}
