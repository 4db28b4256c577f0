// Package analysis characterizes simulated dynamics beyond conservation
// checks.
//
// [Lyapunov] estimates the largest Lyapunov exponent by trajectory
// separation. A positive value indicates chaos:
//
//	lambda, err := analysis.Lyapunov(ctx, newStepper, bodies, analysis.DefaultLyapunovConfig())
//	if err == nil && lambda > 0 {
//	    // nearby initial states diverge exponentially
//	}
package analysis
