// Package viz animates a running N-body simulation in the terminal.
//
// [Model] is a Bubble Tea model that steps a [Source] on every tick and draws
// the bodies with their recent trails on a braille [Canvas]. Positions in
// three or four dimensions are rotated and projected onto the screen plane
// by a [Projector].
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Reset to the initial state
//	+/-    - Zoom
//	[ ]    - Halve/double steps per frame
//	Arrows - Rotate the view
//	Q      - Quit
package viz
