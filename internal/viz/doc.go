// Package viz draws the arena in the terminal.
//
// [Model] is a Bubble Tea program that steps a [physics.Pipeline] once per
// tick with the wall time since the previous tick and renders the bodies on
// a braille [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial bodies
//	T     - Cycle color themes
//	Q     - Quit
package viz
