// Package analysis characterizes recorded and simulated arena runs.
//
//   - [DominantFrequency]: strongest oscillation in a sampled series, such
//     as a body's bounce height
//   - [NewPhasePortrait]: position against velocity along one axis
//   - [Divergence]: growth rate of the separation between two nearly equal
//     starting states
//
// # Sensitivity
//
// Collisions make the arena sensitive to its starting state. A positive
// divergence rate means a tiny nudge to one body grows over time:
//
//	rate := analysis.Divergence(arena, g, bodies, 1e-6, dt, duration)
//	if rate > 0 {
//	    // runs with nearby seeds will not stay close
//	}
package analysis
