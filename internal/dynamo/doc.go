// Package dynamo provides the core simulation primitives for the arena.
//
// The package defines the data model shared by every other package:
//
//   - [Body]: a circle whose mass doubles as its radius
//   - [Bodies]: the dense body store, addressed by stable index
//   - [Arena]: the fixed square bound centered at the origin
//   - [Stage]: one ordered pass of the physics step
//   - [Metric] and [Observer]: hooks driven by the simulator
//
// # Example
//
//	pipe := physics.NewPipeline(dynamo.NewArena(700), 294)
//	s := sim.New(pipe)
//	result, _ := s.Run(ctx, bodies, cfg)
//
// # Thread Safety
//
// Bodies are mutated in place by stages and are NOT safe for concurrent
// use. Parallel runs must each own their own [Bodies].
package dynamo
