// Package physics implements the arena step: gravity, pairwise circle
// collisions, wall reflection and position integration.
//
// Each pass implements [dynamo.Stage]. A [Pipeline] runs them in the fixed
// order
//
//	Gravity -> Collisions -> Walls -> Motion
//
// The first three passes look one frame ahead using the predicted position
// (position + velocity*dt) and only touch velocity; Motion is the single
// place positions change.
//
// Collision detection is discrete. A body fast enough to cover a gap within
// one frame passes through a neighbor or a wall.
//
//	pipe := physics.NewPipeline(dynamo.NewArena(700), 294)
//	for frame := range frames {
//	    pipe.Step(bodies, frame.Dt)
//	}
package physics
