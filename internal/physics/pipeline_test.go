package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/physics"
)

const frame = 1.0 / 60.0

func body(m, x, y, vx, vy float64) dynamo.Body {
	return dynamo.Body{Mass: m, Position: mgl64.Vec2{x, y}, Velocity: mgl64.Vec2{vx, vy}}
}

var _ = Describe("Pipeline", func() {
	var pipe *physics.Pipeline

	BeforeEach(func() {
		pipe = physics.NewPipeline(dynamo.NewArena(700), physics.DefaultGravity)
	})

	It("runs the stages in a fixed order", func() {
		names := []string{}
		for _, s := range pipe.Stages() {
			names = append(names, s.Name())
		}
		Expect(names).To(Equal([]string{"gravity", "collisions", "walls", "motion"}))
	})

	Describe("gravity", func() {
		It("lowers y-velocity by G*dt", func() {
			bodies := dynamo.Bodies{body(10, 0, 0, 0, 0)}
			pipe.Step(bodies, frame)
			Expect(bodies[0].Velocity[1]).To(BeNumerically("~", -4.9, 1e-9))
			Expect(bodies[0].Velocity[0]).To(BeZero())
		})

		It("decreases by exactly G*dt every step absent contacts", func() {
			bodies := dynamo.Bodies{body(10, 0, 100, 3, 0)}
			g := physics.NewGravity(physics.DefaultGravity)
			for i := 0; i < 10; i++ {
				before := bodies[0].Velocity[1]
				g.Apply(bodies, frame)
				Expect(before - bodies[0].Velocity[1]).To(BeNumerically("~", physics.DefaultGravity*frame, 1e-12))
			}
			Expect(bodies[0].Velocity[0]).To(Equal(3.0))
		})
	})

	Describe("head-on collision", func() {
		It("exchanges momentum along the line of centers", func() {
			bodies := dynamo.Bodies{
				body(10, -15, 0, 100, 0),
				body(20, 15, 0, -100, 0),
			}
			before := bodies.Momentum()
			Expect(before[0]).To(BeNumerically("~", -1000, 1e-9))

			physics.NewCollisions().Apply(bodies, frame)

			Expect(bodies[0].Velocity[0]).To(BeNumerically("~", -166.6667, 1e-3))
			Expect(bodies[1].Velocity[0]).To(BeNumerically("~", 33.3333, 1e-3))
			Expect(bodies[0].Velocity[1]).To(BeZero())
			Expect(bodies[1].Velocity[1]).To(BeZero())
			Expect(bodies.Momentum()[0]).To(BeNumerically("~", -1000, 1e-9))
		})

		It("does not move positions", func() {
			bodies := dynamo.Bodies{body(10, -15, 0, 100, 0), body(20, 15, 0, -100, 0)}
			physics.NewCollisions().Apply(bodies, frame)
			Expect(bodies[0].Position).To(Equal(mgl64.Vec2{-15, 0}))
			Expect(bodies[1].Position).To(Equal(mgl64.Vec2{15, 0}))
		})
	})

	Describe("wall bounce", func() {
		It("negates x-velocity when the predicted circle crosses the wall", func() {
			bodies := dynamo.Bodies{body(20, 340, 0, 50, 0)}
			walls := physics.NewWalls(dynamo.NewArena(700))
			walls.Apply(bodies, frame)
			Expect(bodies[0].Velocity[0]).To(Equal(-50.0))
			Expect(bodies[0].Velocity[1]).To(BeZero())
			Expect(walls.Reflections).To(Equal(1))
		})

		It("reflects both axes in a corner", func() {
			bodies := dynamo.Bodies{body(10, 339.8, -339.8, 30, -40)}
			walls := physics.NewWalls(dynamo.NewArena(700))
			walls.Apply(bodies, frame)
			Expect(bodies[0].Velocity).To(Equal(mgl64.Vec2{-30, 40}))
			Expect(walls.Reflections).To(Equal(2))
		})

		It("does not clamp the position", func() {
			bodies := dynamo.Bodies{body(20, 340, 0, 50, 0)}
			pipe.Step(bodies, frame)
			Expect(bodies[0].Position[0]).To(BeNumerically("~", 340-50*frame, 1e-9))
		})
	})

	Describe("stage order", func() {
		It("applies gravity before the wall check", func() {
			// At rest just above the floor bound: only the gravity-updated
			// velocity predicts a crossing.
			bodies := dynamo.Bodies{body(10, 0, -339.95, 0, 0)}
			pipe.Step(bodies, frame)
			Expect(bodies[0].Velocity[1]).To(BeNumerically("~", physics.DefaultGravity*frame, 1e-9))
			Expect(bodies[0].Position[1]).To(BeNumerically("~", -339.95+physics.DefaultGravity*frame*frame, 1e-9))
		})

		It("resolves collisions before the wall check and moves last", func() {
			// A hands its velocity to B; only then does B's prediction cross
			// the right wall.
			bodies := dynamo.Bodies{
				body(10, 320, 0, 60, 0),
				body(10, 339.5, 0, 0, 0),
			}
			pipe.Step(bodies, frame)

			Expect(bodies[0].Velocity[0]).To(BeNumerically("~", 0, 1e-9))
			Expect(bodies[1].Velocity[0]).To(BeNumerically("~", -60, 1e-9))
			Expect(bodies[1].Position[0]).To(BeNumerically("~", 338.5, 1e-9))
			Expect(bodies[0].Velocity[1]).To(BeNumerically("~", -4.9, 1e-9))
			Expect(bodies[1].Velocity[1]).To(BeNumerically("~", -4.9, 1e-9))
		})
	})

	Describe("sequential pair order", func() {
		It("lets later pairs see velocities written by earlier pairs", func() {
			// Three equal masses in a row: (0,1) hands 0's velocity to 1,
			// then (1,2) hands it on to 2. (0,2) does not touch.
			bodies := dynamo.Bodies{
				body(10, 0, 0, 60, 0),
				body(10, 19, 0, 0, 0),
				body(10, 38, 0, 0, 0),
			}
			c := physics.NewCollisions()
			c.Apply(bodies, frame)

			Expect(c.Resolved).To(Equal(2))
			Expect(bodies[0].Velocity[0]).To(BeNumerically("~", 0, 1e-9))
			Expect(bodies[1].Velocity[0]).To(BeNumerically("~", 0, 1e-9))
			Expect(bodies[2].Velocity[0]).To(BeNumerically("~", 60, 1e-9))
		})

		It("detects later contacts with the velocity written by an earlier pair", func() {
			// 1 and 2 are 22 apart: at rest 1 cannot reach 2 this frame,
			// but with the 600 it takes from 0 its predicted gap is 12.
			bodies := dynamo.Bodies{
				body(10, 0, 0, 600, 0),
				body(10, 19, 0, 0, 0),
				body(10, 41, 0, 0, 0),
			}
			Expect(physics.Touching(bodies[1], bodies[2], frame)).To(BeFalse())

			c := physics.NewCollisions()
			c.Apply(bodies, frame)

			Expect(c.Resolved).To(Equal(2))
			Expect(bodies[1].Velocity[0]).To(BeNumerically("~", 0, 1e-9))
			Expect(bodies[2].Velocity[0]).To(BeNumerically("~", 600, 1e-9))
		})
	})

	Describe("edge cases", func() {
		It("handles empty and single-body input", func() {
			Expect(func() { pipe.Step(dynamo.Bodies{}, frame) }).NotTo(Panic())
			Expect(func() { pipe.Step(nil, frame) }).NotTo(Panic())

			one := dynamo.Bodies{body(10, 0, 0, 5, 5)}
			pipe.Step(one, frame)
			Expect(pipe.Collisions.Resolved).To(BeZero())
		})

		It("skips pairs with coincident centers", func() {
			bodies := dynamo.Bodies{body(10, 5, 5, 10, 0), body(20, 5, 5, -10, 0)}
			for i := 0; i < 5; i++ {
				pipe.Step(bodies, frame)
			}
			Expect(bodies.IsValid()).To(BeTrue())
			Expect(pipe.Collisions.Skipped).To(BeNumerically(">", 0))
		})

		DescribeTable("treats bad dt as a no-op",
			func(dt float64) {
				bodies := dynamo.Bodies{body(10, 1, 2, 3, 4)}
				pipe.Step(bodies, dt)
				Expect(bodies[0]).To(Equal(body(10, 1, 2, 3, 4)))
			},
			Entry("zero", 0.0),
			Entry("negative", -frame),
			Entry("NaN", math.NaN()),
			Entry("Inf", math.Inf(1)),
		)

		It("lets a fast body tunnel through a neighbor", func() {
			bodies := dynamo.Bodies{
				body(10, 0, 0, 6000, 0),
				body(10, 60, 0, 0, 0),
			}
			physics.NewPipeline(dynamo.NewArena(700), 0).Step(bodies, frame)
			Expect(bodies[0].Velocity[0]).To(Equal(6000.0))
			Expect(bodies[0].Position[0]).To(BeNumerically(">", bodies[1].Position[0]))
		})
	})

	It("matches the one-call Step form", func() {
		a := dynamo.Bodies{body(10, -15, 0, 100, 0), body(20, 15, 0, -100, 0)}
		b := a.Clone()
		pipe.Step(a, frame)
		physics.Step(b, frame, 350, physics.DefaultGravity)
		Expect(b).To(Equal(a))
	})
})
