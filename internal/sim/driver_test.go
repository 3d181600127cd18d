package sim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/falconsim/falconsim/internal/dynamics"
	"github.com/falconsim/falconsim/internal/geom"
	"github.com/falconsim/falconsim/internal/sim"
)

var _ = Describe("Driver", func() {
	var d *sim.Driver

	BeforeEach(func() {
		d = sim.New(time.Millisecond)
	})

	AfterEach(func() {
		d.Stop()
	})

	Describe("lifecycle", func() {
		It("starts once and rejects a second start", func() {
			Expect(d.Start()).To(Succeed())
			Expect(d.Start()).To(MatchError(sim.ErrAlreadyRunning))
		})

		It("treats stop on a never-started driver as a no-op", func() {
			Expect(func() { d.Stop() }).NotTo(Panic())
			Expect(d.Running()).To(BeFalse())
		})

		It("is restartable after a stop", func() {
			Expect(d.Start()).To(Succeed())
			d.Stop()
			Expect(d.Running()).To(BeFalse())
			Expect(d.Start()).To(Succeed())
			Expect(d.Running()).To(BeTrue())
		})

		It("joins the loop goroutine on stop", func() {
			Expect(d.Start()).To(Succeed())
			d.Stop()
			d.Stop() // idempotent

			// After the join no further updates may land.
			before := d.GetState()
			Consistently(func() dynamics.State {
				return d.GetState()
			}, 20*time.Millisecond, 5*time.Millisecond).Should(Equal(before))
		})
	})

	Describe("physics integration", func() {
		It("falls under gravity from rest", func() {
			Expect(d.Start()).To(Succeed())
			Eventually(func() float64 {
				return d.GetState().Velocity.Z
			}).Should(BeNumerically(">", 0))
		})

		It("accelerates forward under thrust", func() {
			d.SetThrust(1.0)
			Expect(d.Start()).To(Succeed())
			Eventually(func() float64 {
				return d.GetState().Velocity.X
			}).Should(BeNumerically(">", 0))
		})

		It("never produces reverse thrust from negative throttle", func() {
			d.SetThrust(-1.0)
			Expect(d.Start()).To(Succeed())
			Consistently(func() float64 {
				return d.GetState().Velocity.X
			}, 30*time.Millisecond, 5*time.Millisecond).Should(BeNumerically(">=", 0))
		})
	})

	Describe("pause and resume", func() {
		It("freezes state while paused and moves again after resume", func() {
			Expect(d.Start()).To(Succeed())
			Eventually(func() float64 {
				return d.GetState().Velocity.Z
			}).Should(BeNumerically(">", 0))

			d.Pause()
			frozen := d.GetState()
			Consistently(func() dynamics.State {
				return d.GetState()
			}, 30*time.Millisecond, 5*time.Millisecond).Should(Equal(frozen))

			d.Resume()
			Eventually(func() dynamics.State {
				return d.GetState()
			}).ShouldNot(Equal(frozen))
		})
	})

	Describe("control clamping", func() {
		It("clamps throttle to [0,1]", func() {
			d.SetThrust(5.0)
			Expect(d.GetControls().Throttle).To(Equal(1.0))
			d.SetThrust(-2.0)
			Expect(d.GetControls().Throttle).To(Equal(0.0))
		})

		It("clamps surfaces to [-1,1] and keeps throttle", func() {
			d.SetThrust(0.7)
			d.SetControlSurfaces(2.0, -2.0, 1.5)
			c := d.GetControls()
			Expect(c.Aileron).To(Equal(1.0))
			Expect(c.Elevator).To(Equal(-1.0))
			Expect(c.Rudder).To(Equal(1.0))
			Expect(c.Throttle).To(Equal(0.7))
		})
	})

	Describe("state access", func() {
		It("round-trips an arbitrary finite state", func() {
			s := dynamics.State{
				Position:    geom.Vec3{X: 10, Y: -4, Z: -100},
				Velocity:    geom.Vec3{X: 15},
				Orientation: geom.Vec3{X: 0.2, Y: -0.1, Z: 3.0},
				Mass:        1.4,
			}
			d.SetState(s)
			Expect(d.GetState()).To(Equal(s))
		})

		It("applies property changes through Configure", func() {
			Expect(d.Start()).To(Succeed())
			d.Configure(func(f *dynamics.FlightDynamics) {
				f.SetWingArea(0.8)
				f.SetMass(2.0)
			})
			Expect(d.Physics().Properties().WingArea).To(Equal(0.8))
			Eventually(func() float64 {
				return d.GetState().Mass
			}).Should(Equal(2.0))
		})
	})
})
