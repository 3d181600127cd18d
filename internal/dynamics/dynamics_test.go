package dynamics

import (
	"math"
	"testing"

	"github.com/falconsim/falconsim/internal/geom"
)

func TestControlClamping(t *testing.T) {
	tests := []struct {
		name string
		in   Controls
		want Controls
	}{
		{"in range", Controls{0.5, 0.1, -0.2, 0.3}, Controls{0.5, 0.1, -0.2, 0.3}},
		{"throttle below", Controls{Throttle: -1.0}, Controls{Throttle: 0}},
		{"throttle above", Controls{Throttle: 5.0}, Controls{Throttle: 1}},
		{"surfaces above", Controls{0, 2.0, 1.5, 3.0}, Controls{0, 1, 1, 1}},
		{"surfaces below", Controls{0, -2.0, -1.5, -3.0}, Controls{0, -1, -1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			f.SetControls(tt.in)
			if got := f.Controls(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStateRoundTrip(t *testing.T) {
	f := New()
	s := State{
		Position:        geom.Vec3{X: 1, Y: -2, Z: -100},
		Velocity:        geom.Vec3{X: 12, Y: 0.5, Z: -1},
		Orientation:     geom.Vec3{X: 0.1, Y: -4.0, Z: 9.2}, // no wrapping applied
		AngularVelocity: geom.Vec3{X: 0.01, Y: 0.02, Z: 0.03},
		Mass:            2.5,
	}
	f.SetState(s)
	if got := f.State(); got != s {
		t.Errorf("state did not round-trip: got %+v, want %+v", got, s)
	}
}

func TestGravityOnlyFall(t *testing.T) {
	f := New()
	f.Update(0.01)

	s := f.State()
	if s.Velocity.Z <= 0 {
		t.Errorf("expected positive (downward) z velocity, got %f", s.Velocity.Z)
	}
	if s.Velocity.X != 0 || s.Velocity.Y != 0 {
		t.Errorf("expected zero lateral velocity, got (%f, %f)", s.Velocity.X, s.Velocity.Y)
	}

	want := Gravity * 0.01
	if math.Abs(s.Velocity.Z-want) > 1e-9 {
		t.Errorf("fall rate %f, want %f", s.Velocity.Z, want)
	}
}

func TestThrustMonotonic(t *testing.T) {
	step := func(throttle float64) float64 {
		f := New()
		f.SetControls(Controls{Throttle: throttle})
		f.Update(0.01)
		return f.State().Velocity.X
	}

	low, high := step(0.4), step(0.9)
	if high <= low {
		t.Errorf("throttle 0.9 gave vx=%f, not above throttle 0.4 vx=%f", high, low)
	}
}

func TestNoAeroForcesBelowStallSpeed(t *testing.T) {
	f := New()
	f.SetState(State{Velocity: geom.Vec3{X: 0.05}, Mass: DefaultMass})
	f.SetControls(Controls{Throttle: 0.5})

	dt := 0.01
	f.Update(dt)

	// Below 0.1 m/s the only forces are thrust and gravity.
	s := f.State()
	wantVx := 0.05 + 0.5*DefaultMaxThrust/DefaultMass*dt
	wantVz := Gravity * dt
	if math.Abs(s.Velocity.X-wantVx) > 1e-9 {
		t.Errorf("vx = %f, want %f (drag leaked in)", s.Velocity.X, wantVx)
	}
	if math.Abs(s.Velocity.Z-wantVz) > 1e-9 {
		t.Errorf("vz = %f, want %f (lift leaked in)", s.Velocity.Z, wantVz)
	}
}

func TestLiftClimbsAtSpeed(t *testing.T) {
	f := New()
	f.SetState(State{Velocity: geom.Vec3{X: 10}, Mass: DefaultMass})
	f.Update(0.1)

	// NED down is positive z, so climbing means negative position z.
	s := f.State()
	if s.Position.Z >= 0 {
		t.Errorf("expected climb at 10 m/s, position z = %f", s.Position.Z)
	}
	if s.Velocity.X >= 10 {
		t.Errorf("expected drag to slow forward velocity, vx = %f", s.Velocity.X)
	}
}

func TestControlSurfaceMoments(t *testing.T) {
	f := New()
	f.SetControls(Controls{Throttle: 1, Aileron: 1})
	f.Update(0.1)

	s := f.State()
	if s.Velocity.X <= 0 {
		t.Errorf("expected forward acceleration, vx = %f", s.Velocity.X)
	}
	if s.AngularVelocity.X <= 0 {
		t.Errorf("expected right roll rate, p = %f", s.AngularVelocity.X)
	}
	if s.AngularVelocity.Y != 0 || s.AngularVelocity.Z != 0 {
		t.Errorf("expected pure roll, got q=%f r=%f", s.AngularVelocity.Y, s.AngularVelocity.Z)
	}
}

func TestMomentsIndependentOfAirspeed(t *testing.T) {
	rate := func(vx float64) float64 {
		f := New()
		f.SetState(State{Velocity: geom.Vec3{X: vx}, Mass: DefaultMass})
		f.SetControls(Controls{Elevator: 0.5})
		f.Update(0.01)
		return f.State().AngularVelocity.Y
	}

	slow, fast := rate(0), rate(30)
	if math.Abs(slow-fast) > 1e-12 {
		t.Errorf("pitch rate depends on airspeed: %f vs %f", slow, fast)
	}
}

func TestPropertyFloors(t *testing.T) {
	f := New()

	f.SetMass(-5)
	if got := f.State().Mass; got != MinMass {
		t.Errorf("mass floor: got %f, want %f", got, MinMass)
	}

	f.SetAirDensity(0)
	if got := f.AirDensity(); got != MinAirDensity {
		t.Errorf("air density floor: got %f, want %f", got, MinAirDensity)
	}

	f.SetWingArea(-1)
	if got := f.Properties().WingArea; got != MinWingArea {
		t.Errorf("wing area floor: got %f, want %f", got, MinWingArea)
	}

	f.SetDragCoeff(-0.3)
	if got := f.Properties().DragCoeff; got != 0 {
		t.Errorf("drag floor: got %f, want 0", got)
	}

	// Lift coefficient is deliberately unclamped (inverted airfoils).
	f.SetLiftCoeff(-0.8)
	if got := f.Properties().LiftCoeff; got != -0.8 {
		t.Errorf("lift coeff: got %f, want -0.8", got)
	}
}

func TestAltitude(t *testing.T) {
	s := State{Position: geom.Vec3{Z: -120}}
	if got := s.Altitude(); got != 120 {
		t.Errorf("altitude = %f, want 120", got)
	}
}

func BenchmarkUpdate(b *testing.B) {
	f := New()
	f.SetState(State{Velocity: geom.Vec3{X: 15}, Mass: DefaultMass})
	f.SetControls(Controls{Throttle: 0.8, Aileron: 0.1, Elevator: 0.05})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Update(0.01)
	}
}
