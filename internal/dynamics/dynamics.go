// Package dynamics implements the six-state rigid-body flight model: a simple
// thrust/lift/drag/gravity force balance with linear control-surface moments,
// integrated by forward Euler. The model is pure computation with no locking;
// concurrent use is the caller's concern.
package dynamics

import "github.com/falconsim/falconsim/internal/geom"

// FlightDynamics holds one aircraft's state, controls and airframe parameters
// and advances them deterministically per timestep.
//
// Orientation uses ZYX Euler angles with no normalization and no gimbal-lock
// guard: driving pitch to ±π/2 makes the kinematic transform singular and
// corrupts subsequent state. Keep pitch away from vertical.
type FlightDynamics struct {
	state    State
	controls Controls
	props    Properties

	airDensity float64

	// Inertia tensor, diagonal, fixed at construction.
	inertia    geom.Mat3
	inertiaInv geom.Mat3

	// Rotation matrices derived from the current orientation, refreshed
	// every integration step.
	bodyToNED geom.Mat3
	nedToBody geom.Mat3
}

// New returns a model at rest at the NED origin with default small-UAV
// parameters.
func New() *FlightDynamics {
	inertia := geom.Diagonal(geom.Vec3{X: 0.5, Y: 0.8, Z: 1.0})
	return &FlightDynamics{
		state:      State{Mass: DefaultMass},
		props:      DefaultProperties(),
		airDensity: DefaultAirDensity,
		inertia:    inertia,
		inertiaInv: inertia.InvDiagonal(),
		bodyToNED:  geom.Identity(),
		nedToBody:  geom.Identity(),
	}
}

// State returns a copy of the current rigid-body state.
func (f *FlightDynamics) State() State { return f.state }

// SetState replaces the state unconditionally. No clamping is applied; it is
// the reset/initialization path.
func (f *FlightDynamics) SetState(s State) { f.state = s }

// Controls returns a copy of the current control inputs.
func (f *FlightDynamics) Controls() Controls { return f.controls }

// SetControls stores the inputs, clamping each to its valid range.
func (f *FlightDynamics) SetControls(c Controls) {
	f.controls = Controls{
		Throttle: clamp(c.Throttle, 0, 1),
		Aileron:  clamp(c.Aileron, -1, 1),
		Elevator: clamp(c.Elevator, -1, 1),
		Rudder:   clamp(c.Rudder, -1, 1),
	}
}

// Properties returns the current airframe parameters.
func (f *FlightDynamics) Properties() Properties { return f.props }

// SetProperties replaces the airframe parameters, applying the same floors as
// the individual setters.
func (f *FlightDynamics) SetProperties(p Properties) {
	f.SetWingArea(p.WingArea)
	f.props.Wingspan = p.Wingspan
	f.SetLiftCoeff(p.LiftCoeff)
	f.SetDragCoeff(p.DragCoeff)
	f.props.MaxThrust = p.MaxThrust
}

// SetMass floors the mass to MinMass.
func (f *FlightDynamics) SetMass(m float64) {
	f.state.Mass = max(MinMass, m)
}

// SetAirDensity floors the density to MinAirDensity.
func (f *FlightDynamics) SetAirDensity(d float64) {
	f.airDensity = max(MinAirDensity, d)
}

// AirDensity returns the current air density.
func (f *FlightDynamics) AirDensity() float64 { return f.airDensity }

// SetWingArea floors the reference area to MinWingArea.
func (f *FlightDynamics) SetWingArea(a float64) {
	f.props.WingArea = max(MinWingArea, a)
}

// SetLiftCoeff sets the lift coefficient. Negative values are allowed.
func (f *FlightDynamics) SetLiftCoeff(cl float64) {
	f.props.LiftCoeff = cl
}

// SetDragCoeff floors the drag coefficient to zero.
func (f *FlightDynamics) SetDragCoeff(cd float64) {
	f.props.DragCoeff = max(0, cd)
}

// Update advances the state by dt seconds: force balance into velocity,
// control moments into angular velocity, then kinematic integration of
// position and orientation. Forces see the rotation matrices of the previous
// step; the position/orientation integration recomputes them first.
func (f *FlightDynamics) Update(dt float64) {
	f.updateForces(dt)
	f.updateMoments(dt)
	f.integrateState(dt)
}

func (f *FlightDynamics) updateForces(dt float64) {
	total := f.thrust().
		Add(f.lift()).
		Add(f.drag()).
		Add(f.gravity())

	accel := total.Scale(1 / f.state.Mass)
	f.state.Velocity = f.state.Velocity.Add(accel.Scale(dt))
}

func (f *FlightDynamics) updateMoments(dt float64) {
	total := geom.Vec3{
		X: f.controls.Aileron * 2.0 * f.props.Wingspan,
		Y: f.controls.Elevator * 1.5,
		Z: f.controls.Rudder * 1.0,
	}

	angAccel := f.inertiaInv.MulVec(total)
	f.state.AngularVelocity = f.state.AngularVelocity.Add(angAccel.Scale(dt))
}

func (f *FlightDynamics) integrateState(dt float64) {
	f.updateRotations()

	velNED := f.bodyToNED.MulVec(f.state.Velocity)
	f.state.Position = f.state.Position.Add(velNED.Scale(dt))

	w := geom.EulerRateMatrix(f.state.Orientation.X, f.state.Orientation.Y)
	eulerRates := w.MulVec(f.state.AngularVelocity)
	f.state.Orientation = f.state.Orientation.Add(eulerRates.Scale(dt))
}

func (f *FlightDynamics) updateRotations() {
	f.bodyToNED = geom.BodyToNED(
		f.state.Orientation.X,
		f.state.Orientation.Y,
		f.state.Orientation.Z,
	)
	f.nedToBody = f.bodyToNED.Transpose()
}

// thrust acts along body x, scaled by throttle.
func (f *FlightDynamics) thrust() geom.Vec3 {
	return geom.Vec3{X: f.controls.Throttle * f.props.MaxThrust}
}

// lift is 0.5·ρ·v²·CL·S along body -z, zero below stall speed.
func (f *FlightDynamics) lift() geom.Vec3 {
	speed := f.state.Velocity.Norm()
	if speed < stallSpeed {
		return geom.Vec3{}
	}
	mag := 0.5 * f.airDensity * speed * speed * f.props.LiftCoeff * f.props.WingArea
	return geom.Vec3{Z: -mag}
}

// drag is 0.5·ρ·v²·CD·S opposite the velocity, zero below stall speed.
func (f *FlightDynamics) drag() geom.Vec3 {
	speed := f.state.Velocity.Norm()
	if speed < stallSpeed {
		return geom.Vec3{}
	}
	mag := 0.5 * f.airDensity * speed * speed * f.props.DragCoeff * f.props.WingArea
	return f.state.Velocity.Normalized().Scale(-mag)
}

// gravity is (0,0,m·g) in NED rotated into the body frame with the rotation
// of the previous step.
func (f *FlightDynamics) gravity() geom.Vec3 {
	return f.nedToBody.MulVec(geom.Vec3{Z: f.state.Mass * Gravity})
}
