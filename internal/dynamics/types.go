package dynamics

import "github.com/falconsim/falconsim/internal/geom"

// Physical defaults for a small fixed-wing UAV.
const (
	Gravity           = 9.81  // m/s²
	DefaultMass       = 1.0   // kg
	DefaultWingArea   = 0.5   // m²
	DefaultWingspan   = 1.5   // m
	DefaultLiftCoeff  = 1.2
	DefaultDragCoeff  = 0.1
	DefaultMaxThrust  = 20.0  // N
	DefaultAirDensity = 1.225 // kg/m³ at sea level
)

// Clamping floors applied by the property setters.
const (
	MinMass       = 0.1
	MinWingArea   = 0.01
	MinAirDensity = 0.01
)

// stallSpeed is the body-frame speed below which the lift and drag models
// produce no force.
const stallSpeed = 0.1

// State is the complete rigid-body state propagated each step.
type State struct {
	Position        geom.Vec3 // NED frame, m
	Velocity        geom.Vec3 // body frame, m/s
	Orientation     geom.Vec3 // Euler angles roll/pitch/yaw, rad
	AngularVelocity geom.Vec3 // body frame, rad/s
	Mass            float64   // kg
}

// Altitude returns height above the NED origin; down is positive Z.
func (s State) Altitude() float64 { return -s.Position.Z }

// Controls are the normalized pilot inputs. Throttle is [0,1]; the three
// surface deflections are [-1,1], positive meaning roll right, pitch up and
// yaw right respectively.
type Controls struct {
	Throttle float64
	Aileron  float64
	Elevator float64
	Rudder   float64
}

// Properties are the airframe parameters of the aircraft. The inertia tensor
// is fixed at construction and is not part of this struct.
type Properties struct {
	WingArea  float64 // m²
	Wingspan  float64 // m
	LiftCoeff float64
	DragCoeff float64
	MaxThrust float64 // N
}

// DefaultProperties returns the small-UAV airframe defaults.
func DefaultProperties() Properties {
	return Properties{
		WingArea:  DefaultWingArea,
		Wingspan:  DefaultWingspan,
		LiftCoeff: DefaultLiftCoeff,
		DragCoeff: DefaultDragCoeff,
		MaxThrust: DefaultMaxThrust,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
