package geom

import "math"

// Mat3 is a 3×3 matrix in row-major order.
type Mat3 [3][3]float64

// Identity returns the 3×3 identity matrix.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Diagonal returns a diagonal matrix with d on the main diagonal.
func Diagonal(d Vec3) Mat3 {
	return Mat3{{d.X, 0, 0}, {0, d.Y, 0}, {0, 0, d.Z}}
}

// MulVec returns m · v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m. For rotation matrices this is the
// inverse rotation.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

// InvDiagonal returns the inverse of a diagonal matrix, inverting only the
// main diagonal. Off-diagonal entries are ignored.
func (m Mat3) InvDiagonal() Mat3 {
	return Mat3{
		{1 / m[0][0], 0, 0},
		{0, 1 / m[1][1], 0},
		{0, 0, 1 / m[2][2]},
	}
}

// BodyToNED returns the rotation matrix from the body frame to the local
// NED frame for the ZYX Euler angles roll, pitch, yaw.
func BodyToNED(roll, pitch, yaw float64) Mat3 {
	cphi, sphi := math.Cos(roll), math.Sin(roll)
	cth, sth := math.Cos(pitch), math.Sin(pitch)
	cpsi, spsi := math.Cos(yaw), math.Sin(yaw)

	return Mat3{
		{cpsi * cth, cpsi*sth*sphi - spsi*cphi, cpsi*sth*cphi + spsi*sphi},
		{spsi * cth, spsi*sth*sphi + cpsi*cphi, spsi*sth*cphi - cpsi*sphi},
		{-sth, cth * sphi, cth * cphi},
	}
}

// EulerRateMatrix returns the kinematic matrix W mapping body angular rates
// (p, q, r) to Euler angle rates (roll, pitch, yaw). W is singular at
// pitch = ±π/2; callers get the resulting inf/NaN rates unguarded.
func EulerRateMatrix(roll, pitch float64) Mat3 {
	cphi, sphi := math.Cos(roll), math.Sin(roll)
	cth, tth := math.Cos(pitch), math.Tan(pitch)

	return Mat3{
		{1, sphi * tth, cphi * tth},
		{0, cphi, -sphi},
		{0, sphi / cth, cphi / cth},
	}
}
