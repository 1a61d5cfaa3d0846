package mathutil

import "math"

// Quat is a rotation quaternion stored as (x, y, z, w).
type Quat [4]float64

// AxisAngle returns the rotation of a radians around a unit axis.
func AxisAngle(axis Vec3, a float64) Quat {
	s := math.Sin(a * 0.5)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(a * 0.5)}
}

// EulerQuat composes Euler XYZ angles in degrees: X is applied first, Z last.
func EulerQuat(rx, ry, rz float64) Quat {
	qx := AxisAngle(Vec3{1, 0, 0}, Deg2Rad(rx))
	qy := AxisAngle(Vec3{0, 1, 0}, Deg2Rad(ry))
	qz := AxisAngle(Vec3{0, 0, 1}, Deg2Rad(rz))
	return qz.Mul(qy).Mul(qx)
}

// Mul returns the rotation q∘r, applying r first.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q[0], q[1], q[2]}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q[3])).Add(u.Cross(t))
}

// Mat3 converts a unit quaternion to a rotation matrix.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}
