package mathutil

import "math"

// EulerDeg builds the rotation for Euler XYZ angles given in degrees.
func EulerDeg(rx, ry, rz float64) Mat3 {
	return EulerQuat(rx, ry, rz).Mat3()
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
