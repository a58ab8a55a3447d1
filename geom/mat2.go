package geom

import "math"

// Mat2 is a 2x2 matrix, used here for rotations.
type Mat2 struct {
	M00 float64
	M01 float64
	M10 float64
	M11 float64
}

// Rotation returns the counter-clockwise rotation matrix for radians.
func Rotation(radians float64) Mat2 {
	s, c := math.Sincos(radians)
	return Mat2{M00: c, M01: -s, M10: s, M11: c}
}

// Set resets m to the rotation for radians.
func (m *Mat2) Set(radians float64) {
	*m = Rotation(radians)
}

// Transpose returns the transpose of m, which is the inverse of a rotation.
func (m Mat2) Transpose() Mat2 {
	return Mat2{M00: m.M00, M01: m.M10, M10: m.M01, M11: m.M11}
}

// MulVector2 returns m * v.
func (m Mat2) MulVector2(v Vector2) Vector2 {
	return Vector2{X: m.M00*v.X + m.M01*v.Y, Y: m.M10*v.X + m.M11*v.Y}
}
