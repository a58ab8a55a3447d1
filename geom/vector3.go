package geom

// Vector3 is a 3D vector or point. Z is the depth axis used to layer bodies.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Vec3 returns a new [Vector3].
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// MulScalar returns v scaled by s.
func (v Vector3) MulScalar(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dim returns the component along axis i (0 = X, 1 = Y, 2 = Z).
func (v Vector3) Dim(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// SetDim sets the component along axis i.
func (v *Vector3) SetDim(i int, f float64) {
	switch i {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	default:
		v.Z = f
	}
}

// Min returns the component-wise minimum of v and o.
func (v Vector3) Min(o Vector3) Vector3 {
	return Vector3{X: min(v.X, o.X), Y: min(v.Y, o.Y), Z: min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vector3) Max(o Vector3) Vector3 {
	return Vector3{X: max(v.X, o.X), Y: max(v.Y, o.Y), Z: max(v.Z, o.Z)}
}

// Vector2 drops the z component.
func (v Vector3) Vector2() Vector2 {
	return Vector2{X: v.X, Y: v.Y}
}
