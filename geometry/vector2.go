package geometry

import "math"

// Vector2 is a 2D vector with 32-bit float components.
type Vector2 struct {
	X float32
	Y float32
}

func (v Vector2) Add(w Vector2) Vector2 {
	return Vector2{v.X + w.X, v.Y + w.Y}
}

func (v Vector2) Sub(w Vector2) Vector2 {
	return Vector2{v.X - w.X, v.Y - w.Y}
}

func (v Vector2) Negate() Vector2 {
	return Vector2{-v.X, -v.Y}
}

func (v Vector2) Scale(k float32) Vector2 {
	return Vector2{v.X * k, v.Y * k}
}

func (v Vector2) Dot(w Vector2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the z component of the 3D cross product of v and w.
func (v Vector2) Cross(w Vector2) float32 {
	return v.X*w.Y - v.Y*w.X
}

func (v Vector2) MagnitudeSqr() float32 {
	return v.Dot(v)
}

func (v Vector2) Magnitude() float32 {
	return float32(math.Sqrt(float64(v.MagnitudeSqr())))
}

// Normalize returns the unit vector of v, or v unchanged if v is zero.
func (v Vector2) Normalize() Vector2 {
	mag := v.Magnitude()
	if mag <= 0 {
		return v
	}
	return v.Scale(1.0 / mag)
}

func (v Vector2) Distance(w Vector2) float32 {
	return w.Sub(v).Magnitude()
}

func (v Vector2) DistanceSqr(w Vector2) float32 {
	return w.Sub(v).MagnitudeSqr()
}

// LeftNormal returns the normalized left perpendicular of v.
func (v Vector2) LeftNormal() Vector2 {
	return Vector2{-v.Y, v.X}.Normalize()
}

// RightNormal returns the normalized right perpendicular of v.
func (v Vector2) RightNormal() Vector2 {
	return Vector2{v.Y, -v.X}.Normalize()
}

// Rotate rotates v through angle (in radians) about the origin.
func (v Vector2) Rotate(angle float32) Vector2 {
	sin := float32(math.Sin(float64(angle)))
	cos := float32(math.Cos(float64(angle)))

	return Vector2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// RotateTx rotates v through the cached rotation of tx about the origin.
func (v Vector2) RotateTx(tx Transform) Vector2 {
	return Vector2{
		v.X*tx.Rotation.Cos - v.Y*tx.Rotation.Sin,
		v.X*tx.Rotation.Sin + v.Y*tx.Rotation.Cos,
	}
}

// Transform rotates v through tx, then translates it by tx.Position.
func (v Vector2) Transform(tx Transform) Vector2 {
	return Vector2{
		tx.Position.X + (v.X*tx.Rotation.Cos - v.Y*tx.Rotation.Sin),
		tx.Position.Y + (v.X*tx.Rotation.Sin + v.Y*tx.Rotation.Cos),
	}
}

// Angle returns the angle from v to w, in radians.
func (v Vector2) Angle(w Vector2) float32 {
	return float32(math.Atan2(float64(w.Y), float64(w.X)) - math.Atan2(float64(v.Y), float64(v.X)))
}

// ApproxEquals reports whether v and w differ by at most eps per component.
func (v Vector2) ApproxEquals(w Vector2, eps float32) bool {
	return absf(v.X-w.X) <= eps && absf(v.Y-w.Y) <= eps
}

// CounterClockwise returns a positive value if v1, v2 and v3 form a
// counter-clockwise angle, a negative value if they form a clockwise
// angle, and zero if they are collinear.
func CounterClockwise(v1, v2, v3 Vector2) int {
	lhs := (v2.Y - v1.Y) * (v3.X - v1.X)
	rhs := (v3.Y - v1.Y) * (v2.X - v1.X)

	switch {
	case lhs > rhs:
		return 1
	case lhs < rhs:
		return -1
	default:
		return 0
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
