package geometry

import "math"

const twoPi = 2.0 * math.Pi

// Rotation caches the sine and cosine of a transform's angle.
type Rotation struct {
	Sin float32
	Cos float32
}

// Transform is a rigid 2D transform: a translation plus a rotation.
// The cached Rotation stays consistent with Angle as long as mutation
// goes through SetAngle.
type Transform struct {
	Position Vector2
	Rotation Rotation
	Angle    float32
}

// NewTransform returns a transform at position with the given angle.
func NewTransform(position Vector2, angle float32) Transform {
	tx := Transform{Position: position}
	tx.SetAngle(angle)

	return tx
}

// SetAngle normalizes angle to [0, 2*pi) and refreshes the cached
// sine and cosine.
func (tx *Transform) SetAngle(angle float32) {
	tx.Angle = NormalizeAngle(angle)

	tx.Rotation.Sin = float32(math.Sin(float64(tx.Angle)))
	tx.Rotation.Cos = float32(math.Cos(float64(tx.Angle)))
}

// NormalizeAngle wraps angle into [0, 2*pi).
func NormalizeAngle(angle float32) float32 {
	return angle - twoPi*float32(math.Floor(float64(angle)/twoPi))
}
