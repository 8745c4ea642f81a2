package geometry

// AABB is an axis-aligned bounding box with a top-left origin.
type AABB struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Overlaps reports whether a and b intersect.
func (a AABB) Overlaps(b AABB) bool {
	return a.X <= b.X+b.Width && a.X+a.Width >= b.X &&
		a.Y <= b.Y+b.Height && a.Y+a.Height >= b.Y
}

// Contains reports whether point p lies inside a.
func (a AABB) Contains(p Vector2) bool {
	return p.X >= a.X && p.X <= a.X+a.Width &&
		p.Y >= a.Y && p.Y <= a.Y+a.Height
}
