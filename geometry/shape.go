package geometry

import "math"

// ShapeType discriminates the collision shape variants.
type ShapeType int

const (
	ShapeUnknown ShapeType = iota
	ShapeCircle
	ShapePolygon
)

// Material describes the surface and density properties of a shape.
type Material struct {
	Density     float32
	Friction    float32
	Restitution float32
}

// Vertices is a fixed-capacity vertex list for polygon shapes.
type Vertices struct {
	Data  [MaxVertexCount]Vector2
	Count int
}

// Shape is a convex collision shape: a circle or a convex polygon.
// Polygon vertices are stored counter-clockwise with one outward edge
// normal per vertex.
type Shape struct {
	typ      ShapeType
	material Material
	area     float32

	radius float32

	vertices Vertices
	normals  Vertices
}

// NewCircle creates a circle shape. Returns nil if radius is not positive.
func NewCircle(material Material, radius float32) *Shape {
	if radius <= 0 {
		return nil
	}

	s := &Shape{typ: ShapeCircle, material: material}
	s.SetCircleRadius(radius)

	return s
}

// NewRectangle creates a rectangle shape centered on the origin.
// Returns nil if either dimension is not positive.
func NewRectangle(material Material, width, height float32) *Shape {
	if width <= 0 || height <= 0 {
		return nil
	}

	s := &Shape{typ: ShapePolygon, material: material}
	s.SetRectangleDimensions(width, height)

	return s
}

// NewPolygon creates a convex polygon shape from an unordered point
// set. The points are reduced to their convex hull. Returns nil if
// fewer than 3 or more than MaxVertexCount points are given.
func NewPolygon(material Material, points []Vector2) *Shape {
	if len(points) < 3 || len(points) > MaxVertexCount {
		return nil
	}

	var vs Vertices
	vs.Count = copy(vs.Data[:], points)

	s := &Shape{typ: ShapePolygon, material: material}
	s.SetPolygonVertices(vs)

	return s
}

// Type returns the shape variant of s.
func (s *Shape) Type() ShapeType {
	if s == nil {
		return ShapeUnknown
	}
	return s.typ
}

// Material returns the material of s.
func (s *Shape) Material() Material {
	if s == nil {
		return Material{}
	}
	return s.material
}

// Density returns the density of s.
func (s *Shape) Density() float32 {
	if s == nil {
		return 0
	}
	return s.material.Density
}

// Friction returns the coefficient of friction of s.
func (s *Shape) Friction() float32 {
	if s == nil {
		return 0
	}
	return s.material.Friction
}

// Restitution returns the coefficient of restitution of s.
func (s *Shape) Restitution() float32 {
	if s == nil {
		return 0
	}
	return s.material.Restitution
}

// Area returns the area of s.
func (s *Shape) Area() float32 {
	if s == nil {
		return 0
	}
	return s.area
}

// Mass returns the mass of s, the product of its density and area.
func (s *Shape) Mass() float32 {
	if s == nil {
		return 0
	}
	return s.material.Density * s.area
}

// Inertia returns the rotational inertia of s. For a circle this is the
// moment about its centre, 0.5 * mass * r^2. For a polygon it is
// density * sum(cross * (v1.v1 + v1.v2 + v2.v2)) / (6 * sum(cross)) over
// the edges, which equals the polygon's moment of inertia about its
// local origin divided by its area.
func (s *Shape) Inertia() float32 {
	if s == nil || s.material.Density <= 0 {
		return 0
	}

	switch s.typ {
	case ShapeCircle:
		return 0.5 * s.Mass() * (s.radius * s.radius)
	case ShapePolygon:
		var numerator, denominator float32

		for j, i := s.vertices.Count-1, 0; i < s.vertices.Count; j, i = i, i+1 {
			v1, v2 := s.vertices.Data[j], s.vertices.Data[i]

			cross := v1.Cross(v2)
			dotSum := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)

			numerator += cross * dotSum
			denominator += cross
		}

		if denominator == 0 {
			return 0
		}

		return s.material.Density * (numerator / (6.0 * denominator))
	default:
		return 0
	}
}

// AABB returns the bounding box of s under transform tx.
func (s *Shape) AABB(tx Transform) AABB {
	if s == nil {
		return AABB{}
	}

	switch s.typ {
	case ShapeCircle:
		return AABB{
			X:      tx.Position.X - s.radius,
			Y:      tx.Position.Y - s.radius,
			Width:  2.0 * s.radius,
			Height: 2.0 * s.radius,
		}
	case ShapePolygon:
		minVertex := Vector2{X: math.MaxFloat32, Y: math.MaxFloat32}
		maxVertex := Vector2{X: -math.MaxFloat32, Y: -math.MaxFloat32}

		for i := 0; i < s.vertices.Count; i++ {
			v := s.vertices.Data[i].Transform(tx)

			if minVertex.X > v.X {
				minVertex.X = v.X
			}
			if minVertex.Y > v.Y {
				minVertex.Y = v.Y
			}
			if maxVertex.X < v.X {
				maxVertex.X = v.X
			}
			if maxVertex.Y < v.Y {
				maxVertex.Y = v.Y
			}
		}

		return AABB{
			X:      minVertex.X,
			Y:      minVertex.Y,
			Width:  maxVertex.X - minVertex.X,
			Height: maxVertex.Y - minVertex.Y,
		}
	default:
		return AABB{}
	}
}

// CircleRadius returns the radius of s if it is a circle, else 0.
func (s *Shape) CircleRadius() float32 {
	if s.Type() != ShapeCircle {
		return 0
	}
	return s.radius
}

// VertexCount returns the number of hull vertices of a polygon shape.
func (s *Shape) VertexCount() int {
	if s.Type() != ShapePolygon {
		return 0
	}
	return s.vertices.Count
}

// Vertex returns the hull vertex at index, in local space.
func (s *Shape) Vertex(index int) Vector2 {
	if s.Type() != ShapePolygon || index < 0 || index >= s.vertices.Count {
		return Vector2{}
	}
	return s.vertices.Data[index]
}

// Normal returns the outward edge normal at index, in local space.
func (s *Shape) Normal(index int) Vector2 {
	if s.Type() != ShapePolygon || index < 0 || index >= s.normals.Count {
		return Vector2{}
	}
	return s.normals.Data[index]
}

// PolygonVertices returns a copy of the hull vertex list.
func (s *Shape) PolygonVertices() Vertices {
	if s.Type() != ShapePolygon {
		return Vertices{}
	}
	return s.vertices
}

// PolygonNormals returns a copy of the edge normal list.
func (s *Shape) PolygonNormals() Vertices {
	if s.Type() != ShapePolygon {
		return Vertices{}
	}
	return s.normals
}

// SetMaterial replaces the material of s.
func (s *Shape) SetMaterial(material Material) {
	if s == nil {
		return
	}
	s.material = material
}

// SetDensity sets the density of s.
func (s *Shape) SetDensity(density float32) {
	if s == nil {
		return
	}
	s.material.Density = density
}

// SetFriction sets the coefficient of friction of s.
func (s *Shape) SetFriction(friction float32) {
	if s == nil {
		return
	}
	s.material.Friction = friction
}

// SetRestitution sets the coefficient of restitution of s.
func (s *Shape) SetRestitution(restitution float32) {
	if s == nil {
		return
	}
	s.material.Restitution = restitution
}

// SetCircleRadius sets the radius of a circle shape and recomputes its
// area.
func (s *Shape) SetCircleRadius(radius float32) {
	if s == nil || s.typ != ShapeCircle {
		return
	}

	s.radius = radius
	s.area = math.Pi * (radius * radius)
}

// SetRectangleDimensions rebuilds a polygon shape as an axis-aligned
// rectangle centered on the origin.
func (s *Shape) SetRectangleDimensions(width, height float32) {
	if s == nil || width <= 0 || height <= 0 {
		return
	}

	halfWidth, halfHeight := 0.5*width, 0.5*height

	s.SetPolygonVertices(Vertices{
		Data: [MaxVertexCount]Vector2{
			{X: -halfWidth, Y: -halfHeight},
			{X: -halfWidth, Y: halfHeight},
			{X: halfWidth, Y: halfHeight},
			{X: halfWidth, Y: -halfHeight},
		},
		Count: 4,
	})
}

// SetPolygonVertices replaces the vertices of a polygon shape. The
// input is reduced to its convex hull, then the edge normals and the
// cached area are recomputed.
func (s *Shape) SetPolygonVertices(vertices Vertices) {
	if s == nil || vertices.Count <= 0 {
		return
	}

	hull := jarvisMarch(vertices)
	if hull.Count == 0 {
		return
	}

	s.vertices = hull
	s.normals.Count = hull.Count

	for j, i := hull.Count-1, 0; i < hull.Count; j, i = i, i+1 {
		s.normals.Data[i] = s.vertices.Data[i].Sub(s.vertices.Data[j]).LeftNormal()
	}

	var twiceAreaSum float32

	for i := 0; i < s.vertices.Count-1; i++ {
		twiceArea := s.vertices.Data[i].Sub(s.vertices.Data[0]).
			Cross(s.vertices.Data[i+1].Sub(s.vertices.Data[0]))

		twiceAreaSum += twiceArea
	}

	s.area = absf(0.5 * twiceAreaSum)
}

// jarvisMarch reduces an unordered point set to its counter-clockwise
// convex hull by gift wrapping. Input sizes are tiny so the quadratic
// cost is irrelevant.
func jarvisMarch(input Vertices) Vertices {
	var output Vertices

	if input.Count < 3 {
		return output
	}

	lowestIndex := 0

	for i := 1; i < input.Count; i++ {
		if input.Data[lowestIndex].X > input.Data[i].X {
			lowestIndex = i
		}
	}

	output.Data[output.Count] = input.Data[lowestIndex]
	output.Count++

	currentIndex, nextIndex := lowestIndex, lowestIndex

	for {
		for i := 0; i < input.Count; i++ {
			if i == currentIndex {
				continue
			}

			nextIndex = i

			break
		}

		for i := 0; i < input.Count; i++ {
			if i == currentIndex || i == nextIndex {
				continue
			}

			direction := CounterClockwise(
				input.Data[currentIndex], input.Data[i], input.Data[nextIndex],
			)

			if direction < 0 {
				continue
			}

			toCandidate := input.Data[currentIndex].DistanceSqr(input.Data[i])
			toNext := input.Data[currentIndex].DistanceSqr(input.Data[nextIndex])

			if direction != 0 || toCandidate > toNext {
				nextIndex = i
			}
		}

		if nextIndex == lowestIndex {
			break
		}

		currentIndex = nextIndex

		if output.Count >= MaxVertexCount {
			break
		}

		output.Data[output.Count] = input.Data[nextIndex]
		output.Count++
	}

	return output
}
