package collision

import (
	"math"

	"github.com/pthm-cable/impulse/geometry"
)

// edge is a polygon edge in world space, carrying the local vertex
// indexes it was built from.
type edge struct {
	data    [2]geometry.Vector2
	indexes [2]int
	count   int
}

// Compute tests two shapes for overlap and, on overlap, returns the
// contact manifold. The manifold direction points from s1 toward s2.
func Compute(
	s1 *geometry.Shape, tx1 geometry.Transform,
	s2 *geometry.Shape, tx2 geometry.Transform,
) (Manifold, bool) {
	if s1 == nil || s2 == nil {
		return Manifold{}, false
	}

	t1, t2 := s1.Type(), s2.Type()

	switch {
	case t1 == geometry.ShapeCircle && t2 == geometry.ShapeCircle:
		return computeCircles(s1, tx1, s2, tx2)
	case t1 == geometry.ShapeCircle && t2 == geometry.ShapePolygon,
		t1 == geometry.ShapePolygon && t2 == geometry.ShapeCircle:
		return computeCirclePoly(s1, tx1, s2, tx2)
	case t1 == geometry.ShapePolygon && t2 == geometry.ShapePolygon:
		return computePolys(s1, tx1, s2, tx2)
	default:
		return Manifold{}, false
	}
}

func computeCircles(
	s1 *geometry.Shape, tx1 geometry.Transform,
	s2 *geometry.Shape, tx2 geometry.Transform,
) (Manifold, bool) {
	direction := tx2.Position.Sub(tx1.Position)

	radiusSum := s1.CircleRadius() + s2.CircleRadius()
	magnitudeSqr := direction.MagnitudeSqr()

	if radiusSum*radiusSum < magnitudeSqr {
		return Manifold{}, false
	}

	var m Manifold

	magnitude := float32(math.Sqrt(float64(magnitudeSqr)))

	if magnitude > 0 {
		m.Direction = direction.Scale(1.0 / magnitude)
		m.Contacts[0].Depth = radiusSum - magnitude
	} else {
		m.Direction = geometry.Vector2{X: 1.0}
		m.Contacts[0].Depth = s1.CircleRadius()
	}

	m.Contacts[0].ID = 0
	m.Contacts[0].Point = m.Direction.Scale(s1.CircleRadius()).Transform(tx1)

	m.Contacts[1] = m.Contacts[0]
	m.Count = 1

	return m, true
}

func computeCirclePoly(
	s1 *geometry.Shape, tx1 geometry.Transform,
	s2 *geometry.Shape, tx2 geometry.Transform,
) (Manifold, bool) {
	var circle, poly *geometry.Shape
	var circleTx, polyTx geometry.Transform

	if s1.Type() == geometry.ShapeCircle {
		circle, poly = s1, s2
		circleTx, polyTx = tx1, tx2
	} else {
		circle, poly = s2, s1
		circleTx, polyTx = tx2, tx1
	}

	// The circle center in the polygon's local space.
	txCenter := circleTx.Position.Sub(polyTx.Position).Rotate(-polyTx.Angle)

	radius := circle.CircleRadius()

	maxDot := float32(-math.MaxFloat32)
	maxIndex := -1

	// Find the polygon edge closest to the circle center.
	for i := 0; i < poly.VertexCount(); i++ {
		dot := poly.Normal(i).Dot(txCenter.Sub(poly.Vertex(i)))

		if dot > radius {
			return Manifold{}, false
		}

		if maxDot < dot {
			maxDot, maxIndex = dot, i
		}
	}

	if maxIndex < 0 {
		return Manifold{}, false
	}

	deltaPosition := tx2.Position.Sub(tx1.Position)

	var m Manifold

	if maxDot < 0 {
		// The circle center lies inside the polygon.
		m.Direction = poly.Normal(maxIndex).RotateTx(polyTx).Negate()

		if deltaPosition.Dot(m.Direction) < 0 {
			m.Direction = m.Direction.Negate()
		}

		m.Contacts[0].ID = 0
		m.Contacts[0].Point = circleTx.Position.Add(m.Direction.Scale(radius))
		m.Contacts[0].Depth = radius - maxDot

		m.Contacts[1] = m.Contacts[0]
		m.Count = 1

		return m, true
	}

	var v1 geometry.Vector2
	if maxIndex > 0 {
		v1 = poly.Vertex(maxIndex - 1)
	} else {
		v1 = poly.Vertex(poly.VertexCount() - 1)
	}

	v2 := poly.Vertex(maxIndex)

	edgeVector := v2.Sub(v1)

	v1ToCenter := txCenter.Sub(v1)
	v2ToCenter := txCenter.Sub(v2)

	v1Dot := v1ToCenter.Dot(edgeVector)
	v2Dot := v2ToCenter.Dot(edgeVector.Negate())

	if v1Dot <= 0 || v2Dot <= 0 {
		// The center projects past an endpoint of the closest edge.
		direction := v1ToCenter
		if v1Dot > 0 {
			direction = v2ToCenter
		}

		magnitudeSqr := direction.MagnitudeSqr()

		if magnitudeSqr > radius*radius {
			return Manifold{}, false
		}

		magnitude := float32(math.Sqrt(float64(magnitudeSqr)))

		if magnitude > 0 {
			m.Direction = direction.Negate().RotateTx(polyTx).Scale(1.0 / magnitude)
			m.Contacts[0].Depth = radius - magnitude
		} else {
			m.Contacts[0].Depth = radius
		}

		if deltaPosition.Dot(m.Direction) < 0 {
			m.Direction = m.Direction.Negate()
		}

		m.Contacts[0].ID = 0
		m.Contacts[0].Point = m.Direction.Scale(radius).Transform(circleTx)

		m.Contacts[1] = m.Contacts[0]
		m.Count = 1

		return m, true
	}

	m.Direction = poly.Normal(maxIndex).RotateTx(polyTx).Negate()

	if deltaPosition.Dot(m.Direction) < 0 {
		m.Direction = m.Direction.Negate()
	}

	m.Contacts[0].ID = 0
	m.Contacts[0].Point = circleTx.Position.Add(m.Direction.Scale(radius))
	m.Contacts[0].Depth = radius - maxDot

	m.Contacts[1] = m.Contacts[0]
	m.Count = 1

	return m, true
}

func computePolys(
	s1 *geometry.Shape, tx1 geometry.Transform,
	s2 *geometry.Shape, tx2 geometry.Transform,
) (Manifold, bool) {
	index1, maxDepth1 := separatingAxisIndex(s1, tx1, s2, tx2)

	if maxDepth1 >= 0 {
		return Manifold{}, false
	}

	index2, maxDepth2 := separatingAxisIndex(s2, tx2, s1, tx1)

	if maxDepth2 >= 0 {
		return Manifold{}, false
	}

	var direction geometry.Vector2

	if maxDepth1 > maxDepth2 {
		direction = s1.Normal(index1).RotateTx(tx1)
	} else {
		direction = s2.Normal(index2).RotateTx(tx2)
	}

	deltaPosition := tx2.Position.Sub(tx1.Position)

	if deltaPosition.Dot(direction) < 0 {
		direction = direction.Negate()
	}

	edge1 := contactEdge(s1, tx1, direction)
	edge2 := contactEdge(s2, tx2, direction.Negate())

	refEdge, incEdge := edge1, edge2

	edgeVector1 := edge1.data[1].Sub(edge1.data[0])
	edgeVector2 := edge2.data[1].Sub(edge2.data[0])

	edgeDot1 := edgeVector1.Dot(direction)
	edgeDot2 := edgeVector2.Dot(direction)

	incEdgeFlipped := false

	// The reference edge is the one more perpendicular to the contact
	// direction.
	if absf(edgeDot1) > absf(edgeDot2) {
		refEdge, incEdge = edge2, edge1

		incEdgeFlipped = true
	}

	refEdgeVector := refEdge.data[1].Sub(refEdge.data[0]).Normalize()

	refDot1 := refEdge.data[0].Dot(refEdgeVector)
	refDot2 := refEdge.data[1].Dot(refEdgeVector)

	if !clipEdge(&incEdge, refEdgeVector, refDot1) {
		return Manifold{}, false
	}
	if !clipEdge(&incEdge, refEdgeVector.Negate(), -refDot2) {
		return Manifold{}, false
	}

	refEdgeNormal := refEdgeVector.RightNormal()

	maxDepth := refEdge.data[0].Dot(refEdgeNormal)

	depth1 := incEdge.data[0].Dot(refEdgeNormal) - maxDepth
	depth2 := incEdge.data[1].Dot(refEdgeNormal) - maxDepth

	var m Manifold

	m.Direction = direction

	m.Contacts[0].ID = contactID(incEdge.indexes[0], incEdgeFlipped)
	m.Contacts[1].ID = contactID(incEdge.indexes[1], incEdgeFlipped)

	switch {
	case depth1 < 0:
		m.Contacts[0].Point = incEdge.data[1]
		m.Contacts[0].Depth = depth2

		m.Contacts[1] = m.Contacts[0]
		m.Count = 1
	case depth2 < 0:
		m.Contacts[0].Point = incEdge.data[0]
		m.Contacts[0].Depth = depth1

		m.Contacts[1] = m.Contacts[0]
		m.Count = 1
	default:
		m.Contacts[0].Point = incEdge.data[0]
		m.Contacts[0].Depth = depth1

		m.Contacts[1].Point = incEdge.data[1]
		m.Contacts[1].Depth = depth2

		m.Count = 2
	}

	return m, true
}

// contactID derives a step-stable contact id from an incident-edge
// vertex index. The offset distinguishes which shape supplied the
// incident edge so that argument order does not change ids.
func contactID(index int, incEdgeFlipped bool) int {
	if incEdgeFlipped {
		return index
	}
	return geometry.MaxVertexCount + index
}

// clipEdge clips e so that the dot product of each vertex of e and v
// is greater than or equal to dot.
func clipEdge(e *edge, v geometry.Vector2, dot float32) bool {
	e.count = 0

	dot1 := e.data[0].Dot(v) - dot
	dot2 := e.data[1].Dot(v) - dot

	if dot1 >= 0 && dot2 >= 0 {
		e.count = 2

		return true
	}

	edgeVector := e.data[1].Sub(e.data[0])

	midpoint := e.data[0].Add(edgeVector.Scale(dot1 / (dot1 - dot2)))

	switch {
	case dot1 > 0 && dot2 < 0:
		e.data[1] = midpoint
		e.count = 2

		return true
	case dot1 < 0 && dot2 > 0:
		e.data[0] = e.data[1]
		e.data[1] = midpoint
		e.count = 2

		return true
	default:
		return false
	}
}

// contactEdge returns the edge of s most perpendicular to v, chosen
// among the two edges adjacent to the support vertex along v.
func contactEdge(s *geometry.Shape, tx geometry.Transform, v geometry.Vector2) edge {
	supportIndex := supportPointIndex(s, tx, v)

	prevIndex := supportIndex - 1
	if supportIndex == 0 {
		prevIndex = s.VertexCount() - 1
	}

	nextIndex := supportIndex + 1
	if supportIndex == s.VertexCount()-1 {
		nextIndex = 0
	}

	prevEdgeVector := s.Vertex(supportIndex).Sub(s.Vertex(prevIndex)).Normalize()
	nextEdgeVector := s.Vertex(supportIndex).Sub(s.Vertex(nextIndex)).Normalize()

	local := v.Rotate(-tx.Angle)

	if prevEdgeVector.Dot(local) < nextEdgeVector.Dot(local) {
		return edge{
			data: [2]geometry.Vector2{
				s.Vertex(prevIndex).Transform(tx),
				s.Vertex(supportIndex).Transform(tx),
			},
			indexes: [2]int{prevIndex, supportIndex},
			count:   2,
		}
	}

	return edge{
		data: [2]geometry.Vector2{
			s.Vertex(supportIndex).Transform(tx),
			s.Vertex(nextIndex).Transform(tx),
		},
		indexes: [2]int{supportIndex, nextIndex},
		count:   2,
	}
}

// separatingAxisIndex finds the face normal of s1 with the maximum
// signed separation against s2's support point. A non-negative depth
// means the shapes are separated along that axis.
func separatingAxisIndex(
	s1 *geometry.Shape, tx1 geometry.Transform,
	s2 *geometry.Shape, tx2 geometry.Transform,
) (int, float32) {
	maxDepth := float32(-math.MaxFloat32)
	maxIndex := -1

	for i := 0; i < s1.VertexCount(); i++ {
		vertex := s1.Vertex(i).Transform(tx1)
		normal := s1.Normal(i).RotateTx(tx1)

		supportIndex := supportPointIndex(s2, tx2, normal.Negate())

		if supportIndex < 0 {
			return supportIndex, maxDepth
		}

		supportPoint := s2.Vertex(supportIndex).Transform(tx2)

		depth := normal.Dot(supportPoint.Sub(vertex))

		if maxDepth < depth {
			maxDepth, maxIndex = depth, i
		}
	}

	return maxIndex, maxDepth
}

// supportPointIndex returns the index of the vertex of s farthest
// along v.
func supportPointIndex(s *geometry.Shape, tx geometry.Transform, v geometry.Vector2) int {
	maxDot := float32(-math.MaxFloat32)
	maxIndex := -1

	local := v.Rotate(-tx.Angle)

	for i := 0; i < s.VertexCount(); i++ {
		dot := s.Vertex(i).Dot(local)

		if maxDot < dot {
			maxDot, maxIndex = dot, i
		}
	}

	return maxIndex
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
