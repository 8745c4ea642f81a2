package collision

import (
	"math"

	"github.com/pthm-cable/impulse/geometry"
)

// RayHit describes a ray intersection with a single shape. Inside is
// advisory: it reports whether the ray origin lay inside the shape,
// and does not affect whether a hit is returned.
type RayHit struct {
	Point    geometry.Vector2
	Normal   geometry.Vector2
	Distance float32
	Inside   bool
}

// Raycast intersects ray with a shape under the given transform. The
// ray direction is normalized before testing. A hit is reported
// whenever the nearest intersection lies within the ray's maximum
// distance.
func Raycast(s *geometry.Shape, tx geometry.Transform, ray geometry.Ray) (RayHit, bool) {
	if s == nil {
		return RayHit{}, false
	}

	ray.Direction = ray.Direction.Normalize()

	switch s.Type() {
	case geometry.ShapeCircle:
		return raycastCircle(s, tx, ray)
	case geometry.ShapePolygon:
		return raycastPolygon(s, tx, ray)
	default:
		return RayHit{}, false
	}
}

func raycastCircle(s *geometry.Shape, tx geometry.Transform, ray geometry.Ray) (RayHit, bool) {
	radius := s.CircleRadius()

	lambda, intersects := intersectionCircleLine(
		tx.Position, radius, ray.Origin, ray.Direction,
	)

	inside := ray.Origin.DistanceSqr(tx.Position) < radius*radius
	if inside {
		// The near root lies behind the origin; the ray leaves the
		// circle through the far root.
		dot := tx.Position.Sub(ray.Origin).Dot(ray.Direction)
		lambda, intersects = 2*dot-lambda, true
	}

	if !intersects {
		return RayHit{}, false
	}

	var hit RayHit

	hit.Point = ray.Origin.Add(ray.Direction.Scale(lambda))
	hit.Normal = ray.Origin.Sub(hit.Point).LeftNormal()
	hit.Distance = lambda
	hit.Inside = inside

	ok := lambda >= 0 && lambda <= ray.MaxDistance

	return hit, ok
}

func raycastPolygon(s *geometry.Shape, tx geometry.Transform, ray geometry.Ray) (RayHit, bool) {
	intersectionCount := 0

	minLambda := float32(math.MaxFloat32)

	var hit RayHit

	for j, i := s.VertexCount()-1, 0; i < s.VertexCount(); j, i = i, i+1 {
		v1 := s.Vertex(i).Transform(tx)
		v2 := s.Vertex(j).Transform(tx)

		edgeVector := v1.Sub(v2)

		lambda, intersects := intersectionRaySegment(ray.Origin, ray.Direction, v2, edgeVector)

		if intersects && lambda <= ray.MaxDistance {
			if minLambda > lambda {
				minLambda = lambda

				hit.Point = ray.Origin.Add(ray.Direction.Scale(minLambda))
				hit.Normal = edgeVector.LeftNormal()
			}

			intersectionCount++
		}
	}

	hit.Distance = minLambda
	hit.Inside = intersectionCount&1 == 1

	return hit, intersectionCount > 0
}

// intersectionCircleLine returns the near intersection parameter of a
// line with a circle. The parameter is negative when the line origin
// is inside the circle.
func intersectionCircleLine(
	center geometry.Vector2, radius float32,
	origin, direction geometry.Vector2,
) (float32, bool) {
	originToCenter := center.Sub(origin)

	dot := originToCenter.Dot(direction)

	heightSqr := originToCenter.MagnitudeSqr() - dot*dot
	baseSqr := radius*radius - heightSqr

	if baseSqr < 0 {
		return 0, false
	}

	lambda := dot - float32(math.Sqrt(float64(baseSqr)))

	return lambda, dot >= 0
}

// intersectionRaySegment intersects a ray (unit direction, unbounded
// length) with a segment from origin2 along direction2, returning the
// ray parameter on hit.
func intersectionRaySegment(
	origin1, direction1 geometry.Vector2,
	origin2, direction2 geometry.Vector2,
) (float32, bool) {
	rXs := direction1.Cross(direction2)

	qp := origin2.Sub(origin1)

	if rXs == 0 {
		return 0, false
	}

	inverseRxS := 1.0 / rXs

	t := qp.Cross(direction2) * inverseRxS
	u := qp.Cross(direction1) * inverseRxS

	if t >= 0 && u >= 0 && u <= 1 {
		return t, true
	}

	return 0, false
}
