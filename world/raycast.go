package world

import (
	"sort"

	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/geometry"
)

// RayHit is a world-level raycast result: a shape intersection plus
// the body it belongs to.
type RayHit struct {
	Body     *dynamics.Body
	Point    geometry.Vector2
	Normal   geometry.Vector2
	Distance float32
	Inside   bool
}

// Raycast intersects ray with every body in w and invokes fn once per
// hit, nearest first. Candidates come from a broad-phase query over
// the segment's bounding box, so bodies far from the ray are never
// tested.
func (w *World) Raycast(ray geometry.Ray, fn func(RayHit)) {
	if w == nil || fn == nil || ray.MaxDistance < 0 {
		return
	}

	ray.Direction = ray.Direction.Normalize()

	w.hash.Clear()
	for i, body := range w.bodies {
		w.hash.Insert(body.AABB(), i)
	}

	var hits []RayHit

	w.hash.Query(segmentAABB(ray), func(i int) bool {
		body := w.bodies[i]

		hit, ok := body.Raycast(ray)
		if !ok {
			return false
		}

		hits = append(hits, RayHit{
			Body:     body,
			Point:    hit.Point,
			Normal:   hit.Normal,
			Distance: hit.Distance,
			Inside:   hit.Inside,
		})

		return true
	})

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	for _, hit := range hits {
		fn(hit)
	}
}

// segmentAABB returns the bounding box of the ray segment from its
// origin to its far end.
func segmentAABB(ray geometry.Ray) geometry.AABB {
	end := ray.Origin.Add(ray.Direction.Scale(ray.MaxDistance))

	minX, maxX := ray.Origin.X, end.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}

	minY, maxY := ray.Origin.Y, end.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	return geometry.AABB{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
