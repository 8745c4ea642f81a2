// Package collision implements narrow-phase contact generation for
// convex shapes: circle and polygon pairs via the Separating Axis
// Theorem with contact-manifold clipping, plus ray intersection tests.
package collision

import "github.com/pthm-cable/impulse/geometry"

// SolverCache holds per-contact solver state that persists across
// steps. Impulse magnitudes accumulated in one step seed the next when
// the contact id matches.
type SolverCache struct {
	NormalMass     float32
	NormalImpulse  float32
	TangentMass    float32
	TangentImpulse float32
}

// Contact is a single contact point in a manifold. The id encodes the
// incident-edge vertex index plus a bit distinguishing which shape
// provided the reference edge, so the same physical contact keeps its
// id across steps.
type Contact struct {
	ID    int
	Point geometry.Vector2
	Depth float32
	Cache SolverCache
}

// Manifold describes the overlap of two shapes. Direction is a unit
// vector pointing from the first shape toward the second. Friction and
// restitution are the combined pair materials, filled in by the world
// on cache insertion.
type Manifold struct {
	Direction   geometry.Vector2
	Friction    float32
	Restitution float32
	Contacts    [2]Contact
	Count       int
}
