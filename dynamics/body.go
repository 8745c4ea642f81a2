// Package dynamics implements rigid bodies, semi-implicit Euler
// integration, and the sequential-impulse contact resolver.
package dynamics

import (
	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/geometry"
)

// BodyType classifies how a body participates in the simulation.
type BodyType int

const (
	BodyUnknown BodyType = iota
	// BodyStatic bodies never move. Velocity is pinned to zero and
	// mass is treated as infinite.
	BodyStatic
	// BodyKinematic bodies move at user-controlled velocity, ignore
	// forces and gravity, and have infinite mass.
	BodyKinematic
	// BodyDynamic bodies are fully simulated.
	BodyDynamic
)

// BodyFlags force parts of a dynamic body's motion to behave as if
// infinite-mass.
type BodyFlags uint32

const (
	// FlagInfiniteMass pins the inverse mass to zero.
	FlagInfiniteMass BodyFlags = 1 << iota
	// FlagInfiniteInertia pins the inverse inertia to zero, disabling
	// rotation from impulses and torques.
	FlagInfiniteInertia
)

// Motion is the mass and velocity state of a body. Inverse fields are
// zero exactly when the corresponding positive field is zero, the body
// is not dynamic, or FlagInfiniteMass / FlagInfiniteInertia is set.
type Motion struct {
	Mass           float32
	InverseMass    float32
	Inertia        float32
	InverseInertia float32

	GravityScale float32

	Velocity        geometry.Vector2
	AngularVelocity float32

	Force  geometry.Vector2
	Torque float32
}

// Body is a rigid body: a collision shape, a transform, and motion
// state. Bodies are created detached and added to a world afterwards.
type Body struct {
	id    uint32
	typ   BodyType
	flags BodyFlags

	shape     *geometry.Shape
	transform geometry.Transform
	motion    Motion
	aabb      geometry.AABB

	userData any
}

// nextBodyID hands out stable identities for contact-cache keys. The
// engine is single-threaded, so a plain counter suffices.
var nextBodyID uint32

// NewBody creates a body of the given type at position, with no shape
// attached. Returns nil if the type is invalid.
func NewBody(typ BodyType, position geometry.Vector2) *Body {
	if typ < BodyStatic || typ > BodyDynamic {
		return nil
	}

	nextBodyID++

	b := &Body{
		id:        nextBodyID,
		typ:       typ,
		transform: geometry.NewTransform(position, 0),
		motion:    Motion{GravityScale: 1.0},
	}

	return b
}

// NewBodyFromShape creates a body and attaches shape in one call.
// Returns nil if the type is invalid or shape is nil.
func NewBodyFromShape(typ BodyType, position geometry.Vector2, shape *geometry.Shape) *Body {
	if shape == nil {
		return nil
	}

	b := NewBody(typ, position)
	if b == nil {
		return nil
	}

	b.SetShape(shape)

	return b
}

// ID returns the stable identity of b, used to key contact-cache
// entries across steps.
func (b *Body) ID() uint32 {
	if b == nil {
		return 0
	}
	return b.id
}

// Type returns the body type of b.
func (b *Body) Type() BodyType {
	if b == nil {
		return BodyUnknown
	}
	return b.typ
}

// SetType changes the body type of b and recomputes its mass state.
func (b *Body) SetType(typ BodyType) {
	if b == nil || typ < BodyStatic || typ > BodyDynamic {
		return
	}

	b.typ = typ
	b.computeMotion()
}

// Flags returns the motion flags of b.
func (b *Body) Flags() BodyFlags {
	if b == nil {
		return 0
	}
	return b.flags
}

// SetFlags replaces the motion flags of b and recomputes its mass
// state.
func (b *Body) SetFlags(flags BodyFlags) {
	if b == nil {
		return
	}

	b.flags = flags
	b.computeMotion()
}

// Shape returns the shape attached to b, or nil.
func (b *Body) Shape() *geometry.Shape {
	if b == nil {
		return nil
	}
	return b.shape
}

// SetShape attaches shape to b, detaching any previous one. A nil
// shape detaches. Mass state and the AABB are recomputed.
func (b *Body) SetShape(shape *geometry.Shape) {
	if b == nil {
		return
	}

	b.shape = shape
	b.computeMotion()
	b.refreshAABB()
}

// Transform returns the current transform of b.
func (b *Body) Transform() geometry.Transform {
	if b == nil {
		return geometry.Transform{}
	}
	return b.transform
}

// Position returns the position of b.
func (b *Body) Position() geometry.Vector2 {
	if b == nil {
		return geometry.Vector2{}
	}
	return b.transform.Position
}

// SetPosition moves b to position and refreshes its AABB.
func (b *Body) SetPosition(position geometry.Vector2) {
	if b == nil {
		return
	}

	b.transform.Position = position
	b.refreshAABB()
}

// Angle returns the rotation of b in radians, in [0, 2*pi).
func (b *Body) Angle() float32 {
	if b == nil {
		return 0
	}
	return b.transform.Angle
}

// SetAngle rotates b to angle and refreshes its AABB.
func (b *Body) SetAngle(angle float32) {
	if b == nil {
		return
	}

	b.transform.SetAngle(angle)
	b.refreshAABB()
}

// Velocity returns the linear velocity of b.
func (b *Body) Velocity() geometry.Vector2 {
	if b == nil {
		return geometry.Vector2{}
	}
	return b.motion.Velocity
}

// SetVelocity sets the linear velocity of b. Static bodies stay
// pinned at zero.
func (b *Body) SetVelocity(velocity geometry.Vector2) {
	if b == nil || b.typ == BodyStatic {
		return
	}
	b.motion.Velocity = velocity
}

// AngularVelocity returns the angular velocity of b in radians per
// second.
func (b *Body) AngularVelocity() float32 {
	if b == nil {
		return 0
	}
	return b.motion.AngularVelocity
}

// SetAngularVelocity sets the angular velocity of b. Static bodies
// stay pinned at zero.
func (b *Body) SetAngularVelocity(angularVelocity float32) {
	if b == nil || b.typ == BodyStatic {
		return
	}
	b.motion.AngularVelocity = angularVelocity
}

// GravityScale returns the gravity multiplier of b.
func (b *Body) GravityScale() float32 {
	if b == nil {
		return 0
	}
	return b.motion.GravityScale
}

// SetGravityScale sets the gravity multiplier of b.
func (b *Body) SetGravityScale(scale float32) {
	if b == nil {
		return
	}
	b.motion.GravityScale = scale
}

// Mass returns the mass of b.
func (b *Body) Mass() float32 {
	if b == nil {
		return 0
	}
	return b.motion.Mass
}

// InverseMass returns the inverse mass of b, zero for static,
// kinematic, and mass-flagged bodies.
func (b *Body) InverseMass() float32 {
	if b == nil {
		return 0
	}
	return b.motion.InverseMass
}

// Inertia returns the moment of inertia of b.
func (b *Body) Inertia() float32 {
	if b == nil {
		return 0
	}
	return b.motion.Inertia
}

// InverseInertia returns the inverse moment of inertia of b.
func (b *Body) InverseInertia() float32 {
	if b == nil {
		return 0
	}
	return b.motion.InverseInertia
}

// UserData returns the opaque user value attached to b.
func (b *Body) UserData() any {
	if b == nil {
		return nil
	}
	return b.userData
}

// SetUserData attaches an opaque user value to b. The engine never
// inspects it.
func (b *Body) SetUserData(userData any) {
	if b == nil {
		return
	}
	b.userData = userData
}

// AABB returns the bounding box of b under its current transform.
func (b *Body) AABB() geometry.AABB {
	if b == nil {
		return geometry.AABB{}
	}
	return b.aabb
}

// ApplyForce adds force to the accumulator of b, applied at the world
// point. A point away from the center of mass also accumulates
// torque.
func (b *Body) ApplyForce(point, force geometry.Vector2) {
	if b == nil || b.typ != BodyDynamic {
		return
	}

	arm := point.Sub(b.transform.Position)

	b.motion.Force = b.motion.Force.Add(force)
	b.motion.Torque += arm.Cross(force)
}

// ApplyImpulse changes the velocity of b instantaneously by the given
// impulse applied at the world point.
func (b *Body) ApplyImpulse(point, impulse geometry.Vector2) {
	if b == nil || b.typ != BodyDynamic || b.motion.InverseMass <= 0 {
		return
	}

	arm := point.Sub(b.transform.Position)

	b.motion.Velocity = b.motion.Velocity.Add(impulse.Scale(b.motion.InverseMass))
	b.motion.AngularVelocity += b.motion.InverseInertia * arm.Cross(impulse)
}

// ApplyGravity accumulates the gravity force on b, scaled by its
// gravity scale. Non-dynamic bodies are unaffected.
func (b *Body) ApplyGravity(gravity geometry.Vector2) {
	if b == nil || b.typ != BodyDynamic || b.motion.Mass <= 0 {
		return
	}

	b.motion.Force = b.motion.Force.Add(gravity.Scale(b.motion.GravityScale * b.motion.Mass))
}

// IntegrateVelocity advances the velocity of b by dt using the
// accumulated force and torque.
func (b *Body) IntegrateVelocity(dt float32) {
	if b == nil || dt <= 0 || b.typ == BodyStatic {
		return
	}

	b.motion.Velocity = b.motion.Velocity.Add(
		b.motion.Force.Scale(b.motion.InverseMass * dt),
	)
	b.motion.AngularVelocity += b.motion.Torque * b.motion.InverseInertia * dt
}

// IntegratePosition advances the transform of b by dt at the current
// velocity, then refreshes the AABB. Static bodies do not move.
func (b *Body) IntegratePosition(dt float32) {
	if b == nil || dt <= 0 || b.typ == BodyStatic {
		return
	}

	b.transform.Position = b.transform.Position.Add(b.motion.Velocity.Scale(dt))
	b.transform.SetAngle(b.transform.Angle + b.motion.AngularVelocity*dt)

	b.refreshAABB()
}

// ClearForces zeroes the force and torque accumulators of b.
func (b *Body) ClearForces() {
	if b == nil {
		return
	}

	b.motion.Force = geometry.Vector2{}
	b.motion.Torque = 0
}

// ContainsPoint reports whether the world point p lies inside the
// shape of b.
func (b *Body) ContainsPoint(p geometry.Vector2) bool {
	if b == nil || b.shape == nil {
		return false
	}

	switch b.shape.Type() {
	case geometry.ShapeCircle:
		radius := b.shape.CircleRadius()

		return b.transform.Position.DistanceSqr(p) <= radius*radius
	case geometry.ShapePolygon:
		local := p.Sub(b.transform.Position).Rotate(-b.transform.Angle)

		for i := 0; i < b.shape.VertexCount(); i++ {
			if b.shape.Normal(i).Dot(local.Sub(b.shape.Vertex(i))) > 0 {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// Raycast intersects ray with the shape of b.
func (b *Body) Raycast(ray geometry.Ray) (collision.RayHit, bool) {
	if b == nil || b.shape == nil {
		return collision.RayHit{}, false
	}

	return collision.Raycast(b.shape, b.transform, ray)
}

// computeMotion recomputes mass and inertia from the attached shape,
// the body type, and the flags.
func (b *Body) computeMotion() {
	b.motion.Mass = b.shape.Mass()
	b.motion.Inertia = b.shape.Inertia()

	b.motion.InverseMass = 0
	b.motion.InverseInertia = 0

	if b.typ != BodyDynamic {
		return
	}

	if b.flags&FlagInfiniteMass == 0 && b.motion.Mass > 0 {
		b.motion.InverseMass = 1.0 / b.motion.Mass
	}

	if b.flags&FlagInfiniteInertia == 0 && b.motion.Inertia > 0 {
		b.motion.InverseInertia = 1.0 / b.motion.Inertia
	}
}

func (b *Body) refreshAABB() {
	b.aabb = b.shape.AABB(b.transform)
}
