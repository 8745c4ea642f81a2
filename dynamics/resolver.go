package dynamics

import (
	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/geometry"
)

const (
	// BaumgarteFactor scales the positional-error bias velocity.
	BaumgarteFactor = 0.24
	// PenetrationSlop is the penetration depth tolerated without bias,
	// suppressing jitter on resting contacts.
	PenetrationSlop = 0.01
)

// PrepareContacts computes the effective normal and tangent masses for
// every contact in m, ahead of warm starting and the iterative loop.
// Contacts with no effective mass are left at zero and skipped by the
// resolver.
func PrepareContacts(b1, b2 *Body, m *collision.Manifold) {
	if b1 == nil || b2 == nil || m == nil {
		return
	}

	normal := m.Direction
	tangent := normal.LeftNormal()

	for i := 0; i < m.Count; i++ {
		contact := &m.Contacts[i]

		r1 := contact.Point.Sub(b1.transform.Position)
		r2 := contact.Point.Sub(b2.transform.Position)

		contact.Cache.NormalMass = effectiveMass(b1, b2, r1, r2, normal)
		contact.Cache.TangentMass = effectiveMass(b1, b2, r1, r2, tangent)
	}
}

// WarmStart re-applies the impulse magnitudes cached from the previous
// step, seeding the iterative solver near its converged state.
func WarmStart(b1, b2 *Body, m *collision.Manifold) {
	if b1 == nil || b2 == nil || m == nil {
		return
	}

	normal := m.Direction
	tangent := normal.LeftNormal()

	for i := 0; i < m.Count; i++ {
		contact := &m.Contacts[i]

		impulse := normal.Scale(contact.Cache.NormalImpulse).
			Add(tangent.Scale(contact.Cache.TangentImpulse))

		b1.applyContactImpulse(contact.Point, impulse.Negate())
		b2.applyContactImpulse(contact.Point, impulse)
	}
}

// ResolveContacts runs one sequential-impulse iteration over the
// contacts of m, applying normal impulses with Baumgarte position
// bias and friction impulses clamped to the Coulomb cone. inverseDT
// is 1/dt for the current step.
func ResolveContacts(b1, b2 *Body, m *collision.Manifold, inverseDT float32) {
	if b1 == nil || b2 == nil || m == nil {
		return
	}

	if b1.motion.InverseMass <= 0 && b2.motion.InverseMass <= 0 {
		return
	}

	normal := m.Direction
	tangent := normal.LeftNormal()

	for i := 0; i < m.Count; i++ {
		contact := &m.Contacts[i]

		r1 := contact.Point.Sub(b1.transform.Position)
		r2 := contact.Point.Sub(b2.transform.Position)

		normalSpeed := relativeVelocity(b1, b2, r1, r2).Dot(normal)

		// Separating contacts need no impulse this iteration.
		if normalSpeed > 0 {
			continue
		}

		if contact.Cache.NormalMass > 0 {
			bias := -BaumgarteFactor * inverseDT *
				minf(0, -contact.Depth+PenetrationSlop)

			lambda := (-(1.0+m.Restitution)*normalSpeed + bias) * contact.Cache.NormalMass

			oldImpulse := contact.Cache.NormalImpulse
			contact.Cache.NormalImpulse = maxf(oldImpulse+lambda, 0)

			impulse := normal.Scale(contact.Cache.NormalImpulse - oldImpulse)

			b1.applyContactImpulse(contact.Point, impulse.Negate())
			b2.applyContactImpulse(contact.Point, impulse)
		}

		if contact.Cache.TangentMass > 0 {
			tangentSpeed := relativeVelocity(b1, b2, r1, r2).Dot(tangent)

			lambda := -tangentSpeed * contact.Cache.TangentMass

			maxFriction := m.Friction * contact.Cache.NormalImpulse

			oldImpulse := contact.Cache.TangentImpulse
			contact.Cache.TangentImpulse = clampf(
				oldImpulse+lambda, -maxFriction, maxFriction,
			)

			impulse := tangent.Scale(contact.Cache.TangentImpulse - oldImpulse)

			b1.applyContactImpulse(contact.Point, impulse.Negate())
			b2.applyContactImpulse(contact.Point, impulse)
		}
	}
}

// applyContactImpulse applies impulse at the world point through the
// inverse mass fields directly, so infinite-mass bodies absorb it as
// a no-op without a type check.
func (b *Body) applyContactImpulse(point, impulse geometry.Vector2) {
	arm := point.Sub(b.transform.Position)

	b.motion.Velocity = b.motion.Velocity.Add(impulse.Scale(b.motion.InverseMass))
	b.motion.AngularVelocity += b.motion.InverseInertia * arm.Cross(impulse)
}

// relativeVelocity returns the velocity of body 2 relative to body 1
// at a shared contact point with lever arms r1 and r2.
func relativeVelocity(b1, b2 *Body, r1, r2 geometry.Vector2) geometry.Vector2 {
	v1 := b1.motion.Velocity.Add(angularAt(b1.motion.AngularVelocity, r1))
	v2 := b2.motion.Velocity.Add(angularAt(b2.motion.AngularVelocity, r2))

	return v2.Sub(v1)
}

// angularAt returns the linear velocity contribution of an angular
// velocity at lever arm r.
func angularAt(omega float32, r geometry.Vector2) geometry.Vector2 {
	return geometry.Vector2{X: -omega * r.Y, Y: omega * r.X}
}

// effectiveMass returns the scalar constraint mass along axis for the
// pair, or zero when both bodies are immovable along it.
func effectiveMass(b1, b2 *Body, r1, r2, axis geometry.Vector2) float32 {
	r1CrossAxis := r1.Cross(axis)
	r2CrossAxis := r2.Cross(axis)

	k := b1.motion.InverseMass + b2.motion.InverseMass +
		b1.motion.InverseInertia*(r1CrossAxis*r1CrossAxis) +
		b2.motion.InverseInertia*(r2CrossAxis*r2CrossAxis)

	if k <= 0 {
		return 0
	}

	return 1.0 / k
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(x, lo, hi float32) float32 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	default:
		return x
	}
}
