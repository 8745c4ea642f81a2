package dynamics

import (
	"math"
	"testing"

	"github.com/pthm-cable/impulse/geometry"
)

const eps = 1e-4

func closeTo(got, want, tol float32) bool {
	return math.Abs(float64(got-want)) <= float64(tol)
}

func unitMaterial() geometry.Material {
	return geometry.Material{Density: 1.0, Friction: 0.5, Restitution: 0.0}
}

func TestNewBodyRejectsInvalidType(t *testing.T) {
	if b := NewBody(BodyUnknown, geometry.Vector2{}); b != nil {
		t.Error("NewBody accepted an invalid type")
	}
	if b := NewBody(BodyType(99), geometry.Vector2{}); b != nil {
		t.Error("NewBody accepted an out-of-range type")
	}
	if b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, nil); b != nil {
		t.Error("NewBodyFromShape accepted a nil shape")
	}
}

func TestBodyIDsAreUnique(t *testing.T) {
	b1 := NewBody(BodyDynamic, geometry.Vector2{})
	b2 := NewBody(BodyDynamic, geometry.Vector2{})

	if b1.ID() == b2.ID() {
		t.Errorf("two bodies share id %d", b1.ID())
	}
}

func TestMassFromShape(t *testing.T) {
	shape := geometry.NewRectangle(geometry.Material{Density: 2.0}, 3.0, 4.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	if !closeTo(b.Mass(), 24.0, eps) {
		t.Errorf("mass = %v, want 24", b.Mass())
	}
	if !closeTo(b.InverseMass(), 1.0/24.0, eps) {
		t.Errorf("inverse mass = %v, want 1/24", b.InverseMass())
	}
	if b.Inertia() <= 0 || b.InverseInertia() <= 0 {
		t.Errorf("inertia = %v, inverse = %v, want both positive",
			b.Inertia(), b.InverseInertia())
	}
}

func TestStaticBodyHasInfiniteMass(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyStatic, geometry.Vector2{}, shape)

	if b.InverseMass() != 0 || b.InverseInertia() != 0 {
		t.Errorf("static body inverse mass = %v, inverse inertia = %v, want 0, 0",
			b.InverseMass(), b.InverseInertia())
	}

	b.SetVelocity(geometry.Vector2{X: 5})
	if b.Velocity() != (geometry.Vector2{}) {
		t.Error("static body velocity is not pinned to zero")
	}
}

func TestFlagsForceInfiniteMass(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.SetFlags(FlagInfiniteMass)
	if b.InverseMass() != 0 {
		t.Errorf("inverse mass = %v with FlagInfiniteMass, want 0", b.InverseMass())
	}
	if b.InverseInertia() == 0 {
		t.Error("inertia should stay finite with only FlagInfiniteMass set")
	}

	b.SetFlags(FlagInfiniteMass | FlagInfiniteInertia)
	if b.InverseInertia() != 0 {
		t.Errorf("inverse inertia = %v with FlagInfiniteInertia, want 0", b.InverseInertia())
	}

	b.SetFlags(0)
	if b.InverseMass() == 0 || b.InverseInertia() == 0 {
		t.Error("clearing flags did not restore finite mass state")
	}
}

func TestSetShapeNilDetaches(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.SetShape(nil)

	if b.Shape() != nil {
		t.Error("shape still attached after SetShape(nil)")
	}
	if b.Mass() != 0 || b.InverseMass() != 0 {
		t.Errorf("mass = %v, inverse = %v after detach, want 0, 0",
			b.Mass(), b.InverseMass())
	}
}

func TestForceIntegration(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.ApplyForce(b.Position(), geometry.Vector2{X: b.Mass() * 10})
	b.IntegrateVelocity(0.5)

	if !closeTo(b.Velocity().X, 5.0, eps) {
		t.Errorf("velocity.x = %v after force integration, want 5", b.Velocity().X)
	}

	b.ClearForces()
	b.IntegrateVelocity(0.5)

	if !closeTo(b.Velocity().X, 5.0, eps) {
		t.Errorf("velocity.x = %v after ClearForces, want unchanged 5", b.Velocity().X)
	}
}

func TestOffsetForceAddsTorque(t *testing.T) {
	shape := geometry.NewRectangle(unitMaterial(), 2.0, 2.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	// Push the right edge upward: positive torque.
	b.ApplyForce(geometry.Vector2{X: 1}, geometry.Vector2{Y: 1})
	b.IntegrateVelocity(1.0)

	if b.AngularVelocity() <= 0 {
		t.Errorf("angular velocity = %v after offset force, want > 0", b.AngularVelocity())
	}
}

func TestApplyImpulse(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.ApplyImpulse(b.Position(), geometry.Vector2{X: b.Mass() * 3})

	if !closeTo(b.Velocity().X, 3.0, eps) {
		t.Errorf("velocity.x = %v after impulse, want 3", b.Velocity().X)
	}
	if !closeTo(b.AngularVelocity(), 0, eps) {
		t.Errorf("centered impulse produced angular velocity %v", b.AngularVelocity())
	}

	b.ApplyImpulse(geometry.Vector2{X: 1}, geometry.Vector2{Y: 1})
	if b.AngularVelocity() <= 0 {
		t.Errorf("offset impulse produced angular velocity %v, want > 0", b.AngularVelocity())
	}
}

func TestGravityScale(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	gravity := geometry.Vector2{Y: 9.8}

	full := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)
	half := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)
	half.SetGravityScale(0.5)

	full.ApplyGravity(gravity)
	half.ApplyGravity(gravity)
	full.IntegrateVelocity(1.0)
	half.IntegrateVelocity(1.0)

	if !closeTo(full.Velocity().Y, 9.8, 1e-3) {
		t.Errorf("full gravity velocity.y = %v, want 9.8", full.Velocity().Y)
	}
	if !closeTo(half.Velocity().Y, 4.9, 1e-3) {
		t.Errorf("half gravity velocity.y = %v, want 4.9", half.Velocity().Y)
	}
}

func TestKinematicIgnoresForcesButMoves(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyKinematic, geometry.Vector2{}, shape)

	b.ApplyGravity(geometry.Vector2{Y: 9.8})
	b.ApplyForce(b.Position(), geometry.Vector2{X: 100})
	b.IntegrateVelocity(1.0)

	if b.Velocity() != (geometry.Vector2{}) {
		t.Errorf("kinematic velocity = %v after forces, want zero", b.Velocity())
	}

	b.SetVelocity(geometry.Vector2{X: 2})
	b.IntegratePosition(0.5)

	if !closeTo(b.Position().X, 1.0, eps) {
		t.Errorf("kinematic position.x = %v, want 1", b.Position().X)
	}
}

func TestIntegratePositionRefreshesAABB(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.SetVelocity(geometry.Vector2{X: 4})
	b.IntegratePosition(1.0)

	aabb := b.AABB()
	if !closeTo(aabb.X, 3.0, eps) {
		t.Errorf("aabb.x = %v after integration, want 3", aabb.X)
	}
}

func TestIntegrationNoOpOnZeroDT(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.SetVelocity(geometry.Vector2{X: 1})
	b.IntegratePosition(0)
	b.IntegratePosition(-1)

	if b.Position() != (geometry.Vector2{}) {
		t.Errorf("position = %v after dt <= 0, want origin", b.Position())
	}
}

func TestAngleNormalizedDuringIntegration(t *testing.T) {
	shape := geometry.NewCircle(unitMaterial(), 1.0)
	b := NewBodyFromShape(BodyDynamic, geometry.Vector2{}, shape)

	b.SetAngularVelocity(4 * math.Pi)
	b.IntegratePosition(1.0)

	if b.Angle() < 0 || b.Angle() >= 2*math.Pi {
		t.Errorf("angle = %v, want normalized to [0, 2pi)", b.Angle())
	}
}

func TestContainsPoint(t *testing.T) {
	circle := NewBodyFromShape(
		BodyDynamic, geometry.Vector2{X: 5}, geometry.NewCircle(unitMaterial(), 2.0),
	)

	if !circle.ContainsPoint(geometry.Vector2{X: 6}) {
		t.Error("circle should contain (6, 0)")
	}
	if circle.ContainsPoint(geometry.Vector2{X: 8}) {
		t.Error("circle should not contain (8, 0)")
	}

	box := NewBodyFromShape(
		BodyDynamic, geometry.Vector2{}, geometry.NewRectangle(unitMaterial(), 4.0, 2.0),
	)

	if !box.ContainsPoint(geometry.Vector2{X: 1.9, Y: 0.9}) {
		t.Error("box should contain (1.9, 0.9)")
	}
	if box.ContainsPoint(geometry.Vector2{X: 2.1}) {
		t.Error("box should not contain (2.1, 0)")
	}

	box.SetAngle(-math.Pi / 4)
	if box.ContainsPoint(geometry.Vector2{X: 1.9, Y: 0.9}) {
		t.Error("rotated box should not contain (1.9, 0.9)")
	}
}

func TestBodyRaycast(t *testing.T) {
	b := NewBodyFromShape(
		BodyStatic, geometry.Vector2{X: 5}, geometry.NewCircle(unitMaterial(), 1.0),
	)

	hit, ok := b.Raycast(geometry.Ray{
		Direction:   geometry.Vector2{X: 1},
		MaxDistance: 10,
	})

	if !ok {
		t.Fatal("expected a raycast hit")
	}
	if !closeTo(hit.Distance, 4.0, eps) {
		t.Errorf("hit distance = %v, want 4", hit.Distance)
	}

	detached := NewBody(BodyStatic, geometry.Vector2{})
	if _, ok := detached.Raycast(geometry.Ray{Direction: geometry.Vector2{X: 1}, MaxDistance: 10}); ok {
		t.Error("raycast against a shapeless body reported a hit")
	}
}

func TestUserDataRoundTrip(t *testing.T) {
	b := NewBody(BodyDynamic, geometry.Vector2{})

	type tag struct{ name string }
	payload := &tag{name: "crate"}

	b.SetUserData(payload)

	if got, ok := b.UserData().(*tag); !ok || got != payload {
		t.Error("user data did not round-trip unchanged")
	}
}
