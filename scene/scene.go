// Package scene drives canned simulation scenarios. Bodies live in the
// physics world; each one is paired with an ECS entity that carries a
// mirrored transform for consumers that read entities rather than
// bodies.
package scene

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/world"
)

// Scene couples a physics world with an entity registry.
type Scene struct {
	physics  *world.World
	registry *ecs.World

	mapper *ecs.Map3[Position, Rotation, BodyRef]
	filter *ecs.Filter3[Position, Rotation, BodyRef]
	refMap *ecs.Map1[BodyRef]

	count int
}

// NewScene creates an empty scene around physics. Returns nil if
// physics is nil.
func NewScene(physics *world.World) *Scene {
	if physics == nil {
		return nil
	}

	registry := ecs.NewWorld()

	return &Scene{
		physics:  physics,
		registry: registry,
		mapper:   ecs.NewMap3[Position, Rotation, BodyRef](registry),
		filter:   ecs.NewFilter3[Position, Rotation, BodyRef](registry),
		refMap:   ecs.NewMap1[BodyRef](registry),
	}
}

// World returns the underlying physics world.
func (s *Scene) World() *world.World {
	if s == nil {
		return nil
	}
	return s.physics
}

// Spawn adds body to the physics world and creates its mirror entity.
// Returns false if the body could not be added.
func (s *Scene) Spawn(body *dynamics.Body) (ecs.Entity, bool) {
	if s == nil || body == nil {
		return ecs.Entity{}, false
	}

	if !s.physics.AddBody(body) {
		return ecs.Entity{}, false
	}

	p := body.Position()
	pos := Position{X: p.X, Y: p.Y}
	rot := Rotation{Angle: body.Angle()}
	ref := BodyRef{Body: body}

	entity := s.mapper.NewEntity(&pos, &rot, &ref)
	s.count++

	return entity, true
}

// Despawn removes the entity and its body from the scene. Returns
// false if the entity is unknown or already despawned.
func (s *Scene) Despawn(entity ecs.Entity) bool {
	if s == nil || !s.registry.Alive(entity) || !s.refMap.HasAll(entity) {
		return false
	}

	ref := s.refMap.Get(entity)
	s.physics.RemoveBody(ref.Body)

	s.mapper.Remove(entity)
	s.count--

	return true
}

// Body returns the simulation body behind entity, or nil if the entity
// is not a live scene member.
func (s *Scene) Body(entity ecs.Entity) *dynamics.Body {
	if s == nil || !s.registry.Alive(entity) || !s.refMap.HasAll(entity) {
		return nil
	}
	return s.refMap.Get(entity).Body
}

// EntityCount returns the number of live scene entities.
func (s *Scene) EntityCount() int {
	if s == nil {
		return 0
	}
	return s.count
}

// Step advances the physics world one fixed step and mirrors the
// resulting transforms into the entity components.
func (s *Scene) Step(dt float32) {
	if s == nil {
		return
	}

	s.physics.Step(dt)
	s.sync()
}

// Update advances the physics world by wall time in fixed steps and
// mirrors the resulting transforms.
func (s *Scene) Update(dt float32) {
	if s == nil {
		return
	}

	s.physics.Update(dt)
	s.sync()
}

func (s *Scene) sync() {
	query := s.filter.Query()
	for query.Next() {
		pos, rot, ref := query.Get()

		p := ref.Body.Position()
		pos.X = p.X
		pos.Y = p.Y
		rot.Angle = ref.Body.Angle()
	}
}
