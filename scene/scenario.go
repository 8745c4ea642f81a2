package scene

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/geometry"
	"github.com/pthm-cable/impulse/world"
)

// BroadphaseCellSize is the spatial-hash cell size used by the canned
// scenarios, in units. Roughly 2-4x the typical body extent.
const BroadphaseCellSize = 4.0

func newSceneWorld() *Scene {
	return NewScene(world.NewWorld(world.DefaultGravity, BroadphaseCellSize))
}

func ground(s *Scene, x, y, width, height float32) {
	shape := geometry.NewRectangle(geometry.Material{Density: 1.0}, width, height)
	body := dynamics.NewBodyFromShape(dynamics.BodyStatic, geometry.Vector2{X: x, Y: y}, shape)
	s.Spawn(body)
}

func box(s *Scene, x, y, size float32) (ecs.Entity, bool) {
	shape := geometry.NewRectangle(geometry.Material{Density: 1.0}, size, size)
	body := dynamics.NewBodyFromShape(dynamics.BodyDynamic, geometry.Vector2{X: x, Y: y}, shape)
	return s.Spawn(body)
}

func ball(s *Scene, x, y, radius float32) {
	shape := geometry.NewCircle(geometry.Material{Density: 1.0}, radius)
	body := dynamics.NewBodyFromShape(dynamics.BodyDynamic, geometry.Vector2{X: x, Y: y}, shape)
	s.Spawn(body)
}

// Basic builds the canonical drop scenario: a wide static ground slab
// and a single dynamic box falling onto it from above.
func Basic() *Scene {
	s := newSceneWorld()
	if s == nil {
		return nil
	}

	ground(s, 25, 31.875, 37.5, 3.75)
	box(s, 25, 13.125, 2.8125)

	return s
}

// Stack builds a vertical stack of n boxes resting on a ground slab,
// separated by small initial gaps so they settle under gravity.
func Stack(n int) *Scene {
	if n < 1 {
		return nil
	}

	s := newSceneWorld()
	if s == nil {
		return nil
	}

	const size float32 = 1.0

	groundY := float32(20.0)
	ground(s, 0, groundY, 40, 2)

	top := groundY - 1 // top surface of the slab
	for i := 0; i < n; i++ {
		y := top - size/2 - float32(i)*(size+0.05)
		box(s, 0, y, size)
	}

	return s
}

// Shower builds a ground slab plus n small bodies scattered above it
// at seeded random positions, alternating circles and boxes.
func Shower(n int, seed int64) *Scene {
	if n < 1 {
		return nil
	}

	s := newSceneWorld()
	if s == nil {
		return nil
	}

	ground(s, 0, 20, 60, 2)

	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < n; i++ {
		x := rng.Float32()*40 - 20
		y := rng.Float32()*10 - 5

		if i%2 == 0 {
			ball(s, x, y, 0.3+rng.Float32()*0.4)
		} else {
			box(s, x, y, 0.5+rng.Float32()*0.5)
		}
	}

	return s
}
