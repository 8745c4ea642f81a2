package scene

import "github.com/pthm-cable/impulse/dynamics"

// Position mirrors a body's world-space position into the ECS after
// every step.
type Position struct {
	X, Y float32
}

// Rotation mirrors a body's orientation into the ECS after every step.
type Rotation struct {
	Angle float32
}

// BodyRef links an entity to the simulation body it drives.
type BodyRef struct {
	Body *dynamics.Body
}
