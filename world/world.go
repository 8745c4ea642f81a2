// Package world ties the engine together: it owns the bodies, the
// broad-phase index, and the persistent contact cache, and drives the
// fixed-step simulation pipeline.
package world

import (
	"time"

	"github.com/pthm-cable/impulse/broadphase"
	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/dynamics"
	"github.com/pthm-cable/impulse/geometry"
)

const (
	// MaxBodies is the body slot capacity of a world. AddBody fails
	// fast beyond it.
	MaxBodies = 4096
	// SolverIterations is the number of sequential-impulse iterations
	// run per step.
	SolverIterations = 12
)

// DefaultGravity is the standard downward gravity in units/s², with y
// growing downward.
var DefaultGravity = geometry.Vector2{Y: 9.8}

// ContactEvent is passed to collision callbacks. The manifold may be
// mutated; setting its Count to zero during PreStep suppresses
// constraint solving for the pair this step.
type ContactEvent struct {
	Body1    *dynamics.Body
	Body2    *dynamics.Body
	Manifold *collision.Manifold
}

// Handler holds the optional collision callbacks of a world. Both run
// synchronously inside Step and must not re-enter the world.
type Handler struct {
	PreStep  func(ContactEvent)
	PostStep func(ContactEvent)
}

// StepTimer receives phase boundaries of each simulation step. The
// telemetry package provides an implementation; a nil timer disables
// timing.
type StepTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

// World owns a population of bodies and advances them in fixed time
// steps.
type World struct {
	bodies []*dynamics.Body
	hash   *broadphase.SpatialHash

	cache  map[pairKey]*cacheEntry
	active []*cacheEntry
	stamp  uint64

	gravity geometry.Vector2
	handler Handler

	accumulator    float64
	timestamp      float64
	accumulatorCap float64
	now            func() float64

	timer StepTimer
	stats StepStats
}

// NewWorld creates a world with the given gravity and broad-phase cell
// size. Returns nil if cellSize is not positive.
func NewWorld(gravity geometry.Vector2, cellSize float32) *World {
	hash := broadphase.NewSpatialHash(cellSize)
	if hash == nil {
		return nil
	}

	w := &World{
		bodies:  make([]*dynamics.Body, 0, MaxBodies),
		hash:    hash,
		cache:   make(map[pairKey]*cacheEntry),
		gravity: gravity,
		now:     monotonicSeconds,
	}

	w.timestamp = w.now()

	return w
}

// NewWorldFromConfig creates a world from loaded configuration.
func NewWorldFromConfig(cfg *config.Config) *World {
	if cfg == nil {
		return nil
	}

	gravity := geometry.Vector2{
		X: cfg.Derived.GravityX32,
		Y: cfg.Derived.GravityY32,
	}

	w := NewWorld(gravity, cfg.Derived.CellSize32)
	if w == nil {
		return nil
	}

	w.accumulatorCap = cfg.Step.AccumulatorCap

	return w
}

// SetClock replaces the monotonic clock read by Update. Tests inject a
// fake for determinism.
func (w *World) SetClock(now func() float64) {
	if w == nil || now == nil {
		return
	}

	w.now = now
	w.timestamp = now()
}

// SetTimer installs a step-phase timer. A nil timer disables timing.
func (w *World) SetTimer(timer StepTimer) {
	if w == nil {
		return
	}
	w.timer = timer
}

// Gravity returns the gravity vector of w.
func (w *World) Gravity() geometry.Vector2 {
	if w == nil {
		return geometry.Vector2{}
	}
	return w.gravity
}

// SetGravity replaces the gravity vector of w.
func (w *World) SetGravity(gravity geometry.Vector2) {
	if w == nil {
		return
	}
	w.gravity = gravity
}

// SetCollisionHandler installs the collision callbacks of w.
func (w *World) SetCollisionHandler(handler Handler) {
	if w == nil {
		return
	}
	w.handler = handler
}

// AddBody inserts body into w. Returns false if body is nil, already
// present, or the world is at capacity.
func (w *World) AddBody(body *dynamics.Body) bool {
	if w == nil || body == nil || len(w.bodies) >= MaxBodies {
		return false
	}

	for _, existing := range w.bodies {
		if existing == body {
			return false
		}
	}

	w.bodies = append(w.bodies, body)

	return true
}

// RemoveBody removes body from w, returning ownership to the caller.
// Returns false if body is not present.
func (w *World) RemoveBody(body *dynamics.Body) bool {
	if w == nil || body == nil {
		return false
	}

	for i, existing := range w.bodies {
		if existing != body {
			continue
		}

		last := len(w.bodies) - 1
		w.bodies[i] = w.bodies[last]
		w.bodies[last] = nil
		w.bodies = w.bodies[:last]

		w.evictBody(body.ID())

		return true
	}

	return false
}

// BodyCount returns the number of bodies in w.
func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

// Body returns the body at index, or nil if the index is out of range.
// Indices are not stable across RemoveBody.
func (w *World) Body(index int) *dynamics.Body {
	if w == nil || index < 0 || index >= len(w.bodies) {
		return nil
	}
	return w.bodies[index]
}

// Clear removes every body and cache entry from w, keeping the world
// usable.
func (w *World) Clear() {
	if w == nil {
		return
	}

	for i := range w.bodies {
		w.bodies[i] = nil
	}
	w.bodies = w.bodies[:0]

	for key := range w.cache {
		delete(w.cache, key)
	}
	w.active = w.active[:0]

	w.hash.Clear()
	w.accumulator = 0
}

// KineticEnergy returns the total kinetic energy of all bodies, in
// mass-units·units²/s².
func (w *World) KineticEnergy() float64 {
	if w == nil {
		return 0
	}

	var total float64

	for _, body := range w.bodies {
		v := body.Velocity()
		omega := body.AngularVelocity()

		total += 0.5 * float64(body.Mass()) * float64(v.MagnitudeSqr())
		total += 0.5 * float64(body.Inertia()) * float64(omega*omega)
	}

	return total
}

// Step advances the simulation by exactly dt seconds. A dt of zero or
// less is a no-op.
func (w *World) Step(dt float32) {
	if w == nil || dt <= 0 {
		return
	}

	w.stamp++
	w.startTick()

	w.startPhase(phaseBroadphase)
	w.hash.Clear()
	for i, body := range w.bodies {
		w.hash.Insert(body.AABB(), i)
	}

	w.startPhase(phaseNarrowphase)
	w.enumeratePairs()
	w.evictStale()

	if w.handler.PreStep != nil {
		for _, entry := range w.active {
			w.handler.PreStep(entry.event())
		}
	}

	w.startPhase(phaseIntegration)
	for _, body := range w.bodies {
		body.ApplyGravity(w.gravity)
		body.IntegrateVelocity(dt)
	}

	w.startPhase(phaseWarmStart)
	for _, entry := range w.active {
		if entry.manifold.Count == 0 {
			continue
		}

		dynamics.PrepareContacts(entry.body1, entry.body2, &entry.manifold)
		dynamics.WarmStart(entry.body1, entry.body2, &entry.manifold)
	}

	w.startPhase(phaseSolver)
	inverseDT := 1.0 / dt

	for iteration := 0; iteration < SolverIterations; iteration++ {
		for _, entry := range w.active {
			if entry.manifold.Count == 0 {
				continue
			}

			dynamics.ResolveContacts(entry.body1, entry.body2, &entry.manifold, inverseDT)
		}
	}

	w.startPhase(phasePositions)
	for _, body := range w.bodies {
		body.IntegratePosition(dt)
	}

	if w.handler.PostStep != nil {
		for _, entry := range w.active {
			w.handler.PostStep(entry.event())
		}
	}

	w.startPhase(phaseCleanup)
	for _, body := range w.bodies {
		body.ClearForces()
	}
	w.hash.Clear()

	w.stats.Bodies = len(w.bodies)
	w.stats.Manifolds = len(w.active)
	w.stats.CacheSize = len(w.cache)
	w.stats.Contacts = 0
	for _, entry := range w.active {
		w.stats.Contacts += entry.manifold.Count
	}

	w.endTick()
}

// Update advances the simulation in fixed steps of dt, consuming the
// wall time elapsed since the previous call. The step size stays
// constant regardless of call cadence.
func (w *World) Update(dt float32) {
	if w == nil || dt <= 0 {
		return
	}

	now := w.now()

	w.accumulator += now - w.timestamp
	w.timestamp = now

	if w.accumulatorCap > 0 && w.accumulator > w.accumulatorCap {
		w.accumulator = w.accumulatorCap
	}

	step := float64(dt)

	for w.accumulator >= step {
		w.Step(dt)
		w.accumulator -= step
	}
}

// enumeratePairs queries the broad phase with every body's AABB and
// runs narrow phase on the surviving candidates, refreshing the
// contact cache.
func (w *World) enumeratePairs() {
	w.active = w.active[:0]
	w.stats.PairsTested = 0

	for i, body1 := range w.bodies {
		index1 := i

		w.hash.Query(body1.AABB(), func(j int) bool {
			// Each unordered pair is tested once.
			if j <= index1 {
				return false
			}

			body2 := w.bodies[j]

			if body1.InverseMass() <= 0 && body2.InverseMass() <= 0 {
				return false
			}

			w.stats.PairsTested++

			manifold, ok := collision.Compute(
				body1.Shape(), body1.Transform(),
				body2.Shape(), body2.Transform(),
			)

			key := makePairKey(body1.ID(), body2.ID())

			if !ok {
				delete(w.cache, key)
				return false
			}

			entry := w.refreshEntry(key, body1, body2, manifold)
			w.active = append(w.active, entry)

			return true
		})
	}
}

func (w *World) startTick() {
	if w.timer != nil {
		w.timer.StartTick()
	}
}

func (w *World) startPhase(name string) {
	if w.timer != nil {
		w.timer.StartPhase(name)
	}
}

func (w *World) endTick() {
	if w.timer != nil {
		w.timer.EndTick()
	}
}

var processStart = time.Now()

func monotonicSeconds() float64 {
	return time.Since(processStart).Seconds()
}
