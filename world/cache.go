package world

import (
	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/dynamics"
)

// pairKey identifies an unordered body pair by the bodies' stable ids,
// independent of slot position.
type pairKey struct {
	low  uint32
	high uint32
}

func makePairKey(id1, id2 uint32) pairKey {
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	return pairKey{low: id1, high: id2}
}

// cacheEntry is a persistent contact-cache record for one body pair.
// It survives across steps while the pair keeps colliding, carrying
// the accumulated impulse magnitudes that warm-start the solver.
type cacheEntry struct {
	body1    *dynamics.Body
	body2    *dynamics.Body
	manifold collision.Manifold
	stamp    uint64
}

func (e *cacheEntry) event() ContactEvent {
	return ContactEvent{Body1: e.body1, Body2: e.body2, Manifold: &e.manifold}
}

// refreshEntry inserts or updates the cache record for key with a
// freshly computed manifold. On a hit, impulse magnitudes are carried
// over per matching contact id and the combined pair materials are
// kept; on a miss, the materials are combined once and stored.
func (w *World) refreshEntry(
	key pairKey, body1, body2 *dynamics.Body, manifold collision.Manifold,
) *cacheEntry {
	entry, ok := w.cache[key]

	if !ok {
		manifold.Friction = combineFriction(body1, body2)
		manifold.Restitution = combineRestitution(body1, body2)

		entry = &cacheEntry{}
		w.cache[key] = entry
	} else {
		manifold.Friction = entry.manifold.Friction
		manifold.Restitution = entry.manifold.Restitution

		carryImpulses(&entry.manifold, &manifold)
	}

	entry.body1 = body1
	entry.body2 = body2
	entry.manifold = manifold
	entry.stamp = w.stamp

	return entry
}

// carryImpulses copies accumulated impulse magnitudes from prev into
// next wherever contact ids match. Unmatched contacts start cold.
func carryImpulses(prev, next *collision.Manifold) {
	for i := 0; i < next.Count; i++ {
		for j := 0; j < prev.Count; j++ {
			if next.Contacts[i].ID != prev.Contacts[j].ID {
				continue
			}

			next.Contacts[i].Cache.NormalImpulse = prev.Contacts[j].Cache.NormalImpulse
			next.Contacts[i].Cache.TangentImpulse = prev.Contacts[j].Cache.TangentImpulse

			break
		}
	}
}

// evictStale drops cache entries that were not refreshed this step:
// pairs that separated, left each other's broad-phase neighborhood, or
// lost a body.
func (w *World) evictStale() {
	for key, entry := range w.cache {
		if entry.stamp != w.stamp {
			delete(w.cache, key)
		}
	}
}

// evictBody drops every cache entry involving the body id.
func (w *World) evictBody(id uint32) {
	for key := range w.cache {
		if key.low == id || key.high == id {
			delete(w.cache, key)
		}
	}
}

// combineFriction averages the two shapes' friction coefficients,
// clamping negatives to zero.
func combineFriction(body1, body2 *dynamics.Body) float32 {
	friction := 0.5 * (body1.Shape().Friction() + body2.Shape().Friction())
	if friction < 0 {
		return 0
	}
	return friction
}

// combineRestitution takes the smaller of the two shapes' restitution
// coefficients, clamping negatives to zero.
func combineRestitution(body1, body2 *dynamics.Body) float32 {
	restitution := body1.Shape().Restitution()
	if r2 := body2.Shape().Restitution(); r2 < restitution {
		restitution = r2
	}
	if restitution < 0 {
		return 0
	}
	return restitution
}
