package ecs

import "github.com/milk9111/foodfight/ecs/component"

// World owns entities, components, the event queue and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	sched    Scheduler

	frame      uint64
	delta      float64
	fixedDelta float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes all components of e and frees its slot. Stale
// handles to e stop resolving immediately.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.sched.Add(s)
}

// Update advances every frame system by dt seconds, then drops events that
// were already a frame old.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.delta = dt
	w.sched.Update(w)
	w.events.flush(w.frame)
	w.frame++
}

// FixedUpdate advances every fixed-step system by step seconds.
func (w *World) FixedUpdate(step float64) {
	if w == nil {
		return
	}
	w.fixedDelta = step
	w.sched.FixedUpdate(w)
}

// Delta is the frame delta of the update in progress.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// SetDelta overrides the frame delta for callers that drive systems
// directly instead of through Update.
func (w *World) SetDelta(dt float64) {
	if w == nil {
		return
	}
	w.delta = dt
}

// SetFixedDelta is SetDelta for the fixed phase.
func (w *World) SetFixedDelta(step float64) {
	if w == nil {
		return
	}
	w.fixedDelta = step
}

// FixedDelta is the step length of the fixed update in progress.
func (w *World) FixedDelta() float64 {
	if w == nil {
		return 0
	}
	return w.fixedDelta
}

// Frame counts completed frame updates.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	w.events.frame = w.frame
	return &w.events
}
