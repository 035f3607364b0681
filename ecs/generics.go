package ecs

import (
	"fmt"

	"github.com/milk9111/foodfight/ecs/component"
)

// Add stores value under kind for e, replacing any previous value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("%w: %s", component.ErrNilComponent, kind)
	}
	w.store(kind.ID()).set(e.id(), value)
	return nil
}

// Remove deletes the kind component from e and reports whether it existed.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.stores[kind.ID()].remove(e.id())
}

// Has reports whether e carries a component of kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.stores[kind.ID()].has(e.id())
}

// Get returns the stored pointer for e. Mutations through it are visible to
// every later reader; no write-back is needed.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	raw, ok := w.stores[kind.ID()].get(e.id())
	if !ok {
		return nil, false
	}
	v, ok := raw.(*T)
	return v, ok && v != nil
}

// CreateEntity allocates a new entity in w.
func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

// DestroyEntity removes e and all of its components.
func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

// IsAlive reports whether e is a live handle in w.
func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	for i := range w.entities.gens {
		if e, ok := w.entities.entityFor(entityID(i + 1)); ok {
			out = append(out, e)
		}
	}
	return out
}
