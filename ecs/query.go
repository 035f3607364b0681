package ecs

import "github.com/milk9111/foodfight/ecs/component"

// intersect returns the ids present in every set, iterating the smallest.
func intersect(sets ...*SparseSet) []entityID {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets {
		if s == nil {
			return nil
		}
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	out := make([]entityID, 0, smallest.Len())
	for _, id := range smallest.ids() {
		inAll := true
		for _, s := range sets {
			if !s.has(id) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, id)
		}
	}
	return out
}

// Query returns the live entities that carry every listed component id.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		sets = append(sets, w.stores[id])
	}
	var out []Entity
	for _, id := range intersect(sets...) {
		if e, ok := w.entities.entityFor(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// ForEach visits every live entity with a component of kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	set := w.stores[kind.ID()]
	for _, id := range set.ids() {
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits every live entity carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range intersect(w.stores[ka.ID()], w.stores[kb.ID()]) {
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits every live entity carrying all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range intersect(w.stores[ka.ID()], w.stores[kb.ID()], w.stores[kc.ID()]) {
		e, ok := w.entities.entityFor(id)
		if !ok {
			continue
		}
		a, okA := Get(w, e, ka)
		b, okB := Get(w, e, kb)
		c, okC := Get(w, e, kc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

// First returns the first live entity with a component of kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	set := w.stores[kind.ID()]
	if set == nil {
		return 0, false
	}
	for _, id := range set.dense {
		if e, ok := w.entities.entityFor(id); ok {
			return e, true
		}
	}
	return 0, false
}

// All returns every live entity with a component of kind, in storage order.
func All[T any](w *World, kind component.ComponentKind[T]) []Entity {
	if w == nil {
		return nil
	}
	var out []Entity
	for _, id := range w.stores[kind.ID()].ids() {
		if e, ok := w.entities.entityFor(id); ok {
			out = append(out, e)
		}
	}
	return out
}
