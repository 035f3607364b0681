package system

import (
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
)

// FreeObjectLifetime is how long a thrown or dropped object lies around
// before it is removed.
const FreeObjectLifetime = 10.0

// TTLSystem advances TTL components and destroys entities whose time is up.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	var expired []ecs.Entity
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Elapsed.Advance(dt)
		if ttl.Expired() {
			expired = append(expired, e)
		}
	})
	for _, e := range expired {
		w.DestroyEntity(e)
	}
}

// expire starts the removal countdown for a free object.
func expire(w *ecs.World, obj ecs.Entity) {
	_ = ecs.Add(w, obj, component.TTLComponent.Kind(), &component.TTL{Lifetime: FreeObjectLifetime})
}
