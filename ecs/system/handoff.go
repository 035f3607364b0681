package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
)

// SetThrowingValues stores flight parameters on the projectile obj. It
// reports false when obj is not a projectile.
func SetThrowingValues(w *ecs.World, obj ecs.Entity, origin mgl64.Vec3, power float64, target mgl64.Vec3) bool {
	proj, ok := ecs.Get(w, obj, component.ProjectileComponent.Kind())
	if !ok {
		return false
	}
	proj.SetThrowingValues(origin, power, target)
	return true
}

// possess hands obj to holder. Whoever held it before loses it first, so an
// object is never attached to two holders.
func possess(w *ecs.World, obj, holder ecs.Entity, owner component.OwnerKind) {
	inter, ok := ecs.Get(w, obj, component.InteractableComponent.Kind())
	if !ok {
		return
	}
	if prev := ecs.Entity(inter.Holder); prev != 0 && prev != holder {
		detachFromHolder(w, obj, prev)
	}
	inter.Owner = owner
	inter.Holder = uint64(holder)
	ecs.Remove(w, obj, component.TTLComponent.Kind())
	if proj, ok := ecs.Get(w, obj, component.ProjectileComponent.Kind()); ok {
		proj.MarkThrownBy(owner)
	}
}

// free releases obj from its holder and starts its removal countdown. The
// thrower identity bits stay as the last possessor left them.
func free(w *ecs.World, obj ecs.Entity) {
	if inter, ok := ecs.Get(w, obj, component.InteractableComponent.Kind()); ok {
		inter.Owner = component.OwnerNone
		inter.Holder = 0
		if inter.Kind != component.ObjectSpawnBox {
			expire(w, obj)
		}
	}
	if t, ok := ecs.Get(w, obj, component.TransformComponent.Kind()); ok {
		t.Parent = 0
		t.LocalOffset = mgl64.Vec3{}
	}
}

func detachFromHolder(w *ecs.World, obj, holder ecs.Entity) {
	if agent, ok := ecs.Get(w, holder, component.AgentComponent.Kind()); ok && ecs.Entity(agent.Held) == obj {
		agent.Held = 0
		if agent.Throw == component.ThrowHolding || agent.Throw == component.ThrowReadyToThrow {
			agent.Throw = component.ThrowIdle
		}
	}
	if hand, ok := ecs.Get(w, holder, component.HandComponent.Kind()); ok && ecs.Entity(hand.Attached) == obj {
		if grip, ok := ecs.Get(w, holder, component.GripComponent.Kind()); ok && grip.Joint != nil {
			grip.Joint.Disconnect()
		}
		hand.Attached = 0
	}
	free(w, obj)
}

func bodyOf(w *ecs.World, e ecs.Entity) component.Body {
	rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	if !ok {
		return nil
	}
	return rb.Body
}

func positionOf(w *ecs.World, e ecs.Entity) (mgl64.Vec3, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, false
	}
	return t.Position, true
}
