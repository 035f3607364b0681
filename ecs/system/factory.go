package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
)

// ObjectFactory instantiates interactable objects from prefab templates.
// The returned entity carries Transform, RigidBody, Interactable and, for
// throwables, Projectile.
type ObjectFactory interface {
	SpawnObject(w *ecs.World, template string, pos mgl64.Vec3, rot mgl64.Quat) (ecs.Entity, error)
}

// ObjectFactoryFunc adapts a function to ObjectFactory.
type ObjectFactoryFunc func(w *ecs.World, template string, pos mgl64.Vec3, rot mgl64.Quat) (ecs.Entity, error)

func (f ObjectFactoryFunc) SpawnObject(w *ecs.World, template string, pos mgl64.Vec3, rot mgl64.Quat) (ecs.Entity, error) {
	return f(w, template, pos, rot)
}
