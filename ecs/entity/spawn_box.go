package entity

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/system"
	"github.com/milk9111/foodfight/prefabs"
)

const spawnBoxRadius = 0.2

// NewSpawnBox places a box offering spec.Current. Random boxes draw from
// the projectile catalog; the others cycle spec.Weapons.
func (f *Factory) NewSpawnBox(w *ecs.World, spec prefabs.SpawnBoxSpec) (ecs.Entity, error) {
	pos := spec.Position.Vec3()
	box := &component.SpawnBox{
		Current:       spec.Current,
		UseRandomPool: spec.UseRandomPool,
		RandomPool:    f.Catalog.Names(),
		WeaponList:    append([]string(nil), spec.Weapons...),
		ChangeDelay:   spec.ChangeDelay,
	}
	if box.Current == "" {
		if pool := box.Pool(); len(pool) > 0 {
			box.Current = pool[0]
		}
	}

	return build(w, "spawn box",
		add(w, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, "transform"),
		add(w, component.InteractableComponent.Kind(), &component.Interactable{Kind: component.ObjectSpawnBox}, "interactable"),
		add(w, component.SpawnBoxComponent.Kind(), box, "spawn box"),
		add(w, component.OutlineComponent.Kind(), &component.Outline{Color: color.White}, "outline"),
		func(e ecs.Entity) error {
			body := f.newBody(e, system.BodySpec{Role: system.RoleObject, Radius: spawnBoxRadius, Position: pos, Kinematic: true})
			return add(w, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body, Radius: spawnBoxRadius}, "rigid body")(e)
		},
	)
}
