package entity

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/system"
)

// SpawnObject builds a free projectile from the catalog entry named
// template. It satisfies system.ObjectFactory.
func (f *Factory) SpawnObject(w *ecs.World, template string, pos mgl64.Vec3, rot mgl64.Quat) (ecs.Entity, error) {
	spec, err := f.Catalog.Find(template)
	if err != nil {
		return 0, err
	}
	if rot.Len() == 0 {
		rot = mgl64.QuatIdent()
	}

	return build(w, "projectile "+template,
		add(w, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: rot}, "transform"),
		func(e ecs.Entity) error {
			body := f.newBody(e, system.BodySpec{Role: system.RoleObject, Radius: spec.Radius, Mass: spec.Mass, Position: pos})
			return add(w, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body, Radius: spec.Radius, Mass: spec.Mass}, "rigid body")(e)
		},
		add(w, component.InteractableComponent.Kind(), &component.Interactable{Kind: component.ObjectProjectile}, "interactable"),
		add(w, component.ProjectileComponent.Kind(), &component.Projectile{Template: spec.Name, HiddenSound: spec.HiddenSound}, "projectile"),
		add(w, component.OutlineComponent.Kind(), &component.Outline{Color: color.White}, "outline"),
	)
}
