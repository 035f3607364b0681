package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/system"
	"github.com/milk9111/foodfight/prefabs"
)

// NewPlayerRig places the head volume agents turn toward and enemy throws
// strike.
func (f *Factory) NewPlayerRig(w *ecs.World, spec prefabs.RigSpec) (ecs.Entity, error) {
	pos := spec.Position.Vec3()
	return build(w, "player rig",
		add(w, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, "transform"),
		add(w, component.PlayerRigTagComponent.Kind(), &component.PlayerRigTag{}, "tag"),
		func(e ecs.Entity) error {
			body := f.newBody(e, system.BodySpec{Role: system.RoleRig, Radius: spec.Radius, Position: pos})
			return add(w, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body, Radius: spec.Radius}, "rigid body")(e)
		},
	)
}

// NewHand builds one controller parented to rig at offset. Its grip joint
// is anchored on the hand's own kinematic body.
func (f *Factory) NewHand(w *ecs.World, rig ecs.Entity, offset mgl64.Vec3, haptics component.Haptics) (ecs.Entity, error) {
	if f == nil || f.Hand == nil {
		return 0, fmt.Errorf("hand: no hand prefab loaded")
	}
	spec := f.Hand
	pos := offset
	if t, ok := ecs.Get(w, rig, component.TransformComponent.Kind()); ok {
		pos = t.Position.Add(offset)
	}

	return build(w, "hand",
		add(w, component.TransformComponent.Kind(), &component.Transform{
			Position:    pos,
			Rotation:    mgl64.QuatIdent(),
			Parent:      uint64(rig),
			LocalOffset: offset,
		}, "transform"),
		add(w, component.HandComponent.Kind(), &component.Hand{
			RumbleDelay:    spec.RumbleDelay,
			HapticStrength: spec.HapticStrength,
		}, "hand"),
		add(w, component.ControllerInputComponent.Kind(), &component.ControllerInput{}, "input"),
		func(e ecs.Entity) error {
			body := f.newBody(e, system.BodySpec{Role: system.RoleHand, Radius: spec.Radius, Position: pos})
			if err := add(w, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body, Radius: spec.Radius}, "rigid body")(e); err != nil {
				return err
			}
			grip := &component.Grip{Haptics: haptics}
			if body != nil {
				joint, err := f.bodies.NewJoint(e, body)
				if err != nil {
					return fmt.Errorf("grip joint: %w", err)
				}
				grip.Joint = joint
			}
			return add(w, component.GripComponent.Kind(), grip, "grip")(e)
		},
	)
}

// NewAimMarker places a point agents throw at.
func NewAimMarker(w *ecs.World, pos mgl64.Vec3) (ecs.Entity, error) {
	return build(w, "aim marker",
		add(w, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, "transform"),
		add(w, component.AimMarkerTagComponent.Kind(), &component.AimMarkerTag{}, "tag"),
	)
}

// NewWaypoint is a bare position agents can walk to.
func NewWaypoint(w *ecs.World, pos mgl64.Vec3) (ecs.Entity, error) {
	return build(w, "waypoint",
		add(w, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, "transform"),
	)
}
