package entity

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/system"
	"github.com/milk9111/foodfight/prefabs"
)

// NewAgent spawns an enemy at pos that walks to destination (0 to stand
// still) and throws weapon. Throw delay and power are sampled here, once.
func (f *Factory) NewAgent(w *ecs.World, pos mgl64.Vec3, destination ecs.Entity, weapon string) (ecs.Entity, error) {
	if f == nil || f.Agent == nil {
		return 0, errors.New("agent: no agent prefab loaded")
	}
	if weapon == "" {
		return 0, &system.ConfigurationError{Field: "weapon", Err: system.ErrNoWeapon}
	}
	if _, err := f.Catalog.Find(weapon); err != nil {
		return 0, &system.ConfigurationError{Field: "weapon", Err: err}
	}
	if len(ecs.All(w, component.AimMarkerTagComponent.Kind())) == 0 {
		return 0, &system.ConfigurationError{Field: "aim markers", Err: system.ErrNoAimMarkers}
	}

	spec := f.Agent
	sounds, err := f.hitSounds(spec)
	if err != nil {
		return 0, fmt.Errorf("agent: %w", err)
	}

	nav := &component.Navigation{Speed: spec.Nav.Speed, StoppingDistance: spec.Nav.StoppingDistance}
	anim := &component.Animation{Clips: animationClips(spec.Animation)}

	agent := &component.Agent{
		Config: component.AgentConfig{
			TurnSpeed:     spec.TurnSpeed,
			FaceRange:     spec.FaceRange,
			ThrowDelayMin: spec.ThrowDelay.Min,
			ThrowDelayMax: spec.ThrowDelay.Max,
			PowerMin:      spec.Power.Min,
			PowerMax:      spec.Power.Max,
			DeleteDelay:   spec.DeleteDelay,
			Volume:        spec.Volume,
			HitSounds:     sounds.Names,
		},
		ThrowDelay: common.RandomRange(f.rng, spec.ThrowDelay.Min, spec.ThrowDelay.Max),
		Power:      common.RandomRange(f.rng, spec.Power.Min, spec.Power.Max),
		Weapon:     weapon,
		Target:     uint64(destination),
	}

	e, err := build(w, "agent",
		add(w, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, "transform"),
		add(w, component.AgentComponent.Kind(), agent, "agent"),
		add(w, component.NavigationComponent.Kind(), nav, "navigation"),
		add(w, component.AnimationComponent.Kind(), anim, "animation"),
		add(w, component.AudioComponent.Kind(), sounds, "audio"),
		add(w, component.AgentRigComponent.Kind(), &component.AgentRig{Nav: nav, Animator: anim, Sounds: sounds}, "rig"),
		func(e ecs.Entity) error {
			body := f.newBody(e, system.BodySpec{Role: system.RoleAgent, Radius: spec.Radius, Mass: spec.Mass, Position: pos, Kinematic: true})
			return add(w, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body, Radius: spec.Radius, Mass: spec.Mass}, "rigid body")(e)
		},
		func(e ecs.Entity) error {
			return add(w, component.RagdollComponent.Kind(), f.ragdoll(e, pos, spec.Ragdoll), "ragdoll")(e)
		},
	)
	if err != nil {
		return 0, err
	}

	hand, err := newHandAnchor(w, e, spec.HandOffset.Vec3())
	if err != nil {
		w.DestroyEntity(e)
		return 0, fmt.Errorf("agent: %w", err)
	}
	agent.Hand = uint64(hand)
	return e, nil
}

func (f *Factory) ragdoll(e ecs.Entity, pos mgl64.Vec3, parts []prefabs.RagdollPartSpec) *component.Ragdoll {
	r := &component.Ragdoll{}
	for _, part := range parts {
		offset := part.Offset.Vec3()
		body := f.newBody(e, system.BodySpec{Role: system.RoleAgent, Radius: part.Radius, Mass: part.Mass, Position: pos.Add(offset), Kinematic: true})
		if body == nil {
			continue
		}
		r.Parts = append(r.Parts, body)
		r.Offsets = append(r.Offsets, offset)
	}
	return r
}

func (f *Factory) hitSounds(spec *prefabs.AgentSpec) (*component.Audio, error) {
	clips := make([]prefabs.AudioSpec, 0, len(spec.HitSounds))
	for _, clip := range spec.HitSounds {
		if clip.Volume == 0 {
			clip.Volume = spec.Volume
		}
		clips = append(clips, clip)
	}
	return buildAudioComponent(clips, f.sounds)
}

func animationClips(specs map[string]prefabs.AnimationClipSpec) map[string]component.AnimationClip {
	clips := make(map[string]component.AnimationClip, len(specs))
	for name, spec := range specs {
		clip := component.AnimationClip{Duration: spec.Duration}
		for _, m := range spec.Markers {
			clip.Markers = append(clip.Markers, component.AnimationMarker{At: m.At, Name: m.Name})
		}
		clips[name] = clip
	}
	return clips
}

// newHandAnchor adds the bone held projectiles are parented to.
func newHandAnchor(w *ecs.World, agent ecs.Entity, offset mgl64.Vec3) (ecs.Entity, error) {
	pos := offset
	if t, ok := ecs.Get(w, agent, component.TransformComponent.Kind()); ok {
		pos = t.Position.Add(t.Rotation.Rotate(offset))
	}
	return build(w, "hand anchor",
		add(w, component.TransformComponent.Kind(), &component.Transform{
			Position:    pos,
			Rotation:    mgl64.QuatIdent(),
			Parent:      uint64(agent),
			LocalOffset: offset,
		}, "transform"),
		add(w, component.HandAnchorTagComponent.Kind(), &component.HandAnchorTag{}, "tag"),
	)
}
