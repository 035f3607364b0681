package system

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/match"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
)

// ReleaseAngularFactor damps controller spin when an object is let go.
const ReleaseAngularFactor = 0.25

// Outline palette slots.
const (
	OutlineIdle = iota
	OutlineMissed
	OutlineAvailable
)

// DefaultOutlinePalette is white, red and green.
var DefaultOutlinePalette = [3]color.Color{colornames.White, colornames.Red, colornames.Lime}

// ExitPolicy decides what a proximity exit does to the tracked object.
type ExitPolicy int

const (
	// ExitClearsTracked forgets the tracked object on any exit.
	ExitClearsTracked ExitPolicy = iota
	// ExitClearsMatching forgets it only when the exiting object is the
	// tracked one.
	ExitClearsMatching
)

// HandSystem drives the player's hands: proximity tracking, grab and
// release, the release velocity on the following physics step, hit
// rumble and music cues.
type HandSystem struct {
	log     zerolog.Logger
	match   *match.State
	objects ObjectFactory

	Palette    [3]color.Color
	ExitPolicy ExitPolicy
}

func NewHandSystem(state *match.State, objects ObjectFactory, log zerolog.Logger) *HandSystem {
	return &HandSystem{
		log:     log.With().Str("system", "hand").Logger(),
		match:   state,
		objects: objects,
		Palette: DefaultOutlinePalette,
	}
}

func (s *HandSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.handleProximity(w)

	dt := w.Delta()
	ecs.ForEach2(w, component.HandComponent.Kind(), component.ControllerInputComponent.Kind(), func(e ecs.Entity, hand *component.Hand, input *component.ControllerInput) {
		grip, _ := ecs.Get(w, e, component.GripComponent.Kind())
		if grip == nil {
			grip = &component.Grip{}
		}

		if hand.Hit() {
			if grip.Haptics != nil {
				grip.Haptics.Pulse(hand.HapticStrength)
			}
			hand.RumbleElapsed.Advance(dt)
			if hand.RumbleElapsed.Exceeded(hand.RumbleDelay) {
				hand.ClearHit()
			}
		}

		if !input.Ready {
			s.log.Debug().Err(ErrControllerNotReady).Stringer("hand", e).Msg("skip input")
			return
		}

		if input.MenuDown && s.match != nil {
			s.match.RequestPause()
		}
		if input.GrabDown {
			s.grab(w, e, hand, grip)
		}
		if input.GrabUp {
			s.release(w, e, hand, grip)
		}

		s.reconcileMusic(w, hand)
	})
}

// FixedUpdate applies the release velocity to whatever a hand let go of on
// the previous frame.
func (s *HandSystem) FixedUpdate(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.HandComponent.Kind(), component.ControllerInputComponent.Kind(), func(e ecs.Entity, hand *component.Hand, input *component.ControllerInput) {
		if !hand.Throwing {
			return
		}
		velocity, angular := ReleaseVelocity(input)
		if body := hand.Released; body != nil {
			body.SetVelocity(velocity)
			body.SetAngularVelocity(angular)
			body.SetMaxAngularVelocity(angular.Len())
		}
		if s.match != nil {
			s.match.ItemThrown()
		}
		hand.Throwing = false
		hand.Released = nil
		s.log.Debug().Stringer("hand", e).Float64("speed", velocity.Len()).Msg("object released")
	})
}

// ReleaseVelocity maps controller velocities into tracking space. Without a
// tracking origin the raw values are used. Angular velocity is damped by
// ReleaseAngularFactor.
func ReleaseVelocity(input *component.ControllerInput) (mgl64.Vec3, mgl64.Vec3) {
	if input == nil {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	velocity := input.Velocity
	angular := input.AngularVelocity.Mul(ReleaseAngularFactor)
	if input.Origin != nil {
		velocity = transformVector(*input.Origin, velocity)
		angular = transformVector(*input.Origin, angular)
	}
	return velocity, angular
}

func transformVector(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

func (s *HandSystem) handleProximity(w *ecs.World) {
	for _, evt := range w.Events().Take(ecs.EventProximity) {
		pe, ok := evt.Data.(ecs.ProximityEvent)
		if !ok {
			continue
		}
		hand, ok := ecs.Get(w, pe.Hand, component.HandComponent.Kind())
		if !ok {
			continue
		}
		inter, ok := ecs.Get(w, pe.Object, component.InteractableComponent.Kind())
		if !ok {
			continue
		}

		switch pe.Phase {
		case ecs.ProximityEnter:
			hand.Tracked = uint64(pe.Object)
			if inter.Kind != component.ObjectSpawnBox {
				s.outline(w, pe.Object, OutlineAvailable)
			}
		case ecs.ProximityExit:
			if inter.Kind != component.ObjectSpawnBox {
				slot := OutlineIdle
				if proj, ok := ecs.Get(w, pe.Object, component.ProjectileComponent.Kind()); ok && proj.EnemyThrown {
					slot = OutlineMissed
				}
				s.outline(w, pe.Object, slot)
			}
			if s.ExitPolicy == ExitClearsTracked || hand.Tracked == uint64(pe.Object) {
				hand.Tracked = 0
			}
		}
	}
}

func (s *HandSystem) outline(w *ecs.World, obj ecs.Entity, slot int) {
	o, ok := ecs.Get(w, obj, component.OutlineComponent.Kind())
	if !ok {
		return
	}
	o.SetOutline(s.Palette[slot])
}

func (s *HandSystem) grab(w *ecs.World, e ecs.Entity, hand *component.Hand, grip *component.Grip) {
	obj := ecs.Entity(hand.Tracked)
	if obj != 0 && !w.IsAlive(obj) {
		obj = 0
		hand.Tracked = 0
	}

	if obj != 0 {
		if inter, ok := ecs.Get(w, obj, component.InteractableComponent.Kind()); ok && inter.Kind == component.ObjectSpawnBox {
			clone, err := s.cloneFromSpawnBox(w, e, obj)
			if err != nil {
				s.log.Warn().Err(err).Stringer("hand", e).Stringer("spawn_box", obj).Msg("spawn box grab")
				return
			}
			obj = clone
			hand.Tracked = uint64(clone)
		}
	}

	s.pickUp(w, e, hand, grip, obj)
}

func (s *HandSystem) cloneFromSpawnBox(w *ecs.World, e, box ecs.Entity) (ecs.Entity, error) {
	sb, ok := ecs.Get(w, box, component.SpawnBoxComponent.Kind())
	if !ok || sb.Current == "" {
		return 0, configError(box, "current", ErrNoWeapon)
	}
	if s.objects == nil {
		return 0, configError(box, "factory", ErrNoWeapon)
	}
	pos, _ := positionOf(w, box)
	if handPos, ok := positionOf(w, e); ok {
		pos = handPos
	}
	clone, err := s.objects.SpawnObject(w, sb.Current, pos, mgl64.QuatIdent())
	if err != nil {
		return 0, err
	}
	if body := bodyOf(w, clone); body != nil {
		body.SetKinematic(false)
	}
	return clone, nil
}

func (s *HandSystem) pickUp(w *ecs.World, e ecs.Entity, hand *component.Hand, grip *component.Grip, obj ecs.Entity) {
	if prev := ecs.Entity(hand.Attached); prev != 0 && prev != obj {
		if grip.Joint != nil {
			grip.Joint.Disconnect()
		}
		if w.IsAlive(prev) {
			free(w, prev)
		}
		hand.Attached = 0
	}

	if obj == 0 {
		if grip.Joint != nil {
			grip.Joint.Disconnect()
		}
		return
	}

	body := bodyOf(w, obj)
	if body == nil {
		s.log.Debug().Stringer("hand", e).Stringer("object", obj).Msg("tracked object has no body")
		return
	}

	possess(w, obj, e, component.OwnerPlayer)
	body.SetKinematic(false)
	if grip.Joint != nil {
		if err := grip.Joint.Connect(body); err != nil {
			s.log.Warn().Err(err).Stringer("hand", e).Msg("attach")
			free(w, obj)
			return
		}
	}
	hand.Attached = uint64(obj)
	hand.Throwing = false
}

func (s *HandSystem) release(w *ecs.World, e ecs.Entity, hand *component.Hand, grip *component.Grip) {
	if grip.Joint == nil || grip.Joint.Connected() == nil {
		return
	}

	hand.Released = grip.Joint.Connected()
	grip.Joint.Disconnect()
	hand.Throwing = true

	obj := ecs.Entity(hand.Attached)
	if obj != 0 && w.IsAlive(obj) {
		free(w, obj)
		if proj, ok := ecs.Get(w, obj, component.ProjectileComponent.Kind()); ok && proj.HiddenSound != "" && s.match != nil {
			if alt, ok := s.match.AlternateMusic(); ok {
				s.match.SetMusic(alt)
			}
		}
	}
	hand.Attached = 0
	hand.Tracked = 0
}

func (s *HandSystem) reconcileMusic(w *ecs.World, hand *component.Hand) {
	if s.match == nil {
		return
	}
	obj := ecs.Entity(hand.Tracked)
	if obj == 0 || !w.IsAlive(obj) {
		return
	}
	if inter, ok := ecs.Get(w, obj, component.InteractableComponent.Kind()); !ok || inter.Kind == component.ObjectSpawnBox {
		return
	}

	proj, _ := ecs.Get(w, obj, component.ProjectileComponent.Kind())
	music := s.match.Music
	if proj != nil && proj.HiddenSound != "" {
		if music.Current != proj.HiddenSound {
			s.match.SetMusic(proj.HiddenSound)
		}
		return
	}
	if music.Current != music.Default {
		s.match.SetMusic(music.Default)
	}
}
