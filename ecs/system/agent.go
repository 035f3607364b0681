package system

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/match"
	"github.com/rs/zerolog"
)

// Animation parameters and events shared with the agent animator.
const (
	TriggerIsThrowing = "isThrowing"
	TriggerHasThrown  = "hasThrown"
	BoolIsMoving      = "isMoving"

	AnimationEventThrowObject = "ThrowObject"
)

// AgentSystem runs the enemy loop: walk to a destination, turn toward the
// player rig, hold and throw projectiles, and fall apart once hit.
type AgentSystem struct {
	log     zerolog.Logger
	match   *match.State
	objects ObjectFactory
	rng     *rand.Rand
}

func NewAgentSystem(state *match.State, objects ObjectFactory, rng *rand.Rand, log zerolog.Logger) *AgentSystem {
	if rng == nil {
		rng = common.NewRand(1)
	}
	return &AgentSystem{
		log:     log.With().Str("system", "agent").Logger(),
		match:   state,
		objects: objects,
		rng:     rng,
	}
}

func (s *AgentSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, evt := range w.Events().Take(ecs.EventAnimation) {
		ae, ok := evt.Data.(ecs.AnimationEvent)
		if !ok || ae.Name != AnimationEventThrowObject {
			continue
		}
		if err := s.ThrowObject(w, ae.Entity); err != nil {
			s.log.Warn().Err(err).Stringer("entity", ae.Entity).Msg("throw object")
		}
	}

	dt := w.Delta()
	ecs.ForEach(w, component.AgentComponent.Kind(), func(e ecs.Entity, agent *component.Agent) {
		s.tick(w, e, agent, dt)
	})
}

// Validate checks that every agent can run. It fails on the first agent
// missing a target, weapon template or hand anchor, or when the scene has
// no aim markers.
func (s *AgentSystem) Validate(w *ecs.World) error {
	if len(ecs.All(w, component.AimMarkerTagComponent.Kind())) == 0 {
		return configError(0, "aim markers", ErrNoAimMarkers)
	}
	_, hasRig := ecs.First(w, component.PlayerRigTagComponent.Kind())
	var err error
	ecs.ForEach(w, component.AgentComponent.Kind(), func(e ecs.Entity, agent *component.Agent) {
		if err != nil {
			return
		}
		if !hasRig && !w.IsAlive(ecs.Entity(agent.Target)) {
			err = configError(e, "target", ErrNoTarget)
			return
		}
		err = validateAgent(w, e, agent)
	})
	return err
}

func validateAgent(w *ecs.World, e ecs.Entity, agent *component.Agent) error {
	if agent.Weapon == "" {
		return configError(e, "weapon", ErrNoWeapon)
	}
	if !w.IsAlive(ecs.Entity(agent.Hand)) {
		return configError(e, "hand", ErrNoHandAnchor)
	}
	return nil
}

func (s *AgentSystem) tick(w *ecs.World, e ecs.Entity, agent *component.Agent, dt float64) {
	rig, _ := ecs.Get(w, e, component.AgentRigComponent.Kind())
	if rig == nil {
		rig = &component.AgentRig{}
	}

	if agent.IsHit || agent.Life != component.LifeAlive {
		s.hitSequence(w, e, agent, rig, dt)
		return
	}

	if agent.Facing == component.FacingFacing {
		s.turnTowardTarget(w, e, agent, dt)
		if agent.FacingAchieved {
			s.throwCycle(w, e, agent, rig, dt)
		}
	} else {
		agent.FacingAchieved = false
	}

	if rig.Nav != nil {
		if dest := destination(w, e, agent); rig.Nav.Destination() != dest {
			rig.Nav.SetDestination(dest)
		}
		agent.Facing = NextFacing(rig.Nav.Enabled(), rig.Nav.RemainingDistance())
	} else {
		agent.Facing = component.FacingApproaching
	}
	if rig.Animator != nil {
		rig.Animator.SetBool(BoolIsMoving, agent.Facing == component.FacingApproaching)
	}
}

// NextFacing is the facing transition: an agent faces once navigation is
// enabled and reports no distance left.
func NextFacing(navEnabled bool, remaining float64) component.FacingState {
	if navEnabled && remaining == 0 {
		return component.FacingFacing
	}
	return component.FacingApproaching
}

// destination is where an agent walks: its Target, or where it already
// stands when it has none.
func destination(w *ecs.World, e ecs.Entity, agent *component.Agent) mgl64.Vec3 {
	if pos, ok := positionOf(w, ecs.Entity(agent.Target)); ok {
		return pos
	}
	pos, _ := positionOf(w, e)
	return pos
}

// facingPoint is what an agent turns toward: the player rig, or its Target
// in scenes without one.
func facingPoint(w *ecs.World, agent *component.Agent) (mgl64.Vec3, bool) {
	if rig, ok := ecs.First(w, component.PlayerRigTagComponent.Kind()); ok {
		if pos, ok := positionOf(w, rig); ok {
			return pos, true
		}
	}
	return positionOf(w, ecs.Entity(agent.Target))
}

func (s *AgentSystem) turnTowardTarget(w *ecs.World, e ecs.Entity, agent *component.Agent, dt float64) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		agent.FacingAchieved = false
		return
	}
	target, ok := facingPoint(w, agent)
	if !ok {
		agent.FacingAchieved = false
		return
	}
	if t.Rotation.Len() == 0 {
		t.Rotation = mgl64.QuatIdent()
	}

	look := common.LookRotation(common.Horizontal(t.Position, target))
	t.Rotation = common.Nlerp(t.Rotation, look, agent.Config.TurnSpeed*dt)
	agent.FacingAchieved = common.FacingAchieved(common.Yaw(t.Rotation), common.Yaw(look), agent.Config.FaceRange)
}

func (s *AgentSystem) throwCycle(w *ecs.World, e ecs.Entity, agent *component.Agent, rig *component.AgentRig, dt float64) {
	if err := s.SpawnProjectile(w, e); err != nil {
		s.log.Debug().Err(err).Stringer("entity", e).Msg("spawn projectile")
		return
	}

	if agent.ThrowElapsed.Exceeded(agent.ThrowDelay) && agent.Throw == component.ThrowHolding {
		if rig.Animator != nil {
			rig.Animator.SetTrigger(TriggerIsThrowing)
		}
		agent.Throw = component.ThrowReadyToThrow
		agent.ThrowElapsed.Reset()
		return
	}
	agent.ThrowElapsed.Advance(dt)
}

// SpawnProjectile puts a fresh projectile in the agent's hand. It does
// nothing while one is already held.
func (s *AgentSystem) SpawnProjectile(w *ecs.World, e ecs.Entity) error {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return fmt.Errorf("agent: spawn projectile: %w", component.ErrEntityNotAlive)
	}
	if held := ecs.Entity(agent.Held); held != 0 && w.IsAlive(held) {
		return nil
	}
	agent.Held = 0
	if agent.Throw == component.ThrowHolding || agent.Throw == component.ThrowReadyToThrow {
		agent.Throw = component.ThrowIdle
	}

	if err := validateAgent(w, e, agent); err != nil {
		return err
	}
	if s.objects == nil {
		return fmt.Errorf("agent: spawn projectile: no object factory")
	}

	hand := ecs.Entity(agent.Hand)
	pos, _ := positionOf(w, hand)
	rot := mgl64.QuatIdent()
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && t.Rotation.Len() > 0 {
		rot = t.Rotation
	}

	obj, err := s.objects.SpawnObject(w, agent.Weapon, pos, rot)
	if err != nil {
		return fmt.Errorf("agent: spawn projectile %q: %w", agent.Weapon, err)
	}

	if t, ok := ecs.Get(w, obj, component.TransformComponent.Kind()); ok {
		t.Parent = uint64(hand)
		t.LocalOffset = mgl64.Vec3{}
	}
	if body := bodyOf(w, obj); body != nil {
		body.SetKinematic(true)
	}
	possess(w, obj, e, component.OwnerEnemy)

	agent.Held = uint64(obj)
	agent.Throw = component.ThrowHolding
	s.log.Debug().Stringer("entity", e).Stringer("projectile", obj).Str("weapon", agent.Weapon).Msg("projectile spawned")
	return nil
}

// ThrowObject releases the held projectile toward a random aim marker. It
// runs when the throw animation reaches its release point.
func (s *AgentSystem) ThrowObject(w *ecs.World, e ecs.Entity) error {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return fmt.Errorf("agent: throw: %w", component.ErrEntityNotAlive)
	}
	held := ecs.Entity(agent.Held)
	if held == 0 || !w.IsAlive(held) {
		return fmt.Errorf("agent %s: throw: %w", e, ErrNotHolding)
	}

	markers := ecs.All(w, component.AimMarkerTagComponent.Kind())
	if len(markers) == 0 {
		return configError(e, "aim markers", ErrNoAimMarkers)
	}
	target, _ := positionOf(w, markers[s.rng.Intn(len(markers))])
	origin, ok := positionOf(w, ecs.Entity(agent.Hand))
	if !ok {
		origin, _ = positionOf(w, held)
	}

	SetThrowingValues(w, held, origin, agent.Power, target)
	if body := bodyOf(w, held); body != nil {
		body.SetKinematic(false)
	}
	free(w, held)

	agent.Held = 0
	agent.Throw = component.ThrowThrown
	agent.ThrowElapsed.Reset()
	if rig, ok := ecs.Get(w, e, component.AgentRigComponent.Kind()); ok && rig.Animator != nil {
		rig.Animator.SetTrigger(TriggerHasThrown)
	}

	s.log.Debug().Stringer("entity", e).Stringer("projectile", held).Float64("power", agent.Power).Msg("projectile thrown")
	return nil
}

func (s *AgentSystem) hitSequence(w *ecs.World, e ecs.Entity, agent *component.Agent, rig *component.AgentRig, dt float64) {
	if agent.Life == component.LifeAlive {
		agent.Life = component.LifeHit
		s.playHitSound(agent, rig)
		if held := ecs.Entity(agent.Held); held != 0 && w.IsAlive(held) {
			if body := bodyOf(w, held); body != nil {
				body.SetKinematic(false)
			}
			free(w, held)
		}
		agent.Held = 0
		agent.Throw = component.ThrowIdle
		agent.Facing = component.FacingApproaching
		agent.FacingAchieved = false
		s.log.Debug().Stringer("entity", e).Msg("agent hit")
	}
	agent.IsHit = true

	if rig.Animator != nil {
		rig.Animator.SetEnabled(false)
	}
	if ragdoll, ok := ecs.Get(w, e, component.RagdollComponent.Kind()); ok {
		for _, part := range ragdoll.Parts {
			if part != nil {
				part.SetKinematic(false)
			}
		}
	}
	if rig.Nav != nil {
		rig.Nav.SetEnabled(false)
	}

	agent.DestroyElapsed.Advance(dt)
	if agent.Life != component.LifeHit || !agent.DestroyElapsed.Exceeded(agent.Config.DeleteDelay) {
		return
	}

	agent.Life = component.LifePendingDestroy
	if s.match != nil {
		s.match.EnemyDefeated()
	}
	if hand := ecs.Entity(agent.Hand); hand != 0 {
		w.DestroyEntity(hand)
	}
	w.DestroyEntity(e)
	s.log.Info().Stringer("entity", e).Msg("agent destroyed")
}

func (s *AgentSystem) playHitSound(agent *component.Agent, rig *component.AgentRig) {
	sounds := agent.Config.HitSounds
	if len(sounds) == 0 || rig.Sounds == nil {
		return
	}
	name := sounds[s.rng.Intn(len(sounds))]
	if !rig.Sounds.Request(name) {
		s.log.Debug().Str("sound", name).Msg("hit sound missing")
	}
}
