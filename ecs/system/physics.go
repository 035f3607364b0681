package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/rs/zerolog"
)

const (
	collisionTypeObject cp.CollisionType = iota + 1
	collisionTypeHand
	collisionTypeAgent
	collisionTypeRig
)

// Fraction of velocity a free body keeps after one second.
const defaultDamping = 0.4

// BodyRole picks the collision behavior of a new body.
type BodyRole int

const (
	// RoleObject is a solid interactable.
	RoleObject BodyRole = iota
	// RoleAgent is a solid agent or ragdoll segment that can be struck.
	RoleAgent
	// RoleHand is a kinematic anchor with a trigger volume for pickups.
	RoleHand
	// RoleRig is the player's head volume.
	RoleRig
)

// BodySpec describes a body to create.
type BodySpec struct {
	Role      BodyRole
	Radius    float64
	Mass      float64
	Position  mgl64.Vec3
	Kinematic bool
}

type bodyInfo struct {
	bodies []*cpBody
	joints []*cpJoint
}

// PhysicsSystem owns the chipmunk space. Kinematic bodies follow their
// Transform; dynamic bodies write their pose back into it.
type PhysicsSystem struct {
	log   zerolog.Logger
	space *cp.Space
	world *ecs.World

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
}

func NewPhysicsSystem(log zerolog.Logger) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetDamping(defaultDamping)

	ps := &PhysicsSystem{
		log:      log.With().Str("system", "physics").Logger(),
		space:    space,
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
	}
	ps.ensureHandlers()
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Update does nothing; the space advances in FixedUpdate.
func (ps *PhysicsSystem) Update(*ecs.World) {}

// NewBody creates a body owned by e and adds it to the space. It is removed
// once e dies.
func (ps *PhysicsSystem) NewBody(e ecs.Entity, spec BodySpec) component.Body {
	radius := spec.Radius
	kinematic := spec.Kinematic
	if spec.Role == RoleHand || spec.Role == RoleRig {
		kinematic = true
	}

	b := newCPBody(radius, spec.Mass, spec.Position, kinematic)
	ps.space.AddBody(b.body)
	if b.shape != nil {
		switch spec.Role {
		case RoleHand:
			b.shape.SetSensor(true)
			b.shape.SetCollisionType(collisionTypeHand)
		case RoleRig:
			b.shape.SetSensor(true)
			b.shape.SetCollisionType(collisionTypeRig)
		case RoleAgent:
			b.shape.SetCollisionType(collisionTypeAgent)
		default:
			b.shape.SetCollisionType(collisionTypeObject)
		}
		ps.space.AddShape(b.shape)
		ps.shapes[b.shape] = e
	}

	ps.info(e).bodies = append(ps.info(e).bodies, b)
	return b
}

// NewJoint returns an empty joint anchored on a body created by NewBody.
func (ps *PhysicsSystem) NewJoint(e ecs.Entity, anchor component.Body) (component.Joint, error) {
	a, ok := anchor.(*cpBody)
	if !ok || a == nil {
		return nil, errForeignBody
	}
	j := &cpJoint{space: ps.space, anchor: a}
	ps.info(e).joints = append(ps.info(e).joints, j)
	return j, nil
}

func (ps *PhysicsSystem) info(e ecs.Entity) *bodyInfo {
	info, ok := ps.entities[e]
	if !ok {
		info = &bodyInfo{}
		ps.entities[e] = info
	}
	return info
}

func (ps *PhysicsSystem) FixedUpdate(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	step := w.FixedDelta()
	if step <= 0 {
		return
	}

	ps.cleanupEntities(w)
	ps.followParents(w)
	ps.followRagdolls(w)
	ps.launchThrows(w)

	ps.world = w
	ps.space.Step(step)
	ps.world = nil

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) followParents(w *ecs.World) {
	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		if t.Parent != 0 {
			parent, ok := ecs.Get(w, ecs.Entity(t.Parent), component.TransformComponent.Kind())
			if !ok {
				t.Parent = 0
				if body := bodyOf(w, e); body != nil {
					body.SetKinematic(false)
				}
				return
			}
			rot := parent.Rotation
			if rot.Len() == 0 {
				rot = mgl64.QuatIdent()
			}
			t.Position = parent.Position.Add(rot.Rotate(t.LocalOffset))
			t.Rotation = rot
		}

		if body := bodyOf(w, e); body != nil && body.Kinematic() {
			body.SetPosition(t.Position)
		}
	})
}

func (ps *PhysicsSystem) followRagdolls(w *ecs.World) {
	ecs.ForEach2(w, component.RagdollComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, r *component.Ragdoll, t *component.Transform) {
		rot := t.Rotation
		if rot.Len() == 0 {
			rot = mgl64.QuatIdent()
		}
		for i, part := range r.Parts {
			if part == nil || !part.Kinematic() {
				continue
			}
			var offset mgl64.Vec3
			if i < len(r.Offsets) {
				offset = r.Offsets[i]
			}
			part.SetPosition(t.Position.Add(rot.Rotate(offset)))
		}
	})
}

// launchThrows turns pending ThrowParameters into a launch velocity along
// the ground plane.
func (ps *PhysicsSystem) launchThrows(w *ecs.World) {
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, p *component.Projectile, rb *component.RigidBody) {
		if p.Throw == nil || rb.Body == nil || rb.Body.Kinematic() {
			return
		}
		throw := *p.Throw
		p.Throw = nil

		dir := common.Horizontal(throw.Origin, throw.Target)
		if dir.Len() == 0 {
			return
		}
		rb.Body.SetPosition(throw.Origin)
		rb.Body.SetVelocity(dir.Normalize().Mul(throw.Power))
		ps.log.Debug().Stringer("entity", e).Float64("power", throw.Power).Msg("launch")
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.RigidBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, rb *component.RigidBody, t *component.Transform) {
		if rb.Body == nil || rb.Body.Kinematic() || t.Parent != 0 {
			return
		}
		t.Position = rb.Body.Position()
		if b, ok := rb.Body.(*cpBody); ok {
			t.Rotation = b.Yaw()
		}
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) {
			continue
		}
		for _, j := range info.joints {
			j.Disconnect()
		}
		for _, b := range info.bodies {
			ps.removeBody(b)
		}
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) removeBody(b *cpBody) {
	for _, info := range ps.entities {
		for _, j := range info.joints {
			if j.connected == b {
				j.Disconnect()
			}
		}
	}
	if b.shape != nil {
		ps.space.RemoveShape(b.shape)
		delete(ps.shapes, b.shape)
	}
	ps.space.RemoveBody(b.body)
}

func (ps *PhysicsSystem) ensureHandlers() {
	hands := ps.space.NewCollisionHandler(collisionTypeHand, collisionTypeObject)
	hands.UserData = ps
	hands.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys.world == nil {
			return true
		}
		hand, obj, ok := sys.pair(arb)
		if ok {
			sys.world.Events().Push(ecs.Event{Type: ecs.EventProximity, Data: ecs.ProximityEvent{Hand: hand, Object: obj, Phase: ecs.ProximityEnter}})
		}
		return true
	}
	hands.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys.world == nil {
			return
		}
		hand, obj, ok := sys.pair(arb)
		if ok {
			sys.world.Events().Push(ecs.Event{Type: ecs.EventProximity, Data: ecs.ProximityEvent{Hand: hand, Object: obj, Phase: ecs.ProximityExit}})
		}
	}

	agents := ps.space.NewCollisionHandler(collisionTypeAgent, collisionTypeObject)
	agents.UserData = ps
	agents.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys.world == nil {
			return true
		}
		agent, obj, ok := sys.pair(arb)
		if ok {
			StrikeAgent(sys.world, agent, obj)
		}
		return true
	}

	rig := ps.space.NewCollisionHandler(collisionTypeRig, collisionTypeObject)
	rig.UserData = ps
	rig.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys.world == nil {
			return true
		}
		_, obj, ok := sys.pair(arb)
		if ok {
			StrikePlayer(sys.world, obj)
		}
		return true
	}
}

// pair resolves the entities behind an arbiter in handler order.
func (ps *PhysicsSystem) pair(arb *cp.Arbiter) (ecs.Entity, ecs.Entity, bool) {
	shapeA, shapeB := arb.Shapes()
	a, okA := ps.shapes[shapeA]
	b, okB := ps.shapes[shapeB]
	return a, b, okA && okB
}

// StrikeAgent marks agent as hit when obj is a free projectile the player
// threw.
func StrikeAgent(w *ecs.World, agent, obj ecs.Entity) bool {
	a, ok := ecs.Get(w, agent, component.AgentComponent.Kind())
	if !ok {
		return false
	}
	proj, ok := ecs.Get(w, obj, component.ProjectileComponent.Kind())
	if !ok || !proj.PlayerThrown {
		return false
	}
	if inter, ok := ecs.Get(w, obj, component.InteractableComponent.Kind()); ok && inter.Owner != component.OwnerNone {
		return false
	}
	a.IsHit = true
	return true
}

// StrikePlayer starts hit feedback on every hand when obj is a free
// projectile an enemy threw.
func StrikePlayer(w *ecs.World, obj ecs.Entity) bool {
	proj, ok := ecs.Get(w, obj, component.ProjectileComponent.Kind())
	if !ok || !proj.EnemyThrown {
		return false
	}
	if inter, ok := ecs.Get(w, obj, component.InteractableComponent.Kind()); ok && inter.Owner != component.OwnerNone {
		return false
	}
	ecs.ForEach(w, component.HandComponent.Kind(), func(_ ecs.Entity, hand *component.Hand) {
		hand.SetHit(true)
	})
	return true
}
