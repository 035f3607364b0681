package system

import (
	"errors"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
)

type fakeBody struct {
	pos        mgl64.Vec3
	vel        mgl64.Vec3
	ang        mgl64.Vec3
	kinematic  bool
	maxAngular float64
}

func newFakeBody(kinematic bool) *fakeBody {
	return &fakeBody{kinematic: kinematic, maxAngular: math.Inf(1)}
}

func (b *fakeBody) Position() mgl64.Vec3              { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3)          { b.pos = p }
func (b *fakeBody) Kinematic() bool                   { return b.kinematic }
func (b *fakeBody) SetKinematic(k bool)               { b.kinematic = k }
func (b *fakeBody) Velocity() mgl64.Vec3              { return b.vel }
func (b *fakeBody) SetVelocity(v mgl64.Vec3)          { b.vel = v }
func (b *fakeBody) AngularVelocity() mgl64.Vec3       { return b.ang }
func (b *fakeBody) SetAngularVelocity(v mgl64.Vec3)   { b.ang = v }
func (b *fakeBody) MaxAngularVelocity() float64       { return b.maxAngular }
func (b *fakeBody) SetMaxAngularVelocity(max float64) { b.maxAngular = max }

type fakeJoint struct {
	connected   component.Body
	connects    int
	disconnects int
}

func (j *fakeJoint) Connect(b component.Body) error {
	j.connected = b
	j.connects++
	return nil
}

func (j *fakeJoint) Disconnect() {
	j.connected = nil
	j.disconnects++
}

func (j *fakeJoint) Connected() component.Body {
	if j.connected == nil {
		return nil
	}
	return j.connected
}

type fakeNav struct {
	dest      mgl64.Vec3
	disabled  bool
	remaining float64
	sets      int
}

func (n *fakeNav) SetDestination(p mgl64.Vec3) {
	n.dest = p
	n.sets++
}
func (n *fakeNav) Destination() mgl64.Vec3    { return n.dest }
func (n *fakeNav) Enabled() bool              { return !n.disabled }
func (n *fakeNav) SetEnabled(enabled bool)    { n.disabled = !enabled }
func (n *fakeNav) RemainingDistance() float64 { return n.remaining }

type fakeAnimator struct {
	triggers []string
	bools    map[string]bool
	disabled bool
}

func (a *fakeAnimator) SetTrigger(name string) { a.triggers = append(a.triggers, name) }
func (a *fakeAnimator) SetBool(name string, v bool) {
	if a.bools == nil {
		a.bools = make(map[string]bool)
	}
	a.bools[name] = v
}
func (a *fakeAnimator) Enabled() bool     { return !a.disabled }
func (a *fakeAnimator) SetEnabled(e bool) { a.disabled = !e }

func (a *fakeAnimator) count(name string) int {
	n := 0
	for _, t := range a.triggers {
		if t == name {
			n++
		}
	}
	return n
}

type fakeHaptics struct {
	pulses []uint16
}

func (h *fakeHaptics) Pulse(us uint16) { h.pulses = append(h.pulses, us) }

type fakePlayable struct {
	playing bool
	volume  float64
	plays   int
	pauses  int
	rewinds int
	err     error
}

func (p *fakePlayable) IsPlaying() bool { return p.playing }
func (p *fakePlayable) Play() {
	p.playing = true
	p.plays++
}
func (p *fakePlayable) Pause() {
	p.playing = false
	p.pauses++
}
func (p *fakePlayable) Rewind() error {
	p.rewinds++
	return p.err
}
func (p *fakePlayable) SetVolume(v float64) { p.volume = v }

// fakeFactory builds bare projectiles backed by fakeBody.
type fakeFactory struct {
	spawned []string
	hidden  map[string]string
	err     error
}

func (f *fakeFactory) SpawnObject(w *ecs.World, template string, pos mgl64.Vec3, rot mgl64.Quat) (ecs.Entity, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.spawned = append(f.spawned, template)
	e := ecs.CreateEntity(w)
	body := newFakeBody(false)
	body.pos = pos
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: rot})
	_ = ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Body: body, Radius: 0.1, Mass: 1})
	_ = ecs.Add(w, e, component.InteractableComponent.Kind(), &component.Interactable{Kind: component.ObjectProjectile})
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Template: template, HiddenSound: f.hidden[template]})
	_ = ecs.Add(w, e, component.OutlineComponent.Kind(), &component.Outline{})
	return e, nil
}

var errFactory = errors.New("factory failed")

func fakeBodyOf(w *ecs.World, e ecs.Entity) *fakeBody {
	rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	if !ok {
		return nil
	}
	b, _ := rb.Body.(*fakeBody)
	return b
}

func outlineOf(w *ecs.World, e ecs.Entity) color.Color {
	o, ok := ecs.Get(w, e, component.OutlineComponent.Kind())
	if !ok {
		return nil
	}
	return o.Color
}

func addAt(w *ecs.World, pos mgl64.Vec3) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: mgl64.QuatIdent()})
	return e
}
