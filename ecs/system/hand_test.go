package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/match"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handFixture struct {
	w       *ecs.World
	sys     *HandSystem
	state   *match.State
	factory *fakeFactory

	hand    ecs.Entity
	joint   *fakeJoint
	haptics *fakeHaptics
}

func newHandFixture(t *testing.T) *handFixture {
	t.Helper()

	f := &handFixture{
		w:       ecs.NewWorld(),
		state:   match.New(match.WithMusic("theme", "secret_ingame", "secret_menu")),
		factory: &fakeFactory{hidden: map[string]string{"golden_egg": "egg_song"}},
		joint:   &fakeJoint{},
		haptics: &fakeHaptics{},
	}
	f.sys = NewHandSystem(f.state, f.factory, zerolog.Nop())

	f.hand = addAt(f.w, mgl64.Vec3{0, 1, 0})
	require.NoError(t, ecs.Add(f.w, f.hand, component.HandComponent.Kind(), &component.Hand{RumbleDelay: 1, HapticStrength: 2000}))
	require.NoError(t, ecs.Add(f.w, f.hand, component.GripComponent.Kind(), &component.Grip{Joint: f.joint, Haptics: f.haptics}))
	require.NoError(t, ecs.Add(f.w, f.hand, component.ControllerInputComponent.Kind(), &component.ControllerInput{Ready: true}))
	return f
}

func (f *handFixture) handState(t *testing.T) *component.Hand {
	t.Helper()
	h, ok := ecs.Get(f.w, f.hand, component.HandComponent.Kind())
	require.True(t, ok)
	return h
}

func (f *handFixture) input(t *testing.T) *component.ControllerInput {
	t.Helper()
	in, ok := ecs.Get(f.w, f.hand, component.ControllerInputComponent.Kind())
	require.True(t, ok)
	return in
}

func (f *handFixture) object(t *testing.T, template string) ecs.Entity {
	t.Helper()
	e, err := f.factory.SpawnObject(f.w, template, mgl64.Vec3{0, 1, 0.2}, mgl64.QuatIdent())
	require.NoError(t, err)
	return e
}

func (f *handFixture) proximity(obj ecs.Entity, phase ecs.ProximityPhase) {
	f.w.Events().Push(ecs.Event{Type: ecs.EventProximity, Data: ecs.ProximityEvent{Hand: f.hand, Object: obj, Phase: phase}})
}

func (f *handFixture) update(dt float64) {
	f.w.SetDelta(dt)
	f.sys.Update(f.w)
}

// press runs one frame with the given button edges and clears them again.
func (f *handFixture) press(t *testing.T, grabDown, grabUp bool) {
	t.Helper()
	in := f.input(t)
	in.GrabDown, in.GrabUp = grabDown, grabUp
	f.update(1.0 / 60)
	in.GrabDown, in.GrabUp = false, false
}

func TestHandProximityTracksLastEntered(t *testing.T) {
	f := newHandFixture(t)
	a := f.object(t, "apple")
	b := f.object(t, "banana")

	f.proximity(a, ecs.ProximityEnter)
	f.update(0.1)
	assert.Equal(t, uint64(a), f.handState(t).Tracked)
	assert.Equal(t, f.sys.Palette[OutlineAvailable], outlineOf(f.w, a))

	f.proximity(b, ecs.ProximityEnter)
	f.update(0.1)
	assert.Equal(t, uint64(b), f.handState(t).Tracked)
}

func TestHandProximityExitOfOtherObject(t *testing.T) {
	t.Run("clears tracked", func(t *testing.T) {
		f := newHandFixture(t)
		a := f.object(t, "apple")
		b := f.object(t, "banana")

		f.proximity(a, ecs.ProximityEnter)
		f.proximity(b, ecs.ProximityEnter)
		f.proximity(a, ecs.ProximityExit)
		f.update(0.1)

		// Any exit forgets the tracked object, even one that is still in range.
		assert.Zero(t, f.handState(t).Tracked)
	})
	t.Run("keeps tracked when matching only", func(t *testing.T) {
		f := newHandFixture(t)
		f.sys.ExitPolicy = ExitClearsMatching
		a := f.object(t, "apple")
		b := f.object(t, "banana")

		f.proximity(a, ecs.ProximityEnter)
		f.proximity(b, ecs.ProximityEnter)
		f.proximity(a, ecs.ProximityExit)
		f.update(0.1)
		assert.Equal(t, uint64(b), f.handState(t).Tracked)

		f.proximity(b, ecs.ProximityExit)
		f.update(0.1)
		assert.Zero(t, f.handState(t).Tracked)
	})
}

func TestHandProximityExitOutline(t *testing.T) {
	f := newHandFixture(t)
	plain := f.object(t, "apple")
	thrown := f.object(t, "apple")
	proj, _ := ecs.Get(f.w, thrown, component.ProjectileComponent.Kind())
	proj.MarkThrownBy(component.OwnerEnemy)

	f.proximity(plain, ecs.ProximityEnter)
	f.proximity(plain, ecs.ProximityExit)
	f.proximity(thrown, ecs.ProximityEnter)
	f.proximity(thrown, ecs.ProximityExit)
	f.update(0.1)

	assert.Equal(t, f.sys.Palette[OutlineIdle], outlineOf(f.w, plain))
	assert.Equal(t, f.sys.Palette[OutlineMissed], outlineOf(f.w, thrown))
	assert.NotEqual(t, f.sys.Palette[OutlineAvailable], outlineOf(f.w, thrown))
}

func TestHandGrabAndRelease(t *testing.T) {
	f := newHandFixture(t)
	obj := f.object(t, "apple")
	proj, _ := ecs.Get(f.w, obj, component.ProjectileComponent.Kind())
	proj.MarkThrownBy(component.OwnerEnemy)
	body := fakeBodyOf(f.w, obj)
	body.kinematic = true

	f.proximity(obj, ecs.ProximityEnter)
	f.press(t, true, false)

	h := f.handState(t)
	assert.Equal(t, uint64(obj), h.Attached)
	assert.Equal(t, component.Body(body), f.joint.Connected())
	assert.False(t, body.Kinematic())
	assert.False(t, h.Throwing)
	assert.True(t, proj.PlayerThrown)
	assert.False(t, proj.EnemyThrown)
	inter, _ := ecs.Get(f.w, obj, component.InteractableComponent.Kind())
	assert.Equal(t, component.OwnerPlayer, inter.Owner)
	assert.Equal(t, uint64(f.hand), inter.Holder)

	f.press(t, false, true)
	assert.Nil(t, f.joint.Connected())
	assert.True(t, h.Throwing)
	assert.Equal(t, component.Body(body), h.Released)
	assert.Zero(t, h.Tracked)
	assert.Zero(t, h.Attached)
	assert.Equal(t, component.OwnerNone, inter.Owner)
	assert.True(t, proj.PlayerThrown)
}

func TestHandGrabWithNothingTracked(t *testing.T) {
	f := newHandFixture(t)
	f.press(t, true, false)

	assert.Equal(t, 1, f.joint.disconnects)
	assert.Zero(t, f.handState(t).Attached)
}

func TestHandGrabSpawnBoxSubstitutesClone(t *testing.T) {
	f := newHandFixture(t)
	box := addAt(f.w, mgl64.Vec3{0, 1, 0.3})
	require.NoError(t, ecs.Add(f.w, box, component.InteractableComponent.Kind(), &component.Interactable{Kind: component.ObjectSpawnBox}))
	require.NoError(t, ecs.Add(f.w, box, component.SpawnBoxComponent.Kind(), &component.SpawnBox{Current: "pie"}))
	require.NoError(t, ecs.Add(f.w, box, component.OutlineComponent.Kind(), &component.Outline{}))

	f.proximity(box, ecs.ProximityEnter)
	f.press(t, true, false)

	require.Equal(t, []string{"pie"}, f.factory.spawned)
	h := f.handState(t)
	clone := ecs.Entity(h.Attached)
	require.NotZero(t, clone)
	assert.NotEqual(t, box, clone)
	assert.Equal(t, uint64(clone), h.Tracked)
	assert.True(t, f.w.IsAlive(box))
	assert.Nil(t, outlineOf(f.w, box))

	proj, _ := ecs.Get(f.w, clone, component.ProjectileComponent.Kind())
	assert.True(t, proj.PlayerThrown)
	assert.False(t, fakeBodyOf(f.w, clone).Kinematic())
}

func TestHandCatchesFromEnemy(t *testing.T) {
	f := newHandFixture(t)
	w := f.w
	agent := addAt(w, mgl64.Vec3{0, 0, 2})
	obj := f.object(t, "apple")
	require.NoError(t, ecs.Add(w, agent, component.AgentComponent.Kind(), &component.Agent{Held: uint64(obj), Throw: component.ThrowHolding}))
	possess(w, obj, agent, component.OwnerEnemy)

	f.proximity(obj, ecs.ProximityEnter)
	f.press(t, true, false)

	a, _ := ecs.Get(w, agent, component.AgentComponent.Kind())
	assert.Zero(t, a.Held)
	assert.Equal(t, component.ThrowIdle, a.Throw)
	inter, _ := ecs.Get(w, obj, component.InteractableComponent.Kind())
	assert.Equal(t, component.OwnerPlayer, inter.Owner)
	proj, _ := ecs.Get(w, obj, component.ProjectileComponent.Kind())
	assert.True(t, proj.PlayerThrown)
	assert.False(t, proj.EnemyThrown)
}

func TestHandReleaseVelocity(t *testing.T) {
	f := newHandFixture(t)
	obj := f.object(t, "apple")
	body := fakeBodyOf(f.w, obj)

	f.proximity(obj, ecs.ProximityEnter)
	f.press(t, true, false)
	in := f.input(t)
	in.Velocity = mgl64.Vec3{1, 0, 0}
	in.AngularVelocity = mgl64.Vec3{0, 8, 4}
	f.press(t, false, true)

	f.w.SetFixedDelta(1.0 / 60)
	f.sys.FixedUpdate(f.w)

	assert.Equal(t, mgl64.Vec3{1, 0, 0}, body.Velocity())
	assert.Equal(t, mgl64.Vec3{0, 2, 1}, body.AngularVelocity())
	assert.InDelta(t, mgl64.Vec3{0, 2, 1}.Len(), body.MaxAngularVelocity(), 1e-12)
	assert.Equal(t, 1, f.state.ItemsThrown)

	h := f.handState(t)
	assert.False(t, h.Throwing)
	assert.Nil(t, h.Released)

	// Only the step right after the release applies velocity.
	f.sys.FixedUpdate(f.w)
	assert.Equal(t, 1, f.state.ItemsThrown)
}

func TestReleaseVelocityWithOrigin(t *testing.T) {
	origin := mgl64.HomogRotate3DY(mgl64.DegToRad(90)).Mul4(mgl64.Translate3D(5, 0, 5))
	in := &component.ControllerInput{
		Velocity:        mgl64.Vec3{0, 0, 1},
		AngularVelocity: mgl64.Vec3{4, 0, 0},
		Origin:          &origin,
	}

	v, w := ReleaseVelocity(in)

	// Translation must not leak into directions.
	assert.InDelta(t, 1, v.X(), 1e-9)
	assert.InDelta(t, 0, v.Y(), 1e-9)
	assert.InDelta(t, 0, v.Z(), 1e-9)
	assert.InDelta(t, 0, w.X(), 1e-9)
	assert.InDelta(t, -1, w.Z(), 1e-9)
}

func TestHandHitRumble(t *testing.T) {
	f := newHandFixture(t)
	h := f.handState(t)

	h.SetHit(true)
	f.update(0.4)
	f.update(0.4)
	assert.Equal(t, []uint16{2000, 2000}, f.haptics.pulses)
	assert.InDelta(t, 0.8, h.RumbleElapsed.Elapsed(), 1e-12)

	// Re-arming while active keeps the running countdown.
	h.SetHit(true)
	assert.InDelta(t, 0.8, h.RumbleElapsed.Elapsed(), 1e-12)

	f.update(0.4)
	assert.False(t, h.Hit())
	assert.Equal(t, 0.0, h.RumbleElapsed.Elapsed())

	f.update(0.4)
	assert.Len(t, f.haptics.pulses, 3)

	h.SetHit(true)
	assert.True(t, h.Hit())
	assert.Equal(t, 0.0, h.RumbleElapsed.Elapsed())
}

func TestHandControllerNotReadySkipsInput(t *testing.T) {
	f := newHandFixture(t)
	obj := f.object(t, "apple")
	in := f.input(t)
	in.Ready = false
	in.MenuDown = true

	f.proximity(obj, ecs.ProximityEnter)
	f.press(t, true, false)

	assert.Zero(t, f.handState(t).Attached)
	assert.Equal(t, 0, f.joint.connects)
	assert.False(t, f.state.TakePauseRequest())
	// Proximity is still tracked.
	assert.Equal(t, uint64(obj), f.handState(t).Tracked)
}

func TestHandMenuRequestsPause(t *testing.T) {
	f := newHandFixture(t)
	f.input(t).MenuDown = true
	f.update(0.1)
	assert.True(t, f.state.TakePauseRequest())
}

func TestHandMusicCues(t *testing.T) {
	f := newHandFixture(t)
	egg := f.object(t, "golden_egg")

	f.proximity(egg, ecs.ProximityEnter)
	f.update(0.1)
	assert.Equal(t, "egg_song", f.state.Music.Current)

	f.press(t, true, false)
	f.press(t, false, true)
	assert.Equal(t, "secret_ingame", f.state.Music.Current)

	apple := f.object(t, "apple")
	f.proximity(apple, ecs.ProximityEnter)
	f.update(0.1)
	assert.Equal(t, "theme", f.state.Music.Current)

	f.state.GameActive = false
	f.press(t, true, false)
	f.proximity(egg, ecs.ProximityEnter)
	f.update(0.1)
	f.press(t, true, false)
	f.press(t, false, true)
	assert.Equal(t, "secret_menu", f.state.Music.Current)
}

func TestThrowerIdentityNeverBoth(t *testing.T) {
	af := newAgentFixture(t)
	w := af.w
	hs := NewHandSystem(af.state, af.factory, zerolog.Nop())
	hand := addAt(w, mgl64.Vec3{0, 1, 9})
	joint := &fakeJoint{}
	require.NoError(t, ecs.Add(w, hand, component.HandComponent.Kind(), &component.Hand{}))
	require.NoError(t, ecs.Add(w, hand, component.GripComponent.Kind(), &component.Grip{Joint: joint}))
	in := &component.ControllerInput{Ready: true}
	require.NoError(t, ecs.Add(w, hand, component.ControllerInputComponent.Kind(), in))

	check := func() {
		ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
			require.False(t, p.EnemyThrown && p.PlayerThrown, "projectile %s", e)
		})
	}

	for i := 0; i < 200; i++ {
		w.SetDelta(0.25)
		in.GrabDown = i%7 == 3
		in.GrabUp = i%7 == 5
		if i%5 == 0 {
			for _, e := range ecs.All(w, component.ProjectileComponent.Kind()) {
				w.Events().Push(ecs.Event{Type: ecs.EventProximity, Data: ecs.ProximityEvent{Hand: hand, Object: e, Phase: ecs.ProximityEnter}})
			}
		}
		if i%11 == 0 {
			w.Events().Push(ecs.Event{Type: ecs.EventAnimation, Data: ecs.AnimationEvent{Entity: af.agent, Name: AnimationEventThrowObject}})
		}
		hs.Update(w)
		af.sys.Update(w)
		check()
		w.SetFixedDelta(0.02)
		hs.FixedUpdate(w)
		check()
	}
}
