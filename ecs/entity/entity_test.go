package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/system"
	"github.com/milk9111/foodfight/prefabs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBody struct {
	pos       mgl64.Vec3
	vel       mgl64.Vec3
	ang       mgl64.Vec3
	kinematic bool
	max       float64
}

func (b *fakeBody) Position() mgl64.Vec3              { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3)          { b.pos = p }
func (b *fakeBody) Kinematic() bool                   { return b.kinematic }
func (b *fakeBody) SetKinematic(k bool)               { b.kinematic = k }
func (b *fakeBody) Velocity() mgl64.Vec3              { return b.vel }
func (b *fakeBody) SetVelocity(v mgl64.Vec3)          { b.vel = v }
func (b *fakeBody) AngularVelocity() mgl64.Vec3       { return b.ang }
func (b *fakeBody) SetAngularVelocity(v mgl64.Vec3)   { b.ang = v }
func (b *fakeBody) MaxAngularVelocity() float64       { return b.max }
func (b *fakeBody) SetMaxAngularVelocity(max float64) { b.max = max }

type fakeJoint struct{ body component.Body }

func (j *fakeJoint) Connect(b component.Body) error { j.body = b; return nil }
func (j *fakeJoint) Disconnect()                    { j.body = nil }
func (j *fakeJoint) Connected() component.Body      { return j.body }

type fakeBodies struct {
	specs  map[ecs.Entity][]system.BodySpec
	joints int
}

func (p *fakeBodies) NewBody(e ecs.Entity, spec system.BodySpec) component.Body {
	if p.specs == nil {
		p.specs = make(map[ecs.Entity][]system.BodySpec)
	}
	p.specs[e] = append(p.specs[e], spec)
	kinematic := spec.Kinematic || spec.Role == system.RoleHand || spec.Role == system.RoleRig
	return &fakeBody{pos: spec.Position, kinematic: kinematic, max: math.Inf(1)}
}

func (p *fakeBodies) NewJoint(e ecs.Entity, anchor component.Body) (component.Joint, error) {
	p.joints++
	return &fakeJoint{}, nil
}

type nopPlayable struct{}

func (nopPlayable) IsPlaying() bool   { return false }
func (nopPlayable) Play()             {}
func (nopPlayable) Pause()            {}
func (nopPlayable) Rewind() error     { return nil }
func (nopPlayable) SetVolume(float64) {}

type fakeHaptics struct{ pulses int }

func (h *fakeHaptics) Pulse(uint16) { h.pulses++ }

func testAgentSpec() *prefabs.AgentSpec {
	return &prefabs.AgentSpec{
		Name:        "chef",
		TurnSpeed:   4,
		FaceRange:   10,
		ThrowDelay:  prefabs.RangeSpec{Min: 5, Max: 10},
		Power:       prefabs.RangeSpec{Min: 6, Max: 12},
		DeleteDelay: 3,
		Volume:      0.5,
		HitSounds: []prefabs.AudioSpec{
			{Name: "hit_1", File: "hit_1.wav"},
			{Name: "hit_2", File: "hit_2.wav", Volume: 0.9},
		},
		Radius:     0.35,
		Mass:       60,
		Nav:        prefabs.NavSpec{Speed: 2, StoppingDistance: 0.2},
		HandOffset: prefabs.Vec3Spec{X: 0.3, Y: 1.2, Z: 0.5},
		Ragdoll: []prefabs.RagdollPartSpec{
			{Offset: prefabs.Vec3Spec{Y: 1.6}, Radius: 0.1, Mass: 5},
			{Offset: prefabs.Vec3Spec{Y: 1.0}, Radius: 0.2, Mass: 20},
			{Offset: prefabs.Vec3Spec{Y: 0.4}, Radius: 0.2, Mass: 20},
		},
		Animation: map[string]prefabs.AnimationClipSpec{
			"isThrowing": {Duration: 0.8, Markers: []prefabs.AnimationMarkerSpec{{At: 0.4, Name: "ThrowObject"}}},
		},
	}
}

func testHandSpec() *prefabs.HandSpec {
	return &prefabs.HandSpec{
		RumbleDelay:    0.5,
		HapticStrength: 3000,
		Radius:         0.1,
		Hands: []prefabs.HandPlacementSpec{
			{Name: "left", Offset: prefabs.Vec3Spec{X: -0.3}},
			{Name: "right", Offset: prefabs.Vec3Spec{X: 0.3}},
		},
	}
}

func testCatalog() *prefabs.ProjectileCatalog {
	return &prefabs.ProjectileCatalog{Projectiles: []prefabs.ProjectileSpec{
		{Name: "tomato", Radius: 0.05, Mass: 0.2},
		{Name: "golden_egg", Radius: 0.05, Mass: 0.1, HiddenSound: "egg_song"},
	}}
}

func newTestFactory(bodies BodyProvider, sounds SoundLoader) *Factory {
	return NewFactory(bodies, sounds, common.NewRand(7), testAgentSpec(), testHandSpec(), testCatalog())
}

func nopSounds(prefabs.AudioSpec) (component.Playable, error) { return nopPlayable{}, nil }

func worldWithMarker(t *testing.T) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	_, err := NewAimMarker(w, mgl64.Vec3{0, 1.6, 0})
	require.NoError(t, err)
	return w
}

func TestNewAgent(t *testing.T) {
	w := worldWithMarker(t)
	bodies := &fakeBodies{}
	f := newTestFactory(bodies, nopSounds)

	dest, err := NewWaypoint(w, mgl64.Vec3{0, 0, -5})
	require.NoError(t, err)

	e, err := f.NewAgent(w, mgl64.Vec3{0, 0, -10}, dest, "tomato")
	require.NoError(t, err)

	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	require.True(t, ok)
	assert.GreaterOrEqual(t, agent.ThrowDelay, 5.0)
	assert.LessOrEqual(t, agent.ThrowDelay, 10.0)
	assert.GreaterOrEqual(t, agent.Power, 6.0)
	assert.LessOrEqual(t, agent.Power, 12.0)
	assert.Equal(t, "tomato", agent.Weapon)
	assert.Equal(t, uint64(dest), agent.Target)
	assert.Equal(t, []string{"hit_1", "hit_2"}, agent.Config.HitSounds)

	hand := ecs.Entity(agent.Hand)
	require.True(t, w.IsAlive(hand))
	assert.True(t, ecs.Has(w, hand, component.HandAnchorTagComponent.Kind()))
	ht, _ := ecs.Get(w, hand, component.TransformComponent.Kind())
	assert.Equal(t, uint64(e), ht.Parent)
	assert.Equal(t, mgl64.Vec3{0.3, 1.2, -9.5}, ht.Position)

	rig, ok := ecs.Get(w, e, component.AgentRigComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, rig.Nav)
	require.NotNil(t, rig.Animator)
	require.NotNil(t, rig.Sounds)
	assert.Equal(t, []float64{0.5, 0.9}, rig.Sounds.Volume)

	ragdoll, ok := ecs.Get(w, e, component.RagdollComponent.Kind())
	require.True(t, ok)
	require.Len(t, ragdoll.Parts, 3)
	for _, part := range ragdoll.Parts {
		assert.True(t, part.Kinematic())
	}
	// Agent body plus one per ragdoll part.
	assert.Len(t, bodies.specs[e], 4)

	anim, _ := ecs.Get(w, e, component.AnimationComponent.Kind())
	assert.Equal(t, "ThrowObject", anim.Clips["isThrowing"].Markers[0].Name)
}

func TestNewAgentSamplesOncePerAgent(t *testing.T) {
	w := worldWithMarker(t)
	f := newTestFactory(&fakeBodies{}, nil)

	seen := map[float64]bool{}
	for i := 0; i < 5; i++ {
		e, err := f.NewAgent(w, mgl64.Vec3{}, 0, "tomato")
		require.NoError(t, err)
		a, _ := ecs.Get(w, e, component.AgentComponent.Kind())
		seen[a.ThrowDelay] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestNewAgentConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		markers bool
		weapon  string
		want    error
		field   string
	}{
		{"no weapon", true, "", system.ErrNoWeapon, "weapon"},
		{"unknown weapon", true, "anvil", prefabs.ErrUnknownProjectile, "weapon"},
		{"no aim markers", false, "tomato", system.ErrNoAimMarkers, "aim markers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			if tt.markers {
				_, err := NewAimMarker(w, mgl64.Vec3{})
				require.NoError(t, err)
			}
			before := len(ecs.Entities(w))

			f := newTestFactory(&fakeBodies{}, nil)
			_, err := f.NewAgent(w, mgl64.Vec3{}, 0, tt.weapon)
			require.ErrorIs(t, err, tt.want)
			var cfgErr *system.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Len(t, ecs.Entities(w), before)
		})
	}
}

func TestNewAgentSoundFailureLeavesNoEntities(t *testing.T) {
	w := worldWithMarker(t)
	broken := errors.New("decode failed")
	f := newTestFactory(&fakeBodies{}, func(prefabs.AudioSpec) (component.Playable, error) { return nil, broken })

	_, err := f.NewAgent(w, mgl64.Vec3{}, 0, "tomato")
	require.ErrorIs(t, err, broken)
	assert.Len(t, ecs.Entities(w), 1)
}

func TestSpawnObject(t *testing.T) {
	w := ecs.NewWorld()
	bodies := &fakeBodies{}
	f := newTestFactory(bodies, nil)

	e, err := f.SpawnObject(w, "golden_egg", mgl64.Vec3{1, 2, 3}, mgl64.Quat{})
	require.NoError(t, err)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position)
	assert.Equal(t, mgl64.QuatIdent(), tr.Rotation)

	inter, _ := ecs.Get(w, e, component.InteractableComponent.Kind())
	assert.Equal(t, component.ObjectProjectile, inter.Kind)
	assert.Equal(t, component.OwnerNone, inter.Owner)

	proj, _ := ecs.Get(w, e, component.ProjectileComponent.Kind())
	assert.Equal(t, "egg_song", proj.HiddenSound)
	assert.False(t, proj.EnemyThrown || proj.PlayerThrown)

	rb, _ := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	require.NotNil(t, rb.Body)
	assert.False(t, rb.Body.Kinematic())
	assert.Equal(t, system.RoleObject, bodies.specs[e][0].Role)

	_, err = f.SpawnObject(w, "anvil", mgl64.Vec3{}, mgl64.QuatIdent())
	assert.ErrorIs(t, err, prefabs.ErrUnknownProjectile)
}

func TestNewHand(t *testing.T) {
	w := ecs.NewWorld()
	bodies := &fakeBodies{}
	f := newTestFactory(bodies, nil)

	rig, err := f.NewPlayerRig(w, prefabs.RigSpec{Position: prefabs.Vec3Spec{Y: 1.6}, Radius: 0.3})
	require.NoError(t, err)

	haptics := &fakeHaptics{}
	hand, err := f.NewHand(w, rig, mgl64.Vec3{0.3, -0.4, 0}, haptics)
	require.NoError(t, err)

	h, ok := ecs.Get(w, hand, component.HandComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 0.5, h.RumbleDelay)
	assert.Equal(t, uint16(3000), h.HapticStrength)

	grip, ok := ecs.Get(w, hand, component.GripComponent.Kind())
	require.True(t, ok)
	assert.NotNil(t, grip.Joint)
	assert.Same(t, haptics, grip.Haptics)
	assert.Equal(t, 1, bodies.joints)

	tr, _ := ecs.Get(w, hand, component.TransformComponent.Kind())
	assert.Equal(t, uint64(rig), tr.Parent)
	assert.InDelta(t, 1.2, tr.Position.Y(), 1e-9)
	assert.True(t, ecs.Has(w, hand, component.ControllerInputComponent.Kind()))
}

func TestNewSpawnBox(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFactory(&fakeBodies{}, nil)

	random, err := f.NewSpawnBox(w, prefabs.SpawnBoxSpec{UseRandomPool: true, ChangeDelay: 2})
	require.NoError(t, err)
	box, _ := ecs.Get(w, random, component.SpawnBoxComponent.Kind())
	assert.Equal(t, []string{"tomato", "golden_egg"}, box.Pool())
	assert.Equal(t, "tomato", box.Current)

	listed, err := f.NewSpawnBox(w, prefabs.SpawnBoxSpec{Current: "pie", Weapons: []string{"pie", "cake"}})
	require.NoError(t, err)
	box, _ = ecs.Get(w, listed, component.SpawnBoxComponent.Kind())
	assert.Equal(t, []string{"pie", "cake"}, box.Pool())
	assert.Equal(t, "pie", box.Current)

	inter, _ := ecs.Get(w, listed, component.InteractableComponent.Kind())
	assert.Equal(t, component.ObjectSpawnBox, inter.Kind)
}

func TestBuildSceneFromEmbeddedPrefabs(t *testing.T) {
	w := ecs.NewWorld()
	f, err := LoadFactory(&fakeBodies{}, nopSounds, common.NewRand(1))
	require.NoError(t, err)
	spec, err := prefabs.LoadMatchSpec()
	require.NoError(t, err)

	named := map[string]bool{}
	scene, err := f.BuildScene(w, spec, func(name string) component.Haptics {
		named[name] = true
		return &fakeHaptics{}
	}, nil)
	require.NoError(t, err)

	assert.True(t, w.IsAlive(scene.Rig))
	assert.Len(t, scene.Hands, len(f.Hand.Hands))
	assert.Len(t, scene.AimMarkers, len(spec.AimMarkers))
	assert.Len(t, scene.SpawnPoints, len(spec.SpawnPoints))
	assert.Len(t, scene.SpawnBoxes, len(spec.SpawnBoxes))
	assert.True(t, named["left"] && named["right"])

	mp, ok := ecs.Get(w, scene.Music, component.MusicPlayerComponent.Kind())
	require.True(t, ok)
	assert.Len(t, mp.TrackVolumes, len(spec.Music.Tracks))

	// Agents built on the scene pass validation.
	point := scene.SpawnPoints[0]
	_, err = f.NewAgent(w, point.Position, point.Destination, spec.Wave.Weapons[0])
	require.NoError(t, err)
	assert.NoError(t, system.NewAgentSystem(nil, f, nil, zerolog.Nop()).Validate(w))
}

func TestBuildSceneWithPhysics(t *testing.T) {
	w := ecs.NewWorld()
	physics := system.NewPhysicsSystem(zerolog.Nop())
	f, err := LoadFactory(physics, nil, common.NewRand(1))
	require.NoError(t, err)
	spec, err := prefabs.LoadMatchSpec()
	require.NoError(t, err)

	scene, err := f.BuildScene(w, spec, nil, nil)
	require.NoError(t, err)

	grip, ok := ecs.Get(w, scene.Hands[0], component.GripComponent.Kind())
	require.True(t, ok)
	require.NotNil(t, grip.Joint)

	obj, err := f.SpawnObject(w, "tomato", mgl64.Vec3{}, mgl64.QuatIdent())
	require.NoError(t, err)
	rb, _ := ecs.Get(w, obj, component.RigidBodyComponent.Kind())
	require.NoError(t, grip.Joint.Connect(rb.Body))
	assert.Equal(t, rb.Body, grip.Joint.Connected())
}

func TestBuildSceneCarriesMusic(t *testing.T) {
	w := ecs.NewWorld()
	f := newTestFactory(&fakeBodies{}, nil)
	spec := &prefabs.MatchSpec{
		AimMarkers:  []prefabs.Vec3Spec{{}},
		SpawnPoints: []prefabs.SpawnPointSpec{{}},
	}
	prev := &component.MusicPlayer{
		Players:      map[string]component.Playable{"theme": nopPlayable{}},
		TrackVolumes: map[string]float64{"theme": 0.4},
		CurrentTrack: "theme",
	}

	scene, err := f.BuildScene(w, spec, nil, prev)
	require.NoError(t, err)
	mp, _ := ecs.Get(w, scene.Music, component.MusicPlayerComponent.Kind())
	assert.Equal(t, "theme", mp.CurrentTrack)

	mp.TrackVolumes["theme"] = 1
	assert.Equal(t, 0.4, prev.TrackVolumes["theme"])
}

func TestBuildSceneRejectsInvalidSpec(t *testing.T) {
	f := newTestFactory(&fakeBodies{}, nil)
	_, err := f.BuildScene(ecs.NewWorld(), &prefabs.MatchSpec{}, nil, nil)
	assert.Error(t, err)
	_, err = f.BuildScene(ecs.NewWorld(), nil, nil, nil)
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	f := NewFactory(nil, nil, nil, nil, nil, nil)
	require.NoError(t, f.Reload("agent.yaml"))
	assert.NotNil(t, f.Agent)
	assert.ErrorIs(t, f.Reload("level.yaml"), ErrUnknownPrefab)
}
