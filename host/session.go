package host

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/milk9111/foodfight/assets"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/entity"
	"github.com/milk9111/foodfight/ecs/system"
	"github.com/milk9111/foodfight/match"
	"github.com/milk9111/foodfight/prefabs"
	"github.com/milk9111/foodfight/wave"
	"github.com/rs/zerolog"
)

// session is one running arena. Restarting the match builds a new one.
type session struct {
	log zerolog.Logger

	world   *ecs.World
	state   *match.State
	spec    *prefabs.MatchSpec
	physics *system.PhysicsSystem
	factory *entity.Factory
	scene   *entity.Scene

	hands   *system.HandSystem
	agents  *system.AgentSystem
	music   *system.MusicSystem
	spawner *wave.Spawner
}

type sessionDeps struct {
	log     zerolog.Logger
	rng     *rand.Rand
	metrics *match.Metrics
	sounds  *assets.Loader
	haptics entity.HapticsFor
}

// newSession loads the match prefab and builds the arena. carry keeps the
// music playing across restarts.
func newSession(deps sessionDeps, carry *component.MusicPlayer) (*session, error) {
	spec, err := prefabs.LoadMatchSpec()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	state := match.New(
		match.WithMusic(spec.Music.Default, spec.Music.Alternates...),
		match.WithMetrics(deps.metrics),
	)
	if carry != nil && carry.CurrentTrack != "" {
		state.SetMusic(carry.CurrentTrack)
	}

	var (
		sounds entity.SoundLoader
		tracks system.TrackLoader
	)
	if deps.sounds != nil {
		deps.sounds.SetTracks(spec.Music.Tracks)
		sounds = deps.sounds.Sound
		tracks = deps.sounds.Track
	}

	physics := system.NewPhysicsSystem(deps.log)
	factory, err := entity.LoadFactory(physics, sounds, deps.rng)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	w := ecs.NewWorld()
	scene, err := factory.BuildScene(w, spec, deps.haptics, carry)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	script, err := wave.LoadScript(spec.Wave.Script)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &session{
		log:     deps.log,
		world:   w,
		state:   state,
		spec:    spec,
		physics: physics,
		factory: factory,
		scene:   scene,
		hands:   system.NewHandSystem(state, factory, deps.log),
		agents:  system.NewAgentSystem(state, factory, deps.rng, deps.log),
		music:   system.NewMusicSystem(state, tracks, deps.log),
		spawner: wave.NewSpawner(state, factory, script, spec.Wave, scene.SpawnPoints, deps.log),
	}
	s.configureHands()

	// Fixed phase runs in this order too: release velocity, then the
	// physics step.
	w.AddSystem(s.hands)
	w.AddSystem(s.agents)
	w.AddSystem(system.NewAnimationSystem())
	w.AddSystem(system.NewSpawnBoxSystem(deps.rng, deps.log))
	w.AddSystem(system.NewNavigationSystem())
	w.AddSystem(s.spawner)
	w.AddSystem(system.NewTTLSystem())
	w.AddSystem(system.NewAudioSystem(deps.log))
	w.AddSystem(s.music)
	w.AddSystem(physics)

	if err := s.agents.Validate(w); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return s, nil
}

// configureHands applies the hand prefab's outline palette and exit policy.
func (s *session) configureHands() {
	spec := s.factory.Hand
	if spec == nil {
		return
	}
	s.hands.Palette = [3]color.Color{
		spec.Outline.Idle.Or(system.DefaultOutlinePalette[system.OutlineIdle]),
		spec.Outline.Missed.Or(system.DefaultOutlinePalette[system.OutlineMissed]),
		spec.Outline.Available.Or(system.DefaultOutlinePalette[system.OutlineAvailable]),
	}
	s.hands.ExitPolicy = exitPolicy(spec.ExitPolicy)
}

func exitPolicy(name string) system.ExitPolicy {
	if name == "matching" {
		return system.ExitClearsMatching
	}
	return system.ExitClearsTracked
}

// musicState returns the live music player state, or nil.
func (s *session) musicState() *component.MusicPlayer {
	if s == nil || s.scene == nil {
		return nil
	}
	mp, _ := ecs.Get(s.world, s.scene.Music, component.MusicPlayerComponent.Kind())
	return mp
}

// reload applies one prefab edit. It reports whether the whole session
// must be rebuilt.
func (s *session) reload(change prefabs.Change) (rebuild bool, err error) {
	switch {
	case change.Script:
		if change.Name != s.spec.Wave.Script {
			return false, nil
		}
		script, err := wave.LoadScript(change.Name)
		if err != nil {
			return false, err
		}
		s.spawner.SetScript(script)
		return false, nil
	case change.Name == "match.yaml":
		return true, nil
	}

	if err := s.factory.Reload(change.Name); err != nil {
		return false, err
	}
	if change.Name == "hand.yaml" {
		s.configureHands()
	}
	return false, nil
}
