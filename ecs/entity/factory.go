package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/system"
	"github.com/milk9111/foodfight/prefabs"
)

// BodyProvider creates simulated bodies owned by an entity.
// *system.PhysicsSystem implements it.
type BodyProvider interface {
	NewBody(e ecs.Entity, spec system.BodySpec) component.Body
	NewJoint(e ecs.Entity, anchor component.Body) (component.Joint, error)
}

var (
	_ BodyProvider         = (*system.PhysicsSystem)(nil)
	_ system.ObjectFactory = (*Factory)(nil)
)

// SoundLoader opens a one-shot clip described by a prefab.
type SoundLoader func(spec prefabs.AudioSpec) (component.Playable, error)

// Factory turns prefab specs into entities.
type Factory struct {
	Agent   *prefabs.AgentSpec
	Hand    *prefabs.HandSpec
	Catalog *prefabs.ProjectileCatalog

	bodies BodyProvider
	sounds SoundLoader
	rng    *rand.Rand
}

// NewFactory builds a factory over already loaded specs. A nil sounds
// loader leaves agents without hit clips.
func NewFactory(bodies BodyProvider, sounds SoundLoader, rng *rand.Rand, agent *prefabs.AgentSpec, hand *prefabs.HandSpec, catalog *prefabs.ProjectileCatalog) *Factory {
	if rng == nil {
		rng = common.NewRand(1)
	}
	return &Factory{
		Agent:   agent,
		Hand:    hand,
		Catalog: catalog,
		bodies:  bodies,
		sounds:  sounds,
		rng:     rng,
	}
}

// LoadFactory reads the agent, hand and projectile prefabs.
func LoadFactory(bodies BodyProvider, sounds SoundLoader, rng *rand.Rand) (*Factory, error) {
	f := NewFactory(bodies, sounds, rng, nil, nil, nil)
	for _, name := range []string{"agent.yaml", "hand.yaml", "projectiles.yaml"} {
		if err := f.Reload(name); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ErrUnknownPrefab is returned by Reload for files the factory does not own.
var ErrUnknownPrefab = errors.New("entity: unknown prefab")

// Reload re-reads one prefab file. Entities built earlier keep their
// values; later builds use the new spec. On error the old spec stays.
func (f *Factory) Reload(name string) error {
	switch name {
	case "agent.yaml":
		spec, err := prefabs.LoadAgentSpec()
		if err != nil {
			return fmt.Errorf("factory: %w", err)
		}
		f.Agent = spec
	case "hand.yaml":
		spec, err := prefabs.LoadHandSpec()
		if err != nil {
			return fmt.Errorf("factory: %w", err)
		}
		f.Hand = spec
	case "projectiles.yaml":
		spec, err := prefabs.LoadProjectileCatalog()
		if err != nil {
			return fmt.Errorf("factory: %w", err)
		}
		f.Catalog = spec
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPrefab, name)
	}
	return nil
}

func (f *Factory) newBody(e ecs.Entity, spec system.BodySpec) component.Body {
	if f.bodies == nil {
		return nil
	}
	return f.bodies.NewBody(e, spec)
}

// build runs steps against a fresh entity and destroys it when any step
// fails.
func build(w *ecs.World, what string, steps ...func(e ecs.Entity) error) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("%s: world is nil", what)
	}
	e := ecs.CreateEntity(w)
	for _, step := range steps {
		if err := step(e); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("%s: %w", what, err)
		}
	}
	return e, nil
}

func add[T any](w *ecs.World, kind component.ComponentKind[T], value *T, what string) func(ecs.Entity) error {
	return func(e ecs.Entity) error {
		if err := ecs.Add(w, e, kind, value); err != nil {
			return fmt.Errorf("add %s: %w", what, err)
		}
		return nil
	}
}
