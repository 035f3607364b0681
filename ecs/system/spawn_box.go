package system

import (
	"math/rand"

	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/rs/zerolog"
)

// SpawnBoxSystem rotates the candidate object a spawn box offers every
// ChangeDelay seconds.
type SpawnBoxSystem struct {
	log zerolog.Logger
	rng *rand.Rand
}

func NewSpawnBoxSystem(rng *rand.Rand, log zerolog.Logger) *SpawnBoxSystem {
	if rng == nil {
		rng = common.NewRand(1)
	}
	return &SpawnBoxSystem{
		log: log.With().Str("system", "spawn_box").Logger(),
		rng: rng,
	}
}

func (s *SpawnBoxSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.SpawnBoxComponent.Kind(), func(e ecs.Entity, box *component.SpawnBox) {
		box.ChangeElapsed.Advance(dt)
		if !box.ChangeElapsed.Exceeded(box.ChangeDelay) {
			return
		}
		box.ChangeElapsed.Reset()

		pool := box.Pool()
		if len(pool) == 0 {
			return
		}
		box.Current = pool[PoolIndex(s.rng, len(pool))]
		s.log.Debug().Stringer("entity", e).Str("current", box.Current).Msg("spawn box changed")
	})
}

// PoolIndex picks from [0, n-2]; the last entry of a pool is never chosen
// once the pool has more than one entry. Pools of one entry yield 0.
func PoolIndex(rng *rand.Rand, n int) int {
	if n <= 2 {
		return 0
	}
	return rng.Intn(n - 1)
}
