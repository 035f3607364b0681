package wave

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/entity"
	"github.com/milk9111/foodfight/match"
	"github.com/milk9111/foodfight/prefabs"
	"github.com/rs/zerolog"
)

// AgentFactory builds one agent. *entity.Factory implements it.
type AgentFactory interface {
	NewAgent(w *ecs.World, pos mgl64.Vec3, destination ecs.Entity, weapon string) (ecs.Entity, error)
}

var _ AgentFactory = (*entity.Factory)(nil)

// Spawner starts a new wave once every enemy of the previous one is gone
// and the wave interval has passed.
type Spawner struct {
	log    zerolog.Logger
	match  *match.State
	agents AgentFactory
	script *Script
	spec   prefabs.WaveSpec
	points []entity.SpawnPoint

	wave     int
	interval common.Countdown
}

func NewSpawner(state *match.State, agents AgentFactory, script *Script, spec prefabs.WaveSpec, points []entity.SpawnPoint, log zerolog.Logger) *Spawner {
	return &Spawner{
		log:      log.With().Str("system", "wave").Logger(),
		match:    state,
		agents:   agents,
		script:   script,
		spec:     spec,
		points:   append([]entity.SpawnPoint(nil), points...),
		interval: common.Countdown{Delay: spec.Interval},
	}
}

// Wave is the number of the last wave started, 0 before the first.
func (s *Spawner) Wave() int {
	if s == nil {
		return 0
	}
	return s.wave
}

// SetScript swaps the composition script; the next wave uses it.
func (s *Spawner) SetScript(script *Script) {
	if s == nil || script == nil {
		return
	}
	s.script = script
}

// Reset returns to before the first wave.
func (s *Spawner) Reset() {
	if s == nil {
		return
	}
	s.wave = 0
	s.interval.Restart()
}

func (s *Spawner) Update(w *ecs.World) {
	if s == nil || w == nil || s.match == nil || !s.match.GameActive {
		return
	}
	if s.match.EnemiesLeft > 0 {
		s.interval.Restart()
		return
	}
	if !s.interval.Tick(w.Delta()) {
		return
	}
	s.interval.Restart()
	s.next(w)
}

func (s *Spawner) next(w *ecs.World) {
	if len(s.points) == 0 {
		s.log.Warn().Msg("no spawn points")
		return
	}

	n := s.wave + 1
	assignments, err := s.script.Compose(n, s.spec.Weapons, len(s.points), s.spec.MaxEnemies)
	if err != nil {
		s.log.Error().Err(err).Int("wave", n).Msg("compose wave")
		return
	}

	spawned := 0
	for _, a := range assignments {
		point := s.points[wrap(a.Point, len(s.points))]
		if _, err := s.agents.NewAgent(w, point.Position, point.Destination, a.Weapon); err != nil {
			s.log.Error().Err(err).Int("wave", n).Str("weapon", a.Weapon).Msg("spawn agent")
			continue
		}
		spawned++
	}

	s.wave = n
	s.match.AddEnemies(spawned)
	s.log.Info().Int("wave", n).Int("spawned", spawned).Msg("wave started")
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
