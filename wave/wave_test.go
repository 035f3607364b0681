package wave

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/entity"
	"github.com/milk9111/foodfight/match"
	"github.com/milk9111/foodfight/prefabs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawnCall struct {
	pos    mgl64.Vec3
	dest   ecs.Entity
	weapon string
}

type fakeAgents struct {
	calls []spawnCall
	fail  map[string]bool
}

func (f *fakeAgents) NewAgent(w *ecs.World, pos mgl64.Vec3, dest ecs.Entity, weapon string) (ecs.Entity, error) {
	if f.fail[weapon] {
		return 0, errors.New("no such weapon")
	}
	f.calls = append(f.calls, spawnCall{pos: pos, dest: dest, weapon: weapon})
	return ecs.CreateEntity(w), nil
}

func TestEmbeddedScriptCompose(t *testing.T) {
	script, err := LoadScript("wave.tengo")
	require.NoError(t, err)
	assert.Equal(t, "wave.tengo", script.Name())

	tests := []struct {
		name       string
		wave       int
		weapons    []string
		points     int
		maxEnemies int
		want       []Assignment
	}{
		{
			name:    "first wave",
			wave:    1,
			weapons: []string{"tomato", "pie", "baguette"},
			points:  3, maxEnemies: 6,
			want: []Assignment{{Weapon: "pie", Point: 0}, {Weapon: "baguette", Point: 1}},
		},
		{
			name:    "capped",
			wave:    9,
			weapons: []string{"tomato"},
			points:  2, maxEnemies: 3,
			want: []Assignment{{"tomato", 0}, {"tomato", 1}, {"tomato", 0}},
		},
		{
			name:    "uncapped",
			wave:    4,
			weapons: []string{"a", "b"},
			points:  1, maxEnemies: 0,
			want: []Assignment{{"a", 0}, {"b", 0}, {"a", 0}, {"b", 0}, {"a", 0}},
		},
		{
			name:   "no weapons",
			wave:   1,
			points: 1, maxEnemies: 1,
			want:   []Assignment{{"", 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := script.Compose(tt.wave, tt.weapons, tt.points, tt.maxEnemies)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeDoesNotLeakGlobals(t *testing.T) {
	script, err := NewScript("acc", []byte(`
total := 0
for i := 0; i < wave; i++ { total += 1 }
count := total
assignments := []
for i := 0; i < count; i++ { assignments = append(assignments, {weapon: "x", point: 0}) }
`))
	require.NoError(t, err)

	first, err := script.Compose(2, nil, 1, 0)
	require.NoError(t, err)
	second, err := script.Compose(2, nil, 1, 0)
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
}

func TestScriptErrors(t *testing.T) {
	_, err := NewScript("broken", []byte(`count := (`))
	assert.Error(t, err)

	noOutput, err := NewScript("empty", []byte(`x := wave`))
	require.NoError(t, err)
	_, err = noOutput.Compose(1, nil, 1, 1)
	assert.ErrorIs(t, err, ErrBadOutput)

	short, err := NewScript("short", []byte(`count := 2; assignments := [{weapon: "a", point: 0}]`))
	require.NoError(t, err)
	_, err = short.Compose(1, nil, 1, 1)
	assert.ErrorIs(t, err, ErrBadOutput)

	wrongType, err := NewScript("ints", []byte(`count := 1; assignments := [3]`))
	require.NoError(t, err)
	_, err = wrongType.Compose(1, nil, 1, 1)
	assert.ErrorIs(t, err, ErrBadOutput)

	var nilScript *Script
	_, err = nilScript.Compose(1, nil, 1, 1)
	assert.Error(t, err)

	_, err = LoadScript("missing.tengo")
	assert.Error(t, err)
}

func newTestSpawner(t *testing.T, state *match.State, agents AgentFactory) (*Spawner, []entity.SpawnPoint) {
	t.Helper()
	script, err := LoadScript("wave.tengo")
	require.NoError(t, err)
	points := []entity.SpawnPoint{
		{Position: mgl64.Vec3{-2, 0, -8}, Destination: 11},
		{Position: mgl64.Vec3{2, 0, -8}, Destination: 12},
	}
	spec := prefabs.WaveSpec{Weapons: []string{"tomato", "pie"}, Interval: 1, MaxEnemies: 4}
	return NewSpawner(state, agents, script, spec, points, zerolog.Nop()), points
}

func step(w *ecs.World, s *Spawner, dt float64) {
	w.SetDelta(dt)
	s.Update(w)
}

func TestSpawnerStartsWaveAfterInterval(t *testing.T) {
	w := ecs.NewWorld()
	state := match.New()
	agents := &fakeAgents{}
	s, points := newTestSpawner(t, state, agents)

	step(w, s, 0.6)
	assert.Empty(t, agents.calls)
	assert.Equal(t, 0, s.Wave())

	step(w, s, 0.6)
	require.Len(t, agents.calls, 2)
	assert.Equal(t, 1, s.Wave())
	assert.Equal(t, 2, state.EnemiesLeft)
	assert.Equal(t, spawnCall{points[0].Position, points[0].Destination, "pie"}, agents.calls[0])
	assert.Equal(t, spawnCall{points[1].Position, points[1].Destination, "tomato"}, agents.calls[1])
}

func TestSpawnerWaitsForEnemies(t *testing.T) {
	w := ecs.NewWorld()
	state := match.New()
	state.AddEnemies(1)
	agents := &fakeAgents{}
	s, _ := newTestSpawner(t, state, agents)

	step(w, s, 5)
	assert.Empty(t, agents.calls)

	state.EnemyDefeated()
	step(w, s, 0.5)
	assert.Empty(t, agents.calls)
	step(w, s, 0.6)
	assert.Len(t, agents.calls, 2)

	for i := 0; i < 2; i++ {
		state.EnemyDefeated()
	}
	step(w, s, 1.1)
	assert.Len(t, agents.calls, 5)
	assert.Equal(t, 2, s.Wave())
}

func TestSpawnerIdleWhenInactive(t *testing.T) {
	w := ecs.NewWorld()
	state := match.New()
	state.GameActive = false
	agents := &fakeAgents{}
	s, _ := newTestSpawner(t, state, agents)

	step(w, s, 10)
	assert.Empty(t, agents.calls)
}

func TestSpawnerCountsOnlySpawnedAgents(t *testing.T) {
	w := ecs.NewWorld()
	state := match.New()
	agents := &fakeAgents{fail: map[string]bool{"tomato": true}}
	s, _ := newTestSpawner(t, state, agents)

	step(w, s, 1.1)
	assert.Len(t, agents.calls, 1)
	assert.Equal(t, 1, state.EnemiesLeft)
	assert.Equal(t, 1, s.Wave())
}

func TestSpawnerSetScriptAndReset(t *testing.T) {
	w := ecs.NewWorld()
	state := match.New()
	agents := &fakeAgents{}
	s, points := newTestSpawner(t, state, agents)

	single, err := NewScript("single", []byte(`count := 1; assignments := [{weapon: "egg", point: -1}]`))
	require.NoError(t, err)
	s.SetScript(single)
	s.SetScript(nil)

	step(w, s, 1.1)
	require.Len(t, agents.calls, 1)
	assert.Equal(t, "egg", agents.calls[0].weapon)
	assert.Equal(t, points[1].Position, agents.calls[0].pos)

	s.Reset()
	assert.Equal(t, 0, s.Wave())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 1, wrap(3, 2))
	assert.Equal(t, 2, wrap(-1, 3))
	assert.Equal(t, 0, wrap(0, 1))
}
