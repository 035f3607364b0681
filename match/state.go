// Package match holds the state shared by every controller during a match:
// the global counters, the background music selection and the pause and
// active flags. Systems receive a *State at construction.
package match

import (
	"context"
)

// Music is the background music selection. Current is the track that
// should be playing; the music system reconciles playback to it.
type Music struct {
	Current string
	Default string
	// Alternates holds the in-game track at 0 and the menu track at 1.
	Alternates []string
}

// State is the shared match context.
type State struct {
	EnemiesLeft int
	PlayerScore int
	ItemsThrown int
	GameActive  bool
	Music       Music

	pauseRequested bool
	metrics        *Metrics
}

// Option configures a State.
type Option func(*State)

// WithMetrics mirrors counter changes to m.
func WithMetrics(m *Metrics) Option {
	return func(s *State) {
		s.metrics = m
	}
}

// WithMusic sets the default track and alternates, starting on the default.
func WithMusic(defaultTrack string, alternates ...string) Option {
	return func(s *State) {
		s.Music = Music{
			Current:    defaultTrack,
			Default:    defaultTrack,
			Alternates: append([]string(nil), alternates...),
		}
	}
}

func New(opts ...Option) *State {
	s := &State{GameActive: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnemyDefeated removes one enemy from the remaining count and awards a
// point.
func (s *State) EnemyDefeated() {
	if s == nil {
		return
	}
	s.EnemiesLeft--
	s.PlayerScore++
	s.metrics.enemyDefeated(context.Background())
}

// ItemThrown counts one player throw.
func (s *State) ItemThrown() {
	if s == nil {
		return
	}
	s.ItemsThrown++
	s.metrics.itemThrown(context.Background())
}

// AddEnemies registers newly spawned enemies.
func (s *State) AddEnemies(n int) {
	if s == nil || n <= 0 {
		return
	}
	s.EnemiesLeft += n
}

// RequestPause asks the host to pause on its next frame.
func (s *State) RequestPause() {
	if s == nil {
		return
	}
	s.pauseRequested = true
}

// TakePauseRequest returns and clears a pending pause request.
func (s *State) TakePauseRequest() bool {
	if s == nil || !s.pauseRequested {
		return false
	}
	s.pauseRequested = false
	return true
}

// SetMusic selects the background track.
func (s *State) SetMusic(track string) {
	if s == nil {
		return
	}
	s.Music.Current = track
}

// AlternateMusic returns the in-game alternate while the game is active and
// the menu alternate otherwise. ok is false when that alternate is missing.
func (s *State) AlternateMusic() (string, bool) {
	if s == nil {
		return "", false
	}
	idx := 1
	if s.GameActive {
		idx = 0
	}
	if idx >= len(s.Music.Alternates) {
		return "", false
	}
	return s.Music.Alternates[idx], true
}
