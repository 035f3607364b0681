package system

import (
	"strings"

	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/match"
	"github.com/rs/zerolog"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

// TrackLoader opens a looping music stream by track name.
type TrackLoader func(track string) (component.Playable, error)

// MusicSystem keeps background playback in line with the match music
// state. Only one track plays at a time; a change fades the current track
// out before the next one starts.
type MusicSystem struct {
	log   zerolog.Logger
	match *match.State
	load  TrackLoader
}

func NewMusicSystem(state *match.State, load TrackLoader, log zerolog.Logger) *MusicSystem {
	return &MusicSystem{
		log:   log.With().Str("system", "music").Logger(),
		match: state,
		load:  load,
	}
}

func (m *MusicSystem) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	if player.Players == nil {
		player.Players = make(map[string]component.Playable)
	}
	if player.TrackVolumes == nil {
		player.TrackVolumes = make(map[string]float64)
	}

	if m.match != nil {
		want := strings.TrimSpace(m.match.Music.Current)
		if m.wants(player, want) {
			m.applyRequest(player, want)
		}
	}

	if player.PendingActive {
		m.updateTransition(player)
		return
	}

	current := m.currentPlayer(player)
	if current != nil && !current.IsPlaying() {
		if err := current.Rewind(); err != nil {
			m.log.Debug().Err(err).Str("track", player.CurrentTrack).Msg("rewind")
			return
		}
		current.SetVolume(player.CurrentVolume)
		current.Play()
	}
}

func (m *MusicSystem) wants(player *component.MusicPlayer, track string) bool {
	if player.PendingActive {
		return track != player.PendingTrack
	}
	return track != player.CurrentTrack
}

func (m *MusicSystem) applyRequest(player *component.MusicPlayer, track string) {
	volume := defaultMusicVolume
	if v, ok := player.TrackVolumes[track]; ok && v > 0 {
		volume = min(v, 1)
	}

	current := m.currentPlayer(player)
	if track != "" && !player.PendingActive && player.CurrentTrack == track && current != nil {
		player.CurrentVolume = volume
		current.SetVolume(volume)
		return
	}

	player.PendingTrack = track
	player.PendingVolume = volume
	player.PendingActive = true
	if current == nil {
		m.switchToPending(player)
		return
	}

	frames := player.FadeFrames
	if frames <= 0 {
		frames = defaultMusicFadeFrames
	}
	player.FadeStep = player.CurrentVolume / float64(frames)
	if player.FadeStep <= 0 {
		player.FadeStep = 1
	}
}

func (m *MusicSystem) updateTransition(player *component.MusicPlayer) {
	current := m.currentPlayer(player)
	if current == nil {
		m.switchToPending(player)
		return
	}

	player.CurrentVolume -= player.FadeStep
	if player.CurrentVolume > 0 {
		current.SetVolume(player.CurrentVolume)
		return
	}

	player.CurrentVolume = 0
	current.SetVolume(0)
	current.Pause()
	if err := current.Rewind(); err != nil {
		m.log.Debug().Err(err).Str("track", player.CurrentTrack).Msg("rewind")
	}
	player.CurrentTrack = ""
	m.switchToPending(player)
}

func (m *MusicSystem) switchToPending(player *component.MusicPlayer) {
	if !player.PendingActive {
		return
	}

	track := player.PendingTrack
	volume := player.PendingVolume
	player.PendingTrack = ""
	player.PendingVolume = 0
	player.PendingActive = false
	player.FadeStep = 0

	player.CurrentTrack = ""
	player.CurrentVolume = 0
	if track == "" {
		return
	}

	stream, err := m.playerForTrack(player, track)
	if err != nil {
		m.log.Warn().Err(err).Str("track", track).Msg("load music")
		// Remember the track so a broken file is not reloaded every frame.
		player.CurrentTrack = track
		return
	}

	player.CurrentTrack = track
	player.CurrentVolume = volume
	if err := stream.Rewind(); err != nil {
		m.log.Debug().Err(err).Str("track", track).Msg("rewind")
	}
	stream.SetVolume(volume)
	stream.Play()
	m.log.Debug().Str("track", track).Msg("music started")
}

func (m *MusicSystem) currentPlayer(player *component.MusicPlayer) component.Playable {
	if player.CurrentTrack == "" {
		return nil
	}
	return player.Players[player.CurrentTrack]
}

func (m *MusicSystem) playerForTrack(player *component.MusicPlayer, track string) (component.Playable, error) {
	if existing, ok := player.Players[track]; ok && existing != nil {
		return existing, nil
	}
	if m.load == nil {
		return nil, errNoTrackLoader
	}
	stream, err := m.load(track)
	if err != nil {
		return nil, err
	}
	player.Players[track] = stream
	return stream, nil
}
