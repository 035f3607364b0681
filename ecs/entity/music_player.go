package entity

import (
	"fmt"

	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/prefabs"
)

// NewMusicPlayer creates the single entity holding background playback
// state. Streams are opened lazily by the music system.
func NewMusicPlayer(w *ecs.World, spec prefabs.MusicSpec) (ecs.Entity, error) {
	volumes := make(map[string]float64, len(spec.Tracks))
	for _, track := range spec.Tracks {
		volumes[track.Name] = track.Volume
	}
	return build(w, "music player",
		add(w, component.MusicPlayerComponent.Kind(), &component.MusicPlayer{
			Players:      make(map[string]component.Playable),
			TrackVolumes: volumes,
			FadeFrames:   spec.FadeFrames,
		}, "component"),
	)
}

// CloneMusicPlayerState copies playback state so a rebuilt scene keeps the
// current track playing.
func CloneMusicPlayerState(src *component.MusicPlayer) *component.MusicPlayer {
	if src == nil {
		return nil
	}

	players := make(map[string]component.Playable, len(src.Players))
	for track, player := range src.Players {
		players[track] = player
	}

	trackVolumes := make(map[string]float64, len(src.TrackVolumes))
	for track, volume := range src.TrackVolumes {
		trackVolumes[track] = volume
	}

	out := *src
	out.Players = players
	out.TrackVolumes = trackVolumes
	return &out
}

func NewMusicPlayerFromState(w *ecs.World, state *component.MusicPlayer) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("music player: world is nil")
	}
	if state == nil {
		return NewMusicPlayer(w, prefabs.MusicSpec{})
	}
	return build(w, "music player",
		add(w, component.MusicPlayerComponent.Kind(), CloneMusicPlayerState(state), "component"),
	)
}
