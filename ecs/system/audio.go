package system

import (
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/rs/zerolog"
)

// AudioSystem starts and stops one-shot clips flagged on Audio components.
type AudioSystem struct {
	log zerolog.Logger
}

func NewAudioSystem(log zerolog.Logger) *AudioSystem {
	return &AudioSystem{log: log.With().Str("system", "audio").Logger()}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(e ecs.Entity, clips *component.Audio) {
		count := min(len(clips.Players), len(clips.Play))

		for i := 0; i < count; i++ {
			if !clips.Play[i] {
				continue
			}
			clips.Play[i] = false

			player := clips.Players[i]
			if player == nil || player.IsPlaying() {
				continue
			}
			if i < len(clips.Volume) {
				player.SetVolume(clips.Volume[i])
			}
			if err := player.Rewind(); err != nil {
				a.log.Debug().Err(err).Stringer("entity", e).Str("clip", clipName(clips, i)).Msg("rewind")
				continue
			}
			player.Play()
		}

		for i := 0; i < min(count, len(clips.Stop)); i++ {
			if !clips.Stop[i] {
				continue
			}
			clips.Stop[i] = false

			if player := clips.Players[i]; player != nil && player.IsPlaying() {
				player.Pause()
			}
		}
	})
}

func clipName(clips *component.Audio, i int) string {
	if i < len(clips.Names) {
		return clips.Names[i]
	}
	return ""
}
