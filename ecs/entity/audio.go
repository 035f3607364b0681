package entity

import (
	"fmt"

	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/prefabs"
)

// buildAudioComponent opens every clip through load. Clips still get a
// name slot when load is nil so requests can be recorded.
func buildAudioComponent(audioSpecs []prefabs.AudioSpec, load SoundLoader) (*component.Audio, error) {
	n := len(audioSpecs)
	a := &component.Audio{
		Names:   make([]string, 0, n),
		Players: make([]component.Playable, 0, n),
		Volume:  make([]float64, 0, n),
		Play:    make([]bool, n),
		Stop:    make([]bool, n),
	}

	for i, clip := range audioSpecs {
		var player component.Playable
		if load != nil {
			p, err := load(clip)
			if err != nil {
				return nil, fmt.Errorf("audio clip %d (%q): %w", i, clip.Name, err)
			}
			player = p
		}
		a.Names = append(a.Names, clip.Name)
		a.Players = append(a.Players, player)
		a.Volume = append(a.Volume, clip.Volume)
	}
	return a, nil
}
