package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/prefabs"
)

// SpawnPoint is where an agent appears and the waypoint it walks to.
type SpawnPoint struct {
	Position    mgl64.Vec3
	Destination ecs.Entity
}

// Scene lists the entities built for one arena.
type Scene struct {
	Rig         ecs.Entity
	Hands       []ecs.Entity
	AimMarkers  []ecs.Entity
	SpawnBoxes  []ecs.Entity
	SpawnPoints []SpawnPoint
	Music       ecs.Entity
}

// HapticsFor returns the haptics device for the named hand, or nil.
type HapticsFor func(hand string) component.Haptics

// BuildScene lays out spec. music, when non-nil, carries playback state
// over from a previous scene.
func (f *Factory) BuildScene(w *ecs.World, spec *prefabs.MatchSpec, haptics HapticsFor, music *component.MusicPlayer) (*Scene, error) {
	if spec == nil {
		return nil, fmt.Errorf("scene: no match spec")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	s := &Scene{}
	var err error

	if s.Rig, err = f.NewPlayerRig(w, spec.Rig); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	if f.Hand != nil {
		for _, placement := range f.Hand.Hands {
			var device component.Haptics
			if haptics != nil {
				device = haptics(placement.Name)
			}
			hand, err := f.NewHand(w, s.Rig, placement.Offset.Vec3(), device)
			if err != nil {
				return nil, fmt.Errorf("scene: hand %q: %w", placement.Name, err)
			}
			s.Hands = append(s.Hands, hand)
		}
	}

	for _, pos := range spec.AimMarkers {
		marker, err := NewAimMarker(w, pos.Vec3())
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		s.AimMarkers = append(s.AimMarkers, marker)
	}

	for _, point := range spec.SpawnPoints {
		dest, err := NewWaypoint(w, point.Destination.Vec3())
		if err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		s.SpawnPoints = append(s.SpawnPoints, SpawnPoint{Position: point.Position.Vec3(), Destination: dest})
	}

	for i, boxSpec := range spec.SpawnBoxes {
		box, err := f.NewSpawnBox(w, boxSpec)
		if err != nil {
			return nil, fmt.Errorf("scene: spawn box %d: %w", i, err)
		}
		s.SpawnBoxes = append(s.SpawnBoxes, box)
	}

	if music != nil {
		s.Music, err = NewMusicPlayerFromState(w, music)
	} else {
		s.Music, err = NewMusicPlayer(w, spec.Music)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return s, nil
}
