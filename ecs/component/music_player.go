package component

// MusicPlayer stores background music playback state on a dedicated
// entity. The music system mutates it; no playback state lives on the system.
type MusicPlayer struct {
	Players      map[string]Playable
	TrackVolumes map[string]float64

	CurrentTrack  string
	CurrentVolume float64

	PendingTrack  string
	PendingVolume float64
	PendingActive bool

	FadeFrames int
	FadeStep   float64
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()
