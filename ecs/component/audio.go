package component

// Audio holds the one-shot clips an entity can play. Systems raise a Play or
// Stop flag; the audio system acts on it and lowers it.
type Audio struct {
	Names   []string
	Players []Playable
	Volume  []float64
	Play    []bool
	Stop    []bool
}

// Request flags the named clip for playback and reports whether it exists.
func (a *Audio) Request(name string) bool {
	if a == nil {
		return false
	}
	for i, n := range a.Names {
		if n != name {
			continue
		}
		if i < len(a.Play) {
			a.Play[i] = true
			return true
		}
	}
	return false
}

var AudioComponent = NewComponent[Audio]()
