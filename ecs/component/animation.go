package component

// AnimationMarker fires an animation event when clip time passes At.
type AnimationMarker struct {
	At   float64
	Name string
}

// AnimationClip is a timed clip started by a trigger of the same name.
type AnimationClip struct {
	Duration float64
	Markers  []AnimationMarker
}

// Animation is a minimal trigger-driven animator. *Animation satisfies
// Animator.
type Animation struct {
	Clips map[string]AnimationClip
	Bools map[string]bool

	Current string
	Elapsed float64

	disabled bool
	pending  []string
}

func (a *Animation) SetTrigger(name string) {
	if a == nil || name == "" {
		return
	}
	a.pending = append(a.pending, name)
}

func (a *Animation) SetBool(name string, value bool) {
	if a == nil {
		return
	}
	if a.Bools == nil {
		a.Bools = make(map[string]bool)
	}
	a.Bools[name] = value
}

func (a *Animation) Enabled() bool {
	return a != nil && !a.disabled
}

func (a *Animation) SetEnabled(enabled bool) {
	if a == nil {
		return
	}
	a.disabled = !enabled
}

// TakeTriggers returns and clears the triggers set since the last call.
func (a *Animation) TakeTriggers() []string {
	if a == nil || len(a.pending) == 0 {
		return nil
	}
	out := a.pending
	a.pending = nil
	return out
}

var AnimationComponent = NewComponent[Animation]()
