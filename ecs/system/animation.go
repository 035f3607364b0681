package system

import (
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
)

// AnimationSystem plays trigger-started clips and pushes an AnimationEvent
// for every marker a clip passes.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach(w, component.AnimationComponent.Kind(), func(e ecs.Entity, anim *component.Animation) {
		triggers := anim.TakeTriggers()
		if !anim.Enabled() {
			anim.Current = ""
			anim.Elapsed = 0
			return
		}

		for _, name := range triggers {
			if _, ok := anim.Clips[name]; ok {
				anim.Current = name
				anim.Elapsed = 0
			}
		}

		clip, ok := anim.Clips[anim.Current]
		if !ok {
			anim.Current = ""
			return
		}

		prev := anim.Elapsed
		anim.Elapsed += dt
		done := anim.Elapsed >= clip.Duration

		for _, m := range clip.Markers {
			if m.At < prev {
				continue
			}
			if m.At < anim.Elapsed || (done && m.At <= clip.Duration) {
				w.Events().Push(ecs.Event{Type: ecs.EventAnimation, Data: ecs.AnimationEvent{Entity: e, Name: m.Name}})
			}
		}

		if done {
			anim.Current = ""
			anim.Elapsed = 0
		}
	})
}
