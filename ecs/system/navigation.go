package system

import (
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
)

// NavigationSystem steers entities in a straight line toward their
// destination on the ground plane and measures the distance left.
type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem {
	return &NavigationSystem{}
}

func (n *NavigationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.Delta()
	ecs.ForEach2(w, component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.Navigation, t *component.Transform) {
		if !nav.Enabled() {
			return
		}

		offset := common.Horizontal(t.Position, nav.Destination())
		dist := offset.Len()
		if dist > nav.StoppingDistance {
			step := nav.Speed * dt
			left := dist - step
			if left <= nav.StoppingDistance {
				step = dist - nav.StoppingDistance
				left = nav.StoppingDistance
			}
			if step > 0 {
				t.Position = t.Position.Add(offset.Mul(step / dist))
				dist = left
			}
		}
		nav.Measure(dist)

		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok && rb.Body != nil && rb.Body.Kinematic() {
			rb.Body.SetPosition(t.Position)
		}
	})
}
