package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Navigation is the built-in straight-line NavAgent used when no engine
// navigator is attached. The navigation system moves the entity and
// refreshes the remaining distance.
type Navigation struct {
	Speed            float64
	StoppingDistance float64

	destination mgl64.Vec3
	disabled    bool
	remaining   float64
	measured    bool
}

func (n *Navigation) SetDestination(p mgl64.Vec3) {
	if n == nil {
		return
	}
	n.destination = p
	n.measured = false
}

func (n *Navigation) Destination() mgl64.Vec3 {
	if n == nil {
		return mgl64.Vec3{}
	}
	return n.destination
}

func (n *Navigation) Enabled() bool {
	return n != nil && !n.disabled
}

func (n *Navigation) SetEnabled(enabled bool) {
	if n == nil {
		return
	}
	n.disabled = !enabled
}

// RemainingDistance is +Inf until the navigation system has measured the
// path to the current destination.
func (n *Navigation) RemainingDistance() float64 {
	if n == nil || !n.measured {
		return math.Inf(1)
	}
	return n.remaining
}

// Measure records the distance left; values within StoppingDistance snap
// to zero.
func (n *Navigation) Measure(dist float64) {
	if n == nil {
		return
	}
	if dist <= n.StoppingDistance {
		dist = 0
	}
	n.remaining = dist
	n.measured = true
}

var NavigationComponent = NewComponent[Navigation]()

// AgentRig caches the collaborators an agent drives, resolved once when the
// agent is built.
type AgentRig struct {
	Nav      NavAgent
	Animator Animator
	Sounds   *Audio
}

var AgentRigComponent = NewComponent[AgentRig]()
