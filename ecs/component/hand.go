package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/common"
)

// Hand is one tracked player controller.
type Hand struct {
	// Tracked is the nearest in-range interactable, not owned.
	Tracked uint64
	// Attached is the object held through the grip joint.
	Attached uint64
	// Throwing is true for exactly one fixed step after a release.
	Throwing bool
	// Released is the body waiting for its release velocity.
	Released Body

	RumbleDelay    float64
	HapticStrength uint16

	hit           bool
	RumbleElapsed common.Timer
}

// Hit reports whether hit feedback is active.
func (h *Hand) Hit() bool {
	return h != nil && h.hit
}

// SetHit starts hit feedback. Only an inactive to active edge starts the
// countdown from zero; setting it again while active changes nothing.
func (h *Hand) SetHit(hit bool) {
	if h == nil || h.hit || !hit {
		return
	}
	h.hit = true
	h.RumbleElapsed.Reset()
}

// ClearHit ends hit feedback and zeroes the countdown.
func (h *Hand) ClearHit() {
	if h == nil {
		return
	}
	h.hit = false
	h.RumbleElapsed.Reset()
}

var HandComponent = NewComponent[Hand]()

// Grip holds the joint used to attach objects to a hand and the hand's
// devices.
type Grip struct {
	Joint   Joint
	Haptics Haptics
}

var GripComponent = NewComponent[Grip]()

// ControllerInput is the debounced per-frame state of a VR controller.
type ControllerInput struct {
	Ready bool

	GrabDown  bool
	GrabUp    bool
	TouchDown bool
	MenuDown  bool

	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	// Origin maps controller space into the tracking space; nil means the
	// controller already reports tracking-space velocities.
	Origin *mgl64.Mat4
}

var ControllerInputComponent = NewComponent[ControllerInput]()
