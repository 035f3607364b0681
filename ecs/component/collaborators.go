package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// NavAgent is the navigation black box an agent walks with.
type NavAgent interface {
	SetDestination(p mgl64.Vec3)
	Destination() mgl64.Vec3
	Enabled() bool
	SetEnabled(enabled bool)
	// RemainingDistance is zero once the agent has arrived.
	RemainingDistance() float64
}

// Body is a simulated rigid body owned by the physics engine.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Kinematic() bool
	SetKinematic(kinematic bool)
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(v mgl64.Vec3)
	MaxAngularVelocity() float64
	SetMaxAngularVelocity(max float64)
}

// Joint rigidly binds a body to a hand. At most one body is connected.
type Joint interface {
	Connect(b Body) error
	Disconnect()
	Connected() Body
}

// Animator drives named animation parameters.
type Animator interface {
	SetTrigger(name string)
	SetBool(name string, value bool)
	Enabled() bool
	SetEnabled(enabled bool)
}

// Haptics requests a controller vibration pulse.
type Haptics interface {
	Pulse(microseconds uint16)
}

// Outliner recolors an object's highlight outline.
type Outliner interface {
	SetOutline(c color.Color)
}

// Playable is a rewindable audio stream. *audio.Player from ebiten
// satisfies it.
type Playable interface {
	IsPlaying() bool
	Play()
	Pause()
	Rewind() error
	SetVolume(volume float64)
}
