package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/foodfight/common"
)

// FacingState tracks whether the agent is still walking or has arrived and
// turns toward its reference target.
type FacingState int

const (
	FacingApproaching FacingState = iota
	FacingFacing
)

func (s FacingState) String() string {
	switch s {
	case FacingApproaching:
		return "approaching"
	case FacingFacing:
		return "facing"
	}
	return "unknown"
}

// ThrowState is the projectile cycle of an agent.
type ThrowState int

const (
	ThrowIdle ThrowState = iota
	ThrowHolding
	ThrowReadyToThrow
	ThrowThrown
)

func (s ThrowState) String() string {
	switch s {
	case ThrowIdle:
		return "idle"
	case ThrowHolding:
		return "holding"
	case ThrowReadyToThrow:
		return "ready_to_throw"
	case ThrowThrown:
		return "thrown"
	}
	return "unknown"
}

// LifeState only moves forward: alive, hit, pending destroy.
type LifeState int

const (
	LifeAlive LifeState = iota
	LifeHit
	LifePendingDestroy
)

func (s LifeState) String() string {
	switch s {
	case LifeAlive:
		return "alive"
	case LifeHit:
		return "hit"
	case LifePendingDestroy:
		return "pending_destroy"
	}
	return "unknown"
}

// AgentConfig is the per-agent tuning loaded from the agent prefab.
type AgentConfig struct {
	TurnSpeed     float64
	FaceRange     float64
	ThrowDelayMin float64
	ThrowDelayMax float64
	PowerMin      float64
	PowerMax      float64
	DeleteDelay   float64
	Volume        float64
	HitSounds     []string
}

// Agent is the runtime state of one enemy.
type Agent struct {
	Config AgentConfig

	Facing         FacingState
	FacingAchieved bool
	Throw          ThrowState
	Life           LifeState

	// Sampled once at spawn from the config ranges.
	ThrowDelay float64
	Power      float64

	ThrowElapsed   common.Timer
	DestroyElapsed common.Timer

	// Weapon names the projectile prefab this agent spawns.
	Weapon string
	// Held is the projectile in the agent's hand, 0 when empty.
	Held uint64
	// Hand is the anchor entity projectiles are parented to.
	Hand uint64
	// Target is the waypoint the agent walks to, 0 when none. Facing uses
	// the player rig instead.
	Target uint64

	// IsHit is set by whatever struck the agent.
	IsHit bool
}

var AgentComponent = NewComponent[Agent]()

// Ragdoll lists the body segments held kinematic until the agent is hit.
// Offsets place each part relative to the agent while kinematic.
type Ragdoll struct {
	Parts   []Body
	Offsets []mgl64.Vec3
}

var RagdollComponent = NewComponent[Ragdoll]()
