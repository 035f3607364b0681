package component

import "github.com/go-gl/mathgl/mgl64"

// ObjectKind classifies interactable objects.
type ObjectKind int

const (
	ObjectGeneric ObjectKind = iota
	ObjectSpawnBox
	ObjectProjectile
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectGeneric:
		return "generic"
	case ObjectSpawnBox:
		return "spawn_box"
	case ObjectProjectile:
		return "projectile"
	}
	return "unknown"
}

// OwnerKind is who currently holds an object.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerEnemy
	OwnerPlayer
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerNone:
		return "none"
	case OwnerEnemy:
		return "enemy"
	case OwnerPlayer:
		return "player"
	}
	return "unknown"
}

// Interactable marks an object a hand can detect. Holder is the hand or
// agent entity that owns it, 0 while free.
type Interactable struct {
	Kind   ObjectKind
	Owner  OwnerKind
	Holder uint64
}

var InteractableComponent = NewComponent[Interactable]()

// ThrowParameters shape a projectile's flight. They are written once at
// release and consumed by the physics step.
type ThrowParameters struct {
	Origin mgl64.Vec3
	Power  float64
	Target mgl64.Vec3
}

// Projectile carries thrower identity and pending flight parameters.
type Projectile struct {
	Template     string
	EnemyThrown  bool
	PlayerThrown bool
	HiddenSound  string
	Throw        *ThrowParameters
}

// SetThrowingValues records the flight parameters for the next physics step.
func (p *Projectile) SetThrowingValues(origin mgl64.Vec3, power float64, target mgl64.Vec3) {
	if p == nil {
		return
	}
	p.Throw = &ThrowParameters{Origin: origin, Power: power, Target: target}
}

// MarkThrownBy sets the identity bits for owner; the two bits never hold
// together.
func (p *Projectile) MarkThrownBy(owner OwnerKind) {
	if p == nil {
		return
	}
	p.EnemyThrown = owner == OwnerEnemy
	p.PlayerThrown = owner == OwnerPlayer
}

var ProjectileComponent = NewComponent[Projectile]()
