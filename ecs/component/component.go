// Package component holds the plain data attached to entities and the
// collaborator interfaces (bodies, joints, audio, haptics) systems drive.
package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a component store. Zero is never assigned.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the typed key for one component store.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind registers a fresh store id for T.
func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{
		id:   ComponentID(nextComponentID.Add(1)),
		name: fmt.Sprintf("%T", zero),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// String names the stored type, e.g. "component.Agent".
func (k ComponentKind[T]) String() string {
	if k.name == "" {
		return "<invalid>"
	}
	return k.name
}

// ComponentHandle is the package-level value each component file exports.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
