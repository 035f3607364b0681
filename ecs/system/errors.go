package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/foodfight/ecs"
)

var (
	ErrNoAimMarkers       = errors.New("no aim markers in scene")
	ErrNoTarget           = errors.New("no reference target")
	ErrNoWeapon           = errors.New("no weapon template set")
	ErrNoHandAnchor       = errors.New("no hand anchor")
	ErrNotHolding         = errors.New("not holding a projectile")
	ErrControllerNotReady = errors.New("controller not ready")
)

// ConfigurationError reports scene or prefab setup that makes an entity
// unable to run. It wraps one of the sentinels above.
type ConfigurationError struct {
	Entity ecs.Entity
	Field  string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Entity == 0 {
		return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration: entity %s: %s: %v", e.Entity, e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configError(e ecs.Entity, field string, err error) error {
	return &ConfigurationError{Entity: e, Field: field, Err: err}
}

var errNoTrackLoader = errors.New("music: no track loader")
