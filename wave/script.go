// Package wave spawns enemies between waves. A tengo script decides how many
// agents each wave brings, which weapon each carries and where it appears.
package wave

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/foodfight/prefabs"
)

// ErrBadOutput is returned when a script leaves count or assignments
// undefined or malformed.
var ErrBadOutput = errors.New("wave: bad script output")

// Assignment is one agent of a wave.
type Assignment struct {
	Weapon string
	Point  int
}

// Script is a compiled composition script. Each Compose call runs a fresh
// clone, so globals never leak between waves.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

// LoadScript compiles the named file from prefabs/scripts.
func LoadScript(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("wave: load %s: %w", name, err)
	}
	return NewScript(name, src)
}

// NewScript compiles src. name only labels errors.
func NewScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, input := range []string{"wave", "spawn_points", "max_enemies"} {
		if err := script.Add(input, 0); err != nil {
			return nil, fmt.Errorf("wave: %s: add %s: %w", name, input, err)
		}
	}
	if err := script.Add("weapons", []interface{}{}); err != nil {
		return nil, fmt.Errorf("wave: %s: add weapons: %w", name, err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("wave: compile %s: %w", name, err)
	}
	return &Script{name: name, compiled: compiled}, nil
}

// Name is the file the script was loaded from.
func (s *Script) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Compose runs the script for wave number n.
func (s *Script) Compose(n int, weapons []string, spawnPoints, maxEnemies int) ([]Assignment, error) {
	if s == nil || s.compiled == nil {
		return nil, fmt.Errorf("wave: no script")
	}

	run := s.compiled.Clone()
	names := make([]interface{}, len(weapons))
	for i, w := range weapons {
		names[i] = w
	}
	inputs := map[string]interface{}{
		"wave":         n,
		"weapons":      names,
		"spawn_points": spawnPoints,
		"max_enemies":  maxEnemies,
	}
	for k, v := range inputs {
		if err := run.Set(k, v); err != nil {
			return nil, fmt.Errorf("wave: %s: set %s: %w", s.name, k, err)
		}
	}
	if err := run.Run(); err != nil {
		return nil, fmt.Errorf("wave: run %s: %w", s.name, err)
	}

	if !run.IsDefined("count") || !run.IsDefined("assignments") {
		return nil, fmt.Errorf("%w: %s: count and assignments are required", ErrBadOutput, s.name)
	}
	count := run.Get("count").Int()
	raw := run.Get("assignments").Array()
	if count < 0 || len(raw) < count {
		return nil, fmt.Errorf("%w: %s: count %d with %d assignments", ErrBadOutput, s.name, count, len(raw))
	}

	out := make([]Assignment, 0, count)
	for i := 0; i < count; i++ {
		entry, ok := raw[i].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %s: assignment %d is %T", ErrBadOutput, s.name, i, raw[i])
		}
		a := Assignment{}
		a.Weapon, _ = entry["weapon"].(string)
		if p, ok := entry["point"].(int64); ok {
			a.Point = int(p)
		}
		out = append(out, a)
	}
	return out, nil
}
