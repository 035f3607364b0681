package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProjectile is returned when a catalog lookup misses.
var ErrUnknownProjectile = errors.New("prefabs: unknown projectile")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// RangeSpec is an inclusive [min, max] sampling range.
type RangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type AudioSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type AnimationMarkerSpec struct {
	At   float64 `yaml:"at"`
	Name string  `yaml:"name"`
}

type AnimationClipSpec struct {
	Duration float64               `yaml:"duration"`
	Markers  []AnimationMarkerSpec `yaml:"markers"`
}

type NavSpec struct {
	Speed            float64 `yaml:"speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
}

type RagdollPartSpec struct {
	Offset Vec3Spec `yaml:"offset"`
	Radius float64  `yaml:"radius"`
	Mass   float64  `yaml:"mass"`
}

type AgentSpec struct {
	Name        string                       `yaml:"name"`
	TurnSpeed   float64                      `yaml:"turn_speed"`
	FaceRange   float64                      `yaml:"face_range"`
	ThrowDelay  RangeSpec                    `yaml:"throw_delay"`
	Power       RangeSpec                    `yaml:"power"`
	DeleteDelay float64                      `yaml:"delete_delay"`
	Volume      float64                      `yaml:"volume"`
	HitSounds   []AudioSpec                  `yaml:"hit_sounds"`
	Radius      float64                      `yaml:"radius"`
	Mass        float64                      `yaml:"mass"`
	Nav         NavSpec                      `yaml:"nav"`
	HandOffset  Vec3Spec                     `yaml:"hand_offset"`
	Ragdoll     []RagdollPartSpec            `yaml:"ragdoll"`
	Animation   map[string]AnimationClipSpec `yaml:"animation"`
}

func (s *AgentSpec) Validate() error {
	if s.ThrowDelay.Min > s.ThrowDelay.Max {
		return fmt.Errorf("prefabs: agent %q: throw_delay min %.2f above max %.2f", s.Name, s.ThrowDelay.Min, s.ThrowDelay.Max)
	}
	if s.Power.Min > s.Power.Max {
		return fmt.Errorf("prefabs: agent %q: power min %.2f above max %.2f", s.Name, s.Power.Min, s.Power.Max)
	}
	if s.TurnSpeed <= 0 {
		return fmt.Errorf("prefabs: agent %q: turn_speed must be positive", s.Name)
	}
	return nil
}

func LoadAgentSpec() (*AgentSpec, error) {
	spec, err := LoadSpec[AgentSpec]("agent.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

type HandPlacementSpec struct {
	Name   string   `yaml:"name"`
	Offset Vec3Spec `yaml:"offset"`
}

type OutlineSpec struct {
	Idle      *YAMLColor `yaml:"idle"`
	Missed    *YAMLColor `yaml:"missed"`
	Available *YAMLColor `yaml:"available"`
}

type HandSpec struct {
	RumbleDelay    float64             `yaml:"rumble_delay"`
	HapticStrength uint16              `yaml:"haptic_strength"`
	Radius         float64             `yaml:"radius"`
	ExitPolicy     string              `yaml:"exit_policy"`
	Outline        OutlineSpec         `yaml:"outline"`
	Hands          []HandPlacementSpec `yaml:"hands"`
}

func LoadHandSpec() (*HandSpec, error) {
	spec, err := LoadSpec[HandSpec]("hand.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ProjectileSpec struct {
	Name        string  `yaml:"name"`
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass"`
	HiddenSound string  `yaml:"hidden_sound"`
}

// ProjectileCatalog lists every object a hand or agent can spawn. Its order
// is the random pool order spawn boxes draw from.
type ProjectileCatalog struct {
	Projectiles []ProjectileSpec `yaml:"projectiles"`
}

func (c *ProjectileCatalog) Find(name string) (ProjectileSpec, error) {
	if c != nil {
		for _, p := range c.Projectiles {
			if p.Name == name {
				return p, nil
			}
		}
	}
	return ProjectileSpec{}, fmt.Errorf("%w: %q", ErrUnknownProjectile, name)
}

func (c *ProjectileCatalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Projectiles))
	for _, p := range c.Projectiles {
		names = append(names, p.Name)
	}
	return names
}

func LoadProjectileCatalog() (*ProjectileCatalog, error) {
	spec, err := LoadSpec[ProjectileCatalog]("projectiles.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type MusicSpec struct {
	Default    string      `yaml:"default"`
	Alternates []string    `yaml:"alternates"`
	FadeFrames int         `yaml:"fade_frames"`
	Tracks     []AudioSpec `yaml:"tracks"`
}

type RigSpec struct {
	Position Vec3Spec `yaml:"position"`
	Radius   float64  `yaml:"radius"`
}

// SpawnPointSpec is where an agent appears and the spot it walks to.
type SpawnPointSpec struct {
	Position    Vec3Spec `yaml:"position"`
	Destination Vec3Spec `yaml:"destination"`
}

type SpawnBoxSpec struct {
	Position      Vec3Spec `yaml:"position"`
	Current       string   `yaml:"current"`
	ChangeDelay   float64  `yaml:"change_delay"`
	UseRandomPool bool     `yaml:"use_random_pool"`
	Weapons       []string `yaml:"weapons"`
}

type WaveSpec struct {
	Script     string   `yaml:"script"`
	Weapons    []string `yaml:"weapons"`
	Interval   float64  `yaml:"interval"`
	MaxEnemies int      `yaml:"max_enemies"`
}

// MatchSpec lays out one arena.
type MatchSpec struct {
	Music       MusicSpec        `yaml:"music"`
	Rig         RigSpec          `yaml:"rig"`
	AimMarkers  []Vec3Spec       `yaml:"aim_markers"`
	SpawnPoints []SpawnPointSpec `yaml:"spawn_points"`
	SpawnBoxes  []SpawnBoxSpec   `yaml:"spawn_boxes"`
	Wave        WaveSpec         `yaml:"wave"`
}

func (s *MatchSpec) Validate() error {
	if len(s.AimMarkers) == 0 {
		return errors.New("prefabs: match: no aim_markers")
	}
	if len(s.SpawnPoints) == 0 {
		return errors.New("prefabs: match: no spawn_points")
	}
	return nil
}

func LoadMatchSpec() (*MatchSpec, error) {
	spec, err := LoadSpec[MatchSpec]("match.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color %s: %w", value.Value, err)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}

// Or returns the parsed color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
