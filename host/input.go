package host

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/foodfight/ecs/component"
)

const (
	// HandSpeed is how fast a hand moves under full input, in m/s.
	HandSpeed = 1.5
	// HandReach bounds how far a hand strays from its rest offset.
	HandReach = 0.6
	// ThrowBoost scales hand velocity into release velocity so desk
	// controls can reach the agents.
	ThrowBoost = 6.0
	// SpinRate is the release spin in rad/s for full lateral input.
	SpinRate = 2 * math.Pi

	stickDeadzone = 0.2
)

// Buttons is one frame of controls for a single hand.
type Buttons struct {
	// Move is the desired direction, each axis in [-1, 1].
	Move         mgl64.Vec3
	GrabPressed  bool
	GrabReleased bool
	Touch        bool
	Menu         bool
}

type keyBinding struct {
	left, right, forward, back, up, down ebiten.Key
	grab, touch                          ebiten.Key
}

var keyBindings = [2]keyBinding{
	{ebiten.KeyA, ebiten.KeyD, ebiten.KeyW, ebiten.KeyS, ebiten.KeyE, ebiten.KeyQ, ebiten.KeySpace, ebiten.KeyT},
	{ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyPageUp, ebiten.KeyPageDown, ebiten.KeyEnter, ebiten.KeyY},
}

type padBinding struct {
	horizontal, vertical ebiten.StandardGamepadAxis
	grab, touch          ebiten.StandardGamepadButton
}

var padBindings = [2]padBinding{
	{ebiten.StandardGamepadAxisLeftStickHorizontal, ebiten.StandardGamepadAxisLeftStickVertical, ebiten.StandardGamepadButtonFrontBottomLeft, ebiten.StandardGamepadButtonFrontTopLeft},
	{ebiten.StandardGamepadAxisRightStickHorizontal, ebiten.StandardGamepadAxisRightStickVertical, ebiten.StandardGamepadButtonFrontBottomRight, ebiten.StandardGamepadButtonFrontTopRight},
}

// readButtons polls keyboard and the first standard gamepad for hand i.
func readButtons(i int) Buttons {
	var b Buttons
	if i < 0 || i >= len(keyBindings) {
		return b
	}

	k := keyBindings[i]
	b.Move = mgl64.Vec3{
		axis(ebiten.IsKeyPressed(k.left), ebiten.IsKeyPressed(k.right)),
		axis(ebiten.IsKeyPressed(k.down), ebiten.IsKeyPressed(k.up)),
		axis(ebiten.IsKeyPressed(k.forward), ebiten.IsKeyPressed(k.back)),
	}
	b.GrabPressed = inpututil.IsKeyJustPressed(k.grab)
	b.GrabReleased = inpututil.IsKeyJustReleased(k.grab)
	b.Touch = inpututil.IsKeyJustPressed(k.touch)
	b.Menu = i == 0 && inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		p := padBindings[i]
		if x := ebiten.StandardGamepadAxisValue(id, p.horizontal); math.Abs(x) > stickDeadzone {
			b.Move[0] = x
		}
		if z := ebiten.StandardGamepadAxisValue(id, p.vertical); math.Abs(z) > stickDeadzone {
			b.Move[2] = z
		}
		b.GrabPressed = b.GrabPressed || inpututil.IsStandardGamepadButtonJustPressed(id, p.grab)
		b.GrabReleased = b.GrabReleased || inpututil.IsStandardGamepadButtonJustReleased(id, p.grab)
		b.Touch = b.Touch || inpututil.IsStandardGamepadButtonJustPressed(id, p.touch)
		b.Menu = b.Menu || (i == 0 && inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight))
		break
	}
	return b
}

func axis(neg, pos bool) float64 {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	}
	return 0
}

// applyButtons moves a hand within reach of rest and writes the debounced
// controller state the hand system reads.
func applyButtons(t *component.Transform, in *component.ControllerInput, rest mgl64.Vec3, b Buttons, dt float64) {
	if t == nil || in == nil {
		return
	}

	prev := t.LocalOffset
	next := prev
	if dt > 0 {
		next = prev.Add(b.Move.Mul(HandSpeed * dt))
	}
	if d := next.Sub(rest); d.Len() > HandReach {
		next = rest.Add(d.Normalize().Mul(HandReach))
	}
	t.LocalOffset = next

	in.Ready = true
	in.GrabDown = b.GrabPressed
	in.GrabUp = b.GrabReleased
	in.TouchDown = b.Touch
	in.MenuDown = b.Menu
	in.Origin = nil
	if dt > 0 {
		in.Velocity = next.Sub(prev).Mul(ThrowBoost / dt)
	} else {
		in.Velocity = mgl64.Vec3{}
	}
	in.AngularVelocity = mgl64.Vec3{0, -b.Move.X() * SpinRate, 0}
}

// rumble vibrates the first gamepad. The left hand drives the strong
// motor and the right hand the weak one.
type rumble struct {
	hand int
}

func (r rumble) Pulse(microseconds uint16) {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return
	}
	opts := &ebiten.VibrateGamepadOptions{Duration: time.Duration(microseconds) * time.Microsecond}
	if r.hand == 0 {
		opts.StrongMagnitude = 1
	} else {
		opts.WeakMagnitude = 1
	}
	ebiten.VibrateGamepad(ids[0], opts)
}

// hapticsFor maps the hand prefab names to rumble motors.
func hapticsFor(name string) component.Haptics {
	switch name {
	case "left":
		return rumble{hand: 0}
	case "right":
		return rumble{hand: 1}
	}
	return nil
}
