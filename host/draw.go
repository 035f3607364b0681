package host

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"golang.org/x/image/colornames"
)

// pixelsPerMeter is the top-down debug view scale.
const pixelsPerMeter = 60

// projection maps the ground plane to the screen with the player rig near
// the bottom and agents approaching from the top.
type projection struct {
	cx, cy float64
	scale  float64
}

func newProjection(width, height int) projection {
	return projection{cx: float64(width) / 2, cy: float64(height) * 0.8, scale: pixelsPerMeter}
}

func (p projection) point(pos mgl64.Vec3) (float32, float32) {
	return float32(p.cx + pos.X()*p.scale), float32(p.cy + pos.Z()*p.scale)
}

func (p projection) length(m float64) float32 {
	return float32(m * p.scale)
}

func drawWorld(screen *ebiten.Image, w *ecs.World, p projection) {
	ecs.ForEach2(w, component.AimMarkerTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.AimMarkerTag, t *component.Transform) {
		x, y := p.point(t.Position)
		vector.StrokeLine(screen, x-5, y-5, x+5, y+5, 1, colornames.Orange, true)
		vector.StrokeLine(screen, x-5, y+5, x+5, y-5, 1, colornames.Orange, true)
	})

	ecs.ForEach2(w, component.PlayerRigTagComponent.Kind(), component.RigidBodyComponent.Kind(), func(e ecs.Entity, _ *component.PlayerRigTag, rb *component.RigidBody) {
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			x, y := p.point(t.Position)
			vector.StrokeCircle(screen, x, y, p.length(rb.Radius), 2, colornames.Lightskyblue, true)
		}
	})

	ecs.ForEach2(w, component.SpawnBoxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, box *component.SpawnBox, t *component.Transform) {
		x, y := p.point(t.Position)
		half := p.length(0.2)
		vector.StrokeRect(screen, x-half, y-half, 2*half, 2*half, 2, outlineOf(w, e), true)
	})

	ecs.ForEach2(w, component.AgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.Agent, t *component.Transform) {
		drawAgent(screen, w, e, agent, t, p)
	})

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, proj *component.Projectile, t *component.Transform) {
		radius := 0.06
		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok && rb.Radius > 0 {
			radius = rb.Radius
		}
		x, y := p.point(t.Position)
		fill := colornames.Khaki
		switch {
		case proj.EnemyThrown:
			fill = colornames.Tomato
		case proj.PlayerThrown:
			fill = colornames.Mediumseagreen
		}
		vector.FillCircle(screen, x, y, p.length(radius)+2, fill, true)
		vector.StrokeCircle(screen, x, y, p.length(radius)+3, 1, outlineOf(w, e), true)
	})

	ecs.ForEach2(w, component.HandComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, hand *component.Hand, t *component.Transform) {
		x, y := p.point(t.Position)
		c := colornames.White
		if hand.Hit() {
			c = colornames.Red
		}
		r := p.length(0.1)
		if hand.Attached != 0 {
			vector.FillCircle(screen, x, y, r, c, true)
		} else {
			vector.StrokeCircle(screen, x, y, r, 2, c, true)
		}
	})
}

func drawAgent(screen *ebiten.Image, w *ecs.World, e ecs.Entity, agent *component.Agent, t *component.Transform, p projection) {
	radius := 0.35
	if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok && rb.Radius > 0 {
		radius = rb.Radius
	}
	x, y := p.point(t.Position)

	var c color.Color = colornames.Mediumpurple
	switch agent.Life {
	case component.LifeHit:
		c = colornames.Gray
	case component.LifePendingDestroy:
		c = colornames.Dimgray
	default:
		if agent.Throw == component.ThrowReadyToThrow {
			c = colornames.Gold
		}
	}
	vector.FillCircle(screen, x, y, p.length(radius), c, true)

	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl64.QuatIdent()
	}
	hx, hy := p.point(t.Position.Add(rot.Rotate(common.Forward).Mul(radius * 1.6)))
	vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.White, true)

	if agent.Life == component.LifeAlive {
		return
	}
	if r, ok := ecs.Get(w, e, component.RagdollComponent.Kind()); ok {
		for _, part := range r.Parts {
			if part == nil {
				continue
			}
			px, py := p.point(part.Position())
			vector.StrokeCircle(screen, px, py, 4, 1, colornames.Lightgray, true)
		}
	}
}

func outlineOf(w *ecs.World, e ecs.Entity) color.Color {
	if o, ok := ecs.Get(w, e, component.OutlineComponent.Kind()); ok && o.Color != nil {
		return o.Color
	}
	return colornames.White
}

// hudLines is the status text drawn in the top-left corner.
func hudLines(s *session, paused bool) []string {
	if s == nil {
		return nil
	}
	lines := []string{
		fmt.Sprintf("wave %d   enemies %d   score %d   thrown %d",
			s.spawner.Wave(), s.state.EnemiesLeft, s.state.PlayerScore, s.state.ItemsThrown),
		fmt.Sprintf("music %s", s.state.Music.Current),
	}
	if paused {
		lines = append(lines, "paused")
	}
	return lines
}

func drawHUD(screen *ebiten.Image, face text.Face, lines []string) {
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, 8+float64(i)*16)
		op.ColorScale.ScaleWithColor(colornames.White)
		text.Draw(screen, line, face, op)
	}
}
