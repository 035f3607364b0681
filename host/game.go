// Package host runs the game under ebiten: it feeds keyboard and gamepad
// input to the hands, advances the frame and fixed phases, draws a top-down
// debug view and hot reloads prefabs.
package host

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/foodfight/assets"
	"github.com/milk9111/foodfight/common"
	"github.com/milk9111/foodfight/config"
	"github.com/milk9111/foodfight/ecs"
	"github.com/milk9111/foodfight/ecs/component"
	"github.com/milk9111/foodfight/ecs/entity"
	"github.com/milk9111/foodfight/match"
	"github.com/milk9111/foodfight/prefabs"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// maxFixedSteps caps catch-up after a long frame.
const maxFixedSteps = 5

// Options configure a Game.
type Options struct {
	Config    *config.Config
	Log       zerolog.Logger
	Metrics   *match.Metrics
	AssetsDir string
}

// Game implements ebiten.Game.
type Game struct {
	cfg  *config.Config
	log  zerolog.Logger
	deps sessionDeps

	session *session
	stepper stepper
	rest    []mgl64.Vec3

	watcher *prefabs.Watcher
	pause   *ebitenui.UI
	face    text.Face
	paused  bool
	quit    bool
}

func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("host: no config")
	}
	log := opts.Log.With().Str("system", "host").Logger()

	ctx := audio.NewContext(assets.SampleRate)
	g := &Game{
		cfg: cfg,
		log: log,
		deps: sessionDeps{
			log:     opts.Log,
			rng:     common.NewRand(cfg.Seed),
			metrics: opts.Metrics,
			sounds:  assets.NewLoader(ctx, opts.AssetsDir, opts.Log),
			haptics: hapticsFor,
		},
		stepper: stepper{step: cfg.FixedStep, max: maxFixedSteps},
		face:    text.NewGoXFace(basicfont.Face7x13),
	}

	if err := g.restart(); err != nil {
		return nil, err
	}
	g.pause = newPauseUI(g.face, cfg.Window.Width, cfg.Window.Height, pauseActions{
		resume: g.resume,
		restart: func() {
			if err := g.restart(); err != nil {
				g.log.Error().Err(err).Msg("restart")
			}
			g.resume()
		},
		quit: func() { g.quit = true },
	})

	if cfg.Prefabs.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			g.log.Warn().Err(err).Str("dir", prefabs.Dir).Msg("prefab hot reload disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// restart builds a fresh session, keeping the music of the current one.
func (g *Game) restart() error {
	var carry *component.MusicPlayer
	if g.session != nil {
		carry = g.session.musicState()
	}
	s, err := newSession(g.deps, carry)
	if err != nil {
		return fmt.Errorf("host: %w", err)
	}
	g.session = s
	g.rest = g.rest[:0]
	for _, hand := range s.scene.Hands {
		t, _ := ecs.Get(s.world, hand, component.TransformComponent.Kind())
		if t == nil {
			g.rest = append(g.rest, mgl64.Vec3{})
			continue
		}
		g.rest = append(g.rest, t.LocalOffset)
	}
	g.stepper.reset()
	g.log.Info().Int("hands", len(s.scene.Hands)).Int("spawn_points", len(s.scene.SpawnPoints)).Msg("session started")
	return nil
}

func (g *Game) resume() {
	g.paused = false
	if g.session != nil {
		g.session.state.GameActive = true
	}
}

func (g *Game) setPaused() {
	g.paused = true
	g.session.state.GameActive = false
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.applyPrefabChanges()

	s := g.session
	dt := 1.0 / float64(ebiten.TPS())

	if g.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.resume()
		}
		g.pause.Update()
		// Keep the menu track playing.
		s.world.SetDelta(dt)
		s.music.Update(s.world)
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.restart(); err != nil {
			g.log.Error().Err(err).Msg("restart")
		}
		s = g.session
	}

	for i, hand := range s.scene.Hands {
		t, _ := ecs.Get(s.world, hand, component.TransformComponent.Kind())
		in, _ := ecs.Get(s.world, hand, component.ControllerInputComponent.Kind())
		var rest mgl64.Vec3
		if i < len(g.rest) {
			rest = g.rest[i]
		}
		applyButtons(t, in, rest, readButtons(i), dt)
	}

	for n := g.stepper.advance(dt); n > 0; n-- {
		s.world.FixedUpdate(g.stepper.step)
	}
	s.world.Update(dt)

	if s.state.TakePauseRequest() {
		g.setPaused()
	}
	return nil
}

func (g *Game) applyPrefabChanges() {
	if g.watcher == nil {
		return
	}
	for _, change := range g.watcher.Pending() {
		rebuild, err := g.session.reload(change)
		switch {
		case errors.Is(err, entity.ErrUnknownPrefab):
			continue
		case err != nil:
			g.log.Error().Err(err).Str("file", change.Name).Msg("prefab reload")
			continue
		}
		g.log.Info().Str("file", change.Name).Bool("rebuild", rebuild).Msg("prefab reloaded")
		if rebuild {
			if err := g.restart(); err != nil {
				g.log.Error().Err(err).Msg("rebuild after prefab change")
			}
		}
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			g.log.Warn().Err(err).Msg("prefab watcher")
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	drawWorld(screen, g.session.world, newProjection(w, h))
	drawHUD(screen, g.face, hudLines(g.session, g.paused))
	if g.paused {
		g.pause.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Close stops the prefab watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

// stepper turns frame deltas into a whole number of fixed steps.
type stepper struct {
	step float64
	max  int
	acc  float64
}

func (s *stepper) advance(dt float64) int {
	if s.step <= 0 || dt <= 0 {
		return 0
	}
	s.acc += dt
	n := 0
	for s.acc >= s.step && n < s.max {
		s.acc -= s.step
		n++
	}
	if n == s.max && s.acc >= s.step {
		s.acc = 0
	}
	return n
}

func (s *stepper) reset() {
	s.acc = 0
}
