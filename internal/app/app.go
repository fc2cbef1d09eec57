// Package app is the card's ebiten.Game: it mounts one view per scene on a
// stage and routes user actions to the card session.
package app

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"go.uber.org/zap"

	"github.com/phanxgames/birthdaycard/internal/card"
	"github.com/phanxgames/birthdaycard/internal/ecs"
	"github.com/phanxgames/birthdaycard/internal/feast"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

// Options configures a Game.
type Options struct {
	Width, Height int
	Feed          feast.Config
	ShowFPS       bool
	Debug         bool
	// Script replays injected input. With ExitAfterScript the game ends once
	// it is done.
	Script          *stage.Script
	ExitAfterScript bool
	// Images supplies poem pictures; nil shows placeholders.
	Images *Images
	Logger *zap.Logger
	// Context ends the game loop once it is done. Nil runs until the window
	// closes.
	Context context.Context
}

// view is the content of one card scene.
type view interface {
	root() *stage.Node
	update(dt float64)
}

// Game implements ebiten.Game.
type Game struct {
	session *card.Session
	scene   *stage.Scene
	world   donburi.World
	fonts   *Fonts
	opts    Options
	logger  *zap.Logger

	width, height float64

	layer   *stage.Node // holds the current view
	view    view
	hud     *hud
	remount bool
	done    bool
}

// ErrScriptDone ends the game loop after a scripted run.
var ErrScriptDone = errors.New("script finished")

// New builds the game around session.
func New(session *card.Session, fonts *Fonts, opts Options) *Game {
	if opts.Width <= 0 {
		opts.Width = 960
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	g := &Game{
		session: session,
		scene:   stage.NewScene(),
		world:   donburi.NewWorld(),
		fonts:   fonts,
		opts:    opts,
		logger:  opts.Logger,
		width:   float64(opts.Width),
		height:  float64(opts.Height),
	}
	g.scene.ClearColor = colorBackground
	g.scene.SetLogger(g.logger.Named("stage"))
	g.scene.SetDebugMode(opts.Debug)
	g.scene.SetEntityStore(ecs.NewDonburiStore(g.world))

	ecs.InteractionEventType.Subscribe(g.world, g.onInteraction)
	ecs.FeastEventType.Subscribe(g.world, g.onFeastEvent)

	g.layer = stage.NewContainer("view")
	g.layer.Interactable = true
	g.scene.Root().AddChild(g.layer)
	g.hud = newHUD(g)
	g.scene.Root().AddChild(g.hud.node)
	if opts.ShowFPS {
		g.scene.Root().AddChild(stage.NewFPSWidget())
	}

	if opts.Script != nil {
		opts.Script.OnDone = func() {
			g.logger.Info("script finished")
			g.done = true
		}
		g.scene.SetScript(opts.Script)
	}

	session.OnSceneChange(func(from, to card.Scene) {
		g.logger.Info("scene changed",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.String("session", g.session.View().SessionID))
		g.remount = true
	})
	g.mount()
	return g
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1 / float64(ebiten.TPS())
	g.scene.Update(dt)
	return g.advance(dt)
}

// advance runs everything after input for one tick. A non-nil error ends the
// game loop.
func (g *Game) advance(dt float64) error {
	if ctx := g.opts.Context; ctx != nil && ctx.Err() != nil {
		g.logger.Info("shutting down", zap.Error(context.Cause(ctx)))
		return ebiten.Termination
	}
	if g.remount {
		g.mount()
	}
	if g.view != nil {
		g.view.update(dt)
	}
	events.ProcessAllEvents(g.world)
	if g.opts.Images != nil {
		g.opts.Images.flush()
	}
	g.hud.refresh()
	if g.done && g.opts.ExitAfterScript {
		return ErrScriptDone
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout implements ebiten.Game. The card renders at a fixed logical size.
func (g *Game) Layout(int, int) (int, int) {
	return g.opts.Width, g.opts.Height
}

// Scene returns the stage, for scripting and tests.
func (g *Game) Scene() *stage.Scene { return g.scene }

// mount replaces the current view with the one for the session's scene.
func (g *Game) mount() {
	g.remount = false
	g.scene.StopAnimations()
	for _, n := range append([]*stage.Node(nil), g.layer.Children()...) {
		n.Dispose()
	}

	v := g.session.View()
	switch v.Scene {
	case card.SceneMail:
		g.view = newMailView(g)
	case card.SceneSelection:
		g.view = newSelectionView(g)
	case card.SceneCake:
		g.view = newCakeView(g, v.Celebrant)
	case card.SceneBlessings:
		g.view = newBlessingsView(g, v.Celebrant)
	}
	g.layer.AddChild(g.view.root())
	g.hud.refresh()
}

func (g *Game) onInteraction(_ donburi.World, e stage.InteractionEvent) {
	if e.Type == stage.EventPointerEnter || e.Type == stage.EventPointerLeave {
		return
	}
	g.logger.Debug("interaction",
		zap.Stringer("type", e.Type),
		zap.Uint32("entity", e.EntityID),
		zap.Float64("x", e.GlobalX),
		zap.Float64("y", e.GlobalY))
}

func (g *Game) onFeastEvent(_ donburi.World, e feast.Event) {
	switch e.Kind {
	case feast.EventCut:
		g.session.PlayEffect(card.EffectSlice)
	case feast.EventPop:
		g.session.PlayEffect(card.EffectPop)
	case feast.EventFed:
		g.logger.Debug("fed", zap.String("name", e.Person.Name))
	case feast.EventComplete:
		g.logger.Info("everyone fed", zap.String("session", g.session.View().SessionID))
	}
	if cv, ok := g.view.(*cakeView); ok {
		cv.handle(e)
	}
}

// animate starts a tween on the stage.
func (g *Game) animate(t *stage.TweenGroup) *stage.TweenGroup {
	return g.scene.Animate(t)
}
