package stage

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// EntityStore receives interaction events for nodes with a non-zero EntityID.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent is the EntityStore payload.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	Button   MouseButton
	// Valid for drag events.
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// Scene owns the node tree, input state, running tweens and the optional
// input script.
type Scene struct {
	root   *Node
	store  EntityStore
	logger *zap.Logger
	debug  bool

	ClearColor Color

	tweens []*TweenGroup
	script *Script

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string

	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent

	frames int
}

// NewScene creates a scene with an interactable root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		logger:        zap.NewNop(),
		dragDeadZone:  defaultDragDeadZone,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the root container.
func (s *Scene) Root() *Node {
	return s.root
}

// SetLogger sets the logger used for warnings and debug stats.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
	if s.debug {
		setDebugLogger(l)
	}
}

// SetEntityStore sets the interaction event sink.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables disposed-node panics, tree size warnings and periodic
// frame stats at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	if enabled {
		setDebugLogger(s.logger)
	} else {
		setDebugLogger(nil)
	}
}

// Animate starts g. It is advanced by Update and dropped once done.
func (s *Scene) Animate(g *TweenGroup) *TweenGroup {
	s.tweens = append(s.tweens, g)
	return g
}

// StopAnimations drops every running tween without completing it.
func (s *Scene) StopAnimations() {
	clear(s.tweens)
	s.tweens = s.tweens[:0]
}

// Update advances the scene by dt seconds and processes input. Call it from
// ebiten.Game.Update.
func (s *Scene) Update(dt float64) {
	if !s.Step(dt) {
		s.processMousePointer()
	}
	s.processTouchPointers()
}

// Step advances the scene by dt seconds and feeds at most one injected
// pointer event, without reading devices. It reports whether an injected
// event was consumed.
func (s *Scene) Step(dt float64) bool {
	s.advance(dt)
	return s.processInjectedInput()
}

// advance runs everything but device input.
func (s *Scene) advance(dt float64) {
	updateWorldTransform(s.root, identityTransform, 1, false)
	updateNodes(s.root, dt)
	s.updateTweens(float32(dt))
	if s.script != nil {
		s.script.step(s)
	}
	// Tweens and callbacks may have moved nodes; hit testing needs them fresh.
	updateWorldTransform(s.root, identityTransform, 1, false)
}

func (s *Scene) updateTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}

// updateNodes runs OnUpdate hooks and particle simulation. Children added by
// a hook are visited in the same pass.
func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	if n.Emitter != nil {
		n.Emitter.update(dt)
	}
	for i := 0; i < len(n.children); i++ {
		updateNodes(n.children[i], dt)
	}
}

// Draw renders the tree onto screen. Call it from ebiten.Game.Draw.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	var stats drawStats
	s.draw(screen, s.root, identityTransform, 1, &stats)
	s.flushScreenshots(screen)

	s.frames++
	if s.debug {
		stats.elapsed = time.Since(t0)
		s.debugFrame(stats)
	}
}
