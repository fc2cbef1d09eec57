package app

import (
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/birthdaycard/internal/card"
	"github.com/phanxgames/birthdaycard/internal/ecs"
	"github.com/phanxgames/birthdaycard/internal/feast"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

const (
	cakeRadius   = 128
	avatarRadius = 36
	sliceW       = 60
	sliceH       = 44
	knifeSpan    = 0.7
	confettiPop  = 40
	nextCaption  = "Everyone is happy! Next"
	cutHint      = "Drag to cut!"
	messageWidth = 440
)

// seat is one roster member's on-screen avatar.
type seat struct {
	person feast.Person
	ring   *stage.Node
	disc   *stage.Node
}

// cakeView renders the feeding mini-game and implements feast.Locator so the
// game reads avatar and slice positions straight from the scene graph.
type cakeView struct {
	g    *Game
	game *feast.Game
	node *stage.Node

	cx, cy     float64 // cake center
	homeX      float64
	homeY      float64
	grabX      float64 // slice position when the current drag began
	grabY      float64
	dragging   bool
	snapBack   *stage.TweenGroup
	nextShown  bool
	message    *stage.Node
	cake       *stage.Node
	gap        *stage.Node
	knife      *stage.Node
	slice      *stage.Node
	hint       *stage.Node
	confetti   *stage.Node
	next       *stage.Node
	seats      map[int]*seat
	lastNotice string
}

func newCakeView(g *Game, celebrant card.Celebrant) *cakeView {
	v := &cakeView{
		g:     g,
		game:  feast.New(feast.NewRoster(string(celebrant), celebrant.Avatar()), g.opts.Feed),
		node:  stage.NewContainer("cake-view"),
		cx:    g.width / 2,
		cy:    g.height/2 + 20,
		seats: make(map[int]*seat),
	}
	v.node.Interactable = true
	ecs.NewFeastBridge(g.world).Attach(v.game)

	table := stage.NewCircle("table", 250, colorTable)
	table.SetPosition(v.cx, v.cy)
	v.node.AddChild(table)

	v.buildMessage()
	v.buildCake(string(celebrant))
	for i, p := range v.game.Roster() {
		v.buildSeat(i, p)
	}
	v.buildSlice()

	v.confetti = stage.NewParticles("confetti", stage.EmitterConfig{
		MaxParticles: 240,
		EmitRate:     30,
		Lifetime:     stage.Range{Min: 1.2, Max: 2},
		Speed:        stage.Range{Min: 120, Max: 320},
		Angle:        stage.Range{Min: 0, Max: 2 * math.Pi},
		Size:         stage.Range{Min: 5, Max: 9},
		Spin:         stage.Range{Min: -6, Max: 6},
		Gravity:      stage.Vec2{Y: 200},
		Colors:       confettiColors,
		StartAlpha:   1,
		EndAlpha:     0,
	})
	v.confetti.SetPosition(v.cx, v.cy)
	v.confetti.ZIndex = 20
	v.node.AddChild(v.confetti)

	v.next = newButton("next", nextCaption, g.fonts.Head, 320, 54, colorGreen, func() {
		g.session.FinishCake()
	})
	v.next.EntityID = entityNext
	v.next.SetPosition(v.cx, g.height-50)
	v.next.ZIndex = 30
	v.next.Visible = false
	v.node.AddChild(v.next)

	v.sync()
	return v
}

func (v *cakeView) buildMessage() {
	pill := stage.NewRect("message-pill", messageWidth, 44, colorPanel.WithAlpha(0.9))
	pill.SetPivot(messageWidth/2, 0)
	pill.SetPosition(v.cx, 18)
	v.node.AddChild(pill)

	v.message = newLabel("message", v.game.Message(), v.g.fonts.Head, colorMessage)
	_, h := v.g.fonts.Head.Measure("M")
	v.message.SetPosition(v.cx, 18+(44-h)/2)
	v.node.AddChild(v.message)
}

func (v *cakeView) buildCake(name string) {
	v.cake = stage.NewContainer("cake")
	v.cake.SetPosition(v.cx, v.cy)
	v.node.AddChild(v.cake)

	v.cake.AddChild(stage.NewCircle("cake-edge", cakeRadius, colorCakeEdge))
	v.cake.AddChild(stage.NewCircle("cake-top", cakeRadius-8, colorCakeTop))
	v.cake.AddChild(stage.NewCircle("cake-ring", cakeRadius-24, colorCakeRing))
	v.cake.AddChild(stage.NewCircle("cake-inner", cakeRadius-28, colorCakeTop))

	title := newLabel("cake-title", "Happy Birthday", v.g.fonts.Body, colorCakeText)
	title.SetPosition(0, 10)
	v.cake.AddChild(title)
	who := newLabel("cake-name", name, v.g.fonts.Head, colorCakeName)
	who.SetPosition(0, 34)
	v.cake.AddChild(who)

	candle := stage.NewRect("candle", 8, 32, colorCandle)
	candle.SetPosition(-4, -cakeRadius+16)
	v.cake.AddChild(candle)
	flame := stage.NewCircle("flame", 6, colorFlame)
	flame.SetPosition(4, -6)
	candle.AddChild(flame)
	v.g.animate(stage.Keyframes(flame, stage.PropScale, []float64{1, 1.25, 0.9, 1}, 0.8, ease.InOutSine).Repeat())

	// The missing wedge shows whenever the slice is off the cake.
	v.gap = stage.NewRect("gap", sliceW, sliceH, colorCakeEdge)
	v.gap.SetPivot(sliceW/2, sliceH/2)
	v.gap.SetPosition(0, -40)
	v.gap.Visible = false
	v.cake.AddChild(v.gap)

	v.knife = stage.NewContainer("knife")
	v.knife.SetAlpha(0)
	v.knife.ZIndex = 15
	blade := stage.NewRect("blade", 10, 70, colorBlade)
	blade.SetPosition(-5, -70)
	v.knife.AddChild(blade)
	handle := stage.NewRect("handle", 12, 30, colorHandle)
	handle.SetPosition(-6, 0)
	v.knife.AddChild(handle)
	v.knife.SetPosition(v.cx, v.cy-40)
	v.node.AddChild(v.knife)
}

func (v *cakeView) buildSeat(i int, p feast.Person) {
	off := feast.RingOffset(i, v.g.width)
	x, y := v.cx+off.X, v.cy+off.Y

	s := &seat{person: p}
	s.ring = stage.NewCircle(fmt.Sprintf("ring-%d", p.ID), avatarRadius+4, colorRingIdle)
	s.ring.SetPosition(x, y)
	v.node.AddChild(s.ring)

	col := colorMuted
	if p.IsCelebrant {
		col = colorPink
	}
	s.disc = newAvatarDisc(fmt.Sprintf("avatar-%d", p.ID), avatarGlyph(p.Avatar, p.Name), avatarRadius, col, v.g.fonts.Head)
	s.disc.SetPosition(x, y)
	v.node.AddChild(s.disc)

	tagColor := colorTag
	textColor := colorInk
	if p.IsCelebrant {
		tagColor = colorPink
		textColor = colorWhite
	}
	tag := stage.NewRect(fmt.Sprintf("tag-%d", p.ID), 96, 22, tagColor)
	tag.SetPivot(48, 0)
	tag.SetPosition(x, y+avatarRadius+8)
	v.node.AddChild(tag)
	label := newLabel(fmt.Sprintf("tag-%d-label", p.ID), p.Name, v.g.fonts.Small, textColor)
	_, h := v.g.fonts.Small.Measure(p.Name)
	label.SetPosition(48, (22-h)/2)
	tag.AddChild(label)

	v.seats[p.ID] = s
}

func (v *cakeView) buildSlice() {
	v.homeX, v.homeY = v.cx, v.cy-40

	v.slice = stage.NewRect("slice", sliceW, sliceH, colorSponge)
	v.slice.SetPivot(sliceW/2, sliceH/2)
	v.slice.SetPosition(v.homeX, v.homeY)
	v.slice.Interactable = true
	v.slice.EntityID = entitySlice
	v.slice.ZIndex = 10
	frosting := stage.NewRect("frosting", sliceW, 12, colorFrosting)
	v.slice.AddChild(frosting)
	cherry := stage.NewCircle("cherry", 6, colorRed)
	cherry.SetPosition(sliceW/2, 2)
	v.slice.AddChild(cherry)

	v.slice.OnDragStart = func(stage.DragContext) {
		if !v.game.BeginDrag() {
			return
		}
		// A re-grab takes the slice wherever the snap-back left it.
		if v.snapBack != nil {
			v.snapBack.Done = true
			v.snapBack = nil
		}
		v.dragging = true
		v.grabX, v.grabY = v.slice.X, v.slice.Y
		v.slice.SetScale(1.2, 1.2)
	}
	v.slice.OnDrag = func(ctx stage.DragContext) {
		if v.dragging {
			v.slice.SetPosition(v.grabX+ctx.GlobalX-ctx.StartX, v.grabY+ctx.GlobalY-ctx.StartY)
		}
	}
	v.slice.OnDragEnd = func(ctx stage.DragContext) {
		if !v.dragging {
			return
		}
		v.dragging = false
		v.slice.SetPosition(v.grabX+ctx.GlobalX-ctx.StartX, v.grabY+ctx.GlobalY-ctx.StartY)
		v.slice.SetScale(1, 1)
		if fed := v.game.EndDrag(v); len(fed) > 0 {
			v.slice.Visible = false
			v.slice.SetPosition(v.homeX, v.homeY)
			return
		}
		v.snapBack = v.g.animate(stage.TweenPosition(v.slice, v.homeX, v.homeY, 0.25, ease.OutBack))
		v.snapBack.OnDone = func() { v.snapBack = nil }
	}
	v.node.AddChild(v.slice)

	v.hint = stage.NewContainer("hint")
	v.hint.ZIndex = 11
	bubble := stage.NewRect("hint-bubble", 130, 28, colorBlue)
	bubble.SetPivot(65, 14)
	v.hint.AddChild(bubble)
	text := newLabel("hint-text", cutHint, v.g.fonts.Small, colorWhite)
	_, h := v.g.fonts.Small.Measure(cutHint)
	text.SetPosition(0, -h/2)
	v.hint.AddChild(text)
	hx, hy := v.homeX+70, v.homeY-50
	v.hint.SetPosition(hx, hy)
	v.node.AddChild(v.hint)
	v.g.animate(stage.Keyframes(v.hint, stage.PropY, []float64{hy, hy - 8, hy}, 1, ease.InOutSine).Repeat())
}

// SliceCenter implements feast.Locator.
func (v *cakeView) SliceCenter() (feast.Point, bool) {
	c, ok := v.slice.WorldCenter()
	return feast.Point{X: c.X, Y: c.Y}, ok
}

// AvatarCenter implements feast.Locator.
func (v *cakeView) AvatarCenter(id int) (feast.Point, bool) {
	s, ok := v.seats[id]
	if !ok {
		return feast.Point{}, false
	}
	c, ok := s.disc.WorldCenter()
	return feast.Point{X: c.X, Y: c.Y}, ok
}

// handle reacts to mini-game events after they come off the bus.
func (v *cakeView) handle(e feast.Event) {
	switch e.Kind {
	case feast.EventCut:
		v.cut()
	case feast.EventFed:
		v.feed(e.Person)
	case feast.EventPop:
		v.g.animate(stage.Keyframes(v.cake, stage.PropScale, []float64{1, 0.95, 1.05, 1}, 0.4, ease.OutQuad))
		v.confetti.Emitter.Burst(confettiPop)
	case feast.EventRespawn:
		v.slice.SetPosition(v.homeX, v.homeY)
		v.slice.SetAlpha(0)
		v.slice.SetScale(0.5, 0.5)
		v.slice.Visible = true
		v.g.animate(stage.TweenAlpha(v.slice, 1, 0.3, ease.OutQuad).With(stage.TweenScale(v.slice, 1, 0.3, ease.OutBack)))
	}
	v.sync()
}

func (v *cakeView) cut() {
	x, y := v.cx, v.cy-40
	v.g.animate(stage.Keyframes(v.knife, stage.PropX, []float64{x + 60, x - 20, x + 40, x}, knifeSpan, ease.OutQuad).
		With(stage.Keyframes(v.knife, stage.PropY, []float64{y - 100, y + 20, y - 10, y}, knifeSpan, ease.OutQuad)).
		With(stage.Keyframes(v.knife, stage.PropRotation, degrees(45, -30, 10, -15), knifeSpan, ease.OutQuad)).
		With(stage.Keyframes(v.knife, stage.PropAlpha, []float64{0, 1, 1, 0}, knifeSpan, ease.OutQuad)))
}

func (v *cakeView) feed(p feast.Person) {
	s, ok := v.seats[p.ID]
	if !ok {
		return
	}
	s.person = p
	v.g.animate(stage.TweenColor(s.ring, colorGreen, 0.3, ease.OutQuad))
	v.g.animate(stage.Keyframes(s.disc, stage.PropScale, []float64{1, 1.25, 1.1}, 0.35, ease.OutQuad))
	if kids := s.disc.Children(); len(kids) > 0 && kids[0].Text != nil {
		kids[0].Text.Content = avatarGlyph(feast.FedAvatar, p.Name)
	}

	heart := stage.NewCircle(fmt.Sprintf("heart-%d", p.ID), 10, colorRed)
	heart.SetPosition(s.disc.X, s.disc.Y-avatarRadius)
	heart.ZIndex = 12
	v.node.AddChild(heart)
	rise := stage.TweenPosition(heart, heart.X, heart.Y-50, 1, ease.OutQuad).
		With(stage.TweenAlpha(heart, 0, 1, ease.Linear))
	rise.OnDone = heart.Dispose
	v.g.animate(rise)
}

// sync mirrors game state onto nodes that follow it every frame.
func (v *cakeView) sync() {
	if msg := v.game.Message(); msg != v.lastNotice {
		v.message.Text.Content = msg
		v.lastNotice = msg
	}
	state := v.game.State()
	v.gap.Visible = state != feast.StateIdle
	v.hint.Visible = v.game.FedCount() == 0 && state == feast.StateIdle

	if !v.game.CelebrantFed() {
		return
	}
	if !v.confetti.Emitter.IsActive() {
		v.confetti.Emitter.Start()
	}
	if !v.nextShown {
		v.nextShown = true
		v.next.Visible = true
		v.next.SetAlpha(0)
		y := v.next.Y
		v.next.SetPosition(v.next.X, y+50)
		v.g.animate(stage.TweenAlpha(v.next, 1, 0.4, ease.OutQuad).
			With(stage.TweenPosition(v.next, v.next.X, y, 0.4, ease.OutBack)))
	}
}

func (v *cakeView) root() *stage.Node { return v.node }

func (v *cakeView) update(dt float64) {
	v.game.Advance(time.Duration(dt * float64(time.Second)))
	v.sync()
}

func degrees(values ...float64) []float64 {
	out := make([]float64, len(values))
	for i, d := range values {
		out[i] = d * math.Pi / 180
	}
	return out
}
