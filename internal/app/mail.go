package app

import (
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/birthdaycard/internal/stage"
)

const (
	envelopeW = 240
	envelopeH = 160
)

type mailView struct {
	g    *Game
	node *stage.Node
}

func newMailView(g *Game) *mailView {
	v := &mailView{g: g, node: stage.NewContainer("mail-view")}
	v.node.Interactable = true
	cx, cy := g.width/2, g.height/2

	title := newLabel("title", "You've got a birthday invitation!", g.fonts.Title, colorInk)
	title.SetPosition(cx, cy-220)
	v.node.AddChild(title)

	hint := newLabel("hint", "Click the mail to open it", g.fonts.Body, colorMuted)
	hint.SetPosition(cx, cy+140)
	v.node.AddChild(hint)

	// The envelope container bobs; the body inside takes the clicks.
	bob := stage.NewContainer("envelope")
	bob.Interactable = true
	bob.SetPosition(cx, cy)
	v.node.AddChild(bob)

	body := stage.NewRect("mail", envelopeW, envelopeH, colorEnvelope)
	body.SetPivot(envelopeW/2, envelopeH/2)
	body.Interactable = true
	body.EntityID = entityMail
	body.OnClick = func(stage.ClickContext) { g.session.OpenMail() }
	bob.AddChild(body)

	flap := stage.NewRect("flap", envelopeW, envelopeH*0.45, colorFlap)
	body.AddChild(flap)

	seal := stage.NewCircle("seal", 18, colorRed)
	seal.SetPosition(envelopeW/2, envelopeH*0.45)
	body.AddChild(seal)

	badge := stage.NewCircle("badge", 16, colorRed)
	badge.SetPosition(envelopeW/2-6, -envelopeH/2+6)
	badge.AddChild(newBadgeCount(g))
	bob.AddChild(badge)

	g.animate(stage.Keyframes(bob, stage.PropY, []float64{cy, cy - 20, cy}, 2, ease.InOutSine).Repeat())
	g.animate(stage.Keyframes(badge, stage.PropScale, []float64{1, 1.2, 1}, 1, ease.InOutQuad).Repeat())
	return v
}

func newBadgeCount(g *Game) *stage.Node {
	n := newLabel("badge-count", "1", g.fonts.Small, colorWhite)
	_, h := g.fonts.Small.Measure("1")
	n.SetPosition(0, -h/2)
	return n
}

func (v *mailView) root() *stage.Node { return v.node }

func (v *mailView) update(float64) {}
