package app

import (
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/birthdaycard/internal/card"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

var celebrantColors = map[card.Celebrant]stage.Color{
	card.Vansh:  colorBlue,
	card.Simran: colorPink,
}

type selectionView struct {
	g    *Game
	node *stage.Node
}

func newSelectionView(g *Game) *selectionView {
	v := &selectionView{g: g, node: stage.NewContainer("selection-view")}
	v.node.Interactable = true
	cx, cy := g.width/2, g.height/2

	title := newLabel("title", "Whose birthday is it today?", g.fonts.Title, colorInk)
	title.SetPosition(cx, cy-200)
	v.node.AddChild(title)

	const gap = 260.0
	for i, c := range card.Celebrants {
		x := cx + (float64(i)-float64(len(card.Celebrants)-1)/2)*gap
		v.node.AddChild(v.choice(c, x, cy))
	}
	return v
}

// choice builds one tappable avatar and name button for c.
func (v *selectionView) choice(c card.Celebrant, x, y float64) *stage.Node {
	g := v.g
	col := celebrantColors[c]
	pick := func() { g.session.Choose(c) }

	group := stage.NewContainer("choice-" + string(c))
	group.Interactable = true
	group.SetPosition(x, y)
	group.SetAlpha(0)
	group.SetScale(0.8, 0.8)

	disc := newAvatarDisc("avatar-"+string(c), avatarGlyph(c.Avatar(), string(c)), 70, col, g.fonts.Title)
	disc.Interactable = true
	disc.EntityID = entityChoose
	disc.OnClick = func(stage.ClickContext) { pick() }
	group.AddChild(disc)

	btn := newButton(string(c), string(c), g.fonts.Head, 180, 50, col, pick)
	btn.EntityID = entityChoose
	btn.SetPosition(0, 120)
	group.AddChild(btn)

	g.animate(stage.TweenAlpha(group, 1, 0.4, ease.OutQuad).With(stage.TweenScale(group, 1, 0.4, ease.OutBack)))
	return group
}

func (v *selectionView) root() *stage.Node { return v.node }

func (v *selectionView) update(float64) {}
