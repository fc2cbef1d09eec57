package app

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/birthdaycard/internal/card"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

const (
	blessingCardW = 260
	blessingCardH = 280
	blessingGap   = 30
	detailW       = 580
	detailH       = 620
	detailImageW  = 540
	detailImageH  = 200
)

var blessingColors = []stage.Color{colorPink, colorBlue, colorFlame}

type blessingsView struct {
	g    *Game
	node *stage.Node

	detail   *stage.Node // overlay, nil while closed
	openID   string
	picture  *stage.Node
	pictureX float64
	pictureY float64
	hasImage bool
}

func newBlessingsView(g *Game, celebrant card.Celebrant) *blessingsView {
	v := &blessingsView{g: g, node: stage.NewContainer("blessings-view")}
	v.node.Interactable = true
	cx, cy := g.width/2, g.height/2

	title := newLabel("title", fmt.Sprintf("Happy Birthday, %s!", celebrant), g.fonts.Title, colorPink)
	title.SetPosition(cx, 50)
	v.node.AddChild(title)
	sub := newLabel("subtitle", "The celebration ends with these heartfelt words...", g.fonts.Body, colorMuted)
	sub.SetPosition(cx, 104)
	v.node.AddChild(sub)

	list := card.Blessings()
	step := float64(blessingCardW + blessingGap)
	for i, b := range list {
		x := cx + (float64(i)-float64(len(list)-1)/2)*step
		c := v.blessingCard(b, blessingColors[i%len(blessingColors)])
		c.SetPosition(x, cy)
		c.SetAlpha(0)
		v.node.AddChild(c)
		g.animate(stage.Keyframes(c, stage.PropAlpha, []float64{0, 0, 1}, 0.4+0.15*float32(i), ease.OutQuad))
	}

	restart := newButton("restart", "Celebrate Again!", g.fonts.Head, 260, 54, colorPink, func() {
		g.session.Restart()
	})
	restart.EntityID = entityRestart
	restart.SetPosition(cx, g.height-70)
	v.node.AddChild(restart)
	return v
}

// blessingCard builds one panel centered on its position.
func (v *blessingsView) blessingCard(b card.Blessing, accent stage.Color) *stage.Node {
	g := v.g
	panel := stage.NewRect("blessing-"+b.ID, blessingCardW, blessingCardH, colorPanel)
	panel.SetPivot(blessingCardW/2, blessingCardH/2)
	panel.Interactable = true

	band := stage.NewRect("band", blessingCardW, 8, accent)
	panel.AddChild(band)

	icon := newAvatarDisc("icon-"+b.ID, avatarGlyph("", b.Title), 40, accent, g.fonts.Title)
	icon.SetPosition(blessingCardW/2, 80)
	panel.AddChild(icon)

	title := newLabel("title-"+b.ID, b.Title, g.fonts.Head, colorInk)
	title.SetPosition(blessingCardW/2, 140)
	panel.AddChild(title)

	open := newButton("open-"+b.ID, "Open the poem", g.fonts.Body, 180, 44, accent, func() {
		v.open(b)
	})
	open.EntityID = entityOpenPoem
	open.UserData = b.ID
	open.SetPosition(blessingCardW/2, blessingCardH-50)
	panel.AddChild(open)
	return panel
}

// open shows the poem overlay for b. Opening while another poem is shown
// replaces it.
func (v *blessingsView) open(b card.Blessing) {
	if !v.g.session.OpenBlessing(b.ID) {
		return
	}
	v.close()
	g := v.g
	cx, cy := g.width/2, g.height/2

	overlay := stage.NewRect("poem-overlay", g.width, g.height, colorOverlay)
	overlay.Interactable = true
	overlay.ZIndex = 50
	overlay.OnClick = func(stage.ClickContext) { v.close() }

	panel := stage.NewRect("poem-panel", detailW, detailH, colorPanel)
	panel.SetPivot(detailW/2, detailH/2)
	panel.SetPosition(cx, cy)
	panel.Interactable = true
	overlay.AddChild(panel)

	v.pictureX, v.pictureY = (detailW-detailImageW)/2, 20
	v.picture = v.pictureNode(b.ID)
	panel.AddChild(v.picture)

	title := newLabel("poem-title", b.Title, g.fonts.Head, colorInk)
	title.SetPosition(detailW/2, v.pictureY+detailImageH+18)
	panel.AddChild(title)

	poem := newLabel("poem", b.Poem, g.fonts.Body, colorInk)
	poem.Text.LineSpacing = g.fonts.Body.LineHeight() * 1.15
	poem.SetPosition(detailW/2, v.pictureY+detailImageH+60)
	panel.AddChild(poem)

	closeBtn := newButton("close-poem", "Close", g.fonts.Body, 140, 44, colorPink, v.close)
	closeBtn.EntityID = entityClosePoem
	closeBtn.SetPosition(detailW/2, detailH-40)
	panel.AddChild(closeBtn)

	overlay.SetAlpha(0)
	panel.SetScale(0.9, 0.9)
	g.animate(stage.TweenAlpha(overlay, 1, 0.25, ease.OutQuad))
	g.animate(stage.TweenScale(panel, 1, 0.25, ease.OutBack))

	v.detail = overlay
	v.openID = b.ID
	v.node.AddChild(overlay)
}

// pictureNode returns the poem image, or a tinted placeholder while it is
// still downloading or unavailable.
func (v *blessingsView) pictureNode(id string) *stage.Node {
	var n *stage.Node
	v.hasImage = false
	if imgs := v.g.opts.Images; imgs != nil {
		if img, ok := imgs.Get(id); ok {
			n = stage.NewImage("poem-image", img)
			v.hasImage = true
		}
	}
	if n == nil {
		n = stage.NewRect("poem-image", 0, 0, colorCakeTop)
	}
	n.Width, n.Height = detailImageW, detailImageH
	n.SetPosition(v.pictureX, v.pictureY)
	return n
}

func (v *blessingsView) close() {
	if v.detail == nil {
		return
	}
	v.detail.Dispose()
	v.detail = nil
	v.picture = nil
	v.openID = ""
}

func (v *blessingsView) root() *stage.Node { return v.node }

// update swaps the placeholder for the picture once it arrives.
func (v *blessingsView) update(float64) {
	if v.detail == nil || v.hasImage || v.g.opts.Images == nil {
		return
	}
	if _, ok := v.g.opts.Images.Get(v.openID); !ok {
		return
	}
	parent := v.picture.Parent
	v.picture.Dispose()
	v.picture = v.pictureNode(v.openID)
	parent.AddChild(v.picture)
}
