package app

import "github.com/phanxgames/birthdaycard/internal/stage"

const (
	captionSoundOn  = "Sound: on"
	captionSoundOff = "Sound: off"
)

// hud holds controls that outlive scene changes.
type hud struct {
	g    *Game
	node *stage.Node
	mute *stage.Node
}

func newHUD(g *Game) *hud {
	h := &hud{g: g, node: stage.NewContainer("hud")}
	h.node.Interactable = true
	h.node.ZIndex = 100

	h.mute = newButton("mute", captionSoundOn, g.fonts.Small, 110, 36, colorInk, func() {
		g.session.ToggleMute()
		h.refresh()
	})
	h.mute.EntityID = entityMute
	h.mute.SetPosition(g.width-75, 30)
	h.node.AddChild(h.mute)
	h.refresh()
	return h
}

// refresh syncs the HUD with the session snapshot.
func (h *hud) refresh() {
	v := h.g.session.View()
	h.mute.Visible = v.MuteToggleVisible()
	if v.Muted {
		setCaption(h.mute, captionSoundOff)
	} else {
		setCaption(h.mute, captionSoundOn)
	}
}
