package app

import (
	"strings"

	"github.com/phanxgames/birthdaycard/internal/feast"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

// newLabel returns a text node centered on its position.
func newLabel(name, content string, font *stage.Font, c stage.Color) *stage.Node {
	n := stage.NewText(name, content, font)
	n.Text.Align = stage.TextAlignCenter
	n.Text.Color = c
	return n
}

// newButton returns a clickable w x h rect centered on its position with a
// centered caption. The caption is the button's first child.
func newButton(name, caption string, font *stage.Font, w, h float64, c stage.Color, onClick func()) *stage.Node {
	btn := stage.NewRect(name, w, h, c)
	btn.SetPivot(w/2, h/2)
	btn.Interactable = true
	btn.OnClick = func(stage.ClickContext) { onClick() }
	btn.OnPointerEnter = func(stage.PointerContext) { btn.SetAlpha(0.85) }
	btn.OnPointerLeave = func(stage.PointerContext) { btn.SetAlpha(1) }

	label := newLabel(name+"-label", caption, font, colorWhite)
	_, lh := font.Measure(caption)
	label.SetPosition(w/2, (h-lh)/2)
	btn.AddChild(label)
	return btn
}

// setCaption replaces a button's caption, keeping it centered.
func setCaption(btn *stage.Node, caption string) {
	kids := btn.Children()
	if len(kids) == 0 || kids[0].Text == nil {
		return
	}
	kids[0].Text.Content = caption
}

// avatarGlyphs maps roster emoji to symbols the embedded Go fonts carry.
// Color emoji are not available.
var avatarGlyphs = map[string]string{
	"👦":             "♂",
	"👨":             "♂",
	"🧔":             "♂",
	"👧":             "♀",
	"👩":             "♀",
	"👵":             "♀",
	"🧑":             "☻",
	feast.FedAvatar: "☺",
}

// avatarGlyph returns the drawable symbol for an avatar emoji, or the
// capitalized first letter of name when there is none.
func avatarGlyph(avatar, name string) string {
	if g, ok := avatarGlyphs[avatar]; ok {
		return g
	}
	return strings.ToUpper(firstRune(name))
}

// newAvatarDisc returns a colored disc showing glyph.
func newAvatarDisc(name, glyph string, r float64, c stage.Color, font *stage.Font) *stage.Node {
	disc := stage.NewCircle(name, r, c)
	label := newLabel(name+"-glyph", glyph, font, colorWhite)
	_, lh := font.Measure("M")
	label.SetPosition(0, -lh/2)
	disc.AddChild(label)
	return disc
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
