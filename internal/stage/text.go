package stage

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font is a TrueType face at a fixed size.
type Font struct {
	face *text.GoTextFace
	size float64
	lh   float64
}

// LoadFont parses TTF or OTF data at the given pixel size.
func LoadFont(ttf []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("stage: parse font: %w", err)
	}
	return NewFont(source, size), nil
}

// NewFont returns a face of source at the given pixel size. Several sizes can
// share one parsed source.
func NewFont(source *text.GoTextFaceSource, size float64) *Font {
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{
		face: face,
		size: size,
		lh:   m.HAscent + m.HDescent + m.HLineGap,
	}
}

// Size returns the font size in pixels.
func (f *Font) Size() float64 { return f.size }

// LineHeight returns the distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// Measure returns the size of s laid out with the default line height.
func (f *Font) Measure(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// Face returns the underlying text/v2 face.
func (f *Font) Face() *text.GoTextFace { return f.face }

// TextBlock is the content of a text node. Lines are split on '\n'; there is
// no automatic wrapping.
type TextBlock struct {
	Content string
	Font    *Font
	Align   TextAlign
	Color   Color
	// LineSpacing multiplies the font line height. Zero means 1.
	LineSpacing float64
}

func (tb *TextBlock) lineHeight() float64 {
	if tb.Font == nil {
		return 0
	}
	if tb.LineSpacing > 0 {
		return tb.Font.lh * tb.LineSpacing
	}
	return tb.Font.lh
}

// bounds returns the local box the text covers. The node origin is the top
// of the block at its left edge, center or right edge depending on Align.
func (tb *TextBlock) bounds() Rect {
	if tb.Font == nil || tb.Content == "" {
		return Rect{}
	}
	w, h := text.Measure(tb.Content, tb.Font.face, tb.lineHeight())
	r := Rect{Width: w, Height: h}
	switch tb.Align {
	case TextAlignCenter:
		r.X = -w / 2
	case TextAlignRight:
		r.X = -w
	}
	return r
}

func (tb *TextBlock) draw(dst *ebiten.Image, world ebiten.GeoM, alpha float64) {
	op := &text.DrawOptions{}
	op.GeoM = world
	op.LineSpacing = tb.lineHeight()
	switch tb.Align {
	case TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
	}
	tint(&op.ColorScale, tb.Color, alpha)
	op.Filter = ebiten.FilterLinear
	text.Draw(dst, tb.Content, tb.Font.face, op)
}
