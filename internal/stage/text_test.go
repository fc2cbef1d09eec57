package stage

import (
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func loadTestFont(t *testing.T) *Font {
	t.Helper()
	f, err := LoadFont(goregular.TTF, 24)
	if err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	return f
}

func TestLoadFontInvalid(t *testing.T) {
	if _, err := LoadFont([]byte("not a font"), 12); err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestFontMetrics(t *testing.T) {
	f := loadTestFont(t)
	if f.Size() != 24 {
		t.Errorf("Size() = %v, want 24", f.Size())
	}
	if f.LineHeight() <= 0 {
		t.Errorf("LineHeight() = %v, want > 0", f.LineHeight())
	}
	w, h := f.Measure("Happy Birthday")
	if w <= 0 || h <= 0 {
		t.Errorf("Measure = (%v, %v), want positive", w, h)
	}
	_, h2 := f.Measure("Happy\nBirthday")
	if math.Abs(h2-h-f.LineHeight()) > 1e-9 {
		t.Errorf("second line added %v, want %v", h2-h, f.LineHeight())
	}
}

func TestTextBoundsAlignment(t *testing.T) {
	f := loadTestFont(t)
	w, _ := f.Measure("Next")

	tests := []struct {
		align TextAlign
		wantX float64
	}{
		{TextAlignLeft, 0},
		{TextAlignCenter, -w / 2},
		{TextAlignRight, -w},
	}
	for _, tt := range tests {
		tb := &TextBlock{Content: "Next", Font: f, Align: tt.align}
		b := tb.bounds()
		if math.Abs(b.X-tt.wantX) > 1e-9 || math.Abs(b.Width-w) > 1e-9 {
			t.Errorf("align %d: bounds = %+v, want X %v width %v", tt.align, b, tt.wantX, w)
		}
	}
}

func TestTextLineSpacing(t *testing.T) {
	f := loadTestFont(t)
	tb := &TextBlock{Content: "a\nb", Font: f}
	base := tb.bounds().Height
	tb.LineSpacing = 2
	if got := tb.bounds().Height; got <= base {
		t.Errorf("height with LineSpacing 2 = %v, want > %v", got, base)
	}
}

func TestTextNodeCenter(t *testing.T) {
	f := loadTestFont(t)
	n := NewText("title", "Celebrate Again!", f)
	n.Text.Align = TextAlignCenter
	n.SetPosition(480, 100)

	c, ok := n.WorldCenter()
	if !ok {
		t.Fatal("WorldCenter() not ok")
	}
	if math.Abs(c.X-480) > 1e-9 {
		t.Errorf("center x = %v, want 480", c.X)
	}
	if c.Y <= 100 {
		t.Errorf("center y = %v, want below the top edge", c.Y)
	}
}

func TestTextWithoutFontHasNoBounds(t *testing.T) {
	n := NewText("t", "hi", nil)
	b, ok := n.LocalBounds()
	if !ok || b != (Rect{}) {
		t.Errorf("LocalBounds() = %v, %v; want empty, true", b, ok)
	}
}
