package app

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/birthdaycard/internal/stage"
)

// Palette.
var (
	colorBackground = stage.RGB(0xfdf2f8)
	colorInk        = stage.RGB(0x1f2937)
	colorMuted      = stage.RGB(0x6b7280)
	colorWhite      = stage.ColorWhite
	colorPink       = stage.RGB(0xec4899)
	colorBlue       = stage.RGB(0x3b82f6)
	colorGreen      = stage.RGB(0x22c55e)
	colorRed        = stage.RGB(0xef4444)
	colorEnvelope   = stage.RGB(0xfde68a)
	colorFlap       = stage.RGB(0xfbbf24)
	colorSponge     = stage.RGB(0xfcd34d)
	colorBlade      = stage.RGB(0x9ca3af)
	colorHandle     = stage.RGB(0x78350f)
	colorCandle     = stage.RGB(0x60a5fa)
	colorFrosting   = stage.RGB(0xfff1f2)
	colorTable      = stage.RGB(0xd97706).WithAlpha(0.2)
	colorCakeEdge   = stage.RGB(0xf9a8d4)
	colorCakeTop    = stage.RGB(0xfce7f3)
	colorCakeRing   = stage.RGB(0xfbcfe8)
	colorCakeText   = stage.RGB(0xdb2777)
	colorCakeName   = stage.RGB(0xbe185d)
	colorMessage    = stage.RGB(0xc2410c)
	colorTag        = stage.RGB(0xe5e7eb)
	colorRingIdle   = stage.RGB(0xf3f4f6)
	colorFlame      = stage.RGB(0xf97316)
	colorOverlay    = stage.RGB(0x111827).WithAlpha(0.6)
	colorPanel      = stage.ColorWhite

	confettiColors = []stage.Color{
		stage.RGB(0xf472b6), stage.RGB(0x60a5fa), stage.RGB(0xfacc15),
		stage.RGB(0x34d399), stage.RGB(0xa78bfa), stage.RGB(0xfb923c),
	}
)

// Fonts holds the faces used by every view.
type Fonts struct {
	Title *stage.Font
	Head  *stage.Font
	Body  *stage.Font
	Small *stage.Font
}

// LoadFonts parses the embedded Go fonts.
func LoadFonts() (*Fonts, error) {
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	return &Fonts{
		Title: stage.NewFont(bold, 36),
		Head:  stage.NewFont(bold, 22),
		Body:  stage.NewFont(regular, 18),
		Small: stage.NewFont(regular, 14),
	}, nil
}

// Entity IDs for controls whose interactions are published on the event bus.
const (
	entityMail uint32 = iota + 1
	entityChoose
	entitySlice
	entityNext
	entityOpenPoem
	entityClosePoem
	entityRestart
	entityMute
)
