// Package stage is a small retained-mode 2D scene graph on Ebitengine: a node
// tree with affine transforms, pointer and touch input with click and drag
// detection, synthetic input injection, scripted playback, tweens, particles
// and text.
//
// A Scene owns the tree. Call Update once per tick and Draw once per frame:
//
//	s := stage.NewScene()
//	btn := stage.NewRect("play", 120, 40, stage.RGB(0x22c55e))
//	btn.Interactable = true
//	btn.OnClick = func(stage.ClickContext) { ... }
//	s.Root().AddChild(btn)
package stage

import (
	"image/color"
	"math/rand/v2"
)

// Color is an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGB returns an opaque color from a 0xRRGGBB value.
func RGB(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// WithAlpha returns c with alpha a.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R * c.A * 255),
		G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255),
		A: uint8(c.A * 255),
	}
}

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside r. Edges count as inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Range is a min/max pair sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// NodeKind selects how a node renders.
type NodeKind uint8

const (
	KindContainer NodeKind = iota // groups children, draws nothing
	KindRect                      // solid rectangle
	KindCircle                    // solid disc centered on the origin
	KindText                      // TextBlock
	KindImage                     // *ebiten.Image
	KindParticles                 // Emitter
)

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // a pointer was pressed
	EventPointerUp                     // a pointer was released
	EventPointerMove                   // the pointer moved with nothing pressed
	EventClick                         // press and release over the same node
	EventDragStart                     // movement left the drag dead zone
	EventDrag                          // each frame while dragging
	EventDragEnd                       // release after dragging
	EventPointerEnter                  // the pointer entered a node
	EventPointerLeave                  // the pointer left a node
)

func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "pointer_down"
	case EventPointerUp:
		return "pointer_up"
	case EventPointerMove:
		return "pointer_move"
	case EventClick:
		return "click"
	case EventDragStart:
		return "drag_start"
	case EventDrag:
		return "drag"
	case EventDragEnd:
		return "drag_end"
	case EventPointerEnter:
		return "pointer_enter"
	case EventPointerLeave:
		return "pointer_leave"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// TextAlign controls horizontal alignment of a TextBlock around its node's
// origin.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // origin at the left edge
	TextAlignCenter                  // origin at the horizontal center
	TextAlignRight                   // origin at the right edge
)
