package stage

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type drawStats struct {
	visited int
	draws   int
	elapsed time.Duration
}

var whitePixel *ebiten.Image

// WhitePixel returns a shared 1x1 white image for solid fills.
func WhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// circleImages caches white discs by integer radius.
var circleImages = map[int]*ebiten.Image{}

func circleImage(r int) *ebiten.Image {
	if img, ok := circleImages[r]; ok {
		return img
	}
	size := 2*r + 2
	img := ebiten.NewImage(size, size)
	vector.DrawFilledCircle(img, float32(r+1), float32(r+1), float32(r), color.White, true)
	circleImages[r] = img
	return img
}

func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

func tint(op *ebiten.ColorScale, c Color, alpha float64) {
	a := c.A * alpha
	op.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
}

// draw paints n and its subtree in ZIndex order, refreshing world transforms
// on the way down.
func (s *Scene) draw(dst *ebiten.Image, n *Node, parent [6]float64, parentAlpha float64, stats *drawStats) {
	if !n.Visible {
		return
	}
	n.worldTransform = multiplyAffine(parent, computeLocalTransform(n))
	n.worldAlpha = parentAlpha * n.Alpha
	n.transformDirty = false
	stats.visited++

	if n.worldAlpha > 0 {
		if drawNode(dst, n) {
			stats.draws++
		}
	}
	for _, child := range n.sortedKids() {
		s.draw(dst, child, n.worldTransform, n.worldAlpha, stats)
	}
}

// drawNode renders a single node. It reports whether anything was drawn.
func drawNode(dst *ebiten.Image, n *Node) bool {
	world := geoM(n.worldTransform)
	switch n.Kind {
	case KindRect:
		if n.Width <= 0 || n.Height <= 0 {
			return false
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(n.Width, n.Height)
		op.GeoM.Concat(world)
		tint(&op.ColorScale, n.Color, n.worldAlpha)
		dst.DrawImage(WhitePixel(), op)
		return true

	case KindCircle:
		if n.Radius <= 0 {
			return false
		}
		r := int(math.Ceil(n.Radius))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(r+1), -float64(r+1))
		op.GeoM.Scale(n.Radius/float64(r), n.Radius/float64(r))
		op.GeoM.Concat(world)
		tint(&op.ColorScale, n.Color, n.worldAlpha)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(circleImage(r), op)
		return true

	case KindImage:
		if n.Image == nil {
			return false
		}
		b := n.Image.Bounds()
		op := &ebiten.DrawImageOptions{}
		if n.Width > 0 && n.Height > 0 {
			op.GeoM.Scale(n.Width/float64(b.Dx()), n.Height/float64(b.Dy()))
		}
		op.GeoM.Concat(world)
		tint(&op.ColorScale, n.Color, n.worldAlpha)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(n.Image, op)
		return true

	case KindText:
		if n.Text == nil || n.Text.Font == nil || n.Text.Content == "" {
			return false
		}
		n.Text.draw(dst, world, n.worldAlpha)
		return true

	case KindParticles:
		if n.Emitter == nil || n.Emitter.alive == 0 {
			return false
		}
		n.Emitter.draw(dst, world, n.worldAlpha)
		return true
	}
	return false
}
