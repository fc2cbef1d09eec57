package stage

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property names a tweenable node field.
type Property uint8

const (
	PropX Property = iota
	PropY
	PropScale // ScaleX and ScaleY together
	PropRotation
	PropAlpha
)

func (p Property) fields(n *Node) []*float64 {
	switch p {
	case PropX:
		return []*float64{&n.X}
	case PropY:
		return []*float64{&n.Y}
	case PropScale:
		return []*float64{&n.ScaleX, &n.ScaleY}
	case PropRotation:
		return []*float64{&n.Rotation}
	case PropAlpha:
		return []*float64{&n.Alpha}
	}
	return nil
}

type track struct {
	fields []*float64
	seq    *gween.Sequence
	done   bool
}

// TweenGroup animates node fields together. Build one with the Tween*
// constructors or Keyframes, combine with With, and hand it to Scene.Animate
// or call Update yourself. A group whose target is disposed stops at once.
type TweenGroup struct {
	tracks []track
	target *Node
	loop   bool

	Done bool
	// OnDone runs once when a finite group completes.
	OnDone func()
}

// Update advances every track by dt seconds and writes the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := range g.tracks {
		tr := &g.tracks[i]
		if tr.done {
			continue
		}
		v, _, complete := tr.seq.Update(dt)
		for _, f := range tr.fields {
			*f = float64(v)
		}
		// Infinite sequences can report completion on an exact boundary.
		if complete && !g.loop {
			tr.done = true
		} else {
			allDone = false
		}
	}
	if g.target != nil {
		g.target.MarkDirty()
	}
	if allDone {
		g.Done = true
		if g.OnDone != nil {
			g.OnDone()
		}
	}
}

// With merges other's tracks into g and returns g. Both groups must target
// the same node.
func (g *TweenGroup) With(other *TweenGroup) *TweenGroup {
	g.tracks = append(g.tracks, other.tracks...)
	return g
}

// Repeat makes g loop forever. A looping group is never Done until its
// target is disposed.
func (g *TweenGroup) Repeat() *TweenGroup {
	g.loop = true
	for _, tr := range g.tracks {
		tr.seq.SetLoop(-1)
	}
	return g
}

func newTrack(fields []*float64, from, to, duration float32, fn ease.TweenFunc) track {
	return track{fields: fields, seq: gween.NewSequence(gween.New(from, to, duration, fn))}
}

// Tween animates one property from its current value to to.
func Tween(node *Node, prop Property, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	fields := prop.fields(node)
	return &TweenGroup{
		target: node,
		tracks: []track{newTrack(fields, float32(*fields[0]), float32(to), duration, fn)},
	}
}

// TweenPosition animates X and Y to the given point.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return Tween(node, PropX, toX, duration, fn).With(Tween(node, PropY, toY, duration, fn))
}

// TweenScale animates ScaleX and ScaleY to s.
func TweenScale(node *Node, s float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return Tween(node, PropScale, s, duration, fn)
}

// TweenAlpha animates Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return Tween(node, PropAlpha, to, duration, fn)
}

// TweenRotation animates Rotation, in radians.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return Tween(node, PropRotation, to, duration, fn)
}

// TweenColor animates all four components of node.Color.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := &node.Color
	return &TweenGroup{
		target: node,
		tracks: []track{
			newTrack([]*float64{&c.R}, float32(c.R), float32(to.R), duration, fn),
			newTrack([]*float64{&c.G}, float32(c.G), float32(to.G), duration, fn),
			newTrack([]*float64{&c.B}, float32(c.B), float32(to.B), duration, fn),
			newTrack([]*float64{&c.A}, float32(c.A), float32(to.A), duration, fn),
		},
	}
}

// Keyframes animates prop through values spaced evenly over duration. The
// property jumps to values[0] on the first update. With a single value it
// behaves like Tween.
func Keyframes(node *Node, prop Property, values []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	if len(values) < 2 {
		to := *prop.fields(node)[0]
		if len(values) == 1 {
			to = values[0]
		}
		return Tween(node, prop, to, duration, fn)
	}
	step := duration / float32(len(values)-1)
	tweens := make([]*gween.Tween, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		tweens = append(tweens, gween.New(float32(values[i-1]), float32(values[i]), step, fn))
	}
	return &TweenGroup{
		target: node,
		tracks: []track{{fields: prop.fields(node), seq: gween.NewSequence(tweens...)}},
	}
}
