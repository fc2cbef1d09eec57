package stage

import "math"

var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform returns [a, b, c, d, tx, ty] for
// Translate(-Pivot) -> Scale -> Rotate -> Translate(X, Y).
func computeLocalTransform(n *Node) [6]float64 {
	sin, cos := math.Sincos(n.Rotation)
	sx, sy := n.ScaleX, n.ScaleY

	preTx := -n.PivotX * sx
	preTy := -n.PivotY * sy

	return [6]float64{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + n.X,
		sin*preTx + cos*preTy + n.Y,
	}
}

// multiplyAffine returns parent * child.
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine returns the identity for singular matrices.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform refreshes dirty transforms below n. A recomputed
// parent forces its children to recompute.
func updateWorldTransform(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// freshWorldTransform composes local transforms up to the root without
// touching the cache, so positions set earlier in the same tick are seen.
func (n *Node) freshWorldTransform() [6]float64 {
	local := computeLocalTransform(n)
	if n.Parent == nil {
		return local
	}
	return multiplyAffine(n.Parent.freshWorldTransform(), local)
}

// --- Property setters ---

// SetPosition sets X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformDirty = true
}

// SetScale sets ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformDirty = true
}

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetPivot sets the local point that position, scale and rotation act
// around.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.transformDirty = true
}

// SetAlpha sets the node opacity.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty forces recomputation after fields were set directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// WorldToLocal converts a world point into n's local space using the
// transforms computed by the last Scene.Update.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.worldTransform), wx, wy)
}

// LocalToWorld converts a local point to world space using the transforms
// computed by the last Scene.Update.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}

// LocalBounds returns the area the node draws in local coordinates. The
// second value is false for nodes without an extent.
func (n *Node) LocalBounds() (Rect, bool) {
	switch n.Kind {
	case KindRect, KindImage:
		if n.Width == 0 && n.Height == 0 {
			return Rect{}, false
		}
		return Rect{Width: n.Width, Height: n.Height}, true
	case KindCircle:
		if n.Radius <= 0 {
			return Rect{}, false
		}
		return Rect{X: -n.Radius, Y: -n.Radius, Width: 2 * n.Radius, Height: 2 * n.Radius}, true
	case KindText:
		if n.Text == nil {
			return Rect{}, false
		}
		return n.Text.bounds(), true
	default:
		return Rect{}, false
	}
}

// WorldCenter returns the center of the node's bounds in world space,
// composed fresh from the current local transforms. The second value is
// false when the node is disposed, hidden, or has no extent.
func (n *Node) WorldCenter() (Vec2, bool) {
	if !n.Shown() {
		return Vec2{}, false
	}
	b, ok := n.LocalBounds()
	if !ok {
		return Vec2{}, false
	}
	cx, cy := b.Center()
	x, y := transformPoint(n.freshWorldTransform(), cx, cy)
	return Vec2{X: x, Y: y}, true
}
