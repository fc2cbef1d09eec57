package stage

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape overrides a node's hit region. Coordinates are local.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
}

// ClickContext carries click event data.
type ClickContext = PointerContext

// DragContext carries drag event data. Deltas are relative to the previous
// drag event, except on drag start where they are relative to the press.
type DragContext struct {
	Node      *Node
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	StartX    float64
	StartY    float64
	DeltaX    float64
	DeltaY    float64
	Button    MouseButton
	PointerID int
}

// nodeIDCounter is a plain counter; the scene graph is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. One flat struct serves every kind.
type Node struct {
	ID   uint32
	Name string
	Kind NodeKind

	Parent   *Node
	children []*Node

	// Local transform.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	Alpha        float64
	Visible      bool
	Interactable bool
	ZIndex       int

	UserData any
	EntityID uint32

	// Shape fields. Width and Height size rects and images; Radius sizes
	// circles.
	Width, Height float64
	Radius        float64
	Color         Color

	Image   *ebiten.Image
	Text    *TextBlock
	Emitter *Emitter

	HitShape HitShape

	// Per-node callbacks; nil by default.
	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)
	OnClick        func(ClickContext)
	OnDragStart    func(DragContext)
	OnDrag         func(DragContext)
	OnDragEnd      func(DragContext)

	// OnUpdate runs once per Scene.Update with the tick length in seconds.
	OnUpdate func(dt float64)

	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Kind: KindContainer}
	nodeDefaults(n)
	return n
}

// NewRect creates a solid w x h rectangle with its origin at the top-left.
func NewRect(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Kind: KindRect, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewCircle creates a solid disc of radius r centered on the node origin.
func NewCircle(name string, r float64, c Color) *Node {
	n := &Node{Name: name, Kind: KindCircle, Radius: r}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewText creates a text node.
func NewText(name, content string, font *Font) *Node {
	n := &Node{
		Name: name,
		Kind: KindText,
		Text: &TextBlock{Content: content, Font: font, Color: ColorWhite},
	}
	nodeDefaults(n)
	return n
}

// NewImage creates a node drawing img at its natural size. A nil img draws
// nothing until one is assigned.
func NewImage(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Kind: KindImage, Image: img}
	nodeDefaults(n)
	if img != nil {
		b := img.Bounds()
		n.Width, n.Height = float64(b.Dx()), float64(b.Dy())
	}
	return n
}

// NewParticles creates an emitter node.
func NewParticles(name string, cfg EmitterConfig) *Node {
	n := &Node{Name: name, Kind: KindParticles, Emitter: newEmitter(cfg)}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child, detaching it from any previous parent. Panics on
// nil or when child is an ancestor of n.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if debugEnabled() {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("stage: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	if debugEnabled() {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child. Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("stage: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches n. No-op without a parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children without disposing them.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list. Callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Find returns the first descendant named name, depth first.
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// SetZIndex sets ZIndex and marks the parent's draw order stale.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// Dispose detaches n and releases it and every descendant.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.Image = nil
	n.Text = nil
	n.Emitter = nil
	n.UserData = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
	n.OnClick = nil
	n.OnDragStart = nil
	n.OnDrag = nil
	n.OnDragEnd = nil
	n.OnUpdate = nil
}

// IsDisposed reports whether Dispose was called.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Shown reports whether n and all of its ancestors are visible.
func (n *Node) Shown() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible || p.disposed {
			return false
		}
	}
	return true
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// sortedKids returns children in draw order, stable by ZIndex.
func (n *Node) sortedKids() []*Node {
	if n.childrenSorted && n.sortedChildren != nil && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
	return n.sortedChildren
}
