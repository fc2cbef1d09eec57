package stage

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// --- Hit shapes ---

// HitRect is a rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	dragging  bool
	button    MouseButton
}

// --- Scene-level handlers ---

type handlerEntry[T any] struct {
	id uint32
	fn func(T)
}

type handlerList[T any] []handlerEntry[T]

func (l *handlerList[T]) add(id uint32, fn func(T)) {
	*l = append(*l, handlerEntry[T]{id: id, fn: fn})
}

func (l *handlerList[T]) remove(id uint32) {
	s := *l
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handlerEntry[T]{}
			*l = s[:len(s)-1]
			return
		}
	}
}

func (l handlerList[T]) fire(ctx T) {
	for _, h := range l {
		h.fn(ctx)
	}
}

type handlerRegistry struct {
	pointerDown handlerList[PointerContext]
	pointerUp   handlerList[PointerContext]
	pointerMove handlerList[PointerContext]
	click       handlerList[ClickContext]
	dragStart   handlerList[DragContext]
	drag        handlerList[DragContext]
	dragEnd     handlerList[DragContext]
	nextID      uint32
}

// CallbackHandle removes a scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters the callback.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown.remove(h.id)
	case EventPointerUp:
		h.reg.pointerUp.remove(h.id)
	case EventPointerMove:
		h.reg.pointerMove.remove(h.id)
	case EventClick:
		h.reg.click.remove(h.id)
	case EventDragStart:
		h.reg.dragStart.remove(h.id)
	case EventDrag:
		h.reg.drag.remove(h.id)
	case EventDragEnd:
		h.reg.dragEnd.remove(h.id)
	}
}

func (s *Scene) handle(event EventType) CallbackHandle {
	s.handlers.nextID++
	return CallbackHandle{id: s.handlers.nextID, reg: &s.handlers, event: event}
}

// OnPointerDown registers a scene-level pointer down callback.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	h := s.handle(EventPointerDown)
	s.handlers.pointerDown.add(h.id, fn)
	return h
}

// OnPointerUp registers a scene-level pointer up callback.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	h := s.handle(EventPointerUp)
	s.handlers.pointerUp.add(h.id, fn)
	return h
}

// OnPointerMove registers a scene-level hover move callback.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	h := s.handle(EventPointerMove)
	s.handlers.pointerMove.add(h.id, fn)
	return h
}

// OnClick registers a scene-level click callback.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	h := s.handle(EventClick)
	s.handlers.click.add(h.id, fn)
	return h
}

// OnDragStart registers a scene-level drag start callback.
func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	h := s.handle(EventDragStart)
	s.handlers.dragStart.add(h.id, fn)
	return h
}

// OnDrag registers a scene-level drag callback.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	h := s.handle(EventDrag)
	s.handlers.drag.add(h.id, fn)
	return h
}

// OnDragEnd registers a scene-level drag end callback.
func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	h := s.handle(EventDragEnd)
	s.handlers.dragEnd.add(h.id, fn)
	return h
}

// CapturePointer routes every event of pointerID to node until release.
func (s *Scene) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// ReleasePointer ends a capture.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = nil
	}
}

// SetDragDeadZone sets the movement in pixels needed before a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

// nodeContainsLocal uses HitShape when set, else the node's bounds.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Kind == KindCircle {
		return HitCircle{Radius: n.Radius}.Contains(lx, ly)
	}
	b, ok := n.LocalBounds()
	if !ok {
		return false
	}
	return b.Contains(lx, ly)
}

// collectInteractable appends interactable nodes in draw order. Hidden or
// non-interactable subtrees are skipped.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Kind != KindContainer {
		buf = append(buf, n)
	}
	for _, child := range n.sortedKids() {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// hitTest returns the topmost interactable node at (x, y), or nil.
func (s *Scene) hitTest(x, y float64) *Node {
	s.hitBuf = collectInteractable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(x, y)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Device input ---

func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	s.processPointer(0, float64(mx), float64(my), pressed, button)
}

func (s *Scene) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var active [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !active[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps a touch to pointer slots 1-9, or -1 when all are taken.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press, drag, release state machine for one
// pointer.
func (s *Scene) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]

	target := s.captured[pointerID]
	if target == nil {
		target = s.hitTest(x, y)
	}

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.firePointer(EventPointerLeave, ps.hoverNode, pointerID, x, y, button)
		}
		if target != nil {
			s.firePointer(EventPointerEnter, target, pointerID, x, y, button)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.hitNode = target
		ps.dragging = false
		s.firePointer(EventPointerDown, target, pointerID, x, y, button)

	case !pressed && ps.down:
		if ps.dragging {
			s.fireDrag(EventDragEnd, ps.hitNode, pointerID, x, y, ps, x-ps.lastX, y-ps.lastY)
		} else if ps.hitNode != nil && ps.hitNode == target {
			s.firePointer(EventClick, target, pointerID, x, y, ps.button)
		}
		s.firePointer(EventPointerUp, target, pointerID, x, y, ps.button)

		s.captured[pointerID] = nil
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false
		ps.lastX, ps.lastY = x, y

	case pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging && math.Hypot(x-ps.startX, y-ps.startY) > s.dragDeadZone {
				ps.dragging = true
				s.fireDrag(EventDragStart, ps.hitNode, pointerID, x, y, ps, x-ps.startX, y-ps.startY)
			}
			if ps.dragging {
				s.fireDrag(EventDrag, ps.hitNode, pointerID, x, y, ps, x-ps.lastX, y-ps.lastY)
			}
		}
		ps.lastX, ps.lastY = x, y

	default:
		if x != ps.lastX || y != ps.lastY {
			s.firePointer(EventPointerMove, target, pointerID, x, y, button)
			ps.lastX, ps.lastY = x, y
		}
	}
}

// --- Event dispatch ---

func (s *Scene) firePointer(event EventType, node *Node, pointerID int, x, y float64, button MouseButton) {
	ctx := PointerContext{
		Node: node, GlobalX: x, GlobalY: y,
		Button: button, PointerID: pointerID,
	}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(x, y)
		ctx.EntityID = node.EntityID
		ctx.UserData = node.UserData
	}

	// Scene-level handlers first, then the node's own callback.
	switch event {
	case EventPointerDown:
		s.handlers.pointerDown.fire(ctx)
		if node != nil && node.OnPointerDown != nil {
			node.OnPointerDown(ctx)
		}
	case EventPointerUp:
		s.handlers.pointerUp.fire(ctx)
		if node != nil && node.OnPointerUp != nil {
			node.OnPointerUp(ctx)
		}
	case EventPointerMove:
		s.handlers.pointerMove.fire(ctx)
	case EventPointerEnter:
		if node.OnPointerEnter != nil {
			node.OnPointerEnter(ctx)
		}
	case EventPointerLeave:
		if node.OnPointerLeave != nil {
			node.OnPointerLeave(ctx)
		}
	case EventClick:
		s.handlers.click.fire(ctx)
		if node != nil && node.OnClick != nil {
			node.OnClick(ctx)
		}
	}
	s.emitInteractionEvent(event, node, x, y, ctx.LocalX, ctx.LocalY, button, DragContext{})
}

func (s *Scene) fireDrag(event EventType, node *Node, pointerID int, x, y float64, ps *pointerState, dx, dy float64) {
	ctx := DragContext{
		Node: node, GlobalX: x, GlobalY: y,
		StartX: ps.startX, StartY: ps.startY, DeltaX: dx, DeltaY: dy,
		Button: ps.button, PointerID: pointerID,
	}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(x, y)
		ctx.EntityID = node.EntityID
		ctx.UserData = node.UserData
	}

	switch event {
	case EventDragStart:
		s.handlers.dragStart.fire(ctx)
		if node != nil && node.OnDragStart != nil {
			node.OnDragStart(ctx)
		}
	case EventDrag:
		s.handlers.drag.fire(ctx)
		if node != nil && node.OnDrag != nil {
			node.OnDrag(ctx)
		}
	case EventDragEnd:
		s.handlers.dragEnd.fire(ctx)
		if node != nil && node.OnDragEnd != nil {
			node.OnDragEnd(ctx)
		}
	}
	s.emitInteractionEvent(event, node, x, y, ctx.LocalX, ctx.LocalY, ps.button, ctx)
}

// --- EntityStore bridge ---

func (s *Scene) emitInteractionEvent(event EventType, node *Node, x, y, lx, ly float64,
	button MouseButton, drag DragContext) {
	if s.store == nil || node == nil || node.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:     event,
		EntityID: node.EntityID,
		GlobalX:  x,
		GlobalY:  y,
		LocalX:   lx,
		LocalY:   ly,
		Button:   button,
		StartX:   drag.StartX,
		StartY:   drag.StartY,
		DeltaX:   drag.DeltaX,
		DeltaY:   drag.DeltaY,
	})
}
