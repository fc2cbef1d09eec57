package stage

import (
	"testing"
)

// --- Hit shapes ---

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside bottom", 50, 75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("HitRect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitCircleContains(t *testing.T) {
	c := HitCircle{CenterX: 50, CenterY: 50, Radius: 25}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 50, 50, true},
		{"on circumference", 75, 50, true},
		{"outside", 80, 50, false},
		{"outside diagonal", 70, 70, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("HitCircle.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNodeContainsLocal(t *testing.T) {
	circle := NewCircle("c", 10, ColorWhite)
	if !nodeContainsLocal(circle, 0, 0) {
		t.Error("circle should contain its center")
	}
	if nodeContainsLocal(circle, 9, 9) {
		t.Error("circle should not contain its bounding box corner")
	}

	rect := NewRect("r", 10, 10, ColorWhite)
	rect.HitShape = HitRect{X: -5, Y: -5, Width: 30, Height: 30}
	if !nodeContainsLocal(rect, 20, 20) {
		t.Error("HitShape should override bounds")
	}

	if nodeContainsLocal(NewContainer("n"), 0, 0) {
		t.Error("container without HitShape should not be hit")
	}
}

// --- Scene helpers ---

func newInputScene() (*Scene, *Node) {
	s := NewScene()
	btn := NewRect("btn", 100, 50, ColorWhite)
	btn.SetPosition(10, 10)
	btn.Interactable = true
	s.Root().AddChild(btn)
	s.advance(0)
	return s, btn
}

func TestHitTestTopmost(t *testing.T) {
	s, btn := newInputScene()
	over := NewRect("over", 20, 20, ColorWhite)
	over.SetPosition(20, 20)
	over.Interactable = true
	s.Root().AddChild(over)
	s.advance(0)

	if got := s.hitTest(25, 25); got != over {
		t.Errorf("hitTest(25, 25) = %v, want over", got)
	}
	if got := s.hitTest(90, 50); got != btn {
		t.Errorf("hitTest(90, 50) = %v, want btn", got)
	}
	if got := s.hitTest(500, 500); got != nil {
		t.Errorf("hitTest(500, 500) = %v, want nil", got)
	}

	over.SetZIndex(-1)
	if got := s.hitTest(25, 25); got != btn {
		t.Errorf("after lowering over, hitTest = %v, want btn", got)
	}
}

func TestHitTestSkipsNonInteractableSubtree(t *testing.T) {
	s, btn := newInputScene()
	btn.Interactable = false
	if got := s.hitTest(50, 30); got != nil {
		t.Errorf("hitTest = %v, want nil", got)
	}
}

func TestClick(t *testing.T) {
	s, btn := newInputScene()
	var clicks int
	var local [2]float64
	btn.OnClick = func(ctx ClickContext) {
		clicks++
		local = [2]float64{ctx.LocalX, ctx.LocalY}
	}

	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 30, 20, false, MouseButtonLeft)

	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}
	if local != [2]float64{20, 10} {
		t.Errorf("local = %v, want [20 10]", local)
	}
}

func TestClickRequiresReleaseOverSameNode(t *testing.T) {
	s, btn := newInputScene()
	var clicks int
	btn.OnClick = func(ClickContext) { clicks++ }

	s.SetDragDeadZone(1000)
	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 300, 300, true, MouseButtonLeft)
	s.processPointer(0, 300, 300, false, MouseButtonLeft)

	if clicks != 0 {
		t.Errorf("clicks = %d, want 0", clicks)
	}
}

func TestDragDeadZone(t *testing.T) {
	s, btn := newInputScene()
	var starts, drags, ends, clicks int
	btn.OnDragStart = func(DragContext) { starts++ }
	btn.OnDrag = func(DragContext) { drags++ }
	btn.OnDragEnd = func(DragContext) { ends++ }
	btn.OnClick = func(ClickContext) { clicks++ }

	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 32, 21, true, MouseButtonLeft) // inside the dead zone
	if starts != 0 {
		t.Fatalf("drag started inside the dead zone")
	}
	s.processPointer(0, 60, 20, true, MouseButtonLeft)
	s.processPointer(0, 80, 20, true, MouseButtonLeft)
	s.processPointer(0, 80, 20, false, MouseButtonLeft)

	if starts != 1 || drags != 2 || ends != 1 {
		t.Errorf("start/drag/end = %d/%d/%d, want 1/2/1", starts, drags, ends)
	}
	if clicks != 0 {
		t.Errorf("a drag should not click, got %d clicks", clicks)
	}
}

func TestDragFollowsPressedNodeOffTarget(t *testing.T) {
	s, btn := newInputScene()
	var end DragContext
	btn.OnDragEnd = func(ctx DragContext) { end = ctx }

	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 400, 300, true, MouseButtonLeft)
	s.processPointer(0, 400, 300, false, MouseButtonLeft)

	if end.Node != btn {
		t.Fatalf("drag end node = %v, want btn", end.Node)
	}
	if end.StartX != 30 || end.StartY != 20 {
		t.Errorf("start = (%v, %v), want (30, 20)", end.StartX, end.StartY)
	}
	if end.GlobalX != 400 || end.GlobalY != 300 {
		t.Errorf("global = (%v, %v), want (400, 300)", end.GlobalX, end.GlobalY)
	}
}

func TestHoverEnterLeave(t *testing.T) {
	s, btn := newInputScene()
	var enter, leave int
	btn.OnPointerEnter = func(PointerContext) { enter++ }
	btn.OnPointerLeave = func(PointerContext) { leave++ }

	s.processPointer(0, 30, 20, false, MouseButtonLeft)
	s.processPointer(0, 31, 20, false, MouseButtonLeft)
	s.processPointer(0, 300, 300, false, MouseButtonLeft)

	if enter != 1 || leave != 1 {
		t.Errorf("enter/leave = %d/%d, want 1/1", enter, leave)
	}
}

func TestCapturePointer(t *testing.T) {
	s, btn := newInputScene()
	other := NewRect("other", 50, 50, ColorWhite)
	other.SetPosition(300, 300)
	other.Interactable = true
	s.Root().AddChild(other)
	s.advance(0)

	var downs int
	btn.OnPointerDown = func(PointerContext) { downs++ }

	s.CapturePointer(0, btn)
	s.processPointer(0, 310, 310, true, MouseButtonLeft)
	if downs != 1 {
		t.Errorf("captured node downs = %d, want 1", downs)
	}
	s.processPointer(0, 310, 310, false, MouseButtonLeft)

	// Release clears the capture.
	s.processPointer(0, 310, 310, true, MouseButtonLeft)
	if downs != 1 {
		t.Errorf("capture should end on release, downs = %d", downs)
	}
}

func TestSceneHandlersRunBeforeNodeCallback(t *testing.T) {
	s, btn := newInputScene()
	var order []string
	h := s.OnClick(func(ClickContext) { order = append(order, "scene") })
	btn.OnClick = func(ClickContext) { order = append(order, "node") }

	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 30, 20, false, MouseButtonLeft)
	if len(order) != 2 || order[0] != "scene" || order[1] != "node" {
		t.Fatalf("order = %v, want [scene node]", order)
	}

	h.Remove()
	order = nil
	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 30, 20, false, MouseButtonLeft)
	if len(order) != 1 || order[0] != "node" {
		t.Errorf("after Remove order = %v, want [node]", order)
	}
}

func TestSceneClickOnEmptySpace(t *testing.T) {
	s, _ := newInputScene()
	var got *Node
	called := false
	s.OnPointerDown(func(ctx PointerContext) {
		called = true
		got = ctx.Node
	})
	s.processPointer(0, 500, 500, true, MouseButtonLeft)
	if !called || got != nil {
		t.Errorf("called = %v, node = %v; want true, nil", called, got)
	}
}

type recordingStore struct {
	events []InteractionEvent
}

func (r *recordingStore) EmitEvent(e InteractionEvent) {
	r.events = append(r.events, e)
}

func TestEntityStoreReceivesEvents(t *testing.T) {
	s, btn := newInputScene()
	store := &recordingStore{}
	s.SetEntityStore(store)

	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 30, 20, false, MouseButtonLeft)
	if len(store.events) != 0 {
		t.Fatalf("nodes without EntityID should not emit, got %d", len(store.events))
	}

	btn.EntityID = 7
	s.processPointer(0, 30, 20, true, MouseButtonLeft)
	s.processPointer(0, 30, 20, false, MouseButtonLeft)

	var types []EventType
	for _, e := range store.events {
		if e.EntityID != 7 {
			t.Errorf("EntityID = %d, want 7", e.EntityID)
		}
		types = append(types, e.Type)
	}
	want := []EventType{EventPointerDown, EventClick, EventPointerUp}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types[%d] = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventDragEnd.String(); got != "drag_end" {
		t.Errorf("String() = %q, want drag_end", got)
	}
	if got := EventType(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
