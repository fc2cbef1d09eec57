package stage

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "drag", "target": "slice", "toX": 10, "toY": 20, "frames": 8}
		]
	}`)

	r, err := ParseScript(data)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if r.Remaining() != 4 {
		t.Fatalf("Remaining() = %d, want 4", r.Remaining())
	}
	if st := r.steps[1]; st.Action != ActionClick || st.X != 100 || st.Y != 200 {
		t.Errorf("step 1 = %+v", st)
	}
	if st := r.steps[3]; st.Target != "slice" || st.Frames != 8 {
		t.Errorf("step 3 = %+v", st)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "jump"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func mustScript(t *testing.T, data string) *Script {
	t.Helper()
	r, err := ParseScript([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestScriptClickWaitsForQueue(t *testing.T) {
	s := NewScene()
	r := mustScript(t, `{"steps": [
		{"action": "click", "x": 50, "y": 50},
		{"action": "screenshot", "label": "after"}
	]}`)
	done := 0
	r.OnDone = func() { done++ }

	r.step(s)
	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}
	r.step(s)
	if r.Remaining() != 1 {
		t.Errorf("script advanced with input pending, Remaining() = %d", r.Remaining())
	}

	for s.processInjectedInput() {
	}
	r.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "after" {
		t.Errorf("screenshotQueue = %v, want [after]", s.screenshotQueue)
	}
	if !r.Done() || done != 1 {
		t.Errorf("Done() = %v, OnDone calls = %d; want true, 1", r.Done(), done)
	}
	r.step(s)
	if done != 1 {
		t.Errorf("OnDone calls = %d, want 1", done)
	}
}

func TestScriptWait(t *testing.T) {
	s := NewScene()
	r := mustScript(t, `{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`)

	for i := 0; i < 3; i++ {
		r.step(s)
		if r.Done() {
			t.Fatalf("done after %d ticks, want 4", i+1)
		}
	}
	r.step(s)
	if !r.Done() {
		t.Error("script should be done after the screenshot step")
	}
}

func TestScriptTargetsNodeByName(t *testing.T) {
	s := NewScene()
	slice := NewCircle("slice", 10, ColorWhite)
	slice.SetPosition(100, 60)
	s.Root().AddChild(slice)

	r := mustScript(t, `{"steps": [{"action": "drag", "target": "slice", "toX": 300, "toY": 60, "frames": 3}]}`)
	r.step(s)

	if s.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", s.Pending())
	}
	first := s.injectQueue[0]
	if first.x != 100 || first.y != 60 || !first.pressed {
		t.Errorf("press = %+v, want at (100, 60)", first)
	}
}

func TestScriptMissingTargetWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewScene()
	s.SetLogger(zap.New(core))

	r := mustScript(t, `{"steps": [{"action": "click", "target": "nobody"}]}`)
	r.step(s)

	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	if n := logs.FilterMessage("script target not found").Len(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
	if !r.Done() {
		t.Error("script should finish after its last step")
	}
}

func TestSceneAdvanceStepsScript(t *testing.T) {
	s := NewScene()
	r := mustScript(t, `{"steps": [{"action": "screenshot", "label": "x"}]}`)
	s.SetScript(r)
	s.advance(1.0 / 60)
	if !r.Done() {
		t.Error("advance should step the attached script")
	}
}
