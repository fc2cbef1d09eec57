package stage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ScriptStep is one action of an input script.
type ScriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Target string  `json:"target,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `json:"steps"`
}

// Script actions.
const (
	ActionClick      = "click"      // click at (x, y) or at the center of target
	ActionDrag       = "drag"       // drag from one point or target to another
	ActionWait       = "wait"       // idle for frames ticks
	ActionScreenshot = "screenshot" // capture the next frame under label
)

// Script plays a sequence of injected input across frames. Attach it with
// Scene.SetScript.
type Script struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool

	// OnDone runs once after the last step has been issued and its input
	// drained.
	OnDone func()
}

// ParseScript decodes a JSON script of the form {"steps": [...]}.
func ParseScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case ActionClick, ActionDrag, ActionWait, ActionScreenshot:
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// SetScript attaches r. It is stepped from Update before input is read.
func (s *Scene) SetScript(r *Script) {
	s.script = r
}

// Done reports whether every step ran.
func (r *Script) Done() bool {
	return r.done
}

// Remaining returns the number of steps not yet issued.
func (r *Script) Remaining() int {
	return len(r.steps) - r.cursor
}

func (r *Script) finish() {
	if r.done {
		return
	}
	r.done = true
	if r.OnDone != nil {
		r.OnDone()
	}
}

// step advances the script by one tick.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.finish()
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case ActionScreenshot:
		s.Screenshot(st.Label)
	case ActionClick:
		x, y := st.X, st.Y
		if st.Target != "" {
			var ok bool
			if x, y, ok = s.targetCenter(st.Target); !ok {
				s.logger.Warn("script target not found", zap.String("target", st.Target))
				break
			}
		}
		s.InjectClick(x, y)
	case ActionDrag:
		fromX, fromY := st.FromX, st.FromY
		if st.Target != "" {
			var ok bool
			if fromX, fromY, ok = s.targetCenter(st.Target); !ok {
				s.logger.Warn("script target not found", zap.String("target", st.Target))
				break
			}
		}
		s.InjectDrag(fromX, fromY, st.ToX, st.ToY, st.Frames)
	case ActionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.finish()
	}
}

func (s *Scene) targetCenter(name string) (float64, float64, bool) {
	n := s.root.Find(name)
	if n == nil {
		return 0, 0, false
	}
	c, ok := n.WorldCenter()
	return c.X, c.Y, ok
}
