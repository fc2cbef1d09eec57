package card

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Effect names a one-shot sound effect.
type Effect uint8

const (
	EffectMail     Effect = iota // envelope opened
	EffectSlice                  // knife into the cake
	EffectBlessing               // poem opened
	EffectPop                    // happy pop
)

func (e Effect) String() string {
	switch e {
	case EffectMail:
		return "mail"
	case EffectSlice:
		return "slice"
	case EffectBlessing:
		return "blessing"
	case EffectPop:
		return "pop"
	default:
		return "unknown"
	}
}

// Effects plays sounds. Every method is fire-and-forget; implementations
// swallow playback failures.
type Effects interface {
	PlayEffect(e Effect)
	StartMusic()
	StopMusic()
	SetMuted(muted bool)
}

// Greeter speaks a personalized greeting. Greet may block for the whole
// network round trip and playback; Session always calls it off the UI
// goroutine.
type Greeter interface {
	Greet(ctx context.Context, name string) error
}

// Session is the top-level state container: the scene controller plus the
// side effects each user action triggers. All methods must be called from the
// UI goroutine.
type Session struct {
	ctrl    *Controller
	fx      Effects
	greeter Greeter
	logger  *zap.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithGreeter sets the personalized greeting backend. Without one, choosing a
// celebrant plays no greeting.
func WithGreeter(g Greeter) SessionOption {
	return func(s *Session) { s.greeter = g }
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession starts a session at MAIL. Background work is bound to a child of
// parent and is cancelled by Restart and Close.
func NewSession(parent context.Context, fx Effects, muted bool, opts ...SessionOption) *Session {
	s := &Session{
		ctrl:   NewController(muted),
		fx:     fx,
		logger: zap.NewNop(),
		parent: parent,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(parent)
	if s.fx == nil {
		s.fx = nopEffects{}
	}
	s.fx.SetMuted(muted)
	return s
}

// View returns the controller snapshot.
func (s *Session) View() View {
	return s.ctrl.View()
}

// OnSceneChange registers fn to run after each scene transition.
func (s *Session) OnSceneChange(fn func(from, to Scene)) {
	s.ctrl.OnSceneChange = fn
}

// OpenMail opens the invitation.
func (s *Session) OpenMail() bool {
	if s.ctrl.Scene() != SceneMail {
		return false
	}
	s.fx.PlayEffect(EffectMail)
	return s.ctrl.Advance()
}

// Choose picks the celebrant, starts the music, and requests the spoken
// greeting in the background. The scene moves to CAKE before Choose returns,
// whatever the greeting does.
func (s *Session) Choose(name Celebrant) bool {
	if s.ctrl.Scene() != SceneSelection {
		return false
	}
	if _, ok := ParseCelebrant(string(name)); !ok {
		s.logger.Debug("ignoring unknown celebrant", zap.String("name", string(name)))
		return false
	}
	s.fx.StartMusic()
	s.fx.PlayEffect(EffectPop)
	s.greet(name)
	return s.ctrl.SelectCelebrant(name)
}

// FinishCake leaves the mini-game for the blessings.
func (s *Session) FinishCake() bool {
	if s.ctrl.Scene() != SceneCake {
		return false
	}
	s.fx.PlayEffect(EffectPop)
	return s.ctrl.Advance()
}

// OpenBlessing plays the blessing chime when a known poem is opened.
func (s *Session) OpenBlessing(id string) bool {
	if s.ctrl.Scene() != SceneBlessings {
		return false
	}
	if _, ok := FindBlessing(id); !ok {
		return false
	}
	s.fx.PlayEffect(EffectBlessing)
	return true
}

// PlayEffect forwards a mini-game sound.
func (s *Session) PlayEffect(e Effect) {
	s.fx.PlayEffect(e)
}

// ToggleMute flips the global mute flag.
func (s *Session) ToggleMute() bool {
	muted := s.ctrl.ToggleMute()
	s.fx.SetMuted(muted)
	return muted
}

// Restart throws the whole session away: in-flight greetings are cancelled,
// music stops, and the controller returns to a fresh MAIL state.
func (s *Session) Restart() {
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(s.parent)
	s.fx.StopMusic()
	s.ctrl.Restart()
	s.fx.SetMuted(s.ctrl.Muted())
	s.logger.Info("session restarted", zap.String("session", s.ctrl.View().SessionID))
}

// Close cancels background work and waits for it to return.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
	s.fx.StopMusic()
}

func (s *Session) greet(name Celebrant) {
	if s.greeter == nil {
		return
	}
	ctx := s.ctx
	session := s.ctrl.View().SessionID
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.greeter.Greet(ctx, string(name))
		switch {
		case err == nil:
			s.logger.Debug("greeting played", zap.String("session", session))
		case errors.Is(err, context.Canceled):
			s.logger.Debug("greeting cancelled", zap.String("session", session))
		default:
			s.logger.Error("failed to play personalized greeting",
				zap.String("session", session),
				zap.String("name", string(name)),
				zap.Error(err))
		}
	}()
}

type nopEffects struct{}

func (nopEffects) PlayEffect(Effect) {}
func (nopEffects) StartMusic()       {}
func (nopEffects) StopMusic()        {}
func (nopEffects) SetMuted(bool)     {}
