package card

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingEffects struct {
	effects []Effect
	music   []bool
	muted   []bool
}

func (r *recordingEffects) PlayEffect(e Effect) { r.effects = append(r.effects, e) }
func (r *recordingEffects) StartMusic()         { r.music = append(r.music, true) }
func (r *recordingEffects) StopMusic()          { r.music = append(r.music, false) }
func (r *recordingEffects) SetMuted(m bool)     { r.muted = append(r.muted, m) }

type greeterFunc func(ctx context.Context, name string) error

func (f greeterFunc) Greet(ctx context.Context, name string) error { return f(ctx, name) }

// blockingGreeter holds every call until its context is done.
type blockingGreeter struct {
	mu      sync.Mutex
	names   []string
	started chan struct{}
}

func newBlockingGreeter() *blockingGreeter {
	return &blockingGreeter{started: make(chan struct{}, 4)}
}

func (b *blockingGreeter) Greet(ctx context.Context, name string) error {
	b.mu.Lock()
	b.names = append(b.names, name)
	b.mu.Unlock()
	b.started <- struct{}{}
	<-ctx.Done()
	return ctx.Err()
}

func waitStarted(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("greeter never started")
	}
}

func TestSessionHappyPath(t *testing.T) {
	fx := &recordingEffects{}
	s := NewSession(context.Background(), fx, false)
	defer s.Close()

	require.True(t, s.OpenMail())
	require.True(t, s.Choose(Simran))
	assert.Equal(t, SceneCake, s.View().Scene)
	assert.Equal(t, Simran, s.View().Celebrant)
	require.True(t, s.FinishCake())
	require.True(t, s.OpenBlessing("god"))

	assert.Equal(t, []Effect{EffectMail, EffectPop, EffectPop, EffectBlessing}, fx.effects)
	assert.Equal(t, []bool{true}, fx.music)
}

func TestSessionRejectsOutOfOrderActions(t *testing.T) {
	fx := &recordingEffects{}
	s := NewSession(context.Background(), fx, false)
	defer s.Close()

	assert.False(t, s.Choose(Vansh), "choose before mail")
	assert.False(t, s.FinishCake(), "finish before cake")
	assert.False(t, s.OpenBlessing("god"), "blessing before blessings scene")

	s.OpenMail()
	assert.False(t, s.OpenMail(), "mail opened twice")
	assert.False(t, s.Choose("Nobody"))
	assert.Equal(t, SceneSelection, s.View().Scene)
	assert.Empty(t, fx.music, "music must not start for a rejected choice")

	s.Choose(Vansh)
	s.FinishCake()
	assert.False(t, s.OpenBlessing("unknown"))
	assert.Equal(t, []Effect{EffectMail, EffectPop, EffectPop}, fx.effects)
}

func TestFailingGreetingDoesNotBlockCake(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	done := make(chan struct{})
	g := greeterFunc(func(ctx context.Context, name string) error {
		defer close(done)
		return errors.New("service unavailable")
	})

	s := NewSession(context.Background(), nil, false, WithGreeter(g), WithLogger(zap.New(core)))
	s.OpenMail()
	require.True(t, s.Choose(Vansh))
	assert.Equal(t, SceneCake, s.View().Scene)

	<-done
	s.Close()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed to play personalized greeting", entry.Message)
	assert.Equal(t, "Vansh", entry.ContextMap()["name"])
	assert.Equal(t, SceneCake, s.View().Scene)
}

func TestSlowGreetingDoesNotBlockCake(t *testing.T) {
	g := newBlockingGreeter()
	s := NewSession(context.Background(), nil, false, WithGreeter(g))

	s.OpenMail()
	start := time.Now()
	require.True(t, s.Choose(Simran))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, SceneCake, s.View().Scene)

	waitStarted(t, g.started)
	s.Close()
	assert.Equal(t, []string{"Simran"}, g.names)
}

func TestRestartCancelsGreetingAndResets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g := newBlockingGreeter()
	fx := &recordingEffects{}
	s := NewSession(context.Background(), fx, true, WithGreeter(g), WithLogger(zap.New(core)))
	before := s.View()

	s.OpenMail()
	s.Choose(Vansh)
	waitStarted(t, g.started)
	s.ToggleMute()
	s.FinishCake()

	s.Restart()
	after := s.View()
	assert.Equal(t, SceneMail, after.Scene)
	assert.Equal(t, Celebrant(""), after.Celebrant)
	assert.True(t, after.Muted, "mute returns to the initial value")
	assert.NotEqual(t, before.SessionID, after.SessionID)
	assert.Equal(t, []bool{true, false}, fx.music)
	assert.Equal(t, []bool{true, false, true}, fx.muted)

	// The new session works with a fresh context.
	s.OpenMail()
	require.True(t, s.Choose(Simran))
	waitStarted(t, g.started)
	s.Close()

	assert.Equal(t, []string{"Vansh", "Simran"}, g.names)
	assert.Equal(t, 2, logs.FilterMessage("greeting cancelled").Len())
	assert.Zero(t, logs.FilterMessage("failed to play personalized greeting").Len())
}

func TestParentCancellationStopsGreeting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newBlockingGreeter()
	s := NewSession(ctx, nil, false, WithGreeter(g))

	s.OpenMail()
	s.Choose(Vansh)
	waitStarted(t, g.started)
	cancel()
	s.Close()
}

func TestToggleMuteForwardsToEffects(t *testing.T) {
	fx := &recordingEffects{}
	s := NewSession(context.Background(), fx, false)
	defer s.Close()

	assert.True(t, s.ToggleMute())
	assert.False(t, s.ToggleMute())
	assert.Equal(t, []bool{false, true, false}, fx.muted)
}
