// Package audio plays the card's sound effects, background music and the
// spoken greeting on Ebitengine's audio context.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"go.uber.org/zap"

	"github.com/phanxgames/birthdaycard/internal/asset"
	"github.com/phanxgames/birthdaycard/internal/card"
	"github.com/phanxgames/birthdaycard/internal/greeting"
)

// SampleRate is the audio context rate.
const SampleRate = 44100

// Playback volumes.
const (
	EffectVolume = 0.5
	MusicVolume  = 1.0
)

const musicKey = "music"

// Sources maps each effect to its MP3 URL, plus the looping music track.
type Sources struct {
	Effects map[card.Effect]string
	Music   string
}

// DefaultSources returns the built-in asset URLs.
func DefaultSources() Sources {
	return Sources{
		Effects: map[card.Effect]string{
			card.EffectMail:     "https://cdn.pixabay.com/audio/2022/03/15/audio_556819446d.mp3",
			card.EffectSlice:    "https://cdn.pixabay.com/audio/2022/03/10/audio_f949547d7c.mp3",
			card.EffectBlessing: "https://cdn.pixabay.com/audio/2021/08/04/audio_0625c1539c.mp3",
			card.EffectPop:      "https://cdn.pixabay.com/audio/2021/08/04/audio_bb63058350.mp3",
		},
		Music: "https://cdn.pixabay.com/audio/2022/03/10/audio_c363943a58.mp3",
	}
}

// urls flattens s into asset keys.
func (s Sources) urls() map[string]string {
	out := make(map[string]string, len(s.Effects)+1)
	for e, u := range s.Effects {
		out[e.String()] = u
	}
	if s.Music != "" {
		out[musicKey] = s.Music
	}
	return out
}

// Mixer implements card.Effects and greeting.PCMPlayer. Assets arrive from a
// background load; until then, and whenever a load fails, the matching sound
// is silently skipped.
type Mixer struct {
	ctx    *ebaudio.Context
	logger *zap.Logger

	mu          sync.Mutex
	effects     map[card.Effect][]byte // 16-bit stereo PCM at SampleRate
	music       *ebaudio.Player
	musicWanted bool
	muted       bool
	voice       *ebaudio.Player
}

var (
	_ card.Effects       = (*Mixer)(nil)
	_ greeting.PCMPlayer = (*Mixer)(nil)
)

// NewMixer returns a Mixer on ctx. A nil ctx produces a silent mixer.
func NewMixer(ctx *ebaudio.Context, logger *zap.Logger) *Mixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mixer{
		ctx:     ctx,
		logger:  logger,
		effects: make(map[card.Effect][]byte),
	}
}

// Load fetches and decodes every source. It blocks until all downloads finish
// or timeout passes; whatever failed stays unavailable.
func (m *Mixer) Load(ctx context.Context, f *asset.Fetcher, src Sources, timeout time.Duration) {
	data := f.FetchAll(ctx, src.urls(), timeout)

	for e := range src.Effects {
		raw, ok := data[e.String()]
		if !ok {
			continue
		}
		pcm, err := decodeAll(raw)
		if err != nil {
			m.logger.Warn("effect unavailable", zap.Stringer("effect", e), zap.Error(err))
			continue
		}
		m.mu.Lock()
		m.effects[e] = pcm
		m.mu.Unlock()
	}

	if raw, ok := data[musicKey]; ok {
		if err := m.loadMusic(raw); err != nil {
			m.logger.Warn("music unavailable", zap.Error(err))
		}
	}
}

func decodeAll(raw []byte) ([]byte, error) {
	s, err := mp3.DecodeWithSampleRate(SampleRate, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("read mp3: %w", err)
	}
	return pcm, nil
}

func (m *Mixer) loadMusic(raw []byte) error {
	s, err := mp3.DecodeWithSampleRate(SampleRate, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil {
		return nil
	}
	p, err := m.ctx.NewPlayer(ebaudio.NewInfiniteLoop(s, s.Length()))
	if err != nil {
		return fmt.Errorf("music player: %w", err)
	}
	m.music = p
	m.applyMusicLocked()
	return nil
}

// Available reports whether e has been loaded.
func (m *Mixer) Available(e card.Effect) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.effects[e]
	return ok
}

// PlayEffect starts e at EffectVolume unless muted or unavailable.
func (m *Mixer) PlayEffect(e card.Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted || m.ctx == nil {
		return
	}
	pcm, ok := m.effects[e]
	if !ok {
		m.logger.Debug("effect not loaded", zap.Stringer("effect", e))
		return
	}
	p := m.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(EffectVolume)
	p.Play()
}

// StartMusic starts the loop, now or as soon as it finishes loading.
func (m *Mixer) StartMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicWanted = true
	m.applyMusicLocked()
}

// StopMusic pauses the loop and rewinds it.
func (m *Mixer) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicWanted = false
	if m.music != nil {
		m.music.Pause()
		if err := m.music.SetPosition(0); err != nil {
			m.logger.Warn("rewind music", zap.Error(err))
		}
	}
}

// SetMuted sets the global mute flag. Music keeps its position while muted.
func (m *Mixer) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyMusicLocked()
	if m.voice != nil {
		m.voice.SetVolume(m.volumeLocked(1))
	}
}

// Muted reports the mute flag.
func (m *Mixer) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mixer) volumeLocked(v float64) float64 {
	if m.muted {
		return 0
	}
	return v
}

func (m *Mixer) applyMusicLocked() {
	if m.music == nil {
		return
	}
	m.music.SetVolume(m.volumeLocked(MusicVolume))
	if m.musicWanted && !m.music.IsPlaying() {
		m.music.Play()
	}
}
