package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/phanxgames/birthdaycard/internal/greeting"
)

// ErrNoContext is returned by PlayPCM on a silent mixer.
var ErrNoContext = errors.New("audio: no audio context")

const voicePoll = 50 * time.Millisecond

// PlayPCM plays mono samples recorded at sampleRate and blocks until playback
// ends or ctx is done. A new greeting replaces one still playing.
func (m *Mixer) PlayPCM(ctx context.Context, samples []float32, sampleRate int) error {
	if m.ctx == nil {
		return ErrNoContext
	}
	stereo := greeting.EncodeStereo16(samples)
	src := ebaudio.Resample(bytes.NewReader(stereo), int64(len(stereo)), sampleRate, SampleRate)

	p, err := m.ctx.NewPlayer(src)
	if err != nil {
		return fmt.Errorf("voice player: %w", err)
	}

	m.mu.Lock()
	if m.voice != nil {
		m.voice.Pause()
		_ = m.voice.Close()
	}
	m.voice = p
	p.SetVolume(m.volumeLocked(1))
	p.Play()
	m.mu.Unlock()

	defer m.releaseVoice(p)

	t := time.NewTicker(voicePoll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if !p.IsPlaying() {
				return nil
			}
		}
	}
}

func (m *Mixer) releaseVoice(p *ebaudio.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.voice != p {
		return
	}
	p.Pause()
	_ = p.Close()
	m.voice = nil
}
