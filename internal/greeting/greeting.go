// Package greeting produces the spoken, personalized birthday greeting: a
// prompt is sent to a text-to-speech model and the returned PCM is played.
package greeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoAPIKey is returned when no credential is configured.
	ErrNoAPIKey = errors.New("greeting: no API key")
	// ErrEmptyAudio is returned when the model answers without audio.
	ErrEmptyAudio = errors.New("greeting: empty audio")
	// ErrOddPCM is returned when a 16-bit payload has an odd byte count.
	ErrOddPCM = errors.New("greeting: odd PCM byte count")
)

const promptFormat = "Say cheerfully: Happy Birthday %s! Wishing you a day filled with joy, laughter, and lots of cake!"

// Prompt returns the text sent to the speech model for name.
func Prompt(name string) string {
	return fmt.Sprintf(promptFormat, name)
}

// Synthesizer turns text into raw 16-bit little-endian mono PCM at
// [SampleRate].
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// PCMPlayer plays decoded mono samples. PlayPCM may return before playback
// finishes; it must stop early when ctx is cancelled.
type PCMPlayer interface {
	PlayPCM(ctx context.Context, samples []float32, sampleRate int) error
}

// DefaultTimeout bounds one request plus decode.
const DefaultTimeout = 30 * time.Second

// Service fetches, decodes and plays greetings.
type Service struct {
	synth   Synthesizer
	player  PCMPlayer
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service. A nil synth makes every Greet fail with
// ErrNoAPIKey.
func NewService(synth Synthesizer, player PCMPlayer, opts ...Option) *Service {
	s := &Service{
		synth:   synth,
		player:  player,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Greet speaks the greeting for name. It blocks for the request and for
// playback. The timeout bounds the request only; playback runs until it ends
// or ctx is done.
func (s *Service) Greet(ctx context.Context, name string) error {
	if s.synth == nil {
		return ErrNoAPIKey
	}
	samples, err := s.synthesize(ctx, name)
	if err != nil {
		return err
	}

	if s.player == nil {
		return nil
	}
	if err := s.player.PlayPCM(ctx, samples, SampleRate); err != nil {
		return fmt.Errorf("play greeting: %w", err)
	}
	return nil
}

// synthesize fetches and decodes the greeting under the request timeout.
func (s *Service) synthesize(ctx context.Context, name string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.synth.Synthesize(ctx, Prompt(name))
	if err != nil {
		return nil, fmt.Errorf("synthesize greeting: %w", err)
	}
	samples, err := DecodePCM16(raw)
	if err != nil {
		return nil, fmt.Errorf("decode greeting: %w", err)
	}
	s.logger.Debug("greeting synthesized",
		zap.Int("samples", len(samples)),
		zap.Duration("took", time.Since(start)))
	return samples, nil
}
