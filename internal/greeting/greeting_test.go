package greeting

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	want := "Say cheerfully: Happy Birthday Simran! Wishing you a day filled with joy, laughter, and lots of cake!"
	if got := Prompt("Simran"); got != want {
		t.Errorf("Prompt = %q, want %q", got, want)
	}
}

func pcm(samples ...int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	return b
}

func TestDecodePCM16(t *testing.T) {
	got, err := DecodePCM16(pcm(0, 16384, -16384, 32767, -32768))
	require.NoError(t, err)
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768, -1}
	assert.Equal(t, want, got)
	for _, s := range got {
		assert.True(t, s >= -1 && s < 1, "sample %v out of range", s)
	}
}

func TestDecodePCM16Errors(t *testing.T) {
	_, err := DecodePCM16(nil)
	assert.ErrorIs(t, err, ErrEmptyAudio)
	_, err = DecodePCM16([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrOddPCM)
}

func TestEncodeStereo16(t *testing.T) {
	out := EncodeStereo16([]float32{0.5, -1, 2})
	require.Len(t, out, 12)
	frames := []int16{16384, -32768, 32767}
	for i, want := range frames {
		l := int16(binary.LittleEndian.Uint16(out[4*i:]))
		r := int16(binary.LittleEndian.Uint16(out[4*i+2:]))
		assert.Equal(t, want, l, "frame %d left", i)
		assert.Equal(t, want, r, "frame %d right", i)
	}
}

type stubSynth struct {
	data []byte
	err  error
	text string
}

func (s *stubSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	s.text = text
	return s.data, s.err
}

type recordingPlayer struct {
	samples []float32
	rate    int
}

func (p *recordingPlayer) PlayPCM(ctx context.Context, samples []float32, rate int) error {
	p.samples = samples
	p.rate = rate
	return nil
}

func TestServiceGreet(t *testing.T) {
	synth := &stubSynth{data: pcm(16384, -16384)}
	player := &recordingPlayer{}
	svc := NewService(synth, player)

	require.NoError(t, svc.Greet(context.Background(), "Vansh"))
	assert.Equal(t, Prompt("Vansh"), synth.text)
	assert.Equal(t, []float32{0.5, -0.5}, player.samples)
	assert.Equal(t, SampleRate, player.rate)
}

func TestServiceGreetErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		synth Synthesizer
		want  error
	}{
		{"no backend", nil, ErrNoAPIKey},
		{"network", &stubSynth{err: boom}, boom},
		{"empty", &stubSynth{data: []byte{}}, ErrEmptyAudio},
		{"odd", &stubSynth{data: []byte{1}}, ErrOddPCM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &recordingPlayer{}
			err := NewService(tt.synth, player).Greet(context.Background(), "Vansh")
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, player.samples, "nothing should play")
		})
	}
}

func TestServiceTimeout(t *testing.T) {
	slow := synthFunc(func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	svc := NewService(slow, nil, WithTimeout(10*time.Millisecond))
	err := svc.Greet(context.Background(), "Simran")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// blockingPlayer plays for length unless ctx ends first.
type blockingPlayer struct {
	length time.Duration
	played time.Duration
}

func (p *blockingPlayer) PlayPCM(ctx context.Context, _ []float32, _ int) error {
	start := time.Now()
	defer func() { p.played = time.Since(start) }()
	select {
	case <-time.After(p.length):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestServiceTimeoutExcludesPlayback(t *testing.T) {
	slow := synthFunc(func(ctx context.Context, _ string) ([]byte, error) {
		select {
		case <-time.After(80 * time.Millisecond):
			return pcm(1, 2, 3), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	player := &blockingPlayer{length: 200 * time.Millisecond}
	svc := NewService(slow, player, WithTimeout(100*time.Millisecond))

	require.NoError(t, svc.Greet(context.Background(), "Vansh"))
	assert.GreaterOrEqual(t, player.played, 200*time.Millisecond)
}

func TestServicePlaybackStopsOnCancel(t *testing.T) {
	player := &blockingPlayer{length: 5 * time.Second}
	svc := NewService(&stubSynth{data: pcm(1, 2)}, player)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := svc.Greet(ctx, "Simran")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, player.played, time.Second)
}

type synthFunc func(ctx context.Context, text string) ([]byte, error)

func (f synthFunc) Synthesize(ctx context.Context, text string) ([]byte, error) { return f(ctx, text) }

func TestNewGenAISynthesizerRequiresKey(t *testing.T) {
	_, err := NewGenAISynthesizer(context.Background(), GenAIConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

// ttsServer answers generateContent with audio, recording the decoded request.
func ttsServer(t *testing.T, audio []byte, gotReq *map[string]any, gotPath *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		if r.Header.Get("x-goog-api-key") != "test-key" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(gotReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		parts := []map[string]any{}
		if audio != nil {
			parts = append(parts, map[string]any{
				"inlineData": map[string]any{
					"mimeType": "audio/L16;codec=pcm;rate=24000",
					"data":     base64.StdEncoding.EncodeToString(audio),
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"role": "model", "parts": parts},
			}},
		})
	}))
}

func TestGenAISynthesizerRequest(t *testing.T) {
	var req map[string]any
	var path string
	srv := ttsServer(t, pcm(1, 2, 3), &req, &path)
	defer srv.Close()

	s, err := NewGenAISynthesizer(context.Background(), GenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	data, err := s.Synthesize(context.Background(), Prompt("Simran"))
	require.NoError(t, err)
	assert.Equal(t, pcm(1, 2, 3), data)

	assert.True(t, strings.HasSuffix(path, "models/"+DefaultModel+":generateContent"), "path %q", path)

	gen, ok := req["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing in %v", req)
	assert.Equal(t, []any{"AUDIO"}, gen["responseModalities"])
	raw, _ := json.Marshal(gen["speechConfig"])
	assert.Contains(t, string(raw), `"voiceName":"Kore"`)

	rawContents, _ := json.Marshal(req["contents"])
	assert.Contains(t, string(rawContents), "Happy Birthday Simran!")
}

func TestGenAISynthesizerEmptyResponse(t *testing.T) {
	var req map[string]any
	var path string
	srv := ttsServer(t, nil, &req, &path)
	defer srv.Close()

	s, err := NewGenAISynthesizer(context.Background(), GenAIConfig{
		APIKey:     "test-key",
		Voice:      "Puck",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestGenAISynthesizerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"down"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s, err := NewGenAISynthesizer(context.Background(), GenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "hi")
	assert.Error(t, err)
}
