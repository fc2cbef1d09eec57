package greeting

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Model and voice used when the config leaves them empty.
const (
	DefaultModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice = "Kore"
)

// GenAIConfig configures the Gemini speech backend.
type GenAIConfig struct {
	APIKey string
	Model  string
	Voice  string

	// BaseURL overrides the API endpoint. Used by tests.
	BaseURL    string
	HTTPClient *http.Client
}

// GenAISynthesizer calls a Gemini TTS model.
type GenAISynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGenAISynthesizer returns ErrNoAPIKey when cfg.APIKey is empty.
func NewGenAISynthesizer(ctx context.Context, cfg GenAIConfig) (*GenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAISynthesizer{client: client, model: cfg.Model, voice: cfg.Voice}, nil
}

// Synthesize returns the raw PCM of the first audio part in the response.
func (s *GenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{string(genai.ModalityAudio)},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData.Data, nil
			}
		}
	}
	return nil, ErrEmptyAudio
}
