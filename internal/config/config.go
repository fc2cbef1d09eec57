// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/birthdaycard/internal/feast"
)

// Config holds every setting the card reads at startup. Command-line flags
// override these after Load.
type Config struct {
	APIKey       string `env:"API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	TTSModel        string        `env:"CARD_TTS_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	TTSVoice        string        `env:"CARD_TTS_VOICE" envDefault:"Kore"`
	GreetingTimeout time.Duration `env:"CARD_GREETING_TIMEOUT" envDefault:"30s"`
	AssetTimeout    time.Duration `env:"CARD_ASSET_TIMEOUT" envDefault:"20s"`

	FeedThreshold float64 `env:"CARD_FEED_THRESHOLD" envDefault:"80"`
	FeedMode      string  `env:"CARD_FEED_MODE" envDefault:"nearest"`

	Width  int  `env:"CARD_WIDTH" envDefault:"960"`
	Height int  `env:"CARD_HEIGHT" envDefault:"720"`
	Muted  bool `env:"CARD_MUTED" envDefault:"false"`

	LogLevel zapcore.Level `env:"CARD_LOG_LEVEL" envDefault:"info"`
}

// Load reads files (default ".env") into the process environment, then parses
// Config from it. Missing files are skipped; variables already set win over
// file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Credential returns API_KEY, falling back to GEMINI_API_KEY. Empty means the
// spoken greeting is disabled.
func (c Config) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.GeminiAPIKey
}

// Feed returns the mini-game configuration.
func (c Config) Feed() feast.Config {
	mode, _ := ParseFeedMode(c.FeedMode)
	return feast.Config{Threshold: c.FeedThreshold, Mode: mode}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	case !(c.FeedThreshold > 0) || math.IsInf(c.FeedThreshold, 0):
		return fmt.Errorf("invalid feed threshold %v", c.FeedThreshold)
	case c.GreetingTimeout <= 0 || c.AssetTimeout <= 0:
		return errors.New("timeouts must be positive")
	}
	if _, err := ParseFeedMode(c.FeedMode); err != nil {
		return err
	}
	return nil
}

// ParseFeedMode accepts "nearest" and "all".
func ParseFeedMode(s string) (feast.FeedMode, error) {
	switch s {
	case "nearest", "":
		return feast.FeedNearest, nil
	case "all":
		return feast.FeedAll, nil
	default:
		return feast.FeedNearest, fmt.Errorf("unknown feed mode %q", s)
	}
}
