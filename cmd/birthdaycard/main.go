// Command birthdaycard opens the animated birthday card in a window.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/birthdaycard/internal/app"
	"github.com/phanxgames/birthdaycard/internal/asset"
	"github.com/phanxgames/birthdaycard/internal/audio"
	"github.com/phanxgames/birthdaycard/internal/card"
	"github.com/phanxgames/birthdaycard/internal/config"
	"github.com/phanxgames/birthdaycard/internal/greeting"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

var (
	envFile    string
	width      int
	height     int
	muted      bool
	debug      bool
	showFPS    bool
	feedAll    bool
	scriptPath string
	exitAfter  bool
	logLevel   string

	settings config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "birthdaycard",
	Short: "An animated birthday greeting card",
	Long: `birthdaycard opens a birthday invitation, lets you pick whose birthday
it is, runs the cake-feeding game, and ends with three blessing poems.

Set API_KEY or GEMINI_API_KEY to hear a spoken personalized greeting.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := settings.LogLevel
		if logLevel != "" {
			if level, err = zapcore.ParseLevel(logLevel); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
		}
		zc := zap.NewProductionConfig()
		if debug {
			zc = zap.NewDevelopmentConfig()
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	f.IntVar(&width, "width", 0, "Window width (overrides CARD_WIDTH)")
	f.IntVar(&height, "height", 0, "Window height (overrides CARD_HEIGHT)")
	f.BoolVar(&muted, "muted", false, "Start with sound off (overrides CARD_MUTED)")
	f.BoolVar(&debug, "debug", false, "Enable stage debug checks and development logging")
	f.BoolVar(&showFPS, "fps", false, "Show the FPS counter")
	f.BoolVar(&feedAll, "feed-all", false, "Feed everyone in reach instead of the nearest person")
	f.StringVar(&scriptPath, "script", "", "Replay an input script (JSON)")
	f.BoolVar(&exitAfter, "exit-after-script", false, "Quit once the script has finished")
	f.StringVar(&logLevel, "log-level", "", "Log level (overrides CARD_LOG_LEVEL)")
}

func run(cmd *cobra.Command) error {
	cfg := settings
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("muted") {
		cfg.Muted = muted
	}
	if feedAll {
		cfg.FeedMode = "all"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := asset.NewFetcher(nil, logger.Named("asset"))
	mixer := audio.NewMixer(ebaudio.NewContext(audio.SampleRate), logger.Named("audio"))
	go mixer.Load(ctx, fetcher, audio.DefaultSources(), cfg.AssetTimeout)

	images := app.NewImages(logger.Named("images"))
	go images.Load(ctx, fetcher, card.Blessings(), cfg.AssetTimeout)

	opts := []card.SessionOption{card.WithLogger(logger.Named("card"))}
	if key := cfg.Credential(); key != "" {
		synth, err := greeting.NewGenAISynthesizer(ctx, greeting.GenAIConfig{
			APIKey: key,
			Model:  cfg.TTSModel,
			Voice:  cfg.TTSVoice,
		})
		if err != nil {
			return fmt.Errorf("create speech client: %w", err)
		}
		opts = append(opts, card.WithGreeter(greeting.NewService(synth, mixer,
			greeting.WithTimeout(cfg.GreetingTimeout),
			greeting.WithLogger(logger.Named("greeting")))))
	} else {
		logger.Info("no API key configured, spoken greeting disabled")
	}

	session := card.NewSession(ctx, mixer, cfg.Muted, opts...)
	defer session.Close()

	var script *stage.Script
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if script, err = stage.ParseScript(data); err != nil {
			return err
		}
	}

	fonts, err := app.LoadFonts()
	if err != nil {
		return err
	}
	game := app.New(session, fonts, app.Options{
		Width:           cfg.Width,
		Height:          cfg.Height,
		Feed:            cfg.Feed(),
		ShowFPS:         showFPS,
		Debug:           debug,
		Script:          script,
		ExitAfterScript: exitAfter,
		Images:          images,
		Logger:          logger,
		Context:         ctx,
	})

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Happy Birthday!")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("card started",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("muted", cfg.Muted),
		zap.String("feed_mode", cfg.FeedMode))

	// RunGame reports ebiten.Termination as nil.
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, app.ErrScriptDone) {
		return fmt.Errorf("run game: %w", err)
	}
	if ctx.Err() != nil {
		logger.Info("stopped by signal")
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
