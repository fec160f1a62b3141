package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"primatebot/internal/bot"
	"primatebot/internal/config"
	"primatebot/internal/logging"
	"primatebot/internal/plot"
	"primatebot/internal/storage"
	"primatebot/internal/version"

	"github.com/spf13/cobra"
)

var (
	configFile   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "primatebot",
	Short: "Primatebot - primate analysis scores, duels and leaderboards",
	Long: `Primatebot issues tongue-in-cheek primate analysis scores (IQ and
monkey purity), runs head-to-head monkey-off duels, and keeps ranked
leaderboards per guild in an embedded SQLite database.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("primatebot version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to config file (default: config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")
}

// env bundles everything a command execution needs.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *storage.Store
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}

// loadEnv loads configuration, sets up logging, and opens the store
// with its schema applied.
func loadEnv() (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}

	logger, logCloser, err := logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	e := &env{cfg: cfg, logger: logger}
	if logCloser != nil {
		e.closers = append(e.closers, logCloser)
	}

	store, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.EnsureSchema(); err != nil {
		store.Close()
		e.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	e.store = store
	e.closers = append(e.closers, store)
	return e, nil
}

// newHandler builds the command handler over a console gateway, with
// the chart renderer when a font is configured.
func newHandler(e *env) (*bot.Handler, error) {
	renderer, err := plot.NewRenderer(e.cfg.Plot.FontPath, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up chart renderer: %w", err)
	}

	return bot.NewHandler(e.store, newConsoleGateway(), renderer, bot.HandlerConfig{
		GuildWhitelist: e.cfg.Guilds.Whitelist,
		BotChannels:    e.cfg.Guilds.BotChannels,
	}, e.logger), nil
}

// runOnDispatcher executes one command through the worker pool so CLI
// invocations share the timeout and logging path of the bot loop.
func runOnDispatcher(e *env, name string, fn func(ctx context.Context) error) error {
	d := bot.NewDispatcher(bot.DispatcherConfig{
		QueueSize:   e.cfg.Dispatcher.QueueSize,
		WorkerCount: e.cfg.Dispatcher.Workers,
		OpTimeout:   time.Duration(e.cfg.Dispatcher.OpTimeoutSeconds) * time.Second,
	}, e.logger)
	d.Start()
	defer d.Stop(5 * time.Second)

	result := make(chan error, 1)
	if _, err := d.Submit(name, func(ctx context.Context) error {
		err := fn(ctx)
		result <- err
		return err
	}); err != nil {
		return err
	}
	return <-result
}
