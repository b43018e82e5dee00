package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/todos/internal/config"
	"github.com/five82/todos/internal/logging"
	"github.com/five82/todos/internal/prefs"
	"github.com/five82/todos/internal/state"
	"github.com/five82/todos/internal/todo"
	"github.com/five82/todos/internal/todoapi"
	"github.com/five82/todos/internal/ui"
)

// Options configure the todos application. Zero values defer to the config
// file.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses ~/.config/todos/prefs.toml
	APIURL       string // overrides api_url
	LogPath      string // overrides log_file
	RefreshEvery int    // seconds; negative defers to refresh_interval, zero disables
}

// runUI is replaced in tests to avoid starting a terminal program.
var runUI = ui.Run

// Run boots the todos TUI until the user quits or the context is cancelled.
// Background work started here stops when Run returns.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return err
	}

	logger, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	client, err := todoapi.NewClient(cfg.APIURL, todoapi.Options{
		Timeout:         cfg.RequestTimeout,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	logger.Info("todos starting",
		slog.String("api", client.BaseURL()),
		slog.Duration("refresh_interval", cfg.RefreshInterval),
		slog.Duration("request_timeout", cfg.RequestTimeout),
	)

	engine := todo.NewEngine(client, &state.Store{}, logger)

	StartPoller(ctx, engine, cfg.RefreshInterval, logger)

	userPrefs := prefs.Load(opts.PrefsPath)

	uiOpts := ui.Options{
		Context:   ctx,
		Engine:    engine,
		APIURL:    client.BaseURL(),
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	}
	err = runUI(uiOpts)
	cancel()
	logger.Info("todos stopped")
	return err
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogPath); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
		cfg.LogFile = path
	}
	if opts.RefreshEvery >= 0 {
		cfg.RefreshInterval = time.Duration(opts.RefreshEvery) * time.Second
	}
	return nil
}
