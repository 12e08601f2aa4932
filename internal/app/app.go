package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/citadel/internal/cache"
	"github.com/five82/citadel/internal/catalog"
	"github.com/five82/citadel/internal/config"
	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/prefs"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/state"
	"github.com/five82/citadel/internal/ui"
)

// Options configure the Citadel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/citadel/prefs.toml
	Query      string // shareable query string; overrides stored filters
	Print      bool   // print one page to Stdout instead of starting the TUI
	Stdout     io.Writer
}

// Run boots Citadel until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadDotEnv(""); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog := openLogger(cfg.LogFile)
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)
	start := resolveFilter(userPrefs.Filters, opts.Query, logger)

	client, err := rickmorty.NewClient(rickmorty.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout,
		Retries:   cfg.Retries,
		RateLimit: cfg.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	backend := openBackend(ctx, cfg, logger)
	defer func() { _ = backend.Close() }()

	svc := catalog.New(client, backend, catalog.Options{
		ListTTL:   cfg.ListTTL,
		DetailTTL: cfg.DetailTTL,
		Logger:    logger,
	})

	if opts.Print {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return PrintOnce(ctx, out, svc, start)
	}

	if mem, ok := backend.(*cache.Memory); ok {
		StartSweeper(ctx, mem, defaultSweepInterval, logger)
	}

	store := state.NewStore(start)
	logger.Info("citadel started",
		slog.String("api", client.BaseURL()),
		slog.String("cache", cfg.CacheBackend),
		slog.String("query", start.Key()))

	theme, runErr := ui.Run(ui.Options{
		Context:   ctx,
		Catalog:   svc,
		Store:     store,
		Logger:    logger,
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})

	final := prefs.Prefs{Theme: theme, Filters: store.Filter()}
	if err := prefs.Save(opts.PrefsPath, final); err != nil {
		logger.Warn("save prefs failed", slog.Any("error", err))
	}
	return runErr
}

// resolveFilter picks the starting filter: the stored one, replaced entirely
// by query when one is given. Invalid query values are dropped.
func resolveFilter(stored filter.State, query string, logger *slog.Logger) filter.State {
	if strings.TrimSpace(query) == "" {
		return stored.Normalize()
	}
	f, err := filter.ParseQuery(query)
	if err != nil {
		logger.Warn("ignoring invalid query values",
			slog.String("query", query),
			slog.Any("error", err))
	}
	return f
}

// openBackend returns the configured cache backend. A Redis server that
// cannot be reached falls back to the in-memory cache.
func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) cache.Backend {
	if cfg.CacheBackend != config.BackendRedis {
		return cache.NewMemory()
	}
	r, err := cache.NewRedis(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Warn("redis unavailable, using memory cache", slog.Any("error", err))
		return cache.NewMemory()
	}
	return r
}

// openLogger writes structured logs to path. The TUI owns the terminal, so
// when the file cannot be opened logs are discarded.
func openLogger(path string) (*slog.Logger, func()) {
	discard := slog.New(slog.DiscardHandler)
	if strings.TrimSpace(path) == "" {
		return discard, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, func() {}
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { _ = file.Close() }
}
