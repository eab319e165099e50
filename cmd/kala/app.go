package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sydlexius/kala/internal/cache"
	"github.com/sydlexius/kala/internal/collection"
	"github.com/sydlexius/kala/internal/config"
	"github.com/sydlexius/kala/internal/database"
	"github.com/sydlexius/kala/internal/event"
	"github.com/sydlexius/kala/internal/logging"
	"github.com/sydlexius/kala/internal/metrics"
	"github.com/sydlexius/kala/internal/provider"
	"github.com/sydlexius/kala/internal/provider/wikipedia"
	"github.com/sydlexius/kala/internal/thumbnail"
	"github.com/sydlexius/kala/internal/version"
)

// app is the wired component graph for one command invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	logs     *logging.Manager
	out      io.Writer
	fs       afero.Fs
	bus      *event.Bus
	metrics  *metrics.Metrics
	adapter  *wikipedia.Adapter
	resolver *thumbnail.Resolver

	// Set only for the sqlite cache backend.
	db     *sql.DB
	sqlite *cache.SQLite

	closers []func() error
}

func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	if err := loadEnvFile(opts.envFile); err != nil {
		return nil, err
	}

	path := opts.configPath
	if path == "" {
		path = os.Getenv("KALA_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logs, logger := logging.NewManager(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	}, cmd.ErrOrStderr())
	if opts.logLevel != "" {
		if !logging.ValidLevel(opts.logLevel) {
			logs.Close() //nolint:errcheck
			return nil, fmt.Errorf("invalid log level: %q", opts.logLevel)
		}
		logs.SetLevel(opts.logLevel)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		logs:   logs,
		out:    cmd.OutOrStdout(),
		fs:     afero.NewOsFs(),
	}

	a.bus = event.NewBus(logger, 256)
	a.metrics = metrics.New()
	a.metrics.Subscribe(a.bus)
	go a.bus.Start()

	limiter := provider.NewRateLimiterMap()
	limiter.SetLimit(provider.NameWikipedia, cfg.Wikipedia.RequestsPerSecond, 1)
	a.adapter = wikipedia.NewWithOptions(limiter, logger, wikipedia.Options{
		Endpoint:  cfg.Wikipedia.Endpoint,
		ThumbSize: cfg.Wikipedia.ThumbSize,
		UserAgent: cfg.Wikipedia.UserAgent,
		Timeout:   cfg.Resolver.Timeout,
	})

	a.resolver = thumbnail.NewResolver(a.adapter, logger, thumbnail.Options{
		Timeout:       cfg.Resolver.Timeout,
		MaxConcurrent: cfg.Resolver.MaxConcurrent,
	})
	a.resolver.SetEventBus(a.bus)

	if err := a.openCache(ctx); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("kala starting",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("cache", cfg.Cache.Backend),
		slog.String("logging", logs.Config().String()))
	return a, nil
}

// loadEnvFile loads KEY=value pairs from path without overriding variables
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func (a *app) openCache(ctx context.Context) error {
	cfg := a.cfg.Cache
	switch cfg.Backend {
	case cache.BackendNone:
		return nil

	case cache.BackendMemory:
		a.resolver.SetCache(cache.NewMemory(cfg.TTL))

	case cache.BackendSQLite:
		db, err := database.Open(cfg.Path)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		if err := database.MigrateContext(ctx, db); err != nil {
			return err
		}
		a.db = db
		a.sqlite = cache.NewSQLite(db, cfg.TTL)
		a.resolver.SetCache(a.sqlite)

	case cache.BackendRedis:
		r, err := cache.NewRedis(ctx, cfg.Redis, cfg.TTL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, r.Close)
		a.resolver.SetCache(r)
	}

	a.logger.Debug("thumbnail cache ready", slog.String("backend", cfg.Backend))
	return nil
}

// loadCollection reads the configured collection.
func (a *app) loadCollection() (*collection.Collection, error) {
	return collection.Load(a.fs, a.cfg.Collection.Path, a.cfg.Wikipedia.ArticleBaseURL)
}

// Close drains the event bus, writes the metrics textfile if configured and
// releases every resource.
func (a *app) Close() {
	if a.bus != nil {
		a.bus.Stop()
		<-a.bus.Finished()
	}

	if path := a.cfg.Metrics.TextfilePath; path != "" && a.metrics != nil {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Error("exporting metrics", slog.Any("error", err))
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("closing resource", slog.Any("error", err))
		}
	}
	a.logs.Close() //nolint:errcheck
}
