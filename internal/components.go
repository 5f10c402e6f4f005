package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/loader"
	"github.com/starford/folio/internal/theme"
)

// components are the pieces shared by every command.
type components struct {
	cfg     *Config
	logger  *slog.Logger
	catalog *catalog.Holder
	loader  *loader.Loader
	prefs   *theme.Store
	closers []io.Closer
}

func setup(app *application) (*components, error) {
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("sqlite_path", cfg.Theme.SQLitePath),
		slog.String("cache_mode", cfg.Loader.Cache.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c := &components{cfg: cfg, logger: logger}

	doc, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c.catalog = catalog.NewHolder(doc)
	logger.Info("catalog loaded", slog.Int("projects", doc.Store.Len()))

	cache, closer, err := newCache(cfg.Loader.Cache)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}

	fetcher := loader.NewHTTPFetcher(cfg.Loader.BaseURL, cfg.Loader.Timeout,
		loader.WithMaxBytes(cfg.Loader.MaxBytes))
	ldOpts := []loader.Option{
		loader.WithBranches(cfg.Loader.Branches...),
		loader.WithLogger(logger),
	}
	if cache != nil {
		ldOpts = append(ldOpts, loader.WithCache(cache))
	}
	c.loader = loader.New(fetcher, ldOpts...)

	prefs, err := theme.Open(cfg.Theme.SQLitePath)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("init theme store: %w", err)
	}
	c.prefs = prefs
	c.closers = append(c.closers, prefs)

	return c, nil
}

// newCache builds the configured write-up cache. Both results are nil when
// caching is off.
func newCache(cfg CacheConfig) (loader.Cache, io.Closer, error) {
	switch cfg.Mode {
	case CacheModeMemory:
		return loader.NewMemoryCache(cfg.TTL), nil, nil
	case CacheModeRedis:
		rc, err := loader.NewRedisCache(cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc, nil
	default:
		return nil, nil, nil
	}
}

func (c *components) close() {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Warn("close failed", slog.String("error", err.Error()))
	}
}
