package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/Bellwether/internal/config"
	"github.com/MikeSquared-Agency/Bellwether/internal/store"
)

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDataset reads regions from the configured source and presets from
// disk. The returned func releases any database connection.
func loadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.Dataset, func(), error) {
	closeFn := func() {}

	var regions store.RegionSource
	switch cfg.Dataset.RegionSource {
	case config.SourcePostgres:
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, closeFn, fmt.Errorf("connect to database: %w", err)
		}
		closeFn = func() { db.Close() }
		logger.Info("connected to database")
		regions = db
	default:
		regions = store.NewCSVRegionSource(cfg.Dataset.RegionsPath, cfg.Dataset.RegionNameColumn)
	}

	ds, err := store.Load(ctx, regions, store.NewFilePresetSource(cfg.Dataset.PresetsPath))
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	logger.Info("dataset loaded",
		"source", cfg.Dataset.RegionSource,
		"regions", len(ds.RegionNames()),
		"periods", len(ds.Presets.Periods),
	)
	return ds, closeFn, nil
}
