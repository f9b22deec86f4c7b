package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Bellwether/internal/api"
	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
	"github.com/MikeSquared-Agency/Bellwether/internal/hermes"
	"github.com/MikeSquared-Agency/Bellwether/internal/metrics"
	"github.com/MikeSquared-Agency/Bellwether/internal/render"
	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
	"github.com/MikeSquared-Agency/Bellwether/internal/session"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the estimate API and metrics servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stdout, cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ds, closeDB, err := loadDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	reporters := scoring.Reporters{m}
	if hermesClient != nil {
		reporters = append(reporters, hermes.NewSanityReporter(hermesClient, logger))
	}

	dims := cfg.ScoringDimensions()
	engine := scoring.NewEngine(dims, cfg.Engine.SanityTolerance, reporters, logger)
	est := estimator.New(engine, ds, m, hermesClient, logger)
	sess := session.New(dims, ds, cfg.Engine.DefaultPeriod, cfg.Engine.SliderStep)
	st := sess.Snapshot()
	logger.Info("session ready", "session_id", st.ID, "period", st.Period, "region", st.Region)

	router := api.NewRouter(sess, est, api.RouterOptions{
		Hermes:       hermesClient,
		Metrics:      m,
		Renderer:     render.NewSVGRenderer(),
		AdminToken:   cfg.Server.AdminToken,
		RateLimitRPM: cfg.Server.RateLimitRPM,
	}, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(prometheus.DefaultGatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}
