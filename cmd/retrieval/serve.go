package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/abstract-retrieval/api"
	"github.com/gcbaptista/abstract-retrieval/config"
	"github.com/gcbaptista/abstract-retrieval/internal/analytics"
	"github.com/gcbaptista/abstract-retrieval/internal/engine"
	"github.com/gcbaptista/abstract-retrieval/internal/logger"
	"github.com/gcbaptista/abstract-retrieval/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the configured collections and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadAppConfig(configPath)
		if err != nil {
			return err
		}
		// the config file wins over the bootstrap flags
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("config", "", "Path to the YAML configuration file")
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	slog.Info("Starting retrieval service", "port", cfg.Server.Port, "data_dir", cfg.Data.Dir)

	eng := engine.NewEngine(cfg.Data.Dir)
	if err := eng.LoadCollections(ctx, cfg.Data.Collections); err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	slog.Info("Collections ready", "collections", eng.ListCollections())

	var opts []api.Option
	if cfg.Data.Dir != "" {
		opts = append(opts, api.WithAnalytics(analytics.NewPersistentService(eng, analyticsPath(cfg.Data.Dir))))
	}
	opts = append(opts, api.WithJobWorkers(cfg.Data.JobWorkers))
	if cfg.Data.SourceRoot != "" {
		opts = append(opts, api.WithSourceRoot(cfg.Data.SourceRoot))
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, api.WithMetrics(metrics.New(reg), cfg.Metrics.Path))
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(api.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))
	router.Use(api.CORSMiddleware())
	handlers := api.NewAPI(eng, opts...)
	defer handlers.Close()
	api.SetupRoutes(router, handlers)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

// analyticsPath places the analytics event log next to the collection snapshots.
func analyticsPath(dataDir string) string {
	return filepath.Join(dataDir, "analytics.json")
}
