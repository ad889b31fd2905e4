package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vertextoedge/linkguard/internal/adapter/desktop"
	"github.com/vertextoedge/linkguard/internal/adapter/downloader"
	"github.com/vertextoedge/linkguard/internal/config"
	"github.com/vertextoedge/linkguard/internal/domain/event"
	"github.com/vertextoedge/linkguard/internal/fs"
	"github.com/vertextoedge/linkguard/internal/logger"
	"github.com/vertextoedge/linkguard/internal/service/classifier"
	"github.com/vertextoedge/linkguard/internal/service/maintenance"
	"github.com/vertextoedge/linkguard/internal/service/navigation"
	"github.com/vertextoedge/linkguard/internal/service/opener"
	"github.com/vertextoedge/linkguard/internal/service/orchestrator"
	"github.com/vertextoedge/linkguard/internal/service/server"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the view control server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()
	zapLogger.Info("starting linkguard",
		zap.String("version", version),
		zap.String("config", configPath),
	)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Domain events
	events := event.NewInMemoryDispatcher(false)
	events.SetLogger(zapLogger)
	events.Subscribe(event.NewLoggingHandler(zapLogger))
	events.Subscribe(event.NewMetricsHandler(reg))
	events.Subscribe(event.NewHistoryHandler(store, zapLogger))

	// Desktop integration
	shell := desktop.New(desktop.ExecRunner{}, cfg.Notifications.CueSound, zapLogger)

	// Download service
	dl := downloader.New(downloader.Config{
		Timeout:      cfg.Downloads.GetDownloadTimeout(),
		UserAgent:    cfg.Downloads.UserAgent,
		CookieHeader: cfg.Downloads.CookieHeader,
	}, zapLogger)

	orch := orchestrator.New(dl, shell, shell, shell, events, zapLogger)
	dl.SetResponder(orch)

	defaultDir, err := fs.DownloadsDir()
	if err != nil {
		zapLogger.Warn("no default downloads dir, downloads.path must be set", zap.Error(err))
	}
	settings := cfg.Settings(defaultDir)
	settings.OnReload(func(s *config.Settings) {
		if err := logger.SetLevel(s.LogLevel()); err != nil {
			zapLogger.Warn("ignoring invalid logging.level", zap.Error(err))
		}
	})
	guard := navigation.New(
		store,
		settings,
		classifier.New(&classifier.Policy{
			UploadsPath:     cfg.Links.UploadsPath,
			ImageExtensions: cfg.Links.ImageExtensions,
		}),
		opener.New(shell, events, zapLogger),
		orch,
		events,
		zapLogger,
	)

	maintenanceService := maintenance.New(&maintenance.Config{
		CleanupInterval:   time.Hour,
		HistoryMaxAge:     cfg.Database.GetHistoryRetention(),
		PartialFileMaxAge: 24 * time.Hour,
	}, store, settings, zapLogger)

	httpServer := server.New(&server.Config{
		BindAddr:       cfg.Server.BindAddr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadTimeout:    cfg.Server.GetReadTimeout(),
		WriteTimeout:   cfg.Server.GetWriteTimeout(),
		IdleTimeout:    cfg.Server.GetIdleTimeout(),
	}, store, guard, reg, zapLogger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	go func() {
		if err := settings.Watch(ctx, zapLogger); err != nil {
			zapLogger.Error("config watcher stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := maintenanceService.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("maintenance service stopped with error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	zapLogger.Info("application started successfully",
		zap.String("http_addr", cfg.Server.BindAddr),
		zap.String("downloads_dir", settings.DownloadConfig().DownloadsPath),
	)

	var runErr error
	select {
	case <-sigChan:
		zapLogger.Info("shutdown signal received, stopping services...")
	case runErr = <-serverErr:
		if runErr != nil {
			zapLogger.Error("HTTP server failed", zap.Error(runErr))
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	shutdown(shutdownCtx, httpServer, dl, maintenanceService, zapLogger)

	zapLogger.Info("application stopped")
	return runErr
}

// shutdown stops the view server before cancelling transfers. Cancelled
// transfers resolve Failed; with every view disconnected their interactive
// fallbacks fail with server.ErrViewGone and are only logged.
func shutdown(ctx context.Context, views interface{ Stop(context.Context) error }, downloads, maintenance interface{ Stop() }, logger *zap.Logger) {
	if err := views.Stop(ctx); err != nil {
		logger.Error("failed to stop HTTP server gracefully", zap.Error(err))
	}
	downloads.Stop()
	maintenance.Stop()
}
