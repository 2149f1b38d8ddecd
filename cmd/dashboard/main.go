package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/climate-dashboard/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/climate-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/climate-dashboard/internal/config"
	"github.com/couchcryptid/climate-dashboard/internal/dashboard"
	"github.com/couchcryptid/climate-dashboard/internal/observability"
	"github.com/couchcryptid/climate-dashboard/internal/render"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Error("failed to load .env", "error", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := csvfile.NewCachedLoader(csvfile.NewReader(logger), metrics)
	app := dashboard.New(loader, dashboard.Settings{
		TemperaturePath: cfg.TemperatureCSV,
		SeaLevelPath:    cfg.SeaLevelCSV,
		WarmThresholdF:  cfg.WarmThresholdF,
		CompareFromYear: cfg.CompareFromYear,
		CompareToYear:   cfg.CompareToYear,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nothing can be presented without both datasets.
	if err := app.Load(ctx); err != nil {
		logger.Error("failed to load datasets", "error", err)
		os.Exit(1)
	}

	var exporter *kafkaadapter.Exporter
	exportDone := make(chan struct{})
	if cfg.KafkaEnabled {
		exporter = kafkaadapter.NewExporter(cfg, logger)
		go func() {
			defer close(exportDone)
			if err := app.Export(ctx, exporter); err != nil {
				logger.Error("comparison export failed", "topic", cfg.KafkaExportTopic, "error", err)
			}
		}()
	} else {
		close(exportDone)
		logger.Info("kafka export disabled")
	}

	chartOpts := render.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	srv := httpadapter.NewServer(cfg.HTTPAddr, app, chartOpts, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if exporter != nil {
		closeExporter(shutdownCtx, exportDone, exporter, logger)
	}

	logger.Info("shutdown complete")
}

// closeExporter closes the writer once the in-flight export has returned, or
// once ctx expires if the export does not stop in time.
func closeExporter(ctx context.Context, done <-chan struct{}, exporter io.Closer, logger *slog.Logger) {
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("comparison export still running at shutdown deadline")
	}
	if err := exporter.Close(); err != nil {
		logger.Error("kafka exporter close error", "error", err)
	}
}
