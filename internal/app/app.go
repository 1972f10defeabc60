package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/antonkravchenko/powerlock/internal/config"
	healthcheck "github.com/antonkravchenko/powerlock/internal/health"
	"github.com/antonkravchenko/powerlock/internal/storage/sqlite"
	"github.com/antonkravchenko/powerlock/internal/version"
)

// Run открывает хранилище, применяет миграции и блокируется до отмены ctx.
func Run(ctx context.Context, cfg config.Config) error {
	return RunWith(ctx, cfg, nil)
}

// RunWith делает то же, что Run, но после сборки зависимостей передаёт их
// в use. Возврат из use завершает приложение; nil use блокируется до
// отмены ctx.
func RunWith(ctx context.Context, cfg config.Config, use func(context.Context, *Dependencies) error) error {
	logger := log.WithFields(log.Fields{
		"component": "app",
		"run_id":    uuid.NewString(),
	})

	if dir := filepath.Dir(cfg.Database.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	store, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close store")
		}
	}()

	// Миграции применяются на каждом старте: без актуальной схемы
	// работать нельзя.
	if err := store.MigrateUp(ctx, 0); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.WithField("path", store.Path()).Info("хранилище готово")

	deps := BuildDependencies(store, cfg, logger)

	if stats, err := deps.Orders.Statistics(); err != nil {
		logger.WithError(err).Warn("failed to read order statistics")
	} else {
		logger.WithFields(log.Fields{
			"total_orders":  stats.TotalOrders,
			"recent_orders": stats.RecentOrders,
		}).Info("статистика заказов на старте")
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.Ping(pingCtx)
	}))

	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" {
		metricsSrv = startMetricsServer(ctx, cfg.Metrics.Addr, logger, healthHandler)
	}

	errCh := make(chan error, 1)
	if use != nil {
		go func() {
			errCh <- use(ctx, deps)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки")
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		return err
	}
}

// startMetricsServer запускает HTTP-обработчики /metrics и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
