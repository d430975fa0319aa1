package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/demodash/internal/backend"
	"github.com/hamed0406/demodash/internal/config"
	"github.com/hamed0406/demodash/internal/httpapi"
	"github.com/hamed0406/demodash/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config_invalid", zap.Error(err))
	}

	client := backend.NewClient(cfg)
	api := httpapi.NewServer(logger, cfg, client)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		// a panel call may block for the full backend timeout
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("dashboard_listen",
			zap.String("addr", cfg.Addr),
			zap.String("backend_url", cfg.BackendURL),
			zap.String("tracking_url", cfg.TrackingURL),
			zap.Duration("request_timeout", cfg.RequestTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("dashboard_listen_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("dashboard_shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("dashboard_shutdown_forced", zap.Error(err))
	}
}
