package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/app"
	"github.com/goliatone/go-intake/internal/observability/metrics"
	"github.com/goliatone/go-intake/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "configuration file (YAML); environment variables override it")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(ctx, *configPath)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()
	logger := a.Logger
	cfg := a.Config

	srv, err := server.New(server.Config{
		Definition:   a.Definition,
		Sender:       a.Sender,
		Orchestrator: cfg.OrchestratorConfig(),
		ContactURL:   cfg.WhatsAppURL(),
		Logger:       logger,
		Recorder:     metrics.NewIntakeMetrics(nil),
		Metrics:      promhttp.Handler(),
	})
	if err != nil {
		logger.Fatal("Failed to build server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
