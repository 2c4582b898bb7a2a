// Package app wires configuration, logging, the form definition and the
// relay shared by the server and CLI binaries.
package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/relay"
	"github.com/goliatone/go-intake/pkg/schema"
)

// App holds the dependencies every entry point needs.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Definition model.FormModel
	Sender     relay.Sender
}

// Bootstrap loads .env, the configuration file and the form definition, then
// builds the logger and the configured relay.
func Bootstrap(ctx context.Context, configPath string) (*App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return nil, fmt.Errorf("app: logger: %w", err)
	}

	var options []schema.Option
	if cfg.Form.Overlay != "" {
		overlay, err := loadOverlay(cfg.Form.Overlay)
		if err != nil {
			_ = logger.Sync()
			return nil, err
		}
		options = append(options, schema.WithDecorators(overlay))
	}
	def, err := intake.LoadForm(ctx, cfg.Form.Path, cfg.Form.OperationID, options...)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("app: load form: %w", err)
	}

	sender, err := relay.NewSender(cfg.Relay.Provider, cfg.RelayConfig(), cfg.SendGridConfig(), logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("app: relay: %w", err)
	}

	logger.Info("intake configured",
		zap.String("form", def.ID),
		zap.Int("fields", len(def.Fields)),
		zap.String("relay", cfg.Relay.Provider),
	)
	return &App{Config: cfg, Logger: logger, Definition: def, Sender: sender}, nil
}

func loadOverlay(path string) (schema.Overlay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Overlay{}, fmt.Errorf("app: read overlay: %w", err)
	}
	overlay, err := schema.ParseOverlay(raw)
	if err != nil {
		return schema.Overlay{}, fmt.Errorf("app: overlay %s: %w", path, err)
	}
	return overlay, nil
}

// Close flushes the logger.
func (a *App) Close() {
	if a == nil || a.Logger == nil {
		return
	}
	_ = a.Logger.Sync()
}
