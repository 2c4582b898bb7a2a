package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/app"
	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/pkg/form"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
)

func main() {
	configPath := flag.String("config", "", "configuration file (YAML); environment variables override it")
	provider := flag.String("provider", "", "relay provider override (http, sendgrid, log)")
	flag.Parse()

	if *provider != "" {
		if err := os.Setenv(config.EnvPrefix+"_RELAY_PROVIDER", *provider); err != nil {
			fmt.Fprintf(os.Stderr, "set provider: %v\n", err)
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	a, err := app.Bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := form.New(a.Definition)
	if err != nil {
		return err
	}
	session := tui.NewSession()
	orch, err := orchestrator.New(f, a.Sender, session,
		orchestrator.WithConfig(a.Config.OrchestratorConfig()),
		orchestrator.WithLogger(a.Logger),
	)
	if err != nil {
		return err
	}
	defer orch.Close()

	res, err := session.Run(ctx, orch)
	if err != nil {
		return err
	}
	if !res.OK() {
		a.Logger.Warn("intake not delivered", zap.String("reason", string(res.Reason)))
		return fmt.Errorf("intake not delivered: %w", res.Err)
	}
	return nil
}
