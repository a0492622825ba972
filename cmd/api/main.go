package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/pantrychef/config"
	"github.com/pageza/pantrychef/internal/app"
	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/server"
)

func main() {
	if err := run(); err != nil {
		observability.Logger().Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := observability.Setup(os.Stdout, cfg.LogLevel)

	apiKey := ""
	if !cfg.UseMockLLM {
		apiKey, err = config.ResolveAPIKey(os.Getenv)
		if err != nil {
			return fmt.Errorf("cannot start without an API key: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	srv, err := server.New(cfg, a.HTTPDeps())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
