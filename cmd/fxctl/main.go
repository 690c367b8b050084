package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/fintrack_backend/internal/commands"
	portssvc "github.com/SscSPs/fintrack_backend/internal/core/ports/services"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/SscSPs/fintrack_backend/internal/platform/bootstrap"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/SscSPs/fintrack_backend/internal/platform/logging"
)

func main() {
	if err := commands.NewRootCommand(open).Execute(); err != nil {
		os.Exit(1)
	}
}

// open wires the services from the same environment as the API server.
// Logs go to stderr so command output stays clean.
func open(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	rt, err := bootstrap.Open(ctx, cfg, logger, "")
	if err != nil {
		return nil, nil, err
	}

	container := services.NewServiceContainer(cfg, rt.Repos, rt.Provider, nil)
	if err := container.Currency.InitializeStaticData(ctx); err != nil {
		rt.Close()
		return nil, nil, err
	}
	return container, rt.Close, nil
}
