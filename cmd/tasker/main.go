// Package main is the entry point for the tasker CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tasker/internal/backend/file"
	"tasker/internal/backend/googletasks"
	"tasker/internal/backend/sqlite"
	"tasker/internal/cli"
	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/kv"
	"tasker/internal/service"
	"tasker/internal/store"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// newService opens the configured backend and loads the task store.
func newService(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Service, error) {
	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := store.New(backend, log)
	if err := s.Load(ctx); err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return file.New(cfg.DataDir, log), nil
	case config.BackendSQLite:
		return sqlite.Open(cfg.Database, log)
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
}
