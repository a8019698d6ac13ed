package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deppfellow/dytool-backend/internal/config"
	"github.com/deppfellow/dytool-backend/internal/logger"
	"github.com/deppfellow/dytool-backend/internal/repository"
	"github.com/deppfellow/dytool-backend/internal/server"
	"github.com/deppfellow/dytool-backend/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "dytool",
	Short:         "dytool resolves Douyin share links and fetches user profiles.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is everything a command needs, built from the environment.
type app struct {
	server        *server.Server
	services      *service.Services
	loggerService *logger.LoggerService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return &app{
		server:        srv,
		services:      service.NewServices(srv, repository.NewRepositories(srv)),
		loggerService: loggerService,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		a.server.Logger.Error().Err(err).Msg("shutdown failed")
	}
	a.loggerService.Shutdown()
}
