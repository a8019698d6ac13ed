package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/dytool-backend/internal/handler"
	"github.com/deppfellow/dytool-backend/internal/router"
)

const shutdownTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp()
		if err != nil {
			return err
		}

		h := handler.NewHandlers(a.server, a.services)
		a.server.SetupHTTPServer(router.NewRouter(a.server, h))

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- a.server.Start()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.close(context.Background())
				return err
			}
		case <-ctx.Done():
			a.server.Logger.Info().Msg("shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.close(shutdownCtx)

		a.server.Logger.Info().Msg("server stopped")
		return nil
	},
}
