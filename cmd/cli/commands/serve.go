package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/api"
	"github.com/jakechorley/placement-allocator/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resume screening, scoring and allocation runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			noMetrics, _ := cmd.Flags().GetBool("no-metrics")

			cfg, err := app.Config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			app.Logger.Debug("serve command",
				zap.String("addr", addr),
				zap.Bool("metrics", !noMetrics))

			opts := api.Options{
				Logger:  app.Logger,
				Weights: cfg.MatchingWeights(),
			}
			if !noMetrics {
				opts.Recorder = metrics.NewRecorder()
			}
			server := api.NewServer(opts)

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Listen(addr)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Listening on %s (Ctrl+C to stop)\n\n", addr)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			app.Logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to httpAddr from config)")
	cmd.Flags().Bool("no-metrics", false, "Disable the Prometheus recorder and GET /metrics")

	return cmd
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("migrate command")

			// Database applies migrations on connect
			if _, err := app.Database(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Database is up to date\n\n")
			return nil
		},
	}
}
