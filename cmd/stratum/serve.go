package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/stratum/internal/metrics"
	"github.com/aretw0/stratum/internal/presentation/tui"
	httpAdapter "github.com/aretw0/stratum/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves the validation endpoints, the cluster editor and the change stream over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := openBackend(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer b.close()

		collector := metrics.NewCollector(nil)
		streams := httpAdapter.NewStreamManager(logger)
		v := newValidator(cfg, logger, collector.Hooks())
		svc := newService(b, cfg, logger, streams.Publish)

		handler := httpAdapter.NewHandler(v, svc,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(collector),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
		)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Stratum server", "addr", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Shutdown signal received")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					slog.Error("Error killing server", "error", err)
				}
			}
			logger.Info("Stratum server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides server.addr)")
}
