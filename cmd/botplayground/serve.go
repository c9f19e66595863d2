package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	"github.com/adamhockemeyer/BotPlayground-v4/internal/demo"
	httpadapter "github.com/adamhockemeyer/BotPlayground-v4/pkg/adapters/http"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot HTTP server",
	Long:  `Starts the demo bot behind the HTTP adapter, exposing /api/messages, /health, and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		store, locker, err := buildPersistence(cfg, logger)
		if err != nil {
			return err
		}

		m := metrics.New()
		opts := botOptions(store, locker, logger)
		opts = append(opts, botplayground.WithHooks(m.Hooks()))

		bot, err := demo.NewBot(opts...)
		if err != nil {
			return fmt.Errorf("failed to build bot: %w", err)
		}

		handler := httpadapter.NewHandler(bot,
			httpadapter.WithLogger(logger),
			httpadapter.WithMetricsHandler(m.Handler()),
		)

		srv := &http.Server{
			Addr:    cfg.HTTP.Address,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("server listening", "address", srv.Addr, "backend", cfg.State.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding turns a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to stop server: %w", err)
				}
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
