// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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
	"go.uber.org/zap"

	"github.com/pdiddy/source-scout/internal/generate"
	"github.com/pdiddy/source-scout/internal/prompt"
	"github.com/pdiddy/source-scout/internal/server"
	"github.com/pdiddy/source-scout/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and JSON API",
	Long: `Serve starts an HTTP server exposing the single-page lookup UI at /
and the JSON API under /api/v1/. Sessions live in memory and die with
the process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.Server.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := newLogger(debug)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		backend := &generate.GeminiBackend{
			APIKey: cfg.Generation.APIKey,
			Model:  cfg.Generation.Model,
			Client: &http.Client{Timeout: cfg.Generation.Timeout},
		}
		svc := generate.NewService(backend, prompt.NewBuilder(cfg.Prompt))
		registry := session.NewRegistry(svc, logger)
		srv := server.NewServer(registry, cfg.Server, logger)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
		}

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen address (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
