// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

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

	"github.com/jeranaias/psy-tui/internal/config"
	"github.com/jeranaias/psy-tui/internal/logging"
	"github.com/jeranaias/psy-tui/internal/server"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr string
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat backend over HTTP",
		Long: `Starts an HTTP server exposing POST /api/chat and GET /health.

Other psy instances can use it with provider = "remote".`,
		Example: `  psy serve
  psy serve --addr 0.0.0.0:8787 --provider openai`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.Chat.Provider == config.ProviderRemote {
				return &ValidationError{
					Field:   "chat.provider",
					Value:   cfg.Chat.Provider,
					Reason:  "serve needs a local backend",
					Example: "psy serve --provider ollama",
				}
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}

			logger, err := logging.New(logging.Options{Stderr: true, Level: cfg.Log.Level})
			if err != nil {
				return NewCommandError("serve", "open log", err)
			}
			defer func() { _ = logger.Sync() }()

			responder, err := newResponder(cfg, logger)
			if err != nil {
				return err
			}

			srv := server.New(responder, server.Config{
				Addr:           cfg.Server.Addr,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				RatePerMinute:  cfg.Server.RatePerMinute,
			}, logger.Named("server"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "%s listening on http://%s\n", styled(SuccessStyle, "psy serve"), srv.Addr())
			return serve(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8787)")
	return cmd
}

// serve runs srv until ctx ends, then shuts it down gracefully.
func serve(ctx context.Context, srv *server.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return NewCommandError("serve", "listen", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
		return NewCommandError("serve", "shutdown", err)
	}
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return NewCommandError("serve", "listen", err)
		}
	case <-shutdownCtx.Done():
	}
	return nil
}
