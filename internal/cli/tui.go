// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/config"
	"github.com/jeranaias/psy-tui/internal/logging"
	"github.com/jeranaias/psy-tui/internal/storage"
	"github.com/jeranaias/psy-tui/internal/ui/app"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/journal"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// ErrNoTerminal is returned when the UI is started without a terminal.
var ErrNoTerminal = errors.New("psy needs an interactive terminal; try 'psy ask' for scripted use")

const configDebounce = 250 * time.Millisecond

func runTUI(cmd *cobra.Command, opts *globalOptions) error {
	if !IsTTY() || !IsStdoutTTY() {
		return ErrNoTerminal
	}

	cfg, err := opts.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return NewCommandError("psy", "resolve log path", err)
	}
	logger, err := logging.New(logging.Options{Path: logPath, Level: cfg.Log.Level})
	if err != nil {
		return NewCommandError("psy", "open log", err)
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range cfg.Warnings() {
		logger.Warn("config adjusted", zap.String("detail", w))
	}

	responder, err := newResponder(cfg, logger)
	if err != nil {
		return err
	}

	// The journal is optional: the page reports it as unavailable.
	var store journal.Store
	if path, err := cfg.JournalPath(); err != nil {
		logger.Warn("journal path unavailable", zap.Error(err))
	} else if js, err := storage.OpenJournal(path); err != nil {
		logger.Warn("journal unavailable", zap.String("path", path), zap.Error(err))
	} else {
		defer js.Close()
		store = js
	}

	updates := watchConfig(opts, logger)
	if updates.watcher != nil {
		defer updates.watcher.Close()
	}

	m, err := app.New(app.Deps{
		Config:        cfg,
		Theme:         styles.NewTheme(styles.ParseMode(cfg.UI.Theme)),
		Responder:     responder,
		Store:         store,
		Logger:        logger,
		ConfigUpdates: updates.ch,
	})
	if err != nil {
		return NewCommandError("psy", "build ui", err)
	}

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	}
	if cfg.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	logger.Info("ui starting", zap.String("version", Version), zap.Bool("mouse", cfg.UI.Mouse))
	p := tea.NewProgram(m, programOpts...)
	go warnIfBackendDown(cmd.Context(), cfg.Chat, p, logger)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return NewCommandError("psy", "run ui", err)
	}
	logger.Info("ui stopped")
	return nil
}

// messageSender is the part of tea.Program used to post messages from
// outside the event loop.
type messageSender interface {
	Send(msg tea.Msg)
}

// warnIfBackendDown shows a toast when the local model server does not
// answer, so the first message does not fail unexplained.
func warnIfBackendDown(ctx context.Context, c config.ChatConfig, p messageSender, logger *zap.Logger) {
	if err := checkBackend(ctx, c); err != nil {
		logger.Warn("backend check failed", zap.Error(err))
		p.Send(components.ToastMsg{
			Kind:    components.ToastKindWarning,
			Message: "Ollama not reachable at " + c.EffectiveBaseURL(),
		})
	}
}

type configUpdates struct {
	watcher *config.Watcher
	ch      <-chan *config.Config
}

// watchConfig follows the config file when it exists. Reloads skip the
// command line overrides, which only apply at startup.
func watchConfig(opts *globalOptions, logger *zap.Logger) configUpdates {
	path, err := opts.configFile()
	if err != nil {
		return configUpdates{}
	}
	if _, err := os.Stat(path); err != nil {
		return configUpdates{}
	}
	w, err := config.NewWatcher(path, configDebounce, logger.Named("config"))
	if err != nil {
		logger.Warn("config watch unavailable", zap.String("path", path), zap.Error(err))
		return configUpdates{}
	}
	return configUpdates{watcher: w, ch: w.Updates()}
}
