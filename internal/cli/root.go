// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/psy-tui/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	provider   string
	model      string
	theme      string
	noMouse    bool
}

// loadConfig reads the config file named by --config, or the default one,
// and applies flag overrides. A broken file yields defaults plus a warning
// on stderr so the UI can still start; invalid values are an error.
func (o *globalOptions) loadConfig(stderr io.Writer) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		var verrs config.ValidateErrors
		if errors.As(err, &verrs) {
			return nil, err
		}
		fmt.Fprintf(stderr, "%s %v (using defaults)\n", styled(WarningStyle, "[WARN]"), err)
	}

	if o.provider != "" {
		cfg.Chat.Provider = o.provider
	}
	if o.model != "" {
		cfg.Chat.Model = o.model
	}
	if o.theme != "" {
		cfg.UI.Theme = o.theme
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.noMouse {
		cfg.UI.Mouse = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFile returns the file the config commands read and write.
func (o *globalOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPathTOML()
}

// NewRootCommand builds the psy command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "psy",
		Short: "A calm terminal space for chatting, journaling and self-care",
		Long: `psy is a terminal companion with three pages you can swipe between:
a journal, a supportive chat, and a set of well-being resources.

Drag the page sideways with the mouse, or use left/right (h/l) and 1-3.
Press enter to type into the chat or journal, esc to return to the pages.

psy is not a substitute for professional care. If you are in crisis,
call or text 988 (US) or your local emergency number.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lipgloss.SetColorProfile(GetColorProfile())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.psy/config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.provider, "provider", "", "chat backend: ollama, openai or remote")
	flags.StringVarP(&opts.model, "model", "m", "", "model name for the chat backend")
	root.Flags().StringVar(&opts.theme, "theme", "", "color theme: auto, dark or light")
	root.Flags().BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse drag navigation")

	root.AddCommand(
		newAskCommand(opts),
		newChatCommand(opts),
		newServeCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styled(TitleStyle, "psy"))
			fmt.Fprintln(out, RenderLabel("Version", Version))
			fmt.Fprintln(out, RenderLabel("Commit", GitCommit))
			fmt.Fprintln(out, RenderLabel("Built", BuildDate))
		},
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		DisplayError(os.Stderr, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}
