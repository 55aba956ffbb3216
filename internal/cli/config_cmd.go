// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/psy-tui/internal/config"
)

func newConfigCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Reads and writes the TOML config file. Keys use dotted paths such as
pager.threshold_fraction or chat.provider.`,
	}
	cmd.AddCommand(
		newConfigShowCommand(global),
		newConfigPathCommand(global),
		newConfigInitCommand(global),
		newConfigGetCommand(global),
		newConfigSetCommand(global),
	)
	return cmd
}

func newConfigShowCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (secrets redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			for _, w := range cfg.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", styled(WarningStyle, "[WARN]"), w)
			}
			return nil
		},
	}
}

func newConfigPathCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := global.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCommand(global *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := global.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return NewCommandError("config", "init", fmt.Errorf("%s already exists (use --force to overwrite)", path))
			}
			if err := config.SaveTOML(config.Default(), path); err != nil {
				return NewCommandError("config", "init", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", styled(SuccessStyle, "[OK]"), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigGetCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print one configuration value",
		Example: "  psy config get pager.spring.stiffness",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if args[0] == "chat.api_key" {
				return &ValidationError{Field: "key", Value: args[0], Reason: "secrets are not printed"}
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return &ValidationError{Field: "key", Value: args[0], Reason: err.Error()}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			return nil
		},
	}
}

func newConfigSetCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value in the config file",
		Example: `  psy config set pager.threshold_fraction 0.2
  psy config set pager.page_names "Notes, Talk, Help"
  psy config set chat.provider openai`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := global.configFile()
			if err != nil {
				return err
			}
			if err := setConfigValue(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s updated\n", styled(SuccessStyle, "[OK]"), args[0])
			return nil
		},
	}
}

// setConfigValue edits the file at path. Environment overrides are not
// applied, so values that only come from the environment are not written
// back.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return NewCommandError("config", "read "+path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return NewCommandError("config", "read "+path, err)
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	cfg.SetDefaults()
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "write "+path, err)
	}
	return nil
}

func formatValue(v interface{}) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return fmt.Sprint(v)
}
