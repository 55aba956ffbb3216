// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for psy.
//
// Configuration is stored as TOML, with sensible defaults, environment
// variable overrides, clamping of malformed tuning values, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - PagerConfig: Swipe navigation tuning and spring parameters
//   - ChatConfig: Chat backend (ollama, openai, remote)
//   - Watcher: Hot reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PSY_*)
//   - ~/.psy/config.toml (or $PSY_CONFIG_DIR/config.toml)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Printf("config: %v (continuing with what loaded)", err)
//	}
//	stiffness := cfg.Pager.Spring.Stiffness
package config
