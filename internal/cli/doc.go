// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the psy command line.
//
// Running psy with no subcommand starts the three page terminal UI. The
// subcommands cover the same chat backend without the UI:
//
//	psy                      start the UI
//	psy ask "I can't sleep"  send one message and print the reply
//	psy chat                 chat in line mode without the UI
//	psy serve                expose the backend as an HTTP chat API
//	psy config show          print the effective configuration
//	psy config set k v       change one key in the config file
//
// Commands return errors rather than exiting; Execute maps them to exit
// codes with GetExitCode.
package cli
