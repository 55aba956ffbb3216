// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resources provides the resources page: short well-being
// exercises and where to find help, rendered from markdown.
package resources
