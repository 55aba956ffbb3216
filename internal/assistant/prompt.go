// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "github.com/jeranaias/psy-tui/internal/config"

// DefaultSystemPrompt frames the assistant as a supportive therapist.
const DefaultSystemPrompt = config.DefaultSystemPrompt
