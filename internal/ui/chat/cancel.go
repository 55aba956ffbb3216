// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// PENDING REPLY
// =============================================================================

// pendingReply tracks the one reply that may be in flight. It is held by
// pointer so Bubble Tea's model copies share it, and the mutex guards the
// cancel func against the request goroutine.
type pendingReply struct {
	mu     sync.Mutex
	id     string
	cancel context.CancelFunc
}

// start cancels any earlier request and returns a context and id for a new one.
func (p *pendingReply) start(parent context.Context) (context.Context, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	p.id = uuid.NewString()
	p.cancel = cancel
	return ctx, p.id
}

// finish clears the request if id is still the live one. It reports whether
// id was live; stale replies are dropped by the caller.
func (p *pendingReply) finish(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" || id != p.id {
		return false
	}
	p.cancel()
	p.id = ""
	p.cancel = nil
	return true
}

// abort cancels the live request, if any. It reports whether one was live.
func (p *pendingReply) abort() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return false
	}
	p.cancel()
	p.id = ""
	p.cancel = nil
	return true
}

// active reports whether a request is in flight.
func (p *pendingReply) active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id != ""
}
