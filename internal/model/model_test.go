// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"testing"
)

func TestNewMessage(t *testing.T) {
	m := NewUserMessage("hello")
	if m.ID == "" {
		t.Error("ID should be set")
	}
	if m.Role != RoleUser {
		t.Errorf("Role = %q, want %q", m.Role, RoleUser)
	}
	if m.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if NewUserMessage("x").ID == m.ID {
		t.Error("IDs should be unique")
	}
}

func TestMessageIsBlank(t *testing.T) {
	if !NewUserMessage("  \n\t").IsBlank() {
		t.Error("whitespace message should be blank")
	}
	if NewUserMessage("hi").IsBlank() {
		t.Error("message with text should not be blank")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAssistant, RoleSystem} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("tool").Valid() {
		t.Error("tool should not be valid")
	}
}

func TestConversationTranscript(t *testing.T) {
	c := NewConversation()
	c.Add(NewMessage(RoleSystem, "prompt"))
	c.Add(NewUserMessage("I feel anxious"))
	c.Add(NewAssistantMessage("Tell me more."))

	want := "You: I feel anxious\n\nAI: Tell me more."
	if got := c.Transcript(); got != want {
		t.Errorf("Transcript() = %q, want %q", got, want)
	}
}

func TestConversationHistorySkipsErrors(t *testing.T) {
	c := NewConversation()
	c.Add(NewUserMessage("hi"))
	c.Add(NewErrorMessage("offline"))
	c.Add(NewUserMessage("again"))

	h := c.History()
	if len(h) != 2 {
		t.Fatalf("len(History()) = %d, want 2", len(h))
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestConversationClear(t *testing.T) {
	c := NewConversation()
	c.Add(NewUserMessage("hi"))
	c.Clear()
	if !c.IsEmpty() {
		t.Error("conversation should be empty after Clear")
	}
	if c.Transcript() != "" {
		t.Error("transcript of empty conversation should be empty")
	}
}

func TestConversationConcurrentAdd(t *testing.T) {
	c := NewConversation()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(NewUserMessage("x"))
			_ = c.Messages()
		}()
	}
	wg.Wait()
	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
}
