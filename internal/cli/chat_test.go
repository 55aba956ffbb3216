// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/storage"
	"github.com/jeranaias/psy-tui/internal/ui/chat"
)

// scriptedLines replays fixed input, then reports EOF.
type scriptedLines struct {
	lines   []string
	history []string
	end     error
}

func (s *scriptedLines) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		if s.end != nil {
			return "", s.end
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedLines) AppendHistory(line string) { s.history = append(s.history, line) }
func (s *scriptedLines) Close() error              { return nil }

type recordedJournal struct {
	entries []storage.Entry
	err     error
}

func (j *recordedJournal) Add(_ context.Context, content, source string) (storage.Entry, error) {
	if j.err != nil {
		return storage.Entry{}, j.err
	}
	e := storage.Entry{Content: content, Source: source}
	j.entries = append(j.entries, e)
	return e, nil
}

func newTestSession(r Responder, j journalWriter) (*chatSession, *bytes.Buffer) {
	var out bytes.Buffer
	return newChatSession(&out, r, j, plainAnswer, 0, zap.NewNop()), &out
}

func TestChatLoop_ConversationAndSave(t *testing.T) {
	journal := &recordedJournal{}
	s, out := newTestSession(&fakeResponder{reply: "That sounds heavy."}, journal)
	in := &scriptedLines{lines: []string{"work was hard", "", "/save"}}

	require.NoError(t, runChatLoop(context.Background(), in, s))

	assert.Contains(t, out.String(), "That sounds heavy.\n")
	assert.Contains(t, out.String(), "[OK] Saved to journal")
	require.Len(t, journal.entries, 1)
	assert.Equal(t, storage.SourceChat, journal.entries[0].Source)
	assert.Equal(t, "You: work was hard\n\nAI: That sounds heavy.", journal.entries[0].Content)
	assert.Equal(t, []string{"work was hard", "/save"}, in.history, "blank lines stay out of history")
}

func TestChatLoop_SendsWholeHistory(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	s, _ := newTestSession(r, nil)
	in := &scriptedLines{lines: []string{"one", "two"}}

	require.NoError(t, runChatLoop(context.Background(), in, s))
	require.Len(t, r.got, 3)
	assert.Equal(t, "two", r.got[2].Content)
}

func TestChatLoop_QuitStopsReading(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	s, _ := newTestSession(r, nil)
	in := &scriptedLines{lines: []string{"/quit", "never sent"}}

	require.NoError(t, runChatLoop(context.Background(), in, s))
	assert.Nil(t, r.got)
	assert.Equal(t, []string{"never sent"}, in.lines)
}

func TestChatLoop_AbortAtPromptEnds(t *testing.T) {
	s, _ := newTestSession(&fakeResponder{}, nil)
	assert.NoError(t, runChatLoop(context.Background(), &scriptedLines{end: liner.ErrPromptAborted}, s))
}

func TestChatLoop_ReadErrorIsReported(t *testing.T) {
	s, _ := newTestSession(&fakeResponder{}, nil)
	err := runChatLoop(context.Background(), &scriptedLines{end: errors.New("tty gone")}, s)
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "chat", cmdErr.Command)
}

func TestChatSession_Note(t *testing.T) {
	journal := &recordedJournal{}
	s, out := newTestSession(&fakeResponder{}, journal)

	assert.True(t, s.handle(context.Background(), "/note slept eight hours"))
	require.Len(t, journal.entries, 1)
	assert.Equal(t, storage.SourceNote, journal.entries[0].Source)
	assert.Equal(t, "slept eight hours", journal.entries[0].Content)
	assert.Contains(t, out.String(), "Note saved to journal")
}

func TestChatSession_NoJournal(t *testing.T) {
	s, out := newTestSession(&fakeResponder{}, nil)
	s.handle(context.Background(), "/note hello")
	assert.Contains(t, out.String(), "[ERROR] Journal is unavailable")
}

func TestChatSession_SaveEmptyWarns(t *testing.T) {
	journal := &recordedJournal{}
	s, out := newTestSession(&fakeResponder{}, journal)
	s.handle(context.Background(), "/save")
	assert.Empty(t, journal.entries)
	assert.Contains(t, out.String(), "Nothing to save yet")
}

func TestChatSession_ClearForgetsHistory(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	s, out := newTestSession(r, nil)
	s.handle(context.Background(), "first")
	s.handle(context.Background(), "/clear")
	s.handle(context.Background(), "second")

	require.Len(t, r.got, 1)
	assert.Equal(t, "second", r.got[0].Content)
	assert.Contains(t, out.String(), "New session started")
}

func TestChatSession_ReplyErrorKeepsSession(t *testing.T) {
	r := &fakeResponder{err: errors.New("backend down")}
	s, out := newTestSession(r, nil)

	assert.True(t, s.handle(context.Background(), "hello"))
	assert.Contains(t, out.String(), "[ERROR] backend down")

	r.err, r.reply = nil, "back"
	s.handle(context.Background(), "again")
	require.Len(t, r.got, 2, "the failure notice is not sent back")
}

func TestChatSession_BlankReplyUsesFallback(t *testing.T) {
	s, out := newTestSession(&fakeResponder{reply: " \n "}, nil)

	s.handle(context.Background(), "hello")

	assert.Equal(t, chat.EmptyReply+"\n", out.String())
	got := s.conversation.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, chat.EmptyReply, got[1].Content)
}

func TestChatSession_UIOnlyCommands(t *testing.T) {
	s, out := newTestSession(&fakeResponder{}, nil)
	s.handle(context.Background(), "/theme")
	s.handle(context.Background(), "/page 2")
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("full screen UI")))
}

func TestChatSession_DoubleSlashIsMessage(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	s, _ := newTestSession(r, nil)
	s.handle(context.Background(), "//etc/hosts is confusing")
	require.Len(t, r.got, 1)
	assert.Equal(t, "/etc/hosts is confusing", r.got[0].Content)
}

func TestChatSession_Complete(t *testing.T) {
	s, _ := newTestSession(&fakeResponder{}, nil)
	assert.Equal(t, []string{"/note"}, s.complete("/no"))
	assert.Nil(t, s.complete("/note x"))
	assert.Nil(t, s.complete("hello"))
}

func TestChatCommand_NeedsTerminal(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "chat")
	assert.ErrorIs(t, err, ErrNoTerminal)
}
