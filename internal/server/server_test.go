// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/psy-tui/internal/model"
)

// fakeReplier records the last history and answers with a fixed reply.
type fakeReplier struct {
	mu    sync.Mutex
	reply string
	err   error
	panic bool
	got   []model.Message
}

func (f *fakeReplier) Reply(_ context.Context, history []model.Message) (string, error) {
	if f.panic {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = history
	return f.reply, f.err
}

func newTestServer(t *testing.T, r Replier, cfg Config) http.Handler {
	t.Helper()
	s := New(r, cfg, nil)
	t.Cleanup(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
	})
	return s.Handler()
}

func postChat(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// CHAT ENDPOINT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	fr := &fakeReplier{reply: "That sounds hard."}
	h := newTestServer(t, fr, Config{})

	rec := postChat(h, `{"messages":[{"role":"user","content":"I feel stuck"},{"role":"assistant","content":"Tell me more"},{"role":"user","content":"work"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"That sounds hard."}`, rec.Body.String())

	require.Len(t, fr.got, 3)
	assert.Equal(t, model.RoleUser, fr.got[0].Role)
	assert.Equal(t, "I feel stuck", fr.got[0].Content)
	assert.Equal(t, model.RoleAssistant, fr.got[1].Role)
}

func TestChat_FailuresUseGenericError(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{"backend error", `{"messages":[{"role":"user","content":"hi"}]}`, errors.New("upstream down")},
		{"malformed json", `{"messages":`, nil},
		{"no messages", `{"messages":[]}`, nil},
		{"invalid role", `{"messages":[{"role":"tool","content":"x"}]}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeReplier{reply: "ok", err: tt.err}, Config{})
			rec := postChat(h, tt.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"Failed to process chat request"}`, rec.Body.String())
		})
	}
}

func TestChat_Preflight(t *testing.T) {
	h := newTestServer(t, &fakeReplier{}, Config{})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestChat_RestrictedOrigins(t *testing.T) {
	h := newTestServer(t, &fakeReplier{reply: "ok"}, Config{AllowedOrigins: []string{"http://localhost:3000", "*.example.com"}})

	cases := map[string]string{
		"http://localhost:3000":   "http://localhost:3000",
		"https://app.example.com": "https://app.example.com",
		"http://evil.test":        "",
	}
	for origin, want := range cases {
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestChat_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t, &fakeReplier{}, Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
}

func TestChat_RateLimited(t *testing.T) {
	h := newTestServer(t, &fakeReplier{reply: "ok"}, Config{RatePerMinute: 2})
	body := `{"messages":[{"role":"user","content":"hi"}]}`

	rec := postChat(h, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(RateLimitRemainingHeader))

	rec = postChat(h, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(RateLimitRemainingHeader))

	rec = postChat(h, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get(RateLimitRemainingHeader))
}

func TestChat_PanicRecovered(t *testing.T) {
	h := newTestServer(t, &fakeReplier{panic: true}, Config{})
	rec := postChat(h, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestRequestID(t *testing.T) {
	h := newTestServer(t, &fakeReplier{}, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "a request ID is generated")

	id := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\r\n")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid\r\n", rec.Header().Get(RequestIDHeader))
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &fakeReplier{}, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "limits are per client")
	assert.Equal(t, 0, rl.Remaining("10.0.0.1"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct", "203.0.113.5:4000", "", "", "203.0.113.5"},
		{"untrusted proxy ignored", "203.0.113.5:4000", "1.2.3.4", "", "203.0.113.5"},
		{"trusted xff", "127.0.0.1:4000", "198.51.100.7, 10.0.0.1", "", "198.51.100.7"},
		{"trusted x-real-ip", "10.1.1.1:4000", "", "198.51.100.8", "198.51.100.8"},
		{"garbage header", "127.0.0.1:4000", "<script>", "", "127.0.0.1"},
		{"no port", "192.0.2.1", "", "", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(mw("a"), mw("b"), mw("c"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c", "handler"}, order)
}

// =============================================================================
// REMOTE CLIENT TESTS
// =============================================================================

func TestClient_RoundTrip(t *testing.T) {
	fr := &fakeReplier{reply: "I'm here to listen."}
	ts := httptest.NewServer(newTestServer(t, fr, Config{}))
	defer ts.Close()

	c := NewClient(ts.URL + "/api/chat")
	reply, err := c.Reply(context.Background(), []model.Message{
		model.NewMessage(model.RoleSystem, "ignored"),
		model.NewUserMessage("hello"),
		model.NewErrorMessage("network blip"),
	})
	require.NoError(t, err)
	assert.Equal(t, "I'm here to listen.", reply)

	require.Len(t, fr.got, 1, "system and error messages stay local")
	assert.Equal(t, "hello", fr.got[0].Content)
}

func TestClient_ServerError(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, &fakeReplier{err: errors.New("down")}, Config{}))
	defer ts.Close()

	_, err := NewClient(ts.URL+"/api/chat").Reply(context.Background(), []model.Message{model.NewUserMessage("hi")})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, ChatFailureMessage, se.Message)
}

func TestClient_NoEndpoint(t *testing.T) {
	_, err := NewClient("  ").Reply(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoEndpoint)
}
