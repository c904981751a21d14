// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/session"
)

func newTestServer() (*Server, http.Handler) {
	srv := New("", session.NewManager(session.DefaultConfig())).
		WithResponder(fixedResponder(testNow))
	return srv, srv.Handler()
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) api.ChatResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// =============================================================================
// POST /chat
// =============================================================================

func TestChat_NewSession(t *testing.T) {
	_, h := newTestServer()

	resp := decodeChat(t, postChat(t, h, `{"message":"hello","session_id":null}`))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, IntentGreeting, resp.Intent)
	assert.Equal(t, "Hello! How can I help you today?", resp.Response)
}

func TestChat_SessionCarriesEmail(t *testing.T) {
	srv, h := newTestServer()

	first := decodeChat(t, postChat(t, h, `{"message":"my email is bob@example.com","session_id":null}`))
	assert.Equal(t, IntentEmail, first.Intent)

	body := `{"message":"what is my email?","session_id":"` + first.SessionID + `"}`
	second := decodeChat(t, postChat(t, h, body))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "Your email address is bob@example.com.", second.Response)

	history := srv.sessions.History(first.SessionID, 10)
	require.Len(t, history, 2)
	assert.Equal(t, "what is my email?", history[1].User)
}

func TestChat_UnknownSessionAdopted(t *testing.T) {
	_, h := newTestServer()

	resp := decodeChat(t, postChat(t, h, `{"message":"hi","session_id":"abc-123"}`))
	assert.Equal(t, "abc-123", resp.SessionID)
}

func TestChat_BadRequests(t *testing.T) {
	_, h := newTestServer()

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"invalid json", `{"message":`, http.StatusBadRequest, "invalid JSON body"},
		{"empty message", `{"message":"   "}`, http.StatusBadRequest, "message is required"},
		{"missing message", `{}`, http.StatusBadRequest, "message is required"},
		{"too long", `{"message":"` + strings.Repeat("a", MaxMessageLength+1) + `"}`, http.StatusBadRequest, "message too long"},
		{"body too large", `{"message":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge, "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, errorMessage(t, rec))
		})
	}
}

func TestChat_CORS(t *testing.T) {
	_, h := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Origin", "http://example.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// =============================================================================
// OTHER ENDPOINTS
// =============================================================================

func TestDeleteSession(t *testing.T) {
	srv, h := newTestServer()
	resp := decodeChat(t, postChat(t, h, `{"message":"hi"}`))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/session/"+resp.SessionID, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, "attempt %d", i+1)
	}

	_, ok := srv.sessions.Get(resp.SessionID)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	_, h := newTestServer()
	decodeChat(t, postChat(t, h, `{"message":"hi"}`))
	decodeChat(t, postChat(t, h, `{"message":"2+2"}`))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats session.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2, stats.ActiveLast5Min)
	assert.Equal(t, 2, stats.TotalConversations)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestRateLimit(t *testing.T) {
	srv := New("", nil).WithRateLimiter(NewRateLimiter(2, time.Minute))
	h := srv.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per IP")
	assert.Equal(t, 0, rl.Remaining("1.2.3.4"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
}

// =============================================================================
// CLIENT ROUND TRIP
// =============================================================================

func TestClientRoundTrip(t *testing.T) {
	srv, h := newTestServer()
	ts := httptest.NewServer(h)
	defer ts.Close()

	client := api.New(ts.URL)
	ctx := context.Background()

	resp, err := client.Chat(ctx, api.NewChatRequest("what time is it?", ""))
	require.NoError(t, err)
	assert.Equal(t, "It is 15:30.", resp.Response)
	assert.Equal(t, IntentTime, resp.Intent)
	require.NotEmpty(t, resp.SessionID)

	require.NoError(t, client.DeleteSession(ctx, resp.SessionID))
	_, ok := srv.sessions.Get(resp.SessionID)
	assert.False(t, ok)

	_, err = client.Chat(ctx, api.NewChatRequest("", ""))
	var serverErr *api.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadRequest, serverErr.Status)
	assert.Equal(t, "message is required", serverErr.Message)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := New("127.0.0.1:0", nil).WithJanitorInterval(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRoutes_NotFoundAndMethod(t *testing.T) {
	_, h := newTestServer()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
