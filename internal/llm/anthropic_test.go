package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fyrsmithlabs/trialsearchd/internal/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient(config.AnthropicConfig{
		APIKey:  config.Secret("sk-ant-test123"),
		BaseURL: baseURL,
		Model:   "claude-sonnet-4-20250514",
		Timeout: config.Duration(5 * time.Second),
	})
	// Keep retries cheap in tests.
	c.maxRetries = 1
	return c
}

func messagesHandler(t *testing.T, status int, reply string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") == "" {
			t.Error("missing X-API-Key header")
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			resp := map[string]any{
				"id":      "msg_test",
				"type":    "message",
				"role":    "assistant",
				"content": []map[string]string{{"type": "text", "text": reply}},
			}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(messagesHandler(t, http.StatusOK, `{"ok": true}`))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Complete(context.Background(), "system prompt", "user text")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("Complete() = %q, want raw reply text", text)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(messagesHandler(t, http.StatusBadRequest, ""))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Complete(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("Complete() expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Message != "boom" {
		t.Errorf("Message = %q, want error envelope message", apiErr.Message)
	}
}

func TestCompleteRetriesServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		messagesHandler(t, http.StatusOK, "recovered")(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "recovered" {
		t.Errorf("Complete() = %q, want %q", text, "recovered")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestCompleteNoAPIKey(t *testing.T) {
	c := NewClient(config.AnthropicConfig{})
	if c.Available() {
		t.Error("Available() = true without API key")
	}

	_, err := c.Complete(context.Background(), "system", "user")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg","content":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Complete(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("Complete() expected error for empty content")
	}
}

func TestAvailable(t *testing.T) {
	c := NewClient(config.AnthropicConfig{APIKey: config.Secret("sk-ant-x")})
	if !c.Available() {
		t.Error("Available() = false with API key set")
	}
}
