package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc, attempts int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	cfg.Timeout = 2 * time.Second
	cfg.MaxAttempts = attempts
	return New(cfg, srv.Client()), srv
}

func TestClassify_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"severity\":\"LOW\"}"}]}}]}`))
	}, 1)

	text, err := c.Classify(context.Background(), "hello prompt")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if text != `{"severity":"LOW"}` {
		t.Errorf("Classify() = %q", text)
	}
	if gotPath != "/v1beta/models/gemini-flash-latest:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 || gotBody.Contents[0].Parts[0].Text != "hello prompt" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantEmpty  bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, 500, false},
		{"bad key", http.StatusBadRequest, `{"error":"API key not valid"}`, 400, false},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, 0, true},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, 0, true},
		{"malformed envelope", http.StatusOK, `<html>`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, 1)

			_, err := c.Classify(context.Background(), "p")
			if err == nil {
				t.Fatal("Classify() expected error")
			}
			if tt.wantEmpty {
				if !errors.Is(err, ErrEmptyResponse) {
					t.Errorf("error = %v, want ErrEmptyResponse", err)
				}
				return
			}
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("error = %T %v, want *TransportError", err, err)
			}
			if te.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", te.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(te.Body, "error") {
				t.Errorf("Body = %q, want upstream body", te.Body)
			}
		})
	}
}

func TestClassify_Timeout(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, 1)
	c.cfg.Timeout = 50 * time.Millisecond

	_, err := c.Classify(context.Background(), "p")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for timeout", te.StatusCode)
	}
}

func TestClassify_TransportErrorHidesAPIKey(t *testing.T) {
	const key = "SECRET-KEY-123"

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()

	tests := []struct {
		name    string
		baseURL string
		timeout time.Duration
	}{
		{"connection refused", closedURL, 2 * time.Second},
		{"timeout", slow.URL, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.APIKey = key
			cfg.BaseURL = tt.baseURL
			cfg.Timeout = tt.timeout
			c := New(cfg, nil)

			_, err := c.Classify(context.Background(), "p")
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want *TransportError", err)
			}
			if te.StatusCode != 0 {
				t.Errorf("StatusCode = %d, want 0", te.StatusCode)
			}
			if strings.Contains(err.Error(), key) {
				t.Errorf("error text leaks the API key: %q", err.Error())
			}
			if te.Err == nil || strings.Contains(te.Err.Error(), key) {
				t.Errorf("wrapped error leaks the API key: %v", te.Err)
			}
			if !strings.Contains(err.Error(), "key=REDACTED") {
				t.Errorf("error = %q, want redacted endpoint", err.Error())
			}
		})
	}
}

func TestClassify_Offline(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	c := New(cfg, srv.Client())

	if c.Mode() != ModeOffline {
		t.Fatalf("Mode() = %s, want offline", c.Mode())
	}
	if _, err := c.Classify(context.Background(), "p"); !errors.Is(err, ErrOffline) {
		t.Errorf("error = %v, want ErrOffline", err)
	}
	if calls.Load() != 0 {
		t.Errorf("offline client made %d network calls", calls.Load())
	}
}

func TestClassify_RetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}, 3)

	text, err := c.Classify(context.Background(), "p")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if text != "ok" || calls.Load() != 2 {
		t.Errorf("text = %q calls = %d, want ok after 2 calls", text, calls.Load())
	}
}

func TestClassify_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}, 3)

	if _, err := c.Classify(context.Background(), "p"); err == nil {
		t.Fatal("Classify() expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFromCentralConfig_Mode(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Mode() != ModeOffline {
		t.Errorf("empty key should be offline")
	}
	cfg.APIKey = "k"
	if cfg.Mode() != ModeOnline {
		t.Errorf("key should be online")
	}
}
