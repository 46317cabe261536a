package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/config"
)

func TestNewApp_ErrorEnvelope(t *testing.T) {
	app := NewApp(&config.Config{})
	app.Get("/boom", func(c fiber.Ctx) error { return fiber.ErrTeapot })

	tests := []struct {
		name string
		req  *http.Request
		code int
	}{
		{"fiber error", httptest.NewRequest(http.MethodGet, "/boom", nil), http.StatusTeapot},
		{"unknown route", httptest.NewRequest(http.MethodGet, "/missing", nil), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req)
			if err != nil {
				t.Fatalf("Test() error = %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.code {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.code)
			}
			raw, _ := io.ReadAll(resp.Body)
			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("body is not JSON: %q", raw)
			}
			if body["ok"] != false || body["error"] == "" {
				t.Errorf("body = %v", body)
			}
		})
	}
}
