package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func decode(t *testing.T, raw string) payload {
	t.Helper()
	p := payload{}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return p
}

func TestPayload_Str(t *testing.T) {
	p := decode(t, `{"name":"  Ada ","id":42,"ratio":1.5,"flag":true,"none":null}`)

	tests := []struct {
		key  string
		want string
	}{
		{"name", "Ada"},
		{"id", "42"},
		{"ratio", "1.5"},
		{"flag", "true"},
		{"none", ""},
		{"absent", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := p.str(tt.key); got != tt.want {
				t.Errorf("str(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestPayload_Has(t *testing.T) {
	p := decode(t, `{"a":0,"b":"","c":null}`)
	if !p.has("a") || !p.has("b") {
		t.Error("zero values should count as present")
	}
	if p.has("c") || p.has("d") {
		t.Error("null and absent should count as missing")
	}
}

func TestPayload_Strings(t *testing.T) {
	p := decode(t, `{"answers":["yes",2,null],"single":"no"}`)

	if got, want := p.strings("answers"), []string{"yes", "2", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("strings(answers) = %q, want %q", got, want)
	}
	if got := p.strings("single"); got != nil {
		t.Errorf("non-list should read as nil, got %q", got)
	}
	if got := orEmpty(p.strings("absent")); got == nil || len(got) != 0 {
		t.Errorf("orEmpty(nil) = %#v", got)
	}
}

func TestReadPayload(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c fiber.Ctx) error {
		p, err := readPayload(c)
		if err != nil {
			return badRequest(c, msgInvalidBody)
		}
		return ok(c, fiber.Map{"name": p.str("name"), "fields": len(p)})
	})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantName string
	}{
		{"object", `{"name":"Ada"}`, http.StatusOK, "Ada"},
		{"empty body", "", http.StatusOK, ""},
		{"whitespace body", "  \n", http.StatusOK, ""},
		{"null", "null", http.StatusOK, ""},
		{"malformed", `{"name":`, http.StatusBadRequest, ""},
		{"array", `["Ada"]`, http.StatusBadRequest, ""},
		{"string", `"Ada"`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Test() error = %v", err)
			}
			defer resp.Body.Close()

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d (%v)", resp.StatusCode, tt.wantCode, body)
			}
			if tt.wantCode == http.StatusBadRequest {
				if body["error"] != msgInvalidBody {
					t.Errorf("error = %v, want %q", body["error"], msgInvalidBody)
				}
				return
			}
			if body["name"] != tt.wantName {
				t.Errorf("name = %v, want %q", body["name"], tt.wantName)
			}
		})
	}
}

