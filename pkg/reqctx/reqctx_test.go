package reqctx

import (
	"context"
	"testing"
	"time"
)

type testClaims struct {
	id  string
	exp time.Time
}

func (c testClaims) GetDoctorID() string  { return c.id }
func (c testClaims) GetTokenType() string { return "access" }
func (c testClaims) IsExpired() bool      { return time.Now().After(c.exp) }

func TestClaims(t *testing.T) {
	ctx := context.Background()
	if IsAuthenticated(ctx) {
		t.Fatal("empty context authenticated")
	}
	if _, ok := DoctorIDFromContext(ctx); ok {
		t.Fatal("empty context has a doctor id")
	}

	ctx = WithClaims(ctx, testClaims{id: "doctor1", exp: time.Now().Add(time.Hour)})
	if !IsAuthenticated(ctx) {
		t.Error("valid claims not authenticated")
	}
	if id, ok := DoctorIDFromContext(ctx); !ok || id != "doctor1" {
		t.Errorf("DoctorIDFromContext() = %q, %v", id, ok)
	}

	expired := WithClaims(context.Background(), testClaims{id: "doctor1", exp: time.Now().Add(-time.Second)})
	if IsAuthenticated(expired) {
		t.Error("expired claims authenticated")
	}
}

func TestRequestMeta(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" {
		t.Error("empty context has a request id")
	}
	ctx = WithRequestMeta(ctx, &RequestMeta{RequestID: "abc"})
	if RequestIDFromContext(ctx) != "abc" {
		t.Errorf("RequestIDFromContext() = %q", RequestIDFromContext(ctx))
	}
}

func TestLogAttrs(t *testing.T) {
	if got := LogAttrs(context.Background()); len(got) != 0 {
		t.Errorf("LogAttrs(empty) = %v", got)
	}

	ctx := WithRequestMeta(context.Background(), &RequestMeta{RequestID: "rid-1"})
	ctx = WithClaims(ctx, testClaims{id: "doctor1", exp: time.Now().Add(time.Hour)})

	got := LogAttrs(ctx)
	want := []any{"request_id", "rid-1", "doctor_id", "doctor1"}
	if len(got) != len(want) {
		t.Fatalf("LogAttrs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LogAttrs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
