package reqctx

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyClaims
)

// RequestMeta describes the inbound HTTP request.
type RequestMeta struct {
	RequestID  string
	ClientIP   string
	UserAgent  string
	ReceivedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

// RequestMetaFromContext returns nil, false outside an HTTP request.
func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}

// TraceIDFromContext returns the active OpenTelemetry trace id, or "" when
// the request is not sampled.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// LogAttrs returns slog key/value pairs identifying the request, for use as
// slog.InfoContext(ctx, msg, append(reqctx.LogAttrs(ctx), ...)...).
func LogAttrs(ctx context.Context) []any {
	attrs := make([]any, 0, 6)
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	if id := TraceIDFromContext(ctx); id != "" {
		attrs = append(attrs, "trace_id", id)
	}
	if id, ok := DoctorIDFromContext(ctx); ok {
		attrs = append(attrs, "doctor_id", id)
	}
	return attrs
}
