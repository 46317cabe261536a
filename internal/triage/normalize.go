package triage

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidFormat means the classifier text was not a single JSON object.
var ErrInvalidFormat = errors.New("classifier returned invalid JSON")

// rawResult accepts any JSON type per key so a wrong type degrades to a
// default instead of failing the whole parse.
type rawResult struct {
	Severity       json.RawMessage `json:"severity"`
	Summary        json.RawMessage `json:"summary"`
	Recommendation json.RawMessage `json:"recommendation"`
}

// Normalize parses classifier text into a Result, substituting defaults for
// missing or out-of-set fields.
func Normalize(raw string) (Result, error) {
	body := []byte(stripFence(raw))
	if len(body) == 0 || body[0] != '{' {
		return Result{}, ErrInvalidFormat
	}

	// anything after the object, including stray delimiters, fails validation
	if !json.Valid(body) {
		return Result{}, ErrInvalidFormat
	}
	var r rawResult
	if err := json.Unmarshal(body, &r); err != nil {
		return Result{}, ErrInvalidFormat
	}

	out := Result{
		Severity:       Severity(strings.ToUpper(strings.TrimSpace(jsonString(r.Severity)))),
		Summary:        strings.TrimSpace(jsonString(r.Summary)),
		Recommendation: Recommendation(strings.TrimSpace(jsonString(r.Recommendation))),
	}
	if !out.Severity.Valid() {
		out.Severity = SeverityMedium
	}
	if out.Summary == "" {
		out.Summary = NoSummary
	}
	if !out.Recommendation.Valid() {
		out.Recommendation = RecommendDoctor
	}
	return out, nil
}

func jsonString(m json.RawMessage) string {
	if len(m) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err != nil {
		return ""
	}
	return s
}

// stripFence removes one surrounding ``` or ```json fence.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}
