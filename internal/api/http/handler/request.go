package handler

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/patient"
)

const (
	msgMissingID   = "Missing fingerprint_id"
	msgInvalidID   = "Invalid fingerprint_id"
	msgInvalidBody = "Invalid JSON body"
)

// payload is a loosely typed JSON body. Kiosk and sensor clients send ids and
// readings as numbers or strings, so fields are coerced per use.
type payload map[string]any

// readPayload binds the JSON body. An empty body reads as an empty payload so
// the handler can name the missing fields; anything that is not a JSON object
// is an error.
func readPayload(c fiber.Ctx) (payload, error) {
	p := payload{}
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return p, nil
	}
	if err := c.Bind().JSON(&p); err != nil {
		return nil, err
	}
	if p == nil {
		p = payload{}
	}
	return p, nil
}

func (p payload) has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// str returns the trimmed string form of key, "" when absent.
func (p payload) str(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// strings returns key as a list of strings; non-list values read as nil.
func (p payload) strings(key string) []string {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch s := v.(type) {
		case string:
			out = append(out, s)
		case nil:
			out = append(out, "")
		default:
			out = append(out, fmt.Sprint(s))
		}
	}
	return out
}

// fingerprintID reads fingerprint_id, answering 400 when it is missing or
// not an integer.
func (p payload) fingerprintID(c fiber.Ctx) (int64, bool, error) {
	if !p.has("fingerprint_id") {
		return 0, false, badRequest(c, msgMissingID)
	}
	id, valid := patient.ParseID(p["fingerprint_id"])
	if !valid {
		return 0, false, badRequest(c, msgInvalidID)
	}
	return id, true, nil
}

// pathID parses an integer route parameter.
func pathID(c fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil
}

// NotFoundRoute answers unknown /api paths in the JSON envelope.
func NotFoundRoute(c fiber.Ctx) error {
	return notFound(c, "Not found")
}
