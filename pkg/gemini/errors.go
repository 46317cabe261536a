package gemini

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse means no candidate text could be extracted.
	ErrEmptyResponse = errors.New("classifier returned no candidate text")
	// ErrOffline is returned by clients built without an API key.
	ErrOffline = errors.New("classifier is offline: no API key configured")
)

// TransportError covers network failures, timeouts and non-2xx responses.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("classifier HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("classifier transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
