package triage

import "errors"

var (
	// ErrValidation wraps every input problem the caller can fix.
	ErrValidation       = errors.New("validation failed")
	ErrInvalidBodyPart  = errors.New("invalid body part")
	ErrMissingAnswers   = errors.New("answers are required")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrAnalysisNotFound = errors.New("no analysis found")

	// ErrClassifierTransport covers network failures, timeouts, non-2xx
	// responses and responses without candidate text.
	ErrClassifierTransport = errors.New("classifier unavailable")
	// ErrClassifierFormat means the classifier answered with something that
	// is not a single JSON object.
	ErrClassifierFormat = errors.New("classifier returned invalid JSON")
)
