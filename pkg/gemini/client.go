package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Alijeyrad/triage_backend/config"
)

const (
	tracerName   = "github.com/Alijeyrad/triage_backend/pkg/gemini"
	maxBodyBytes = 1 << 20
	maxErrorBody = 2048
)

// Client sends single-turn generateContent requests.
type Client struct {
	cfg  Config
	mode Mode
	http *http.Client
}

// NewFromCentral creates a classifier client from central config
func NewFromCentral(cfg config.ClassifierConfig) *Client {
	return New(FromCentralConfig(cfg), nil)
}

// New builds a client. A nil httpClient gets one bounded by cfg.Timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, mode: cfg.Mode(), http: httpClient}
}

func (c *Client) Mode() Mode { return c.mode }

// Classify sends prompt as the only content part and returns the first
// candidate's text.
func (c *Client) Classify(ctx context.Context, prompt string) (string, error) {
	if c.mode == ModeOffline {
		return "", ErrOffline
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "gemini.generateContent")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", c.cfg.Model))

	op := func() (string, error) {
		text, err := c.generate(ctx, prompt)
		if err != nil && !retryable(err) {
			return "", backoff.Permanent(err)
		}
		return text, err
	}

	var (
		text string
		err  error
	)
	if c.cfg.MaxAttempts == 1 {
		text, err = c.generate(ctx, prompt)
	} else {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 500 * time.Millisecond
		text, err = backoff.Retry(ctx, op,
			backoff.WithBackOff(bo),
			backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
			backoff.WithMaxElapsedTime(c.cfg.Timeout),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classify failed")
		return "", err
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: c.redact(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Err: c.redact(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", ErrEmptyResponse
	}
	text, ok := out.firstText()
	if !ok {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) endpoint() string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		base, url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))
}

// redact replaces the request URL carried by a *url.Error so the API key
// never reaches an error string or a log line.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = c.redactedEndpoint()
	}
	return err
}

func (c *Client) redactedEndpoint() string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=REDACTED",
		base, url.PathEscape(c.cfg.Model))
}

// retryable reports whether a failed attempt may succeed on retry: network
// errors, 429 and 5xx.
func retryable(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == 0 || te.StatusCode == http.StatusTooManyRequests || te.StatusCode >= 500
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
