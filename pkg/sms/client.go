package sms

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arsmn/go-smsir/smsir"
	"github.com/nyaruka/phonenumbers"

	"github.com/Alijeyrad/triage_backend/config"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client     *smsir.Client
	templateID string
	enabled    bool
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.TemplateID == "" {
		return nil, fmt.Errorf("sms.ir template ID required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:     client,
		templateID: cfg.SMSIR.TemplateID,
		enabled:    true,
	}, nil
}

// Alert is rendered through the configured sms.ir template, which must
// declare the parameters "patient", "id" and "location".
type Alert struct {
	Phone         string
	PatientName   string
	FingerprintID int64
	Location      string
}

// SendAlert sends an emergency alert. If SMS is disabled, this is a no-op.
func (c *Client) SendAlert(ctx context.Context, a Alert) error {
	if !c.enabled {
		return nil
	}

	if a.Phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if c.templateID == "" {
		return fmt.Errorf("template ID is required")
	}

	location := a.Location
	if strings.TrimSpace(location) == "" {
		location = "-"
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     a.Phone,
		TemplateID: c.templateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "patient", Value: a.PatientName},
			{Key: "id", Value: strconv.FormatInt(a.FingerprintID, 10)},
			{Key: "location", Value: location},
		},
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// NormalizePhone parses raw in the default region and returns it in E.164.
func NormalizePhone(raw, region string) (string, error) {
	if region == "" {
		region = "US"
	}
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
