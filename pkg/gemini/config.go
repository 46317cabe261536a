package gemini

import (
	"time"

	"github.com/Alijeyrad/triage_backend/config"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Config holds classifier endpoint settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

// DefaultConfig returns the public endpoint with a 30s timeout and no retry.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://generativelanguage.googleapis.com",
		Model:       "gemini-flash-latest",
		Timeout:     30 * time.Second,
		MaxAttempts: 1,
	}
}

// Mode is decided once, from the presence of an API key.
func (c Config) Mode() Mode {
	if c.APIKey == "" {
		return ModeOffline
	}
	return ModeOnline
}

// FromCentralConfig converts central config.ClassifierConfig to package Config
func FromCentralConfig(c config.ClassifierConfig) Config {
	cfg := DefaultConfig()
	cfg.APIKey = c.APIKey
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	return cfg
}
