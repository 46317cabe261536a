package email

import (
	"time"

	"github.com/Alijeyrad/triage_backend/config"
)

const (
	defaultSMTPPort    = 587
	defaultSMTPTimeout = 30 * time.Second
	defaultAppName     = "Triage Robot"
)

type Config struct {
	Enabled bool
	From    string

	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int

	// AppName prefixes alert subjects.
	AppName string
}

func DefaultConfig() Config {
	return Config{
		SMTPPort:   defaultSMTPPort,
		SMTPUseTLS: true,
		AppName:    defaultAppName,
	}
}

func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return defaultSMTPTimeout
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

func FromCentralConfig(c config.EmailConfig) Config {
	out := DefaultConfig()
	out.Enabled = c.Enabled
	out.From = c.From
	out.SMTPHost = c.SMTP.Host
	if c.SMTP.Port != 0 {
		out.SMTPPort = c.SMTP.Port
	}
	out.SMTPUsername = c.SMTP.Username
	out.SMTPPassword = c.SMTP.Password
	out.SMTPUseTLS = c.SMTP.UseTLS
	out.SMTPTimeoutSeconds = c.SMTP.TimeoutSeconds
	return out
}
