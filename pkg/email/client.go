package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/triage_backend/config"
)

// Message is a single notification. Headers are optional extras such as
// X-Priority for alerts.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

// Client delivers over SMTP. A disabled client rejects every Send with
// ErrDisabled so callers can skip the channel.
type Client struct {
	cfg  Config
	dial func(*gomail.Message) error
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	if cfg.Enabled && strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, fmt.Errorf("%w: smtp host is required when email is enabled", ErrInvalidMessage)
	}
	c := &Client{cfg: cfg}
	c.dial = c.dialAndSend
	return c, nil
}

func (c *Client) Enabled() bool { return c != nil && c.cfg.Enabled }

// Send blocks until the SMTP exchange finishes, ctx is done or the configured
// timeout passes, whichever is first.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	msg, err := buildMessage(c.cfg.From, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	// gomail has no context support; the goroutine outlives ctx on timeout
	done := make(chan error, 1)
	go func() { done <- c.dial(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSend, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) dialAndSend(msg *gomail.Message) error {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	if c.cfg.SMTPUseTLS {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	}
	return d.DialAndSend(msg)
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	to := cleanAddrs(m.To)
	subject := strings.TrimSpace(m.Subject)
	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""

	switch {
	case from == "":
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	case len(to) == 0:
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidMessage)
	case subject == "":
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	case !hasText && !hasHTML:
		return nil, fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	for k, v := range m.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			msg.SetHeader(k, v)
		}
	}

	if hasText {
		msg.SetBody("text/plain", m.TextBody)
		if hasHTML {
			msg.AddAlternative("text/html", m.HTMLBody)
		}
	} else {
		msg.SetBody("text/html", m.HTMLBody)
	}
	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
