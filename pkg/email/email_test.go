package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/gomail.v2"
)

func TestBuildEmergencyAlertEmail(t *testing.T) {
	m := BuildEmergencyAlertEmail(EmergencyAlertData{
		To:            []string{"oncall@example.com"},
		FingerprintID: 42,
		PatientName:   "<Ada>",
		Age:           36,
		Sex:           "Female",
		Location:      "Chest - left side",
		Summary:       "Critical vitals detected (rule-based)",
		Source:        "rule",
		At:            time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	})

	if !strings.Contains(m.Subject, "#42") || !strings.Contains(m.Subject, "EMERGENCY") {
		t.Errorf("Subject = %q", m.Subject)
	}
	if !strings.Contains(m.TextBody, "Chest - left side") || !strings.Contains(m.TextBody, "2026-01-02 03:04 UTC") {
		t.Errorf("TextBody missing details: %s", m.TextBody)
	}
	if strings.Contains(m.HTMLBody, "<Ada>") || !strings.Contains(m.HTMLBody, "&lt;Ada&gt;") {
		t.Error("HTMLBody should escape patient name")
	}

	if _, err := buildMessage("robot@example.com", m); err != nil {
		t.Errorf("buildMessage() error = %v", err)
	}
}

func TestBuildMessage_Validation(t *testing.T) {
	to := []string{"oncall@example.com"}
	tests := []struct {
		name string
		from string
		msg  Message
	}{
		{"no from", "", Message{To: to, Subject: "s", TextBody: "b"}},
		{"no recipients", "a@b.c", Message{To: []string{" "}, Subject: "s", TextBody: "b"}},
		{"no subject", "a@b.c", Message{To: to, TextBody: "b"}},
		{"no body", "a@b.c", Message{To: to, Subject: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildMessage(tt.from, tt.msg); !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("buildMessage() error = %v, want ErrInvalidMessage", err)
			}
		})
	}
}

func TestSend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.SMTPHost = "smtp.example.com"
	cfg.From = "robot@example.com"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	msg := Message{To: []string{"oncall@example.com"}, Subject: "s", TextBody: "b"}

	var sent *gomail.Message
	c.dial = func(m *gomail.Message) error {
		sent = m
		return nil
	}
	if err := c.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if sent == nil || sent.GetHeader("To")[0] != "oncall@example.com" {
		t.Errorf("dialer got %v", sent)
	}

	c.dial = func(*gomail.Message) error { return errors.New("connection refused") }
	if err := c.Send(context.Background(), msg); !errors.Is(err, ErrSend) {
		t.Errorf("Send() error = %v, want ErrSend", err)
	}

	c.dial = func(*gomail.Message) error {
		time.Sleep(time.Second)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.Send(ctx, msg); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Send() error = %v, want deadline exceeded", err)
	}
}

func TestSend_Disabled(t *testing.T) {
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Send(context.Background(), Message{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestNew_EnabledWithoutHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	if _, err := New(cfg); err == nil {
		t.Error("New() expected error without smtp host")
	}
}
