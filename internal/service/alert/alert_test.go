package alert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/pkg/email"
	"github.com/Alijeyrad/triage_backend/pkg/sms"
)

type fakeMailer struct {
	enabled bool
	sent    []email.Message
	err     error
}

func (f *fakeMailer) Enabled() bool { return f.enabled }
func (f *fakeMailer) Send(_ context.Context, m email.Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

type fakeTexter struct {
	enabled bool
	sent    []sms.Alert
	err     error
}

func (f *fakeTexter) IsEnabled() bool { return f.enabled }
func (f *fakeTexter) SendAlert(_ context.Context, a sms.Alert) error {
	f.sent = append(f.sent, a)
	return f.err
}

var emergency = Emergency{FingerprintID: 42, PatientName: "Ada", Age: 36, Sex: "Female", Location: "Chest", Summary: "s", Source: "rule"}

func TestNotifyEmergency_BothChannels(t *testing.T) {
	m := &fakeMailer{enabled: true}
	x := &fakeTexter{enabled: true}
	svc := New(config.AlertsConfig{
		Enabled:     true,
		EmailTo:     []string{"oncall@example.com"},
		OnCallPhone: "(650) 253-0000",
		PhoneRegion: "US",
	}, m, x)

	if err := svc.NotifyEmergency(context.Background(), emergency); err != nil {
		t.Fatalf("NotifyEmergency() error = %v", err)
	}
	if len(m.sent) != 1 || !strings.Contains(m.sent[0].Subject, "#42") {
		t.Errorf("email sent = %+v", m.sent)
	}
	if len(x.sent) != 1 || x.sent[0].Phone != "+16502530000" {
		t.Errorf("sms sent = %+v", x.sent)
	}
}

func TestNotifyEmergency_Disabled(t *testing.T) {
	m := &fakeMailer{enabled: true}
	svc := New(config.AlertsConfig{Enabled: false, EmailTo: []string{"a@b.c"}}, m, nil)
	if err := svc.NotifyEmergency(context.Background(), emergency); err != nil {
		t.Errorf("NotifyEmergency() error = %v", err)
	}
	if len(m.sent) != 0 {
		t.Error("disabled notifier sent email")
	}
}

func TestNotifyEmergency_JoinsErrors(t *testing.T) {
	mailErr := errors.New("smtp down")
	smsErr := errors.New("gateway down")
	svc := New(config.AlertsConfig{
		Enabled:     true,
		EmailTo:     []string{"oncall@example.com"},
		OnCallPhone: "+16502530000",
	}, &fakeMailer{enabled: true, err: mailErr}, &fakeTexter{enabled: true, err: smsErr})

	err := svc.NotifyEmergency(context.Background(), emergency)
	if !errors.Is(err, mailErr) || !errors.Is(err, smsErr) {
		t.Errorf("NotifyEmergency() error = %v, want both channel errors", err)
	}
}

func TestNew_InvalidPhoneDisablesSMS(t *testing.T) {
	x := &fakeTexter{enabled: true}
	svc := New(config.AlertsConfig{Enabled: true, OnCallPhone: "nope"}, nil, x)
	if err := svc.NotifyEmergency(context.Background(), emergency); err != nil {
		t.Errorf("NotifyEmergency() error = %v", err)
	}
	if len(x.sent) != 0 {
		t.Error("sms sent to rejected phone")
	}
}
