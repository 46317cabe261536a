package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/pkg/email"
	"github.com/Alijeyrad/triage_backend/pkg/sms"
)

// Emergency is one EMERGENCY triage outcome.
type Emergency struct {
	FingerprintID int64
	PatientName   string
	Age           int
	Sex           string
	Location      string
	Summary       string
	Source        string
	At            time.Time
}

type Service interface {
	// NotifyEmergency delivers to every configured channel and returns the
	// joined channel errors. Callers treat failures as non-fatal.
	NotifyEmergency(ctx context.Context, e Emergency) error
}

// Mailer and Texter are satisfied by *email.Client and *sms.Client.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, m email.Message) error
}

type Texter interface {
	IsEnabled() bool
	SendAlert(ctx context.Context, a sms.Alert) error
}

type alertService struct {
	enabled bool
	emailTo []string
	phone   string
	timeout time.Duration
	mailer  Mailer
	texter  Texter
}

// New builds the notifier. An invalid on-call phone disables the SMS channel
// with a warning rather than failing startup.
func New(cfg config.AlertsConfig, mailer Mailer, texter Texter) Service {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var phone string
	if cfg.OnCallPhone != "" {
		p, err := sms.NormalizePhone(cfg.OnCallPhone, cfg.PhoneRegion)
		if err != nil {
			slog.Warn("alerts: on-call phone rejected, sms channel off", "error", err)
		} else {
			phone = p
		}
	}

	return &alertService{
		enabled: cfg.Enabled,
		emailTo: cfg.EmailTo,
		phone:   phone,
		timeout: timeout,
		mailer:  mailer,
		texter:  texter,
	}
}

func (s *alertService) NotifyEmergency(ctx context.Context, e Emergency) error {
	if !s.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var errs []error

	if len(s.emailTo) > 0 && s.mailer != nil && s.mailer.Enabled() {
		msg := email.BuildEmergencyAlertEmail(email.EmergencyAlertData{
			To:            s.emailTo,
			FingerprintID: e.FingerprintID,
			PatientName:   e.PatientName,
			Age:           e.Age,
			Sex:           e.Sex,
			Location:      e.Location,
			Summary:       e.Summary,
			Source:        e.Source,
			At:            e.At,
		})
		if err := s.mailer.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if s.phone != "" && s.texter != nil && s.texter.IsEnabled() {
		err := s.texter.SendAlert(ctx, sms.Alert{
			Phone:         s.phone,
			PatientName:   e.PatientName,
			FingerprintID: e.FingerprintID,
			Location:      e.Location,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("sms: %w", err))
		}
	}

	return errors.Join(errs...)
}
