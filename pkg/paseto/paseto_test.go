package pasetotoken

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, keys Keys, ttl time.Duration) *Manager {
	t.Helper()
	m, err := New(Config{Mode: keys.Mode, Issuer: "triage", Audience: "doctors", AccessTTL: ttl}, keys)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestIssueVerify(t *testing.T) {
	tests := []struct {
		name string
		keys Keys
	}{
		{"local", NewLocalKeys()},
		{"public", NewPublicKeys()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, tt.keys, time.Hour)
			tok, err := m.IssueAccess("doctor1")
			if err != nil {
				t.Fatalf("IssueAccess() error = %v", err)
			}
			c, err := m.Verify(tok)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if c.DoctorID != "doctor1" || c.Type != TokenTypeAccess || c.Subject != "doctor1" {
				t.Errorf("claims = %+v", c)
			}
			if c.IsExpired() {
				t.Error("fresh token reported expired")
			}
		})
	}
}

func TestVerify_Rejects(t *testing.T) {
	m := newTestManager(t, NewLocalKeys(), time.Hour)
	other := newTestManager(t, NewLocalKeys(), time.Hour)

	tok, _ := other.IssueAccess("doctor1")
	if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign key: error = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	m := newTestManager(t, NewLocalKeys(), time.Millisecond)
	tok, _ := m.IssueAccess("doctor1")
	time.Sleep(20 * time.Millisecond)
	if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyOnlyManager(t *testing.T) {
	signer := newTestManager(t, NewPublicKeys(), time.Hour)
	verifier := newTestManager(t, Keys{Mode: ModePublic, Public: signer.keys.Public}, time.Hour)

	tok, err := signer.IssueAccess("doctor1")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if _, err := verifier.Verify(tok); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
	if _, err := verifier.IssueAccess("doctor1"); !errors.Is(err, ErrConfig) {
		t.Errorf("IssueAccess() without secret: error = %v, want ErrConfig", err)
	}
}

func TestNew_ModeMismatch(t *testing.T) {
	_, err := New(Config{Mode: ModePublic, Issuer: "i", Audience: "a"}, NewLocalKeys())
	if !errors.Is(err, ErrConfig) {
		t.Errorf("New() error = %v, want ErrConfig", err)
	}
}

func TestLoadKeys_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   KeyStrings
	}{
		{"local without key", KeyStrings{Mode: ModeLocal}},
		{"local bad hex", KeyStrings{Mode: ModeLocal, SymmetricHex: "zz"}},
		{"public without keys", KeyStrings{Mode: ModePublic}},
		{"unknown mode", KeyStrings{Mode: "other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadKeys(tt.in); !errors.Is(err, ErrConfig) {
				t.Errorf("LoadKeys() error = %v, want ErrConfig", err)
			}
		})
	}
}
