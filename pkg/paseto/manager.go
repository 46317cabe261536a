package pasetotoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	defaultAccessTTL = 8 * time.Hour
	claimType        = "typ"
	claimDoctor      = "did"
)

type Config struct {
	Mode      Mode
	Issuer    string
	Audience  string
	AccessTTL time.Duration
	// Implicit is bound into every token without being transmitted.
	Implicit []byte
}

// Manager issues and verifies doctor portal tokens. Tokens are stateless:
// there is no server-side session to revoke.
type Manager struct {
	cfg  Config
	keys Keys
}

func New(cfg Config, keys Keys) (*Manager, error) {
	switch {
	case cfg.Mode != keys.Mode:
		return nil, fmt.Errorf("%w: config mode %q does not match keys mode %q", ErrConfig, cfg.Mode, keys.Mode)
	case cfg.Issuer == "":
		return nil, fmt.Errorf("%w: issuer is required", ErrConfig)
	case cfg.Audience == "":
		return nil, fmt.Errorf("%w: audience is required", ErrConfig)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	return &Manager{cfg: cfg, keys: keys}, nil
}

func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// IssueAccess returns a token for doctorID valid for AccessTTL.
func (m *Manager) IssueAccess(doctorID string) (string, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" {
		return "", errors.New("paseto: doctor id is required")
	}

	now := time.Now()
	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetSubject(doctorID)
	tok.SetJti(uuid.NewString())
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.cfg.AccessTTL))
	tok.SetString(claimType, string(TokenTypeAccess))
	tok.SetString(claimDoctor, doctorID)

	switch {
	case m.cfg.Mode == ModeLocal && m.keys.Symmetric != nil:
		return tok.V4Encrypt(*m.keys.Symmetric, m.cfg.Implicit), nil
	case m.cfg.Mode == ModePublic && m.keys.Secret != nil:
		return tok.V4Sign(*m.keys.Secret, m.cfg.Implicit), nil
	}
	return "", fmt.Errorf("%w: no key to issue %s tokens", ErrConfig, m.cfg.Mode)
}

// Verify checks signature or encryption, issuer, audience and validity
// window. Every failure wraps ErrInvalidToken.
func (m *Manager) Verify(token string) (*Claims, error) {
	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(m.cfg.Issuer))
	p.AddRule(paseto.ForAudience(m.cfg.Audience))
	p.AddRule(paseto.NotExpired())
	p.AddRule(paseto.ValidAt(time.Now()))

	var (
		tok *paseto.Token
		err error
	)
	switch {
	case m.cfg.Mode == ModeLocal && m.keys.Symmetric != nil:
		tok, err = p.ParseV4Local(*m.keys.Symmetric, token, m.cfg.Implicit)
	case m.cfg.Mode == ModePublic && m.keys.Public != nil:
		tok, err = p.ParseV4Public(*m.keys.Public, token, m.cfg.Implicit)
	default:
		return nil, fmt.Errorf("%w: no key to verify %s tokens", ErrConfig, m.cfg.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, err := readClaims(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func readClaims(tok *paseto.Token) (*Claims, error) {
	var (
		c   Claims
		err error
	)
	if c.TokenID, err = tok.GetJti(); err != nil {
		return nil, err
	}
	if c.Subject, err = tok.GetSubject(); err != nil {
		return nil, err
	}
	if c.IssuedAt, err = tok.GetIssuedAt(); err != nil {
		return nil, err
	}
	if c.ExpiresAt, err = tok.GetExpiration(); err != nil {
		return nil, err
	}
	typ, err := tok.GetString(claimType)
	if err != nil {
		return nil, err
	}
	c.Type = TokenType(typ)
	if c.DoctorID, err = tok.GetString(claimDoctor); err != nil {
		return nil, err
	}
	if c.DoctorID == "" || c.DoctorID != c.Subject {
		return nil, errors.New("doctor id does not match subject")
	}
	return &c, nil
}
