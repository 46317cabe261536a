package pasetotoken

import "time"

type TokenType string

const TokenTypeAccess TokenType = "access"

// Claims is the verified payload of a doctor token.
type Claims struct {
	Type      TokenType
	DoctorID  string
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// GetDoctorID, GetTokenType and IsExpired satisfy reqctx.AuthClaims.

func (c *Claims) GetDoctorID() string  { return c.DoctorID }
func (c *Claims) GetTokenType() string { return string(c.Type) }
func (c *Claims) IsExpired() bool      { return time.Now().After(c.ExpiresAt) }
