package pasetotoken

import (
	"log/slog"
	"time"

	"github.com/Alijeyrad/triage_backend/config"
)

// NewPasetoManager creates a new PASETO manager from config.
// In local mode without a configured key an ephemeral key is generated, so
// tokens do not survive a restart.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto

	var (
		keys Keys
		err  error
	)
	if Mode(p.Mode) == ModeLocal && p.LocalKeyHex == "" {
		slog.Warn("paseto local key not configured, using an ephemeral key")
		keys = NewLocalKeys()
	} else {
		keys, err = LoadKeys(KeyStrings{
			Mode:         Mode(p.Mode),
			SymmetricHex: p.LocalKeyHex,
			SecretHex:    p.SecretKeyHex,
			PublicHex:    p.PublicKeyHex,
		})
		if err != nil {
			return nil, err
		}
	}

	return New(Config{
		Mode:      Mode(p.Mode),
		Issuer:    p.Issuer,
		Audience:  p.Audience,
		AccessTTL: time.Duration(p.AccessTTLMinutes) * time.Minute,
	}, keys)
}
