package pasetotoken

import (
	"fmt"
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local, encrypted with a shared key
	ModePublic Mode = "public" // v4.public, signed
)

// Keys holds the material for one mode. A public-mode manager without a
// secret key can verify but not issue.
type Keys struct {
	Mode      Mode
	Symmetric *paseto.V4SymmetricKey
	Secret    *paseto.V4AsymmetricSecretKey
	Public    *paseto.V4AsymmetricPublicKey
}

// KeyStrings is the hex-encoded form read from configuration.
type KeyStrings struct {
	Mode         Mode
	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		raw := strings.TrimSpace(in.SymmetricHex)
		if raw == "" {
			return Keys{}, fmt.Errorf("%w: local mode needs a symmetric key", ErrConfig)
		}
		k, err := paseto.V4SymmetricKeyFromHex(raw)
		if err != nil {
			return Keys{}, fmt.Errorf("%w: symmetric key: %v", ErrConfig, err)
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}
		if raw := strings.TrimSpace(in.SecretHex); raw != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(raw)
			if err != nil {
				return Keys{}, fmt.Errorf("%w: secret key: %v", ErrConfig, err)
			}
			pk := sk.Public()
			out.Secret, out.Public = &sk, &pk
		}
		// an explicit public key wins over the derived one
		if raw := strings.TrimSpace(in.PublicHex); raw != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(raw)
			if err != nil {
				return Keys{}, fmt.Errorf("%w: public key: %v", ErrConfig, err)
			}
			out.Public = &pk
		}
		if out.Public == nil {
			return Keys{}, fmt.Errorf("%w: public mode needs a secret or public key", ErrConfig)
		}
		return out, nil
	}
	return Keys{}, fmt.Errorf("%w: unknown mode %q", ErrConfig, in.Mode)
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
