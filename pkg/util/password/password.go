// Package password hashes doctor credentials with Argon2id in PHC string form.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash         = errors.New("invalid password hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrMismatch            = errors.New("password does not match")
)

// Hasher produces hashes with a fixed parameter set. Verification reads the
// parameters from the stored hash, so older hashes keep verifying.
type Hasher struct {
	cfg Config
}

func New(cfg Config) *Hasher {
	return &Hasher{cfg: cfg}
}

// Hash returns $argon2id$v=19$m=<kib>,t=<iter>,p=<par>$<salt>$<key>.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.cfg.Iterations, h.cfg.MemoryKiB, h.cfg.Parallelism, h.cfg.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.cfg.MemoryKiB,
		h.cfg.Iterations,
		h.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify returns nil on match, ErrMismatch on a wrong password, or a format
// error when hash is not an Argon2id PHC string.
func (h *Hasher) Verify(hash, password string) error {
	return Verify(hash, password)
}

// NeedsRehash reports whether hash was produced with different parameters.
func (h *Hasher) NeedsRehash(hash string) bool {
	p, err := decodeHash(hash)
	if err != nil {
		return true
	}
	return p.memory != h.cfg.MemoryKiB ||
		p.iterations != h.cfg.Iterations ||
		p.parallelism != h.cfg.Parallelism ||
		uint32(len(p.key)) != h.cfg.KeyLength
}

func Verify(hash, password string) error {
	p, err := decodeHash(hash)
	if err != nil {
		return err
	}

	other := argon2.IDKey([]byte(password), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.key)))
	if subtle.ConstantTimeCompare(p.key, other) != 1 {
		return ErrMismatch
	}
	return nil
}

// IsHash reports whether s looks like an encoded Argon2id hash.
func IsHash(s string) bool {
	return strings.HasPrefix(s, "$argon2id$")
}

type decoded struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func decodeHash(encoded string) (*decoded, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, ErrIncompatibleVersion
	}

	var d decoded
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memory, &d.iterations, &d.parallelism); err != nil {
		return nil, ErrInvalidHash
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, ErrInvalidHash
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return nil, ErrInvalidHash
	}
	return &d, nil
}
