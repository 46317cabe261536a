package password

import "github.com/Alijeyrad/triage_backend/config"

// Config holds Argon2id password hashing parameters
type Config struct {
	// Memory usage in KiB (64 MiB default, OWASP recommended)
	MemoryKiB uint32

	// Number of iterations (3 default, OWASP recommended)
	Iterations uint32

	// Degree of parallelism (2 default, OWASP recommended)
	Parallelism uint8

	// Length of random salt in bytes (16 default)
	SaltLength uint32

	// Length of derived key in bytes (32 default)
	KeyLength uint32
}

// DefaultConfig returns OWASP-recommended defaults for password hashing
func DefaultConfig() Config {
	return Config{
		MemoryKiB:   64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// FromCentralConfig converts central config.PasswordConfig to package Config.
// Zero fields keep their defaults.
func FromCentralConfig(c config.PasswordConfig) Config {
	cfg := DefaultConfig()
	if c.MemoryKiB > 0 {
		cfg.MemoryKiB = c.MemoryKiB
	}
	if c.Iterations > 0 {
		cfg.Iterations = c.Iterations
	}
	if c.Parallelism > 0 {
		cfg.Parallelism = c.Parallelism
	}
	if c.SaltLength > 0 {
		cfg.SaltLength = c.SaltLength
	}
	if c.KeyLength > 0 {
		cfg.KeyLength = c.KeyLength
	}
	return cfg
}
