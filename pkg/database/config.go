package database

import (
	"net/url"
	"strconv"
	"time"

	"github.com/Alijeyrad/triage_backend/config"
)

const MemoryPath = ":memory:"

// Config holds SQLite connection and behavior settings
type Config struct {
	Path          string
	BusyTimeoutMs int

	// SQLite allows a single writer; more connections only help readers.
	MaxOpenConns int

	// Query logging
	EnableLogging        bool
	SlowQueryThresholdMs int
}

// DefaultConfig returns sensible defaults for database configuration
func DefaultConfig() Config {
	return Config{
		Path:                 "data/triage.db",
		BusyTimeoutMs:        5000,
		MaxOpenConns:         1,
		EnableLogging:        false,
		SlowQueryThresholdMs: 200,
	}
}

// MemoryConfig is an in-process database, used by tests.
func MemoryConfig() Config {
	cfg := DefaultConfig()
	cfg.Path = MemoryPath
	return cfg
}

// DSN returns a go-sqlite3 connection string with foreign keys enforced.
func (c Config) DSN() string {
	q := url.Values{}
	q.Set("_foreign_keys", "1")
	q.Set("_busy_timeout", strconv.Itoa(c.BusyTimeoutMs))
	if c.Path != MemoryPath {
		q.Set("_journal_mode", "WAL")
	}
	return "file:" + c.Path + "?" + q.Encode()
}

func (c Config) SlowQueryThreshold() time.Duration {
	if c.SlowQueryThresholdMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}

// FromCentralConfig converts central config.DatabaseConfig to package Config
func FromCentralConfig(c config.DatabaseConfig) Config {
	cfg := DefaultConfig()
	if c.Path != "" {
		cfg.Path = c.Path
	}
	if c.BusyTimeoutMs > 0 {
		cfg.BusyTimeoutMs = c.BusyTimeoutMs
	}
	if c.MaxOpenConns > 0 {
		cfg.MaxOpenConns = c.MaxOpenConns
	}
	cfg.EnableLogging = c.Logging.Enabled
	if c.Logging.SlowQueryThresholdMs > 0 {
		cfg.SlowQueryThresholdMs = c.Logging.SlowQueryThresholdMs
	}
	return cfg
}
