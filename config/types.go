package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Server         ServerConfig         `mapstructure:"server"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Password       PasswordConfig       `mapstructure:"password"`
	Classifier     ClassifierConfig     `mapstructure:"classifier"`
	Alerts         AlertsConfig         `mapstructure:"alerts"`
	Email          EmailConfig          `mapstructure:"email"`
	SMS            SMSConfig            `mapstructure:"sms"`
	Documents      DocumentsConfig      `mapstructure:"documents"`
	LiveVitals     LiveVitalsConfig     `mapstructure:"live_vitals"`
	S3             S3Config             `mapstructure:"s3"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Path          string                `mapstructure:"path" validate:"required"`
	BusyTimeoutMs int                   `mapstructure:"busy_timeout_ms" validate:"gte=0"`
	MaxOpenConns  int                   `mapstructure:"max_open_conns" validate:"gte=0"`
	Logging       DatabaseLoggingConfig `mapstructure:"logging"`
}

type DatabaseLoggingConfig struct {
	Enabled              bool `mapstructure:"enabled"`
	SlowQueryThresholdMs int  `mapstructure:"slow_query_threshold_ms"`
}

type RedisConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Addr                string `mapstructure:"addr" validate:"required_if=Enabled true"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int        `mapstructure:"port" validate:"gt=0,lte=65535"`
	TimeoutSeconds int        `mapstructure:"timeout_seconds"`
	Environment    string     `mapstructure:"environment" validate:"oneof=development staging production"`
	StaticDir      string     `mapstructure:"static_dir"`
	BodyLimitMB    int        `mapstructure:"body_limit_mb"`
	CORS           CORSConfig `mapstructure:"cors"`
	RateLimit      RateLimit  `mapstructure:"rate_limit"`
}

type RateLimit struct {
	Max               int `mapstructure:"max"`
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type AuthenticationConfig struct {
	// RequireDoctorToken guards doctor routes with a PASETO bearer token.
	RequireDoctorToken bool         `mapstructure:"require_doctor_token"`
	DefaultDoctorID    string       `mapstructure:"default_doctor_id"`
	DefaultDoctorPass  string       `mapstructure:"default_doctor_password"`
	Paseto             PasetoConfig `mapstructure:"paseto"`
	// EncryptionKey is a 32-byte hex string. When set, medical history
	// free text is stored encrypted with AES-256-GCM.
	EncryptionKey string `mapstructure:"encryption_key" validate:"omitempty,len=64,hexadecimal"`
}

type PasetoConfig struct {
	Mode             string `mapstructure:"mode" validate:"oneof=local public"`
	LocalKeyHex      string `mapstructure:"local_key_hex"`
	SecretKeyHex     string `mapstructure:"secret_key_hex"`
	PublicKeyHex     string `mapstructure:"public_key_hex"`
	Issuer           string `mapstructure:"issuer" validate:"required"`
	Audience         string `mapstructure:"audience" validate:"required"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
}

type PasswordConfig struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

type ClassifierConfig struct {
	// APIKey empty means offline mode: a fixed demo result, no network calls.
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxAttempts    int    `mapstructure:"max_attempts" validate:"gte=0,lte=5"`
}

type AlertsConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	EmailTo        []string `mapstructure:"email_to" validate:"dive,email"`
	OnCallPhone    string   `mapstructure:"on_call_phone"`
	PhoneRegion    string   `mapstructure:"phone_region"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

type EmailConfig struct {
	Enabled bool       `mapstructure:"enabled"`
	From    string     `mapstructure:"from" validate:"required_if=Enabled true"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type SMSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	SMSIR   SMSIRConfig `mapstructure:"smsir"`
}

type SMSIRConfig struct {
	APIKey     string `mapstructure:"api_key"`
	SecretKey  string `mapstructure:"secret_key"`
	TemplateID string `mapstructure:"template_id"`
}

type DocumentsConfig struct {
	Backend   string `mapstructure:"backend" validate:"oneof=local s3"`
	LocalDir  string `mapstructure:"local_dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb" validate:"gte=0"`
}

type LiveVitalsConfig struct {
	// StaleAfterSeconds is how long a pushed reading keeps the feed "connected".
	StaleAfterSeconds int `mapstructure:"stale_after_seconds" validate:"gte=0"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string       `mapstructure:"format" validate:"omitempty,oneof=text json"`
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/triage.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"` // e.g. "http://localhost:3100"
	TenantID string `mapstructure:"tenant_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Documents.Backend == "s3" && c.S3.Bucket == "" {
		return fmt.Errorf("config: documents.backend=s3 requires s3.bucket")
	}
	return nil
}
