package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/triage_backend/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// Allow env vars to override config values.
	// e.g. TRIAGE_CLASSIFIER_API_KEY overrides classifier.api_key
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The config file is optional; defaults plus env vars are enough to boot.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "data/triage.db")
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.logging.enabled", false)
	v.SetDefault("database.logging.slow_query_threshold_ms", 200)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.body_limit_mb", 16)
	v.SetDefault("server.cors.enabled", false)
	v.SetDefault("server.rate_limit.max", 60)
	v.SetDefault("server.rate_limit.expiration_seconds", 60)

	v.SetDefault("authentication.require_doctor_token", false)
	v.SetDefault("authentication.default_doctor_id", "doctor1")
	v.SetDefault("authentication.default_doctor_password", "demo123")
	v.SetDefault("authentication.encryption_key", "")
	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.local_key_hex", "")
	v.SetDefault("authentication.paseto.issuer", "triage_backend")
	v.SetDefault("authentication.paseto.audience", "triage_doctors")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 480)

	v.SetDefault("password.memory_kib", 64*1024)
	v.SetDefault("password.iterations", 3)
	v.SetDefault("password.parallelism", 2)
	v.SetDefault("password.salt_length", 16)
	v.SetDefault("password.key_length", 32)

	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("classifier.model", "gemini-flash-latest")
	v.SetDefault("classifier.timeout_seconds", 30)
	v.SetDefault("classifier.max_attempts", 1)

	v.SetDefault("alerts.enabled", false)
	v.SetDefault("alerts.phone_region", "US")
	v.SetDefault("alerts.timeout_seconds", 10)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.use_tls", true)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("sms.enabled", false)

	v.SetDefault("documents.backend", "local")
	v.SetDefault("documents.local_dir", "uploads")
	v.SetDefault("documents.max_size_mb", 10)

	v.SetDefault("live_vitals.stale_after_seconds", 10)

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", "triage_backend")
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.tracing.sampling_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output.stdout", true)
	v.SetDefault("logging.output.file.path", "logs/triage.log")
	v.SetDefault("logging.output.file.max_size_mb", 50)
	v.SetDefault("logging.output.file.max_backups", 5)
	v.SetDefault("logging.output.file.max_age_days", 14)
}
