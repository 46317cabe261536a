package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/pkg/crypto"
	"github.com/Alijeyrad/triage_backend/pkg/database"
	"github.com/Alijeyrad/triage_backend/pkg/email"
	"github.com/Alijeyrad/triage_backend/pkg/gemini"
	"github.com/Alijeyrad/triage_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/triage_backend/pkg/redis"
	"github.com/Alijeyrad/triage_backend/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideTriageMetrics),
	fx.Provide(ProvideClassifier),
	fx.Provide(ProvideFieldCipher),
)

// ProvideDatabase opens the SQLite store and applies pending migrations, so
// a fresh install and an old prototype database both come up current.
func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	db, err := database.Open(database.FromCentralConfig(cfg.Database))
	if err != nil {
		return nil, err
	}
	client := repo.NewClient(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	applied, err := client.Migrate(ctx)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if applied > 0 {
		slog.Info("database migrated", "applied", applied, "path", cfg.Database.Path)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return client.Close()
		},
	})
	return client, nil
}

// ProvideRedis returns a nil client when redis is disabled.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if err != nil || rdb == nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(),
		observability.FromCentralConfig(cfg.Observability, cfg.Server.Environment))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideTriageMetrics depends on the provider so the counters register on
// the installed meter provider.
func ProvideTriageMetrics(_ *observability.Provider) *observability.TriageMetrics {
	return observability.NewTriageMetrics()
}

func ProvideClassifier(cfg *config.Config) *gemini.Client {
	c := gemini.NewFromCentral(cfg.Classifier)
	if c.Mode() == gemini.ModeOffline {
		slog.Warn("classifier API key not configured, triage runs in offline demo mode")
	}
	return c
}

// ProvideFieldCipher returns nil when no encryption key is configured.
func ProvideFieldCipher(cfg *config.Config) (*crypto.FieldCipher, error) {
	return crypto.NewFieldCipher(cfg.Authentication.EncryptionKey)
}
