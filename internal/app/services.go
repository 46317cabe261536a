package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/service/alert"
	"github.com/Alijeyrad/triage_backend/internal/service/doctor"
	"github.com/Alijeyrad/triage_backend/internal/service/document"
	"github.com/Alijeyrad/triage_backend/internal/service/history"
	"github.com/Alijeyrad/triage_backend/internal/service/livevitals"
	"github.com/Alijeyrad/triage_backend/internal/service/patient"
	"github.com/Alijeyrad/triage_backend/internal/service/report"
	"github.com/Alijeyrad/triage_backend/internal/service/triage"
	"github.com/Alijeyrad/triage_backend/pkg/crypto"
	"github.com/Alijeyrad/triage_backend/pkg/email"
	"github.com/Alijeyrad/triage_backend/pkg/gemini"
	"github.com/Alijeyrad/triage_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/triage_backend/pkg/paseto"
	s3pkg "github.com/Alijeyrad/triage_backend/pkg/s3"
	"github.com/Alijeyrad/triage_backend/pkg/sms"
	"github.com/Alijeyrad/triage_backend/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePatientService,
		ProvideAlertService,
		ProvideTriageService,
		ProvidePasswordHasher,
		ProvidePasetoManager,
		ProvideDoctorService,
		ProvideHistoryService,
		ProvideReportService,
		ProvideDocumentStore,
		ProvideDocumentService,
		ProvideLiveVitalsFeed,
	),
)

func ProvidePatientService(db *repo.Client) patient.Service {
	return patient.New(db)
}

func ProvideAlertService(cfg *config.Config, mailer *email.Client, texter *sms.Client) alert.Service {
	return alert.New(cfg.Alerts, mailer, texter)
}

func ProvideTriageService(
	db *repo.Client,
	classifier *gemini.Client,
	alerts alert.Service,
	metrics *observability.TriageMetrics,
) triage.Service {
	return triage.New(db, classifier, alerts, metrics)
}

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.New(password.FromCentralConfig(cfg.Password))
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideDoctorService(
	db *repo.Client,
	rdb *redis.Client,
	hasher *password.Hasher,
	paseto *pasetotoken.Manager,
) doctor.Service {
	return doctor.New(db, rdb, hasher, paseto)
}

func ProvideHistoryService(db *repo.Client, cipher *crypto.FieldCipher) history.Service {
	return history.New(db, cipher)
}

func ProvideReportService(db *repo.Client, hist history.Service) report.Service {
	return report.New(db, hist)
}

func ProvideDocumentStore(cfg *config.Config) (document.Store, error) {
	if cfg.Documents.Backend == "s3" {
		client, err := s3pkg.New(cfg.S3)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// uploads fail until the bucket is reachable, the API still serves
		if err := client.Ping(ctx); err != nil {
			slog.Warn("document bucket unreachable", "error", err)
		}
		return document.NewS3Store(client), nil
	}
	store, err := document.NewLocalStore(cfg.Documents.LocalDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func ProvideDocumentService(db *repo.Client, store document.Store, cfg *config.Config) document.Service {
	return document.New(db, store, int64(cfg.Documents.MaxSizeMB)<<20)
}

func ProvideLiveVitalsFeed(rdb *redis.Client, cfg *config.Config) livevitals.Feed {
	return livevitals.New(rdb, time.Duration(cfg.LiveVitals.StaleAfterSeconds)*time.Second)
}

// SeedDoctor creates the configured default doctor account when it does not
// exist yet.
func SeedDoctor(svc doctor.Service, cfg *config.Config) error {
	id, pass := cfg.Authentication.DefaultDoctorID, cfg.Authentication.DefaultDoctorPass
	if id == "" || pass == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := svc.SeedDefault(ctx, id, pass)
	if err != nil {
		return err
	}
	if created {
		slog.Info("default doctor account created", "doctor_id", id)
	}
	return nil
}
