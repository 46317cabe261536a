package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/internal/api/http/handler"
	"github.com/Alijeyrad/triage_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/triage_backend/internal/repo"
	"github.com/Alijeyrad/triage_backend/internal/service/doctor"
	"github.com/Alijeyrad/triage_backend/internal/service/document"
	"github.com/Alijeyrad/triage_backend/internal/service/history"
	"github.com/Alijeyrad/triage_backend/internal/service/livevitals"
	"github.com/Alijeyrad/triage_backend/internal/service/patient"
	"github.com/Alijeyrad/triage_backend/internal/service/report"
	"github.com/Alijeyrad/triage_backend/internal/service/triage"
	pasetotoken "github.com/Alijeyrad/triage_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg         *config.Config
	DB          *repo.Client
	PatientSvc  patient.Service
	TriageSvc   triage.Service
	DoctorSvc   doctor.Service
	HistorySvc  history.Service
	ReportSvc   report.Service
	DocumentSvc document.Service
	LiveVitals  livevitals.Feed
	PasetoMgr   *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	doctorAuth := middleware.DoctorAuth(r.p.PasetoMgr, r.p.Cfg.Authentication.RequireDoctorToken)

	// 3. Initialize Handlers
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	triageH := handler.NewTriageHandler(r.p.TriageSvc)
	doctorH := handler.NewDoctorHandler(r.p.DoctorSvc)
	historyH := handler.NewHistoryHandler(r.p.HistorySvc)
	reportH := handler.NewReportHandler(r.p.ReportSvc)
	documentH := handler.NewDocumentHandler(r.p.DocumentSvc)
	liveH := handler.NewLiveVitalsHandler(r.p.LiveVitals)

	api := app.Group("/api")

	// 4. Delegate to sub-files
	r.registerPatientRoutes(api, patientH, doctorAuth)
	r.registerTriageRoutes(api, triageH, doctorAuth)
	r.registerLiveVitalsRoutes(api, liveH)
	r.registerDoctorRoutes(api, doctorH, historyH, reportH, documentH, doctorAuth)

	api.Use(handler.NotFoundRoute)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			sqlDB, err := r.p.DB.DB.DB()
			if err != nil {
				return false
			}
			return sqlDB.PingContext(c.Context()) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
