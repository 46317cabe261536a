package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/triage_backend/config"
	"github.com/Alijeyrad/triage_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/triage_backend/internal/api/http/router"
	"github.com/Alijeyrad/triage_backend/pkg/constants"
	"github.com/Alijeyrad/triage_backend/pkg/observability"
	"github.com/Alijeyrad/triage_backend/pkg/reqctx"
)

const defaultBodyLimitMB = 20

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client `optional:"true"`
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := NewApp(p.Cfg)

	if p.OTel != nil && p.Cfg.Observability.Tracing.Enabled {
		app.Use(observability.FiberMiddleware(
			healthcheck.LivenessEndpoint,
			healthcheck.ReadinessEndpoint,
			healthcheck.StartupEndpoint,
			p.Cfg.Observability.Metrics.Path,
		))
	}

	configureGlobalMiddleware(app, p.Cfg, p.Redis)

	p.Router.Register(app)

	if dir := p.Cfg.Server.StaticDir; dir != "" {
		app.Get("/*", static.New(dir, static.Config{IndexNames: []string{"index.html"}}))
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// NewApp builds the fiber app with the JSON error envelope and body limit.
func NewApp(cfg *config.Config) *fiber.App {
	limitMB := cfg.Server.BodyLimitMB
	if limitMB <= 0 {
		limitMB = defaultBodyLimitMB
	}
	return fiber.New(fiber.Config{
		AppName:      constants.AppName,
		BodyLimit:    limitMB << 20,
		ErrorHandler: errorHandler,
	})
}

// errorHandler keeps framework errors (unknown route, body too large, panics
// caught by recover) inside the {"ok": false, "error": ...} envelope.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		slog.ErrorContext(c.Context(), "unhandled request error",
			append(reqctx.LogAttrs(c.Context()), "path", c.Path(), "error", err)...)
	}
	return c.Status(code).JSON(fiber.Map{"ok": false, "error": msg})
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, rdb *redis.Client) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORS.AllowOrigins}))
	}
	if cfg.Server.Environment == "production" {
		app.Use(helmet.New())
		app.Use(middleware.NewLimiter(cfg.Server.RateLimit, rdb))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${respHeader:X-Request-Id}] ${method} ${url} ${status}\n",
	}))
}
