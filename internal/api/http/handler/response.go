package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/pkg/reqctx"
)

// Every response carries "ok". Failures add "error" with a reason string.

func ok(c fiber.Ctx, fields fiber.Map) error {
	body := fiber.Map{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(body)
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusUnauthorized, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusNotFound, msg)
}

func internalError(c fiber.Ctx, msg string) error {
	if msg == "" {
		msg = "Internal server error"
	}
	return fail(c, fiber.StatusInternalServerError, msg)
}

// logFailure records an unexpected error with the request id and route.
func logFailure(c fiber.Ctx, msg string, err error) {
	ctx := c.Context()
	slog.ErrorContext(ctx, msg, append(reqctx.LogAttrs(ctx), "method", c.Method(), "path", c.Path(), "error", err)...)
}
