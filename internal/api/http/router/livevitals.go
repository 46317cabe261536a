package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/api/http/handler"
)

func (r *Router) registerLiveVitalsRoutes(api fiber.Router, h *handler.LiveVitalsHandler) {
	api.Get("/get_arduino_vitals", h.Get)
	api.Post("/push_arduino_vitals", h.Push)
}
