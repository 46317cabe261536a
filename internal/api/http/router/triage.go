package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/api/http/handler"
)

func (r *Router) registerTriageRoutes(api fiber.Router, h *handler.TriageHandler, doctorAuth fiber.Handler) {
	api.Post("/save_pain_answers", h.SubmitAnswers)
	api.Post("/analyze_condition", h.Analyze)
	api.Get("/get_analysis/:id", h.Latest)
	api.Get("/get_patient_analyses/:id", h.List)

	api.Get("/compare_analyses/:id", doctorAuth, h.Compare)
}
