package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/api/http/handler"
)

// registerPatientRoutes mounts the kiosk intake flow. Listing and deleting
// patients belongs to the doctor dashboard.
func (r *Router) registerPatientRoutes(api fiber.Router, h *handler.PatientHandler, doctorAuth fiber.Handler) {
	api.Post("/register_patient", h.Register)
	api.Get("/get_patient/:id", h.Get)
	api.Post("/save_vitals", h.SaveVitals)
	api.Get("/get_patient_vitals/:id", h.ListVitals)
	api.Post("/save_pain_selection", h.SelectPain)

	api.Get("/get_all_patients", doctorAuth, h.List)
	api.Post("/delete_patient/:id", doctorAuth, h.Delete)
}
