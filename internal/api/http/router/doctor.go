package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/api/http/handler"
)

func (r *Router) registerDoctorRoutes(
	api fiber.Router,
	doctorH *handler.DoctorHandler,
	historyH *handler.HistoryHandler,
	reportH *handler.ReportHandler,
	documentH *handler.DocumentHandler,
	doctorAuth fiber.Handler,
) {
	api.Post("/doctor_login", doctorH.Login)

	// Medical history
	api.Get("/get_medical_history/:id", doctorAuth, historyH.Get)
	api.Post("/save_medical_history/:id", doctorAuth, historyH.Save)

	// Reports
	api.Get("/export_patient_report/:id", doctorAuth, reportH.Export)
	api.Get("/get_patient_timeline/:id", doctorAuth, reportH.Timeline)

	// Documents
	api.Post("/upload_doctor_document/:id", doctorAuth, documentH.Upload)
	api.Get("/get_doctor_documents/:id", doctorAuth, documentH.List)
	api.Get("/download_document/:doc_id", doctorAuth, documentH.Download)
}
