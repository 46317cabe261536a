package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/report"
)

type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GET /api/export_patient_report/:id
func (h *ReportHandler) Export(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	rep, err := h.svc.Export(c.Context(), id)
	if err != nil {
		return mapReportError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, rep.Filename))
	return c.Send(rep.Content)
}

// GET /api/get_patient_timeline/:id
func (h *ReportHandler) Timeline(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	tl, err := h.svc.Timeline(c.Context(), id)
	if err != nil {
		return mapReportError(c, err)
	}
	return ok(c, fiber.Map{"timeline": tl})
}

func mapReportError(c fiber.Ctx, err error) error {
	if errors.Is(err, report.ErrPatientNotFound) {
		return notFound(c, "Patient not found")
	}
	logFailure(c, "report request failed", err)
	return internalError(c, "")
}
