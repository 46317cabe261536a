package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/history"
)

type HistoryHandler struct {
	svc history.Service
}

func NewHistoryHandler(svc history.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// GET /api/get_medical_history/:id
func (h *HistoryHandler) Get(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	rec, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapHistoryError(c, err)
	}
	return ok(c, fiber.Map{"history": rec})
}

// POST /api/save_medical_history/:id
func (h *HistoryHandler) Save(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	rec, err := h.svc.Save(c.Context(), id, history.SaveRequest{
		CurrentAllergies:   p.str("current_allergies"),
		PastAllergies:      p.str("past_allergies"),
		CurrentMedications: p.str("current_medications"),
		PastMedications:    p.str("past_medications"),
	})
	if err != nil {
		return mapHistoryError(c, err)
	}
	return ok(c, fiber.Map{"history": rec})
}

func mapHistoryError(c fiber.Ctx, err error) error {
	if errors.Is(err, history.ErrPatientNotFound) {
		return notFound(c, "Patient not found")
	}
	logFailure(c, "medical history request failed", err)
	return internalError(c, "")
}
