package handler

import (

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/livevitals"
	"github.com/Alijeyrad/triage_backend/internal/service/patient"
)

type LiveVitalsHandler struct {
	feed livevitals.Feed
}

func NewLiveVitalsHandler(feed livevitals.Feed) *LiveVitalsHandler {
	return &LiveVitalsHandler{feed: feed}
}

// GET /api/get_arduino_vitals
func (h *LiveVitalsHandler) Get(c fiber.Ctx) error {
	snap, err := h.feed.Latest(c.Context())
	if err != nil {
		logFailure(c, "read live vitals", err)
		return internalError(c, "")
	}
	return ok(c, fiber.Map{
		"status":      snap.Status,
		"heart_rate":  snap.HeartRate,
		"spo2":        snap.SpO2,
		"temperature": snap.Temperature,
		"weight":      snap.Weight,
		"height":      snap.Height,
		"received_at": snap.ReceivedAt,
	})
}

// POST /api/push_arduino_vitals
func (h *LiveVitalsHandler) Push(c fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	err = h.feed.Push(c.Context(), livevitals.Reading{
		HeartRate:   patient.LenientInt(p["heart_rate"]),
		SpO2:        patient.LenientInt(p["spo2"]),
		Temperature: patient.LenientFloat(p["temperature"]),
		Weight:      patient.LenientFloat(p["weight"]),
		Height:      patient.LenientFloat(p["height"]),
	})
	if err != nil {
		logFailure(c, "push live vitals", err)
		return internalError(c, "")
	}
	return ok(c, nil)
}
