package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

// POST /api/register_patient
func (h *PatientHandler) Register(c fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	name, sex := p.str("name"), p.str("sex")
	if name == "" || sex == "" || !p.has("age") || !p.has("fingerprint_id") {
		return badRequest(c, "Missing name, age, sex, or fingerprint_id")
	}

	age, okAge := patient.ParseID(p["age"])
	id, okID := patient.ParseID(p["fingerprint_id"])
	if !okAge || !okID {
		return badRequest(c, "Invalid age or fingerprint_id")
	}

	created, err := h.svc.Register(c.Context(), patient.RegisterRequest{
		FingerprintID: id,
		Name:          name,
		Age:           int(age),
		Sex:           sex,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, fiber.Map{"fingerprint_id": created.FingerprintID})
}

// GET /api/get_patient/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, fiber.Map{"patient": p})
}

// GET /api/get_all_patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	patients, err := h.svc.List(c.Context())
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, fiber.Map{"patients": patients})
}

// POST /api/delete_patient/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, nil)
}

// POST /api/save_vitals
func (h *PatientHandler) SaveVitals(c fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	id, valid, err := p.fingerprintID(c)
	if !valid {
		return err
	}

	_, err = h.svc.SaveVitals(c.Context(), patient.SaveVitalsRequest{
		FingerprintID: id,
		Weight:        patient.LenientFloat(p["weight"]),
		Height:        patient.LenientFloat(p["height"]),
		HeartRate:     patient.LenientInt(p["heart_rate"]),
		SpO2:          patient.LenientInt(p["spo2"]),
		Temperature:   patient.LenientFloat(p["temperature"]),
		BloodPressure: p.str("blood_pressure"),
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, nil)
}

// GET /api/get_patient_vitals/:id
func (h *PatientHandler) ListVitals(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	vitals, err := h.svc.ListVitals(c.Context(), id)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, fiber.Map{"vitals": vitals})
}

// POST /api/save_pain_selection
func (h *PatientHandler) SelectPain(c fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	if !p.has("fingerprint_id") || p.str("body_part") == "" {
		return badRequest(c, "Missing fingerprint_id or body_part")
	}
	id, valid := patient.ParseID(p["fingerprint_id"])
	if !valid {
		return badRequest(c, msgInvalidID)
	}

	sel, err := h.svc.SelectPain(c.Context(), patient.PainSelection{
		FingerprintID: id,
		BodyPart:      p.str("body_part"),
		SpecificArea:  p.str("specific_area"),
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, fiber.Map{"body_part": sel.BodyPart, "specific_area": sel.SpecificArea})
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, "Patient not found")
	case errors.Is(err, patient.ErrAlreadyRegistered):
		return badRequest(c, "Fingerprint ID already registered")
	case errors.Is(err, patient.ErrMissingName):
		return badRequest(c, "Missing name, age, sex, or fingerprint_id")
	case errors.Is(err, patient.ErrInvalidSex):
		return badRequest(c, "Sex must be Male, Female, or Other")
	case errors.Is(err, patient.ErrInvalidRegistration):
		return badRequest(c, "Invalid age or fingerprint_id")
	case errors.Is(err, patient.ErrInvalidBodyPart):
		return badRequest(c, "Invalid body_part")
	default:
		logFailure(c, "patient request failed", err)
		return internalError(c, "")
	}
}
