package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/patient"
	"github.com/Alijeyrad/triage_backend/internal/service/triage"
	"github.com/Alijeyrad/triage_backend/pkg/gemini"
)

type TriageHandler struct {
	svc triage.Service
}

func NewTriageHandler(svc triage.Service) *TriageHandler {
	return &TriageHandler{svc: svc}
}

// POST /api/save_pain_answers
func (h *TriageHandler) SubmitAnswers(c fiber.Ctx) error {
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

	analysisID, err := h.svc.SubmitAnswers(c.Context(), triage.QA{
		FingerprintID: id,
		BodyPart:      p.str("body_part"),
		SpecificArea:  p.str("specific_area"),
		Questions:     orEmpty(p.strings("questions")),
		Answers:       orEmpty(p.strings("answers")),
	})
	if err != nil {
		return mapTriageError(c, err)
	}
	return ok(c, fiber.Map{"analysis_id": analysisID})
}

// POST /api/analyze_condition
func (h *TriageHandler) Analyze(c fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	answers := p.strings("answers")
	if !p.has("fingerprint_id") || p.str("body_part") == "" || len(answers) == 0 {
		return badRequest(c, "Missing fingerprint_id, body_part, or answers")
	}
	id, valid := patient.ParseID(p["fingerprint_id"])
	if !valid {
		return badRequest(c, msgInvalidID)
	}

	out, err := h.svc.Analyze(c.Context(), triage.AnalyzeRequest{
		FingerprintID: id,
		BodyPart:      p.str("body_part"),
		SpecificArea:  p.str("specific_area"),
		Questions:     orEmpty(p.strings("questions")),
		Answers:       answers,
	})
	if err != nil {
		return mapTriageError(c, err)
	}
	return ok(c, fiber.Map{"result": out.Result})
}

// GET /api/get_analysis/:id
func (h *TriageHandler) Latest(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "No analysis found")
	}
	a, err := h.svc.Latest(c.Context(), id)
	if err != nil {
		return mapTriageError(c, err)
	}
	return ok(c, fiber.Map{"analysis": a})
}

// GET /api/get_patient_analyses/:id
func (h *TriageHandler) List(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	list, err := h.svc.List(c.Context(), id)
	if err != nil {
		return mapTriageError(c, err)
	}
	return ok(c, fiber.Map{"analyses": list})
}

// GET /api/compare_analyses/:id
func (h *TriageHandler) Compare(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	cmp, err := h.svc.Compare(c.Context(), id)
	if err != nil {
		return mapTriageError(c, err)
	}
	return ok(c, fiber.Map{
		"analyses":     cmp.Analyses,
		"by_body_part": cmp.ByBodyPart,
		"total_count":  cmp.TotalCount,
	})
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapTriageError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, triage.ErrInvalidBodyPart):
		return badRequest(c, "Invalid body_part")
	case errors.Is(err, triage.ErrMissingAnswers):
		return badRequest(c, "Missing fingerprint_id, body_part, or answers")
	case errors.Is(err, triage.ErrPatientNotFound):
		return notFound(c, "Patient not found")
	case errors.Is(err, triage.ErrAnalysisNotFound):
		return notFound(c, "No analysis found")
	case errors.Is(err, triage.ErrClassifierFormat):
		return internalError(c, "Gemini returned invalid JSON")
	case errors.Is(err, triage.ErrClassifierTransport):
		// upstream status and body are surfaced so the kiosk can offer a retry
		var te *gemini.TransportError
		if errors.As(err, &te) && te.StatusCode != 0 {
			return internalError(c, te.Error())
		}
		// already logged with its cause by the triage service
		return internalError(c, "Gemini request failed")
	default:
		logFailure(c, "triage request failed", err)
		return internalError(c, "")
	}
}
