package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/doctor"
)

type DoctorHandler struct {
	svc doctor.Service
}

func NewDoctorHandler(svc doctor.Service) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

// POST /api/doctor_login
func (h *DoctorHandler) Login(c fiber.Ctx) error {
	p, err := readPayload(c)
	if err != nil {
		return badRequest(c, msgInvalidBody)
	}
	sess, err := h.svc.Login(c.Context(), doctor.LoginRequest{
		DoctorID: p.str("doctor_id"),
		Password: p.str("password"),
	})
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, fiber.Map{
		"doctor_id":  sess.DoctorID,
		"token":      sess.AccessToken,
		"expires_in": sess.ExpiresIn,
	})
}

func mapDoctorError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, doctor.ErrInvalidCredentials),
		errors.Is(err, doctor.ErrMissingCredentials):
		return unauthorized(c, "Invalid credentials")
	case errors.Is(err, doctor.ErrAccountLocked):
		return fail(c, fiber.StatusTooManyRequests, "Too many failed attempts, try again later")
	default:
		logFailure(c, "doctor login failed", err)
		return internalError(c, "")
	}
}
