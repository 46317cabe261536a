package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/triage_backend/internal/service/document"
)

type DocumentHandler struct {
	svc document.Service
}

func NewDocumentHandler(svc document.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// POST /api/upload_doctor_document/:id
func (h *DocumentHandler) Upload(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file provided")
	}
	if fh.Filename == "" {
		return badRequest(c, "No file selected")
	}

	f, err := fh.Open()
	if err != nil {
		logFailure(c, "open uploaded file", err)
		return internalError(c, "")
	}
	defer f.Close()

	doc, err := h.svc.Upload(c.Context(), document.UploadRequest{
		FingerprintID: id,
		Filename:      fh.Filename,
		Size:          fh.Size,
		Body:          f,
	})
	if err != nil {
		return mapDocumentError(c, err)
	}
	return ok(c, fiber.Map{
		"message":  "File uploaded successfully",
		"filename": doc.Filename,
		"document": doc,
	})
}

// GET /api/get_doctor_documents/:id
func (h *DocumentHandler) List(c fiber.Ctx) error {
	id, valid := pathID(c, "id")
	if !valid {
		return notFound(c, "Patient not found")
	}
	docs, err := h.svc.List(c.Context(), id)
	if err != nil {
		return mapDocumentError(c, err)
	}
	return ok(c, fiber.Map{"documents": docs})
}

// GET /api/download_document/:doc_id
func (h *DocumentHandler) Download(c fiber.Ctx) error {
	id, valid := pathID(c, "doc_id")
	if !valid {
		return notFound(c, "Document not found")
	}
	dl, err := h.svc.Open(c.Context(), id)
	if err != nil {
		return mapDocumentError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, dl.Document.Filename))
	// fiber closes the stream once the response is written
	return c.SendStream(dl.Body, int(dl.Document.Size))
}

func mapDocumentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, document.ErrPatientNotFound):
		return notFound(c, "Patient not found")
	case errors.Is(err, document.ErrDocumentNotFound):
		return notFound(c, "Document not found")
	case errors.Is(err, document.ErrNoFileSelected):
		return badRequest(c, "No file selected")
	case errors.Is(err, document.ErrNotPDF):
		return badRequest(c, "Only PDF files allowed")
	case errors.Is(err, document.ErrFileTooLarge):
		return fail(c, fiber.StatusRequestEntityTooLarge, "File too large")
	default:
		logFailure(c, "document request failed", err)
		return internalError(c, "")
	}
}
