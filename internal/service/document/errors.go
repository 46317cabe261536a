package document

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoFileSelected   = errors.New("no file selected")
	ErrNotPDF           = errors.New("only PDF files allowed")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
)
