package patient

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAlreadyRegistered   = errors.New("fingerprint id already registered")
	ErrInvalidSex          = errors.New("sex must be Male, Female, or Other")
	ErrInvalidBodyPart     = errors.New("invalid body part")
	ErrInvalidRegistration = errors.New("invalid age or fingerprint id")
	ErrMissingName         = errors.New("missing name")
)
