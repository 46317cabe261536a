package history

import "errors"

var ErrPatientNotFound = errors.New("patient not found")
