package services

import (
	"errors"
)

// Failure taxonomy shared by all collaboration services. Handlers map these
// to HTTP statuses; everything else surfaces as a generic 500.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrDefaultGroup = errors.New("the default organization chat cannot be left or deleted")
)
