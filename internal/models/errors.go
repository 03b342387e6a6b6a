package models

import "errors"

// Error classes. Specific errors elsewhere wrap one of these so callers can
// branch with errors.Is on either level.
var (
	ErrValidation           = errors.New("validation failed")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrConfigurationMissing = errors.New("configuration missing")
)

var (
	ErrUnknownComponent     = errors.New("unknown component kind")
	ErrMissingApplicationID = errors.New("component payload has no application id")
)
