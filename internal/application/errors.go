package application

import (
	"fmt"

	"tierbot/internal/models"
)

var (
	ErrInvalidTier  = fmt.Errorf("%w: unknown tier", models.ErrValidation)
	ErrInvalidForm  = fmt.Errorf("%w: invalid application form", models.ErrValidation)
	ErrInvalidLimit = fmt.Errorf("%w: limit must be between %d and %d", models.ErrValidation, minTopLimit, maxTopLimit)
	ErrUnknownRole  = fmt.Errorf("%w: role does not exist in guild", models.ErrValidation)

	ErrForbidden = fmt.Errorf("%w: not allowed", models.ErrPermissionDenied)

	ErrApplicationNotFound = fmt.Errorf("%w: application", models.ErrNotFound)
	ErrPlayerNotFound      = fmt.Errorf("%w: player", models.ErrNotFound)
	ErrNoTierAssigned      = fmt.Errorf("%w: player has no tier", models.ErrNotFound)
	ErrChannelMissing      = fmt.Errorf("%w: channel", models.ErrNotFound)

	ErrAlreadyProcessed = fmt.Errorf("%w: application already processed", models.ErrConflict)
	ErrDuplicatePending = fmt.Errorf("%w: pending application exists", models.ErrConflict)

	ErrChannelNotConfigured = fmt.Errorf("%w: applications channel", models.ErrConfigurationMissing)
	ErrSheetsNotConfigured  = fmt.Errorf("%w: google sheets", models.ErrConfigurationMissing)
)
