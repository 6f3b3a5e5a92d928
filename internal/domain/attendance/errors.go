package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
)

// Attendance domain errors
var (
	// Punch-in errors
	ErrAlreadyPunchedIn = fmt.Errorf("%w: you have already punched in today", apperror.ErrConflict)
	ErrDayClosed        = fmt.Errorf("%w: attendance for today is already closed", apperror.ErrConflict)

	// Punch-out errors
	ErrNotPunchedIn = fmt.Errorf("%w: you have not punched in today", apperror.ErrNotFound)

	// Validation errors
	ErrReasonRequired     = fmt.Errorf("%w: reason is required", apperror.ErrValidation)
	ErrMalformedTimestamp = fmt.Errorf("%w: malformed timestamp", apperror.ErrValidation)
	ErrInvalidSession     = fmt.Errorf("%w: invalid attendance session", apperror.ErrValidation)
)

// ReasonRequiredError carries the classification that needs a reason.
type ReasonRequiredError struct {
	Classification Classification
}

func (e *ReasonRequiredError) Error() string {
	return fmt.Sprintf("reason is required for %s punch", e.Classification.Label())
}

func (e *ReasonRequiredError) Unwrap() error {
	return ErrReasonRequired
}
