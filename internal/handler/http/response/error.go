package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A punch that still needs a reason
	var reasonErr *attendance.ReasonRequiredError
	if errors.As(err, &reasonErr) {
		ReasonRequired(w, reasonErr.Error(), reasonErr.Classification)
		return
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		UnprocessableEntity(w, kindMessage(err, apperror.ErrValidation))
	case errors.Is(err, apperror.ErrConflict):
		Conflict(w, kindMessage(err, apperror.ErrConflict))
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, kindMessage(err, apperror.ErrNotFound))
	case errors.Is(err, apperror.ErrTransport):
		slog.Error("Upstream request failed", "error", err)
		BadGateway(w, apperror.UserMessage(err))

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// kindMessage strips the "<kind>: " prefix that domain sentinels carry.
func kindMessage(err error, kind error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		return trimmed
	}
	return msg
}
