package attendance

import (
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchRequest struct {
	EmployeeID string    `json:"-"`
	Kind       PunchKind `json:"kind"`
	Reason     string    `json:"reason"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !r.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: in, out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CompletePunchRequest is the second phase of a punch that needed a reason.
type CompletePunchRequest struct {
	EmployeeID     string         `json:"-"`
	Classification Classification `json:"classification"`
	Reason         string         `json:"reason"`
}

func (r *CompletePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !r.Classification.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "classification",
			Message: "classification must be one of: on_time, late, full_day, left_early",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	Date           string  `json:"date"`
	PunchInTime    *string `json:"punch_in_time,omitempty"`
	PunchOutTime   *string `json:"punch_out_time,omitempty"`
	PunchInStatus  *string `json:"punch_in_status,omitempty"`
	PunchOutStatus *string `json:"punch_out_status,omitempty"`
	LateReason     *string `json:"late_reason,omitempty"`
	EarlyReason    *string `json:"early_reason,omitempty"`
	HoursWorked    string  `json:"hours_worked"`
	Clock          string  `json:"clock"`
}

type PunchResponse struct {
	Status         OutcomeStatus    `json:"status"`
	Classification Classification   `json:"classification"`
	Label          string           `json:"label"`
	Session        *SessionResponse `json:"session,omitempty"`
}

// ========================================
// TODAY STATUS DTOs
// ========================================

type TodayStatusResponse struct {
	EmployeeID  string           `json:"employee_id"`
	Date        string           `json:"date"`
	State       SessionState     `json:"state"`
	CanPunchIn  bool             `json:"can_punch_in"`
	CanPunchOut bool             `json:"can_punch_out"`
	Clock       string           `json:"clock"`
	Session     *SessionResponse `json:"session,omitempty"`
	Message     string           `json:"message"`
}

// ========================================
// HISTORY DTOs
// ========================================

// HistoryFilter selects the sessions recorded on one day. An empty Date means today.
type HistoryFilter struct {
	Date       string `json:"date"`
	EmployeeID string `json:"employee_id"`
	Search     string `json:"search"`
	Status     string `json:"status"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(f.Date) {
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HistoryResponse struct {
	Date     string            `json:"date"`
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}
