package latereason

import (
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/validator"
)

type SubmitReasonRequest struct {
	EmployeeID   string  `json:"-"`
	Reason       string  `json:"reason"`
	ExpectedTime *string `json:"expected_time,omitempty"`
}

func (r *SubmitReasonRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.ExpectedTime != nil && *r.ExpectedTime != "" {
		if _, ok := validator.IsValidClockTime(*r.ExpectedTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expected_time",
				Message: "expected_time must be in HH:MM:SS format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReasonFilter scopes a listing. Admins may list everyone; employees only themselves.
type ReasonFilter struct {
	EmployeeID string
	IsAdmin    bool
	State      string
}

func (f *ReasonFilter) Validate() error {
	var errs validator.ValidationErrors

	if !f.IsAdmin && validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if f.State != "" && !ApprovalState(f.State).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "state",
			Message: "state must be one of: pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	ID        string `json:"-"`
	Approved  *bool  `json:"approved"`
	DecidedBy string `json:"-"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Approved == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "approved",
			Message: "approved must be true or false",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReasonResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Reason       string  `json:"reason"`
	LoginTime    *string `json:"login_time"`
	ExpectedTime *string `json:"expected_time,omitempty"`
	SubmittedAt  string  `json:"submitted_at"`
	IsApproved   *bool   `json:"is_approved"`
	State        string  `json:"state"`
	Label        string  `json:"label"`
	DecidedBy    *string `json:"decided_by,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}
