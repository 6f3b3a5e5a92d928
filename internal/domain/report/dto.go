package report

import (
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/validator"
)

// ========================================
// DAILY REPORT
// ========================================

type SubmitReportRequest struct {
	EmployeeID  string `json:"-"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	WorkDetails string `json:"work_details"`
}

func (r *SubmitReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.WorkDetails) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_details",
			Message: "work_details is required",
		})
	}

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
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

type ReportResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Date         string `json:"date"`
	WorkDetails  string `json:"work_details"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// ========================================
// REPLIES
// ========================================

type ListRepliesRequest struct {
	ReportID   string
	EmployeeID string
	IsAdmin    bool
}

func (r *ListRepliesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id is required",
		})
	}

	if !r.IsAdmin && validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReplyRequest struct {
	ReportID string `json:"-"`
	AdminID  string `json:"-"`
	Message  string `json:"message"`
}

func (r *ReplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id is required",
		})
	}

	if validator.IsEmpty(r.AdminID) {
		errs = append(errs, validator.ValidationError{
			Field:   "admin_id",
			Message: "admin_id is required",
		})
	}

	if validator.IsEmpty(r.Message) {
		errs = append(errs, validator.ValidationError{
			Field:   "message",
			Message: "message is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReplyResponse struct {
	ID        string `json:"id"`
	ReportID  string `json:"report_id"`
	AdminID   string `json:"admin_id"`
	AdminName string `json:"admin_name,omitempty"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}
