package report

import "time"

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusSent     ReportStatus = "sent"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// DailyReport is an employee's work report. There is at most one per employee per day.
type DailyReport struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	WorkDetails string
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName *string
}

// Reply is an administrator's message on a daily report.
type Reply struct {
	ID        string
	ReportID  string
	AdminID   string
	Message   string
	IsRead    bool
	CreatedAt time.Time

	// DTO
	AdminName *string
}
