package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for daily report data access
type ReportRepository interface {
	// ExistsForDate reports whether the employee already submitted a report for day.
	ExistsForDate(ctx context.Context, employeeID string, day time.Time) (bool, error)

	// Create returns ErrReportExists when the (employee, date) pair is taken.
	Create(ctx context.Context, r DailyReport) (DailyReport, error)

	// GetByID returns ErrReportNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (DailyReport, error)

	// Replies, oldest first
	ListReplies(ctx context.Context, reportID string) ([]Reply, error)
	CreateReply(ctx context.Context, reply Reply) (Reply, error)
}
