package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/report"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// ExistsForDate implements report.ReportRepository.
func (r *reportRepository) ExistsForDate(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_reports WHERE employee_id = $1 AND date = $2)`,
		employeeID, attendance.CalendarDay(day),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check daily report: %w", err)
	}

	return exists, nil
}

// Create implements report.ReportRepository.
func (r *reportRepository) Create(ctx context.Context, d report.DailyReport) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_reports (employee_id, date, work_details, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		d.EmployeeID,
		attendance.CalendarDay(d.Date),
		d.WorkDetails,
		string(d.Status),
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return report.DailyReport{}, report.ErrReportExists
		}
		return report.DailyReport{}, fmt.Errorf("failed to create daily report: %w", err)
	}

	return d, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepository) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.employee_id, e.full_name, d.date, d.work_details, d.status, d.created_at, d.updated_at
		FROM daily_reports d
		JOIN employees e ON e.id = d.employee_id
		WHERE d.id::text = $1
	`

	var (
		d      report.DailyReport
		status string
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.EmployeeID, &d.EmployeeName, &d.Date, &d.WorkDetails, &status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.DailyReport{}, report.ErrReportNotFound
		}
		return report.DailyReport{}, fmt.Errorf("failed to get daily report: %w", err)
	}
	d.Status = report.ReportStatus(status)

	return d, nil
}

// ListReplies implements report.ReportRepository.
func (r *reportRepository) ListReplies(ctx context.Context, reportID string) ([]report.Reply, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, report_id, admin_id, message, is_read, created_at
		FROM report_replies
		WHERE report_id::text = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list report replies: %w", err)
	}
	defer rows.Close()

	var replies []report.Reply
	for rows.Next() {
		var reply report.Reply
		if err := rows.Scan(&reply.ID, &reply.ReportID, &reply.AdminID, &reply.Message, &reply.IsRead, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report reply: %w", err)
		}
		replies = append(replies, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report replies: %w", err)
	}

	return replies, nil
}

// CreateReply implements report.ReportRepository.
// The reply insert and the report's updated_at bump share one transaction.
func (r *reportRepository) CreateReply(ctx context.Context, reply report.Reply) (report.Reply, error) {
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO report_replies (report_id, admin_id, message)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`
		if err := q.QueryRow(ctx, query, reply.ReportID, reply.AdminID, reply.Message).Scan(&reply.ID, &reply.CreatedAt); err != nil {
			return fmt.Errorf("failed to create report reply: %w", err)
		}

		if _, err := q.Exec(ctx, `UPDATE daily_reports SET updated_at = NOW() WHERE id = $1`, reply.ReportID); err != nil {
			return fmt.Errorf("failed to touch daily report: %w", err)
		}
		return nil
	})
	if err != nil {
		return report.Reply{}, err
	}

	return reply, nil
}
