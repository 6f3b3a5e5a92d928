package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const lateReasonColumns = `
	r.id, r.employee_id, e.full_name, r.reason, r.login_time, r.expected_time,
	r.created_at, r.is_approved, r.approved_by, r.decided_at`

type lateReasonRepository struct {
	db *database.DB
}

func NewLateReasonRepository(db *database.DB) latereason.LateReasonRepository {
	return &lateReasonRepository{db: db}
}

func scanLateReason(row pgx.Row) (latereason.LateLoginReason, error) {
	var (
		r          latereason.LateLoginReason
		isApproved *bool
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.ReasonText, &r.LoginTime, &r.ExpectedTime,
		&r.SubmittedAt, &isApproved, &r.DecidedBy, &r.DecidedAt,
	)
	if err != nil {
		return latereason.LateLoginReason{}, err
	}
	r.ApprovalState = latereason.StateFromNullable(isApproved)
	return r, nil
}

// Create implements latereason.LateReasonRepository.
func (l *lateReasonRepository) Create(ctx context.Context, r latereason.LateLoginReason) (latereason.LateLoginReason, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO late_login_reasons (employee_id, reason, login_time, expected_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		r.EmployeeID,
		r.ReasonText,
		r.LoginTime,
		r.ExpectedTime,
		r.SubmittedAt,
	).Scan(&r.ID)
	if err != nil {
		return latereason.LateLoginReason{}, fmt.Errorf("failed to create late login reason: %w", err)
	}

	r.ApprovalState = latereason.StatePending
	return r, nil
}

// List implements latereason.LateReasonRepository.
func (l *lateReasonRepository) List(ctx context.Context, employeeID string, state *latereason.ApprovalState) ([]latereason.LateLoginReason, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + lateReasonColumns + `
		FROM late_login_reasons r
		JOIN employees e ON e.id = r.employee_id
		WHERE ($1 = '' OR r.employee_id::text = $1)
	`
	args := []any{employeeID}

	if state != nil {
		switch *state {
		case latereason.StatePending:
			query += " AND r.is_approved IS NULL"
		case latereason.StateApproved:
			query += " AND r.is_approved = TRUE"
		case latereason.StateRejected:
			query += " AND r.is_approved = FALSE"
		}
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list late login reasons: %w", err)
	}
	defer rows.Close()

	var reasons []latereason.LateLoginReason
	for rows.Next() {
		r, err := scanLateReason(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan late login reason: %w", err)
		}
		reasons = append(reasons, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate late login reasons: %w", err)
	}

	return reasons, nil
}

// SetDecision implements latereason.LateReasonRepository.
func (l *lateReasonRepository) SetDecision(ctx context.Context, id string, approved bool, decidedBy string) (latereason.LateLoginReason, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		WITH updated AS (
			UPDATE late_login_reasons
			SET is_approved = $2, approved_by = NULLIF($3, ''), decided_at = NOW()
			WHERE id::text = $1
			RETURNING *
		)
		SELECT ` + lateReasonColumns + `
		FROM updated r
		JOIN employees e ON e.id = r.employee_id
	`

	r, err := scanLateReason(q.QueryRow(ctx, query, id, approved, decidedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return latereason.LateLoginReason{}, latereason.ErrReasonNotFound
		}
		return latereason.LateLoginReason{}, fmt.Errorf("failed to record late login decision: %w", err)
	}

	return r, nil
}
