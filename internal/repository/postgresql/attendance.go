package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `
	s.id, s.employee_id, s.date, s.punch_in_at, s.punch_out_at,
	s.late_reason, s.early_reason, s.punch_in_status, s.punch_out_status,
	s.created_at, s.updated_at, e.full_name`

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

func toClassification(s *string) *attendance.Classification {
	if s == nil {
		return nil
	}
	c := attendance.Classification(*s)
	if !c.IsValid() {
		return nil
	}
	return &c
}

func fromClassification(c *attendance.Classification) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var (
		s                        attendance.Session
		punchInStatus, outStatus *string
		employeeName             *string
	)
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Date, &s.PunchInAt, &s.PunchOutAt,
		&s.LateReason, &s.EarlyReason, &punchInStatus, &outStatus,
		&s.CreatedAt, &s.UpdatedAt, &employeeName,
	)
	if err != nil {
		return attendance.Session{}, err
	}
	s.PunchInClass = toClassification(punchInStatus)
	s.PunchOutClass = toClassification(outStatus)
	s.EmployeeName = employeeName
	return s, nil
}

// GetByEmployeeAndDate implements attendance.SessionRepository.
func (r *sessionRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1
		  AND s.date = $2
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, employeeID, attendance.CalendarDay(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance session by employee and date: %w", err)
	}

	return &s, nil
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			employee_id, date, punch_in_at, late_reason, punch_in_status
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID,
		attendance.CalendarDay(s.Date),
		s.PunchInAt,
		s.LateReason,
		fromClassification(s.PunchInClass),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Session{}, attendance.ErrAlreadyPunchedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return s, nil
}

// Close implements attendance.SessionRepository.
// Only an open session is updated; anything else is ErrNotPunchedIn.
func (r *sessionRepository) Close(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET punch_out_at = $2,
			early_reason = $3,
			punch_out_status = $4,
			updated_at = NOW()
		WHERE id = $1
		  AND punch_in_at IS NOT NULL
		  AND punch_out_at IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID,
		s.PunchOutAt,
		s.EarlyReason,
		fromClassification(s.PunchOutClass),
	).Scan(&s.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNotPunchedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to close attendance session: %w", err)
	}

	return s, nil
}

// ListForDate implements attendance.SessionRepository.
func (r *sessionRepository) ListForDate(ctx context.Context, day time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.date = $1
		ORDER BY s.punch_in_at ASC
	`

	rows, err := q.Query(ctx, query, attendance.CalendarDay(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance sessions: %w", err)
	}

	return sessions, nil
}

// snapshotRepository derives today's roster snapshot from stored sessions.
type snapshotRepository struct {
	db  *database.DB
	loc *time.Location
	now func() time.Time
}

func NewAttendanceSnapshotRepository(db *database.DB, loc *time.Location) roster.AttendanceSnapshotRepository {
	if loc == nil {
		loc = time.Local
	}
	return &snapshotRepository{db: db, loc: loc, now: time.Now}
}

// ListToday implements roster.AttendanceSnapshotRepository.
// Status is the stored punch-out label for closed sessions, else the punch-in label.
func (r *snapshotRepository) ListToday(ctx context.Context) ([]roster.TodayAttendance, error) {
	q := GetQuerier(ctx, r.db)
	today := attendance.CalendarDay(r.now().In(r.loc))

	query := `
		SELECT s.employee_id, s.punch_in_at, s.punch_out_at,
			   s.punch_in_status, s.punch_out_status,
			   d.id IS NOT NULL, COALESCE(d.id::text, ''), COALESCE(d.work_details, '')
		FROM attendance_sessions s
		LEFT JOIN daily_reports d ON d.employee_id = s.employee_id AND d.date = s.date
		WHERE s.date = $1
	`

	rows, err := q.Query(ctx, query, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}
	defer rows.Close()

	var snapshot []roster.TodayAttendance
	for rows.Next() {
		var (
			entry               roster.TodayAttendance
			punchIn, punchOut   *time.Time
			inStatus, outStatus *string
		)
		if err := rows.Scan(
			&entry.EmployeeID, &punchIn, &punchOut,
			&inStatus, &outStatus,
			&entry.DailyReportSent, &entry.DailyReportID, &entry.DailyReportContent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan today's attendance: %w", err)
		}

		class := toClassification(inStatus)
		if punchOut != nil {
			class = toClassification(outStatus)
		}
		if class != nil {
			entry.Status = roster.ParseStatus(class.Label())
		}
		if punchIn != nil {
			entry.LoginTime = punchIn.In(r.loc).Format(time.RFC3339)
		}
		if punchOut != nil {
			entry.LogoutTime = punchOut.In(r.loc).Format(time.RFC3339)
		}
		snapshot = append(snapshot, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate today's attendance: %w", err)
	}

	return snapshot, nil
}
