package attendance

import (
	"context"
	"time"
)

// SessionRepository is the system of record for attendance sessions.
// Implementations live in repository/postgresql and pkg/upstream.
type SessionRepository interface {
	// GetByEmployeeAndDate returns the employee's session for day, or nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*Session, error)

	// Create persists a newly opened session
	Create(ctx context.Context, session Session) (Session, error)

	// Close records the punch-out of an open session
	Close(ctx context.Context, session Session) (Session, error)

	// ListForDate returns every session recorded on day
	ListForDate(ctx context.Context, day time.Time) ([]Session, error)
}
