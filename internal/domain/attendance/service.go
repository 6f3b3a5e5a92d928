package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the punch-in/punch-out ledger
type AttendanceService interface {
	// OpenSession punches the employee in at now
	OpenSession(ctx context.Context, employeeID string, now time.Time, reason string) (Session, error)

	// CloseSession punches the employee out at now
	CloseSession(ctx context.Context, employeeID string, now time.Time, reason string) (Session, error)

	// AttemptPunch classifies the punch and either records it or asks for a reason
	AttemptPunch(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// CompletePunch records a punch that was held back for a reason
	CompletePunch(ctx context.Context, req CompletePunchRequest) (PunchResponse, error)

	// TodayStatus reports today's session state and running clock for the employee
	TodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// History lists the sessions recorded on one day
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}
