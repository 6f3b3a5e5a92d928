package attendance

import (
	"fmt"
	"time"
)

// Classification is the policy verdict for a single punch event.
type Classification string

const (
	OnTime    Classification = "on_time"
	Late      Classification = "late"
	FullDay   Classification = "full_day"
	LeftEarly Classification = "left_early"
)

// Label returns the display status used by the roster.
func (c Classification) Label() string {
	switch c {
	case OnTime:
		return "On Time"
	case Late:
		return "Late"
	case FullDay:
		return "Full Day"
	case LeftEarly:
		return "Left Early"
	}
	return ""
}

func (c Classification) Kind() PunchKind {
	switch c {
	case FullDay, LeftEarly:
		return PunchOut
	}
	return PunchIn
}

func (c Classification) IsValid() bool {
	switch c {
	case OnTime, Late, FullDay, LeftEarly:
		return true
	}
	return false
}

type PunchKind string

const (
	PunchIn  PunchKind = "in"
	PunchOut PunchKind = "out"
)

func (k PunchKind) IsValid() bool {
	return k == PunchIn || k == PunchOut
}

// SessionState is the per employee-day state machine: NoSession -> Open -> Closed.
type SessionState string

const (
	StateNoSession SessionState = "no_session"
	StateOpen      SessionState = "open"
	StateClosed    SessionState = "closed"
)

// Session is one employee's attendance for a single calendar day.
type Session struct {
	ID            string
	EmployeeID    string
	Date          time.Time // calendar day, see CalendarDay
	PunchInAt     *time.Time
	PunchOutAt    *time.Time
	LateReason    *string
	EarlyReason   *string
	PunchInClass  *Classification
	PunchOutClass *Classification
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// CalendarDay maps t to midnight UTC of its wall-clock date so days from
// different sources compare equal.
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// State reports the session state for day. A session recorded on another day
// is NoSession for day, even if it was never closed.
func (s *Session) State(day time.Time) SessionState {
	if s == nil || !CalendarDay(s.Date).Equal(CalendarDay(day)) {
		return StateNoSession
	}
	if s.PunchOutAt != nil {
		return StateClosed
	}
	if s.PunchInAt != nil {
		return StateOpen
	}
	return StateNoSession
}

// Validate checks the ordering invariants of the punch timestamps.
func (s *Session) Validate() error {
	if s.PunchOutAt == nil {
		return nil
	}
	if s.PunchInAt == nil {
		return fmt.Errorf("%w: punch-out recorded without punch-in", ErrInvalidSession)
	}
	if s.PunchOutAt.Before(*s.PunchInAt) {
		return fmt.Errorf("%w: punch-out is before punch-in", ErrInvalidSession)
	}
	return nil
}

// Duration is a worked duration; Valid is false for the "not available" sentinel.
type Duration struct {
	Valid   bool
	Elapsed time.Duration
}

func (d Duration) Hours() int64 {
	return int64(d.Elapsed / time.Hour)
}

func (d Duration) Minutes() int64 {
	return int64(d.Elapsed/time.Minute) % 60
}

func (d Duration) Seconds() int64 {
	return int64(d.Elapsed/time.Second) % 60
}

// Roster formats the duration as "Nh Mm" ("Mm" under an hour), or "-".
func (d Duration) Roster() string {
	if !d.Valid {
		return "-"
	}
	if h := d.Hours(); h > 0 {
		return fmt.Sprintf("%dh %dm", h, d.Minutes())
	}
	return fmt.Sprintf("%dm", d.Minutes())
}

// Clock formats the duration as a running clock "HH:MM:SS", or "00:00:00".
func (d Duration) Clock() string {
	if !d.Valid {
		return "00:00:00"
	}
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours(), d.Minutes(), d.Seconds())
}

type OutcomeStatus string

const (
	OutcomeAccepted       OutcomeStatus = "accepted"
	OutcomeReasonRequired OutcomeStatus = "reason_required"
)

// PunchOutcome is the result of the first phase of a punch.
type PunchOutcome struct {
	Status         OutcomeStatus
	Classification Classification
	Session        *Session
}

func Accepted(s Session, c Classification) PunchOutcome {
	return PunchOutcome{Status: OutcomeAccepted, Classification: c, Session: &s}
}

func ReasonRequired(c Classification) PunchOutcome {
	return PunchOutcome{Status: OutcomeReasonRequired, Classification: c}
}
