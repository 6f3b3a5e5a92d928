package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
)

// Thresholds are wall-clock offsets from local midnight.
const (
	DefaultLateThreshold  = 9*time.Hour + 30*time.Minute
	DefaultEarlyThreshold = 18*time.Hour + 30*time.Minute
)

// TimestampLayout is the layout used for timestamps in API responses.
const TimestampLayout = "2006-01-02 15:04:05"

// Policy classifies punches against fixed daily thresholds in one location.
type Policy struct {
	loc            *time.Location
	lateThreshold  time.Duration
	earlyThreshold time.Duration
}

func NewPolicy(loc *time.Location) Policy {
	if loc == nil {
		loc = time.Local
	}
	return Policy{
		loc:            loc,
		lateThreshold:  DefaultLateThreshold,
		earlyThreshold: DefaultEarlyThreshold,
	}
}

func (p Policy) Location() *time.Location {
	if p.loc == nil {
		return time.Local
	}
	return p.loc
}

// Today returns the calendar day of now in the policy location.
func (p Policy) Today(now time.Time) time.Time {
	return attendance.CalendarDay(now.In(p.Location()))
}

func (p Policy) sinceMidnight(t time.Time) time.Duration {
	lt := t.In(p.Location())
	return time.Duration(lt.Hour())*time.Hour +
		time.Duration(lt.Minute())*time.Minute +
		time.Duration(lt.Second())*time.Second +
		time.Duration(lt.Nanosecond())
}

// ClassifyPunchIn is Late at or after 09:30:00 local time.
func (p Policy) ClassifyPunchIn(t time.Time) attendance.Classification {
	if p.sinceMidnight(t) >= p.lateThreshold {
		return attendance.Late
	}
	return attendance.OnTime
}

// ClassifyPunchOut is LeftEarly strictly before 18:30:00 local time.
func (p Policy) ClassifyPunchOut(t time.Time) attendance.Classification {
	if p.sinceMidnight(t) < p.earlyThreshold {
		return attendance.LeftEarly
	}
	return attendance.FullDay
}

func (p Policy) Classify(kind attendance.PunchKind, t time.Time) attendance.Classification {
	if kind == attendance.PunchOut {
		return p.ClassifyPunchOut(t)
	}
	return p.ClassifyPunchIn(t)
}

// RequiresReason reports whether a punch with classification c must carry a reason.
func RequiresReason(c attendance.Classification) bool {
	return c == attendance.Late || c == attendance.LeftEarly
}

// ComputeWorkedDuration returns the truncated duration between punchIn and
// punchOut, or the invalid sentinel when either is absent or out of order.
func ComputeWorkedDuration(punchIn, punchOut *time.Time) attendance.Duration {
	if punchIn == nil || punchOut == nil || punchIn.IsZero() || punchOut.IsZero() {
		return attendance.Duration{}
	}
	elapsed := punchOut.Sub(*punchIn)
	if elapsed < 0 {
		return attendance.Duration{}
	}
	return attendance.Duration{Valid: true, Elapsed: elapsed.Truncate(time.Second)}
}

// ParseTimestamp parses s leniently in the policy location.
// See attendance.ParseTimestamp.
func (p Policy) ParseTimestamp(s string) (*time.Time, bool) {
	return attendance.ParseTimestamp(s, p.Location())
}

// ParseRequiredTimestamp is ParseTimestamp for caller-supplied input, where a bad
// value is a validation error rather than a sentinel.
func (p Policy) ParseRequiredTimestamp(s string) (time.Time, error) {
	t, ok := p.ParseTimestamp(s)
	if !ok {
		return time.Time{}, attendance.ErrMalformedTimestamp
	}
	return *t, nil
}

// Format renders t in the policy location using TimestampLayout.
func (p Policy) Format(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(p.Location()).Format(TimestampLayout)
	return &s
}
