package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
)

type sessionJSON struct {
	ID             flexID  `json:"id"`
	EmployeeID     flexID  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name"`
	Date           string  `json:"date"`
	PunchIn        *string `json:"punch_in"`
	PunchOut       *string `json:"punch_out"`
	LateReason     *string `json:"late_reason"`
	EarlyReason    *string `json:"early_reason"`
	PunchInStatus  *string `json:"punch_in_status"`
	PunchOutStatus *string `json:"punch_out_status"`
}

type punchJSON struct {
	Timestamp      string                    `json:"timestamp"`
	Reason         *string                   `json:"reason,omitempty"`
	Classification attendance.Classification `json:"classification"`
}

// SessionGateway implements attendance.SessionRepository over the upstream API.
type SessionGateway struct {
	*Client
}

func NewSessionGateway(c *Client) *SessionGateway {
	return &SessionGateway{Client: c}
}

func classification(s *string) *attendance.Classification {
	if s == nil {
		return nil
	}
	c := attendance.Classification(*s)
	if !c.IsValid() {
		return nil
	}
	return &c
}

func (c *Client) toSession(s sessionJSON) attendance.Session {
	session := attendance.Session{
		ID:            string(s.ID),
		EmployeeID:    string(s.EmployeeID),
		EmployeeName:  s.EmployeeName,
		PunchInAt:     c.parseTime(s.PunchIn),
		PunchOutAt:    c.parseTime(s.PunchOut),
		LateReason:    s.LateReason,
		EarlyReason:   s.EarlyReason,
		PunchInClass:  classification(s.PunchInStatus),
		PunchOutClass: classification(s.PunchOutStatus),
	}
	if day, err := time.Parse("2006-01-02", s.Date); err == nil {
		session.Date = day
	} else if session.PunchInAt != nil {
		session.Date = attendance.CalendarDay(session.PunchInAt.In(c.loc))
	}
	return session
}

func (c *Client) listSessions(ctx context.Context, op string, query url.Values) ([]attendance.Session, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "/api/hr/attendance/", query, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[sessionJSON](raw)
	if err != nil {
		return nil, apperror.Transport(op, err)
	}
	sessions := make([]attendance.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, c.toSession(item))
	}
	return sessions, nil
}

// GetByEmployeeAndDate implements attendance.SessionRepository.
func (g *SessionGateway) GetByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*attendance.Session, error) {
	date := day.Format("2006-01-02")
	sessions, err := g.listSessions(ctx, "get attendance session", url.Values{
		"employee_id": {employeeID},
		"start_date":  {date},
		"end_date":    {date},
	})
	if err != nil {
		return nil, err
	}
	// The listing is already filtered by employee; rows may omit employee_id.
	for i := range sessions {
		switch sessions[i].EmployeeID {
		case "":
			sessions[i].EmployeeID = employeeID
		case employeeID:
		default:
			continue
		}
		if !sessions[i].Date.IsZero() && !sessions[i].Date.Equal(day) {
			continue
		}
		return &sessions[i], nil
	}
	return nil, nil
}

// ListForDate implements attendance.SessionRepository.
func (g *SessionGateway) ListForDate(ctx context.Context, day time.Time) ([]attendance.Session, error) {
	date := day.Format("2006-01-02")
	return g.listSessions(ctx, "list attendance sessions", url.Values{
		"start_date": {date},
		"end_date":   {date},
	})
}

// Create implements attendance.SessionRepository by submitting a punch-in.
func (g *SessionGateway) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	body := punchJSON{
		Timestamp: s.PunchInAt.Format(time.RFC3339),
		Reason:    s.LateReason,
	}
	if s.PunchInClass != nil {
		body.Classification = *s.PunchInClass
	}

	var out sessionJSON
	if err := g.do(ctx, "punch in", http.MethodPost, "/api/attendance/punch-in/"+url.PathEscape(s.EmployeeID)+"/", nil, body, &out); err != nil {
		return attendance.Session{}, err
	}
	return g.toSession(out), nil
}

// Close implements attendance.SessionRepository by submitting a punch-out.
func (g *SessionGateway) Close(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	body := punchJSON{
		Timestamp: s.PunchOutAt.Format(time.RFC3339),
		Reason:    s.EarlyReason,
	}
	if s.PunchOutClass != nil {
		body.Classification = *s.PunchOutClass
	}

	var out sessionJSON
	if err := g.do(ctx, "punch out", http.MethodPost, "/api/attendance/punch-out/"+url.PathEscape(s.EmployeeID)+"/", nil, body, &out); err != nil {
		return attendance.Session{}, err
	}
	return g.toSession(out), nil
}
