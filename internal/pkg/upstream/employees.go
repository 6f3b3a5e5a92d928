package upstream

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
)

type userProfileJSON struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Department  string  `json:"department"`
	Position    string  `json:"position"`
	IsActive    *bool   `json:"is_active"`
	LastLogin   *string `json:"last_login"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
}

type employeeJSON struct {
	ID          flexID           `json:"id"`
	FullName    string           `json:"full_name"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Department  string           `json:"department"`
	Position    string           `json:"position"`
	IsActive    *bool            `json:"is_active"`
	LastLogin   *string          `json:"last_login"`
	IsStaff     bool             `json:"is_staff"`
	IsSuperuser bool             `json:"is_superuser"`
	User        *userProfileJSON `json:"user"`
}

func (e employeeJSON) toIdentity() roster.Identity {
	identity := roster.Identity{
		ID:          string(e.ID),
		FullName:    e.FullName,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Department:  e.Department,
		Position:    e.Position,
		IsActive:    e.IsActive,
		LastLogin:   deref(e.LastLogin),
		IsStaff:     e.IsStaff,
		IsSuperuser: e.IsSuperuser,
	}
	if e.User != nil {
		identity.User = &roster.UserProfile{
			FullName:    e.User.FullName,
			Email:       e.User.Email,
			Department:  e.User.Department,
			Position:    e.User.Position,
			IsActive:    e.User.IsActive,
			LastLogin:   deref(e.User.LastLogin),
			IsStaff:     e.User.IsStaff,
			IsSuperuser: e.User.IsSuperuser,
		}
	}
	return identity
}

// RosterGateway implements the roster identity and snapshot repositories.
type RosterGateway struct {
	*Client
}

func NewRosterGateway(c *Client) *RosterGateway {
	return &RosterGateway{Client: c}
}

type todayJSON struct {
	EmployeeID         flexID  `json:"employee_id"`
	Status             string  `json:"status"`
	LoginTime          *string `json:"login_time"`
	LogoutTime         *string `json:"logout_time"`
	DailyReportSent    bool    `json:"daily_report_sent"`
	DailyReportID      flexID  `json:"daily_report_id"`
	DailyReportContent string  `json:"daily_report_content"`
}

// ListEmployees implements roster.IdentityRepository.
func (g *RosterGateway) ListEmployees(ctx context.Context) ([]roster.Identity, error) {
	const op = "list employees"

	var raw json.RawMessage
	if err := g.do(ctx, op, http.MethodGet, "/api/employees/", nil, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[employeeJSON](raw)
	if err != nil {
		return nil, apperror.Transport(op, err)
	}

	identities := make([]roster.Identity, 0, len(items))
	for _, item := range items {
		identities = append(identities, item.toIdentity())
	}
	return identities, nil
}

// ListToday implements roster.AttendanceSnapshotRepository.
func (g *RosterGateway) ListToday(ctx context.Context) ([]roster.TodayAttendance, error) {
	const op = "list today's attendance"

	var raw json.RawMessage
	if err := g.do(ctx, op, http.MethodGet, "/api/employees/today/", nil, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[todayJSON](raw)
	if err != nil {
		return nil, apperror.Transport(op, err)
	}

	snapshot := make([]roster.TodayAttendance, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, roster.TodayAttendance{
			EmployeeID:         string(item.EmployeeID),
			Status:             roster.ParseStatus(item.Status),
			LoginTime:          deref(item.LoginTime),
			LogoutTime:         deref(item.LogoutTime),
			DailyReportSent:    item.DailyReportSent,
			DailyReportID:      string(item.DailyReportID),
			DailyReportContent: item.DailyReportContent,
		})
	}
	return snapshot, nil
}
