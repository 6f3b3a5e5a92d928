package roster

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
)

// MergeEmployeeWithAttendance builds one roster row from an identity record and
// its entry in today's snapshot, if any. Missing or malformed fields resolve to
// sentinels; it never fails.
func MergeEmployeeWithAttendance(policy attendanceService.Policy, identity roster.Identity, att *roster.TodayAttendance) roster.EmployeeView {
	user := identity.User
	if user == nil {
		user = &roster.UserProfile{}
	}
	if att == nil {
		att = &roster.TodayAttendance{}
	}

	email := firstNonEmpty(identity.Email, user.Email)

	name := firstNonEmpty(
		identity.FullName,
		user.FullName,
		strings.TrimSpace(strings.TrimSpace(identity.FirstName)+" "+strings.TrimSpace(identity.LastName)),
		email,
	)
	if name == "" {
		name = roster.UnknownEmployee
	}
	if email == "" {
		email = roster.NoEmail
	}

	status := att.Status
	if strings.TrimSpace(string(status)) == "" {
		status = roster.StatusInactive
		if isTrue(identity.IsActive) || isTrue(user.IsActive) {
			status = roster.StatusActive
		}
	}

	lastLogin := firstTimestamp(policy, att.LoginTime, identity.LastLogin, user.LastLogin)
	lastLogout := firstTimestamp(policy, att.LogoutTime)

	return roster.EmployeeView{
		ID:                 identity.ID,
		Name:               name,
		Email:              email,
		Department:         orNotAvailable(identity.Department, user.Department),
		Position:           orNotAvailable(identity.Position, user.Position),
		Status:             status,
		LastLogin:          formatTimestamp(policy, lastLogin),
		LastLogout:         formatTimestamp(policy, lastLogout),
		HoursWorked:        attendanceService.ComputeWorkedDuration(lastLogin, lastLogout).Roster(),
		DailyReportSent:    att.DailyReportSent,
		DailyReportID:      att.DailyReportID,
		DailyReportContent: att.DailyReportContent,
		IsStaff:            identity.IsStaff || user.IsStaff,
		IsSuperuser:        identity.IsSuperuser || user.IsSuperuser,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func orNotAvailable(values ...string) string {
	if v := firstNonEmpty(values...); v != "" {
		return v
	}
	return roster.NotAvailable
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

// firstTimestamp returns the first candidate that parses.
func firstTimestamp(policy attendanceService.Policy, candidates ...string) *time.Time {
	for _, c := range candidates {
		if t, ok := policy.ParseTimestamp(c); ok {
			return t
		}
	}
	return nil
}

func formatTimestamp(policy attendanceService.Policy, t *time.Time) string {
	if s := policy.Format(t); s != nil {
		return *s
	}
	return roster.NoTimestamp
}

// Filter keeps rows whose name or email contains searchTerm and whose status
// equals statusFilter, both case-insensitively. An empty term and the "All"
// status match every row. The input slice is not modified.
func Filter(rows []roster.EmployeeView, searchTerm, statusFilter string) []roster.EmployeeView {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	status := strings.TrimSpace(statusFilter)

	out := make([]roster.EmployeeView, 0, len(rows))
	for _, row := range rows {
		if term != "" &&
			!strings.Contains(strings.ToLower(row.Name), term) &&
			!strings.Contains(strings.ToLower(row.Email), term) {
			continue
		}
		if status != "" && !strings.EqualFold(status, roster.StatusAll) && !strings.EqualFold(status, string(row.Status)) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Summary counts rows per status. Every known status is present in the result.
func Summary(rows []roster.EmployeeView) roster.SummaryResponse {
	byStatus := make(map[roster.Status]int, len(roster.AllStatuses))
	for _, s := range roster.AllStatuses {
		byStatus[s] = 0
	}
	for _, row := range rows {
		byStatus[row.Status]++
	}
	return roster.SummaryResponse{
		Total:    len(rows),
		ByStatus: byStatus,
	}
}
