package roster

import "strings"

// Status is the coarse presence classification shown on the roster.
type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusOnline    Status = "Online"
	StatusOffline   Status = "Offline"
	StatusLeave     Status = "Leave"
	StatusLate      Status = "Late"
	StatusOnTime    Status = "On Time"
	StatusFullDay   Status = "Full Day"
	StatusLeftEarly Status = "Left Early"
)

// ParseStatus matches s against the known statuses case-insensitively.
// Unknown values are kept as given.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	for _, known := range AllStatuses {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return Status(s)
}

// StatusAll is the filter value that matches every row.
const StatusAll = "All"

var AllStatuses = []Status{
	StatusActive, StatusInactive, StatusOnline, StatusOffline, StatusLeave,
	StatusLate, StatusOnTime, StatusFullDay, StatusLeftEarly,
}

// Sentinels used when a field cannot be resolved.
const (
	NotAvailable    = "N/A"
	NoEmail         = "No email"
	NoTimestamp     = "-"
	UnknownEmployee = "Unknown"
)

// Identity is an employee record as returned by the identity source.
// Any field may be missing; the nested User profile is consulted as a fallback.
type Identity struct {
	ID          string
	FullName    string
	FirstName   string
	LastName    string
	Email       string
	Department  string
	Position    string
	IsActive    *bool
	LastLogin   string
	IsStaff     bool
	IsSuperuser bool
	User        *UserProfile
}

type UserProfile struct {
	FullName    string
	Email       string
	Department  string
	Position    string
	IsActive    *bool
	LastLogin   string
	IsStaff     bool
	IsSuperuser bool
}

// TodayAttendance is one entry of the same-day attendance snapshot.
// Timestamps are kept as received; malformed values degrade to "-" on merge.
type TodayAttendance struct {
	EmployeeID         string
	Status             Status
	LoginTime          string
	LogoutTime         string
	DailyReportSent    bool
	DailyReportID      string
	DailyReportContent string
}

// EmployeeView is the derived roster row. It is recomputed on every build.
type EmployeeView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Department         string `json:"department"`
	Position           string `json:"position"`
	Status             Status `json:"status"`
	LastLogin          string `json:"last_login"`
	LastLogout         string `json:"last_logout"`
	HoursWorked        string `json:"hours_worked"`
	DailyReportSent    bool   `json:"daily_report_sent"`
	DailyReportID      string `json:"daily_report_id,omitempty"`
	DailyReportContent string `json:"daily_report_content"`
	IsStaff            bool   `json:"is_staff"`
	IsSuperuser        bool   `json:"is_superuser"`
}
