package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/report"
)

// ReportGateway implements report.ReportRepository over the upstream API.
type ReportGateway struct {
	*Client
}

func NewReportGateway(c *Client) *ReportGateway {
	return &ReportGateway{Client: c}
}

type reportJSON struct {
	ID           flexID  `json:"id"`
	Employee     flexID  `json:"employee"`
	EmployeeName *string `json:"employee_name"`
	Date         string  `json:"date"`
	WorkDetails  string  `json:"work_details"`
	Status       string  `json:"status"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

type replyJSON struct {
	ID        flexID  `json:"id"`
	Report    flexID  `json:"report"`
	Admin     flexID  `json:"admin"`
	AdminName *string `json:"admin_name"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"is_read"`
	CreatedAt *string `json:"created_at"`
}

func (g *ReportGateway) toReport(r reportJSON) report.DailyReport {
	out := report.DailyReport{
		ID:           string(r.ID),
		EmployeeID:   string(r.Employee),
		EmployeeName: r.EmployeeName,
		WorkDetails:  r.WorkDetails,
		Status:       report.ReportStatus(r.Status),
	}
	if day, err := time.Parse("2006-01-02", r.Date); err == nil {
		out.Date = day
	}
	if t := g.parseTime(r.CreatedAt); t != nil {
		out.CreatedAt = *t
	}
	if t := g.parseTime(r.UpdatedAt); t != nil {
		out.UpdatedAt = *t
	}
	return out
}

func (g *ReportGateway) toReply(r replyJSON, reportID string) report.Reply {
	out := report.Reply{
		ID:        string(r.ID),
		ReportID:  string(r.Report),
		AdminID:   string(r.Admin),
		AdminName: r.AdminName,
		Message:   r.Message,
		IsRead:    r.IsRead,
	}
	if out.ReportID == "" {
		out.ReportID = reportID
	}
	if t := g.parseTime(r.CreatedAt); t != nil {
		out.CreatedAt = *t
	}
	return out
}

// ExistsForDate implements report.ReportRepository.
func (g *ReportGateway) ExistsForDate(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	date := day.Format("2006-01-02")
	query := url.Values{"employee_id": {employeeID}, "date": {date}}

	var items []reportJSON
	if err := g.do(ctx, "check daily report", http.MethodGet, "/api/daily-work-reports/", query, nil, &items); err != nil {
		return false, err
	}
	for _, item := range items {
		if string(item.Employee) == employeeID && item.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// Create implements report.ReportRepository.
func (g *ReportGateway) Create(ctx context.Context, r report.DailyReport) (report.DailyReport, error) {
	body := map[string]string{
		"date":         r.Date.Format("2006-01-02"),
		"work_details": r.WorkDetails,
	}

	var out reportJSON
	if err := g.do(ctx, "submit daily report", http.MethodPost, "/api/daily-work-reports/", nil, body, &out); err != nil {
		return report.DailyReport{}, err
	}
	created := g.toReport(out)
	if created.EmployeeID == "" {
		created.EmployeeID = r.EmployeeID
	}
	return created, nil
}

// GetByID implements report.ReportRepository.
func (g *ReportGateway) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	var out reportJSON
	if err := g.do(ctx, "get daily report", http.MethodGet, "/api/daily-work-reports/"+url.PathEscape(id)+"/", nil, nil, &out); err != nil {
		if statusCode(err) == http.StatusNotFound {
			return report.DailyReport{}, report.ErrReportNotFound
		}
		return report.DailyReport{}, err
	}
	return g.toReport(out), nil
}

// ListReplies implements report.ReportRepository.
func (g *ReportGateway) ListReplies(ctx context.Context, reportID string) ([]report.Reply, error) {
	var items []replyJSON
	if err := g.do(ctx, "list report replies", http.MethodGet, "/api/employee/reports/"+url.PathEscape(reportID)+"/replies/", nil, nil, &items); err != nil {
		if statusCode(err) == http.StatusNotFound {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	replies := make([]report.Reply, 0, len(items))
	for _, item := range items {
		replies = append(replies, g.toReply(item, reportID))
	}
	return replies, nil
}

// CreateReply implements report.ReportRepository.
func (g *ReportGateway) CreateReply(ctx context.Context, reply report.Reply) (report.Reply, error) {
	body := map[string]string{"message": reply.Message}

	var out replyJSON
	if err := g.do(ctx, "reply to daily report", http.MethodPost, "/api/admin/reports/"+url.PathEscape(reply.ReportID)+"/reply/", nil, body, &out); err != nil {
		if statusCode(err) == http.StatusNotFound {
			return report.Reply{}, report.ErrReportNotFound
		}
		return report.Reply{}, err
	}
	created := g.toReply(out, reply.ReportID)
	if created.AdminID == "" {
		created.AdminID = reply.AdminID
	}
	return created, nil
}
