package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/report"
	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	policy     attendanceService.Policy
	clock      attendanceService.Clock
}

func NewReportService(reportRepo report.ReportRepository, policy attendanceService.Policy, clock attendanceService.Clock) report.ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		policy:     policy,
		clock:      clock,
	}
}

// Submit implements report.ReportService.
func (s *ReportServiceImpl) Submit(ctx context.Context, req report.SubmitReportRequest) (report.ReportResponse, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	day := s.policy.Today(s.clock())
	if req.Date != "" {
		parsed, _ := time.Parse("2006-01-02", req.Date)
		day = parsed
	}

	// One report per employee per day
	exists, err := s.reportRepo.ExistsForDate(ctx, req.EmployeeID, day)
	if err != nil {
		slog.Error("Failed to check existing daily report", "employee_id", req.EmployeeID, "error", err)
		return report.ReportResponse{}, fmt.Errorf("failed to check existing report: %w", err)
	}
	if exists {
		return report.ReportResponse{}, report.ErrReportExists
	}

	created, err := s.reportRepo.Create(ctx, report.DailyReport{
		EmployeeID:  req.EmployeeID,
		Date:        day,
		WorkDetails: strings.TrimSpace(req.WorkDetails),
		Status:      report.ReportStatusPending,
	})
	if err != nil {
		slog.Error("Failed to submit daily report", "employee_id", req.EmployeeID, "error", err)
		return report.ReportResponse{}, fmt.Errorf("failed to submit daily report: %w", err)
	}

	return s.mapReportToResponse(created), nil
}

// ListReplies implements report.ReportService.
// Employees only see replies on their own reports; others look like a missing report.
func (s *ReportServiceImpl) ListReplies(ctx context.Context, req report.ListRepliesRequest) ([]report.ReplyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r, err := s.reportRepo.GetByID(ctx, req.ReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}
	if !req.IsAdmin && r.EmployeeID != req.EmployeeID {
		return nil, report.ErrReportNotFound
	}

	replies, err := s.reportRepo.ListReplies(ctx, req.ReportID)
	if err != nil {
		slog.Error("Failed to fetch report replies", "report_id", req.ReportID, "error", err)
		return nil, fmt.Errorf("failed to fetch report replies: %w", err)
	}

	responses := make([]report.ReplyResponse, 0, len(replies))
	for _, reply := range replies {
		responses = append(responses, s.mapReplyToResponse(reply))
	}
	return responses, nil
}

// Reply implements report.ReportService.
func (s *ReportServiceImpl) Reply(ctx context.Context, req report.ReplyRequest) (report.ReplyResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReplyResponse{}, err
	}

	if _, err := s.reportRepo.GetByID(ctx, req.ReportID); err != nil {
		return report.ReplyResponse{}, fmt.Errorf("failed to get daily report: %w", err)
	}

	created, err := s.reportRepo.CreateReply(ctx, report.Reply{
		ReportID: req.ReportID,
		AdminID:  req.AdminID,
		Message:  strings.TrimSpace(req.Message),
	})
	if err != nil {
		slog.Error("Failed to reply to daily report", "report_id", req.ReportID, "error", err)
		return report.ReplyResponse{}, fmt.Errorf("failed to reply to daily report: %w", err)
	}

	return s.mapReplyToResponse(created), nil
}

func (s *ReportServiceImpl) mapReportToResponse(r report.DailyReport) report.ReportResponse {
	var employeeName string
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	return report.ReportResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: employeeName,
		Date:         r.Date.Format("2006-01-02"),
		WorkDetails:  r.WorkDetails,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.In(s.policy.Location()).Format(time.RFC3339),
	}
}

func (s *ReportServiceImpl) mapReplyToResponse(r report.Reply) report.ReplyResponse {
	var adminName string
	if r.AdminName != nil {
		adminName = *r.AdminName
	}
	return report.ReplyResponse{
		ID:        r.ID,
		ReportID:  r.ReportID,
		AdminID:   r.AdminID,
		AdminName: adminName,
		Message:   r.Message,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt.In(s.policy.Location()).Format(time.RFC3339),
	}
}
