package report

import "context"

// ReportService defines the interface for daily work reports
type ReportService interface {
	// Submit records today's report for the calling employee
	Submit(ctx context.Context, req SubmitReportRequest) (ReportResponse, error)

	// ListReplies returns admin replies on a report the caller may see
	ListReplies(ctx context.Context, req ListRepliesRequest) ([]ReplyResponse, error)

	// Reply adds an admin reply to a report
	Reply(ctx context.Context, req ReplyRequest) (ReplyResponse, error)
}
