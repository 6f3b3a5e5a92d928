package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/report"
	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListReplies(w http.ResponseWriter, r *http.Request)
	Reply(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Submit implements ReportHandler.
func (h *reportHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req report.SubmitReportRequest
	if !decodeJSON(w, r, "SubmitReport", &req) {
		return
	}
	req.EmployeeID = claims.EmployeeID

	result, err := h.reportService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Daily report submitted", result)
}

// ListReplies implements ReportHandler.
func (h *reportHandlerImpl) ListReplies(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	replies, err := h.reportService.ListReplies(r.Context(), report.ListRepliesRequest{
		ReportID:   chi.URLParam(r, "id"),
		EmployeeID: claims.EmployeeID,
		IsAdmin:    claims.IsAdmin,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, replies, &response.Meta{Total: len(replies)})
}

// Reply implements ReportHandler.
func (h *reportHandlerImpl) Reply(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req report.ReplyRequest
	if !decodeJSON(w, r, "ReplyReport", &req) {
		return
	}
	req.ReportID = chi.URLParam(r, "id")
	req.AdminID = claims.EmployeeID

	result, err := h.reportService.Reply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reply sent", result)
}
