package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Punch(w http.ResponseWriter, r *http.Request)
	CompletePunch(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	status, err := h.attendanceService.TodayStatus(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// Punch implements AttendanceHandler.
// A Late or LeftEarly punch without a reason is answered with 422 REASON_REQUIRED
// and nothing is recorded; the client resubmits through CompletePunch.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req attendance.PunchRequest
	if !decodeJSON(w, r, "Punch", &req) {
		return
	}
	req.EmployeeID = claims.EmployeeID

	result, err := h.attendanceService.AttemptPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Status == attendance.OutcomeReasonRequired {
		response.HandleError(w, &attendance.ReasonRequiredError{Classification: result.Classification})
		return
	}

	response.Created(w, punchMessage(result.Classification), result)
}

// CompletePunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) CompletePunch(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req attendance.CompletePunchRequest
	if !decodeJSON(w, r, "CompletePunch", &req) {
		return
	}
	req.EmployeeID = claims.EmployeeID

	result, err := h.attendanceService.CompletePunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, punchMessage(result.Classification), result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	history, err := h.attendanceService.History(r.Context(), attendance.HistoryFilter{
		Date:       query.Get("date"),
		EmployeeID: query.Get("employee_id"),
		Search:     query.Get("search"),
		Status:     query.Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, history, &response.Meta{Total: history.Total})
}

func punchMessage(c attendance.Classification) string {
	if c.Kind() == attendance.PunchOut {
		return "Punch out successful"
	}
	return "Punch in successful"
}
