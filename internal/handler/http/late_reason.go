package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LateReasonHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type lateReasonHandlerImpl struct {
	lateReasonService latereason.LateReasonService
}

func NewLateReasonHandler(lateReasonService latereason.LateReasonService) LateReasonHandler {
	return &lateReasonHandlerImpl{
		lateReasonService: lateReasonService,
	}
}

// Submit implements LateReasonHandler.
func (h *lateReasonHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req latereason.SubmitReasonRequest
	if !decodeJSON(w, r, "SubmitLateReason", &req) {
		return
	}
	req.EmployeeID = claims.EmployeeID

	result, err := h.lateReasonService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Late login reason submitted", result)
}

// ListMine implements LateReasonHandler.
func (h *lateReasonHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	h.list(w, r, latereason.ReasonFilter{
		EmployeeID: claims.EmployeeID,
		State:      r.URL.Query().Get("state"),
	})
}

// ListAll implements LateReasonHandler.
func (h *lateReasonHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, latereason.ReasonFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		IsAdmin:    true,
		State:      r.URL.Query().Get("state"),
	})
}

func (h *lateReasonHandlerImpl) list(w http.ResponseWriter, r *http.Request, filter latereason.ReasonFilter) {
	reasons, err := h.lateReasonService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, reasons, &response.Meta{Total: len(reasons)})
}

// Decide implements LateReasonHandler.
func (h *lateReasonHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	var req latereason.DecideRequest
	if !decodeJSON(w, r, "DecideLateReason", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.DecidedBy = claims.EmployeeID

	result, err := h.lateReasonService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", result)
}
