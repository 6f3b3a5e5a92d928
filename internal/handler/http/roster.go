package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
)

type RosterHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type rosterHandlerImpl struct {
	rosterService roster.RosterService
}

func NewRosterHandler(rosterService roster.RosterService) RosterHandler {
	return &rosterHandlerImpl{
		rosterService: rosterService,
	}
}

// List implements RosterHandler.
// A stale or partial roster is still a 200; the warning travels in the body.
func (h *rosterHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := roster.RosterFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	result, err := h.rosterService.GetRoster(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Warning != "" {
		response.SuccessWithMessage(w, result.Warning, result)
		return
	}
	response.Success(w, result)
}

// Summary implements RosterHandler.
func (h *rosterHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.rosterService.GetSummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
