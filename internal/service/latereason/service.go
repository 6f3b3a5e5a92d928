package latereason

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
)

type LateReasonServiceImpl struct {
	latereason.LateReasonRepository
	policy attendanceService.Policy
	clock  attendanceService.Clock
}

func NewLateReasonService(repo latereason.LateReasonRepository, policy attendanceService.Policy, clock attendanceService.Clock) latereason.LateReasonService {
	if clock == nil {
		clock = time.Now
	}
	return &LateReasonServiceImpl{
		LateReasonRepository: repo,
		policy:               policy,
		clock:                clock,
	}
}

// Label renders a reason with its approval state, e.g. "Traffic (Pending)".
func Label(r latereason.LateLoginReason) string {
	return fmt.Sprintf("%s (%s)", r.ReasonText, r.ApprovalState.Label())
}

// Submit implements latereason.LateReasonService.
func (s *LateReasonServiceImpl) Submit(ctx context.Context, req latereason.SubmitReasonRequest) (latereason.ReasonResponse, error) {
	if err := req.Validate(); err != nil {
		return latereason.ReasonResponse{}, err
	}

	now := s.clock()
	reason := latereason.LateLoginReason{
		EmployeeID:    req.EmployeeID,
		ReasonText:    strings.TrimSpace(req.Reason),
		LoginTime:     &now,
		SubmittedAt:   now,
		ApprovalState: latereason.StatePending,
	}
	if req.ExpectedTime != nil && *req.ExpectedTime != "" {
		reason.ExpectedTime = req.ExpectedTime
	}

	created, err := s.LateReasonRepository.Create(ctx, reason)
	if err != nil {
		slog.Error("Failed to submit late login reason", "employee_id", req.EmployeeID, "error", err)
		return latereason.ReasonResponse{}, fmt.Errorf("failed to submit late login reason: %w", err)
	}

	return s.mapReasonToResponse(created), nil
}

// List implements latereason.LateReasonService.
func (s *LateReasonServiceImpl) List(ctx context.Context, filter latereason.ReasonFilter) ([]latereason.ReasonResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employeeID := filter.EmployeeID
	if filter.IsAdmin {
		employeeID = ""
	}
	var state *latereason.ApprovalState
	if filter.State != "" {
		st := latereason.ApprovalState(filter.State)
		state = &st
	}

	reasons, err := s.LateReasonRepository.List(ctx, employeeID, state)
	if err != nil {
		slog.Error("Failed to list late login reasons", "employee_id", employeeID, "error", err)
		return nil, fmt.Errorf("failed to list late login reasons: %w", err)
	}

	responses := make([]latereason.ReasonResponse, 0, len(reasons))
	for _, r := range reasons {
		responses = append(responses, s.mapReasonToResponse(r))
	}
	return responses, nil
}

// Decide implements latereason.LateReasonService.
func (s *LateReasonServiceImpl) Decide(ctx context.Context, req latereason.DecideRequest) (latereason.ReasonResponse, error) {
	if err := req.Validate(); err != nil {
		return latereason.ReasonResponse{}, err
	}

	decided, err := s.LateReasonRepository.SetDecision(ctx, req.ID, *req.Approved, req.DecidedBy)
	if err != nil {
		slog.Error("Failed to record late login decision", "reason_id", req.ID, "approved", *req.Approved, "error", err)
		return latereason.ReasonResponse{}, fmt.Errorf("failed to record decision: %w", err)
	}

	return s.mapReasonToResponse(decided), nil
}

func (s *LateReasonServiceImpl) mapReasonToResponse(r latereason.LateLoginReason) latereason.ReasonResponse {
	var employeeName string
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}

	if !r.ApprovalState.IsValid() {
		r.ApprovalState = latereason.StatePending
	}
	state := r.ApprovalState

	return latereason.ReasonResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: employeeName,
		Reason:       r.ReasonText,
		LoginTime:    s.policy.Format(r.LoginTime),
		ExpectedTime: r.ExpectedTime,
		SubmittedAt:  r.SubmittedAt.In(s.policy.Location()).Format(attendanceService.TimestampLayout),
		IsApproved:   state.Nullable(),
		State:        string(state),
		Label:        Label(r),
		DecidedBy:    r.DecidedBy,
		DecidedAt:    s.policy.Format(r.DecidedAt),
	}
}
