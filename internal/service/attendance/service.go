package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/validator"
)

// Clock returns the current time. Tests replace it with a fixed clock.
type Clock func() time.Time

type AttendanceServiceImpl struct {
	attendance.SessionRepository
	policy Policy
	clock  Clock
}

func (a *AttendanceServiceImpl) now() time.Time {
	if a.clock == nil {
		return time.Now()
	}
	return a.clock()
}

func requireEmployeeID(employeeID string) error {
	if validator.IsEmpty(employeeID) {
		return validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}
	return nil
}

// OpenSession implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) OpenSession(ctx context.Context, employeeID string, now time.Time, reason string) (attendance.Session, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.Session{}, err
	}

	classification := a.policy.ClassifyPunchIn(now)
	reason = strings.TrimSpace(reason)
	if RequiresReason(classification) && reason == "" {
		return attendance.Session{}, &attendance.ReasonRequiredError{Classification: classification}
	}

	day := a.policy.Today(now)
	existing, err := a.SessionRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		slog.Error("Failed to look up today's attendance session", "employee_id", employeeID, "error", err)
		return attendance.Session{}, fmt.Errorf("failed to get today's session: %w", err)
	}

	switch existing.State(day) {
	case attendance.StateOpen:
		return attendance.Session{}, attendance.ErrAlreadyPunchedIn
	case attendance.StateClosed:
		return attendance.Session{}, attendance.ErrDayClosed
	}

	punchIn := now
	session := attendance.Session{
		EmployeeID:   employeeID,
		Date:         day,
		PunchInAt:    &punchIn,
		PunchInClass: &classification,
	}
	if reason != "" {
		session.LateReason = &reason
	}

	created, err := a.SessionRepository.Create(ctx, session)
	if err != nil {
		slog.Error("Failed to open attendance session", "employee_id", employeeID, "error", err)
		return attendance.Session{}, fmt.Errorf("failed to open attendance session: %w", err)
	}

	return created, nil
}

// CloseSession implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CloseSession(ctx context.Context, employeeID string, now time.Time, reason string) (attendance.Session, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.Session{}, err
	}

	classification := a.policy.ClassifyPunchOut(now)
	reason = strings.TrimSpace(reason)
	if RequiresReason(classification) && reason == "" {
		return attendance.Session{}, &attendance.ReasonRequiredError{Classification: classification}
	}

	day := a.policy.Today(now)
	existing, err := a.SessionRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		slog.Error("Failed to look up today's attendance session", "employee_id", employeeID, "error", err)
		return attendance.Session{}, fmt.Errorf("failed to get today's session: %w", err)
	}

	if existing.State(day) != attendance.StateOpen {
		return attendance.Session{}, attendance.ErrNotPunchedIn
	}

	session := *existing
	punchOut := now
	session.PunchOutAt = &punchOut
	session.PunchOutClass = &classification
	if reason != "" {
		session.EarlyReason = &reason
	}
	if err := session.Validate(); err != nil {
		return attendance.Session{}, err
	}

	closed, err := a.SessionRepository.Close(ctx, session)
	if err != nil {
		slog.Error("Failed to close attendance session", "employee_id", employeeID, "session_id", session.ID, "error", err)
		return attendance.Session{}, fmt.Errorf("failed to close attendance session: %w", err)
	}

	return closed, nil
}

func (a *AttendanceServiceImpl) punch(ctx context.Context, kind attendance.PunchKind, employeeID string, now time.Time, reason string) (attendance.Session, error) {
	if kind == attendance.PunchOut {
		return a.CloseSession(ctx, employeeID, now, reason)
	}
	return a.OpenSession(ctx, employeeID, now, reason)
}

// AttemptPunch implements attendance.AttendanceService.
// A punch that needs a reason comes back as ReasonRequired without touching the repository.
func (a *AttendanceServiceImpl) AttemptPunch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	now := a.now()
	classification := a.policy.Classify(req.Kind, now)
	if RequiresReason(classification) && validator.IsEmpty(req.Reason) {
		return a.mapOutcomeToResponse(attendance.ReasonRequired(classification), now), nil
	}

	session, err := a.punch(ctx, req.Kind, req.EmployeeID, now, req.Reason)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	return a.mapOutcomeToResponse(attendance.Accepted(session, classification), now), nil
}

// CompletePunch implements attendance.AttendanceService.
// The classification is recomputed at completion time; the reason is still
// required if the punch remains Late or LeftEarly.
func (a *AttendanceServiceImpl) CompletePunch(ctx context.Context, req attendance.CompletePunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}
	if RequiresReason(req.Classification) && validator.IsEmpty(req.Reason) {
		return attendance.PunchResponse{}, &attendance.ReasonRequiredError{Classification: req.Classification}
	}

	now := a.now()
	kind := req.Classification.Kind()
	session, err := a.punch(ctx, kind, req.EmployeeID, now, req.Reason)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	return a.mapOutcomeToResponse(attendance.Accepted(session, a.policy.Classify(kind, now)), now), nil
}

// TodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	now := a.now()
	day := a.policy.Today(now)
	existing, err := a.SessionRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		slog.Error("Failed to look up today's attendance session", "employee_id", employeeID, "error", err)
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's session: %w", err)
	}

	resp := attendance.TodayStatusResponse{
		EmployeeID: employeeID,
		Date:       day.Format("2006-01-02"),
		State:      existing.State(day),
		Clock:      attendance.Duration{}.Clock(),
	}

	switch resp.State {
	case attendance.StateNoSession:
		resp.CanPunchIn = true
		resp.Message = "You have not punched in today"
	case attendance.StateOpen:
		resp.CanPunchOut = true
		resp.Clock = ComputeWorkedDuration(existing.PunchInAt, &now).Clock()
		resp.Message = "You are punched in"
	case attendance.StateClosed:
		resp.Clock = ComputeWorkedDuration(existing.PunchInAt, existing.PunchOutAt).Clock()
		resp.Message = "Attendance for today is complete"
	}

	if resp.State != attendance.StateNoSession {
		sessionResp := a.mapSessionToResponse(*existing, now)
		resp.Session = &sessionResp
	}

	return resp, nil
}

// History implements attendance.AttendanceService.
// Search matches the employee name or id; status matches either punch label.
func (a *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	now := a.now()
	day := a.policy.Today(now)
	if !validator.IsEmpty(filter.Date) {
		d, _ := validator.IsValidDate(filter.Date)
		day = attendance.CalendarDay(d)
	}

	sessions, err := a.SessionRepository.ListForDate(ctx, day)
	if err != nil {
		slog.Error("Failed to list attendance sessions", "date", day.Format("2006-01-02"), "error", err)
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		pi, pj := sessions[i].PunchInAt, sessions[j].PunchInAt
		switch {
		case pi == nil || pj == nil:
			return pi != nil && pj == nil
		case !pi.Equal(*pj):
			return pi.Before(*pj)
		}
		return sessions[i].EmployeeID < sessions[j].EmployeeID
	})

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.TrimSpace(filter.Status)

	resp := attendance.HistoryResponse{
		Date:     day.Format("2006-01-02"),
		Sessions: make([]attendance.SessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		if filter.EmployeeID != "" && s.EmployeeID != filter.EmployeeID {
			continue
		}
		row := a.mapSessionToResponse(s, now)
		if term != "" &&
			!strings.Contains(strings.ToLower(row.EmployeeName), term) &&
			!strings.Contains(strings.ToLower(row.EmployeeID), term) {
			continue
		}
		if status != "" && !strings.EqualFold(status, "All") && !hasStatus(row, status) {
			continue
		}
		resp.Sessions = append(resp.Sessions, row)
	}
	resp.Total = len(resp.Sessions)

	return resp, nil
}

func hasStatus(row attendance.SessionResponse, status string) bool {
	for _, label := range []*string{row.PunchInStatus, row.PunchOutStatus} {
		if label != nil && strings.EqualFold(*label, status) {
			return true
		}
	}
	return false
}

func (a *AttendanceServiceImpl) mapOutcomeToResponse(outcome attendance.PunchOutcome, now time.Time) attendance.PunchResponse {
	resp := attendance.PunchResponse{
		Status:         outcome.Status,
		Classification: outcome.Classification,
		Label:          outcome.Classification.Label(),
	}
	if outcome.Session != nil {
		sessionResp := a.mapSessionToResponse(*outcome.Session, now)
		resp.Session = &sessionResp
	}
	return resp
}

// mapSessionToResponse converts a Session entity to SessionResponse.
// An open session reports its running clock up to now.
func (a *AttendanceServiceImpl) mapSessionToResponse(s attendance.Session, now time.Time) attendance.SessionResponse {
	var employeeName string
	if s.EmployeeName != nil {
		employeeName = *s.EmployeeName
	}

	var punchInStatus, punchOutStatus *string
	if s.PunchInClass != nil {
		label := s.PunchInClass.Label()
		punchInStatus = &label
	}
	if s.PunchOutClass != nil {
		label := s.PunchOutClass.Label()
		punchOutStatus = &label
	}

	worked := ComputeWorkedDuration(s.PunchInAt, s.PunchOutAt)
	clock := worked
	if s.PunchOutAt == nil {
		clock = ComputeWorkedDuration(s.PunchInAt, &now)
	}

	return attendance.SessionResponse{
		ID:             s.ID,
		EmployeeID:     s.EmployeeID,
		EmployeeName:   employeeName,
		Date:           s.Date.Format("2006-01-02"),
		PunchInTime:    a.policy.Format(s.PunchInAt),
		PunchOutTime:   a.policy.Format(s.PunchOutAt),
		PunchInStatus:  punchInStatus,
		PunchOutStatus: punchOutStatus,
		LateReason:     s.LateReason,
		EarlyReason:    s.EarlyReason,
		HoursWorked:    worked.Roster(),
		Clock:          clock.Clock(),
	}
}

func NewAttendanceService(sessionRepo attendance.SessionRepository, policy Policy, clock Clock) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		SessionRepository: sessionRepo,
		policy:            policy,
		clock:             clock,
	}
}
