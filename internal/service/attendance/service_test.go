package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("WIB", 7*60*60)

func at(day, hour, min, sec int) time.Time {
	return time.Date(2025, time.March, day, hour, min, sec, 0, testLoc)
}

// memorySessionRepo is an in-memory attendance.SessionRepository.
type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]attendance.Session
	writes   int
	reads    int
	failWith error
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]attendance.Session)}
}

func sessionKey(employeeID string, day time.Time) string {
	return employeeID + "|" + attendance.CalendarDay(day).Format("2006-01-02")
}

func (m *memorySessionRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.failWith != nil {
		return nil, m.failWith
	}
	s, ok := m.sessions[sessionKey(employeeID, day)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWith != nil {
		return attendance.Session{}, m.failWith
	}
	s.ID = uuid.NewString()
	m.sessions[sessionKey(s.EmployeeID, s.Date)] = s
	return s, nil
}

func (m *memorySessionRepo) Close(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWith != nil {
		return attendance.Session{}, m.failWith
	}
	m.sessions[sessionKey(s.EmployeeID, s.Date)] = s
	return s, nil
}

func (m *memorySessionRepo) ListForDate(ctx context.Context, day time.Time) ([]attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []attendance.Session
	for _, s := range m.sessions {
		if attendance.CalendarDay(s.Date).Equal(attendance.CalendarDay(day)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestService(repo attendance.SessionRepository, now time.Time) *AttendanceServiceImpl {
	return NewAttendanceService(repo, NewPolicy(testLoc), func() time.Time { return now }).(*AttendanceServiceImpl)
}

// ===== POLICY TESTS =====

func TestPolicy_ClassifyPunchIn(t *testing.T) {
	policy := NewPolicy(testLoc)
	cases := []struct {
		at   time.Time
		want attendance.Classification
	}{
		{at(3, 8, 0, 0), attendance.OnTime},
		{at(3, 9, 29, 59), attendance.OnTime},
		{at(3, 9, 30, 0), attendance.Late},
		{at(3, 9, 30, 1), attendance.Late},
		{at(3, 23, 59, 59), attendance.Late},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, policy.ClassifyPunchIn(c.at), "punch-in at %s", c.at.Format(time.TimeOnly))
	}
}

func TestPolicy_ClassifyPunchIn_UsesPolicyLocation(t *testing.T) {
	policy := NewPolicy(testLoc)
	// 02:31 UTC is 09:31 in WIB
	utc := time.Date(2025, time.March, 3, 2, 31, 0, 0, time.UTC)
	assert.Equal(t, attendance.Late, policy.ClassifyPunchIn(utc))
}

func TestPolicy_ClassifyPunchOut(t *testing.T) {
	policy := NewPolicy(testLoc)
	cases := []struct {
		at   time.Time
		want attendance.Classification
	}{
		{at(3, 12, 0, 0), attendance.LeftEarly},
		{at(3, 18, 29, 59), attendance.LeftEarly},
		{at(3, 18, 30, 0), attendance.FullDay},
		{at(3, 20, 0, 0), attendance.FullDay},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, policy.ClassifyPunchOut(c.at), "punch-out at %s", c.at.Format(time.TimeOnly))
	}
}

func TestRequiresReason(t *testing.T) {
	assert.True(t, RequiresReason(attendance.Late))
	assert.True(t, RequiresReason(attendance.LeftEarly))
	assert.False(t, RequiresReason(attendance.OnTime))
	assert.False(t, RequiresReason(attendance.FullDay))
}

func TestComputeWorkedDuration_Sentinel(t *testing.T) {
	in := at(3, 9, 0, 0)
	out := at(3, 8, 0, 0)

	for _, d := range []attendance.Duration{
		ComputeWorkedDuration(nil, nil),
		ComputeWorkedDuration(&in, nil),
		ComputeWorkedDuration(nil, &in),
		ComputeWorkedDuration(&in, &out),
	} {
		assert.False(t, d.Valid)
		assert.Equal(t, "-", d.Roster())
		assert.Equal(t, "00:00:00", d.Clock())
	}
}

func TestComputeWorkedDuration_Formats(t *testing.T) {
	in := at(3, 9, 0, 0)

	equal := ComputeWorkedDuration(&in, &in)
	assert.True(t, equal.Valid)
	assert.Equal(t, "00:00:00", equal.Clock())
	assert.Equal(t, "0m", equal.Roster())

	out := in.Add(90 * time.Minute)
	d := ComputeWorkedDuration(&in, &out)
	assert.Equal(t, "1h 30m", d.Roster())
	assert.Equal(t, "01:30:00", d.Clock())

	// sub-unit remainders truncate
	out = in.Add(2*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
	d = ComputeWorkedDuration(&in, &out)
	assert.Equal(t, "2h 59m", d.Roster())
	assert.Equal(t, "02:59:59", d.Clock())
}

func TestComputeWorkedDuration_Monotonic(t *testing.T) {
	in := at(3, 9, 0, 0)
	var prev time.Duration
	for step := 0; step < 500; step++ {
		out := in.Add(time.Duration(step*37) * time.Second)
		d := ComputeWorkedDuration(&in, &out)
		require.True(t, d.Valid)
		assert.GreaterOrEqual(t, d.Elapsed, prev)
		prev = d.Elapsed
	}
}

func TestPolicy_ParseTimestamp(t *testing.T) {
	policy := NewPolicy(testLoc)

	for _, s := range []string{"", "-", "  ", "yesterday", "2025-13-01 10:00:00"} {
		_, ok := policy.ParseTimestamp(s)
		assert.False(t, ok, "ParseTimestamp(%q)", s)
	}

	ts, ok := policy.ParseTimestamp("2025-03-03T09:30:00+07:00")
	require.True(t, ok)
	assert.True(t, ts.Equal(at(3, 9, 30, 0)))

	ts, ok = policy.ParseTimestamp("2025-03-03 09:30:00")
	require.True(t, ok)
	assert.True(t, ts.Equal(at(3, 9, 30, 0)))

	_, err := policy.ParseRequiredTimestamp("not a time")
	assert.ErrorIs(t, err, attendance.ErrMalformedTimestamp)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

// ===== SESSION TESTS =====

func TestAttendanceService_OpenSession_Twice_Conflict(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	svc := newTestService(repo, at(3, 9, 0, 0))

	_, err := svc.OpenSession(ctx, "emp-1", at(3, 9, 0, 0), "")
	require.NoError(t, err)

	_, err = svc.OpenSession(ctx, "emp-1", at(3, 9, 5, 0), "")
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAttendanceService_OpenSession_LateRequiresReason(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	svc := newTestService(repo, at(3, 10, 0, 0))

	_, err := svc.OpenSession(ctx, "emp-1", at(3, 10, 0, 0), "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	var reasonErr *attendance.ReasonRequiredError
	require.ErrorAs(t, err, &reasonErr)
	assert.Equal(t, attendance.Late, reasonErr.Classification)
	assert.Zero(t, repo.reads+repo.writes, "validation must not contact the repository")

	session, err := svc.OpenSession(ctx, "emp-1", at(3, 10, 0, 0), "Traffic jam")
	require.NoError(t, err)
	require.NotNil(t, session.PunchInClass)
	assert.Equal(t, attendance.Late, *session.PunchInClass)
	require.NotNil(t, session.LateReason)
	assert.Equal(t, "Traffic jam", *session.LateReason)
}

func TestAttendanceService_CloseSession_WithoutOpen_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySessionRepo(), at(3, 19, 0, 0))

	_, err := svc.CloseSession(ctx, "emp-1", at(3, 19, 0, 0), "")
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAttendanceService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	svc := newTestService(repo, at(3, 9, 0, 0))

	_, err := svc.OpenSession(ctx, "emp-1", at(3, 9, 0, 0), "")
	require.NoError(t, err)

	_, err = svc.CloseSession(ctx, "emp-1", at(3, 17, 0, 0), "")
	var reasonErr *attendance.ReasonRequiredError
	require.ErrorAs(t, err, &reasonErr)
	assert.Equal(t, attendance.LeftEarly, reasonErr.Classification)

	closed, err := svc.CloseSession(ctx, "emp-1", at(3, 17, 0, 0), "Doctor appointment")
	require.NoError(t, err)
	require.NotNil(t, closed.PunchOutClass)
	assert.Equal(t, attendance.LeftEarly, *closed.PunchOutClass)
	assert.Equal(t, "8h 0m", ComputeWorkedDuration(closed.PunchInAt, closed.PunchOutAt).Roster())

	// Closed is terminal for the day
	_, err = svc.CloseSession(ctx, "emp-1", at(3, 18, 45, 0), "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.OpenSession(ctx, "emp-1", at(3, 9, 15, 0), "")
	assert.ErrorIs(t, err, attendance.ErrDayClosed)

	// A new day resets to NoSession
	_, err = svc.OpenSession(ctx, "emp-1", at(4, 9, 0, 0), "")
	assert.NoError(t, err)
}

func TestAttendanceService_StalePriorDaySession(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	svc := newTestService(repo, at(3, 9, 0, 0))

	_, err := svc.OpenSession(ctx, "emp-1", at(3, 9, 0, 0), "")
	require.NoError(t, err)

	// never closed on the 3rd; on the 4th the employee is not punched in
	_, err = svc.CloseSession(ctx, "emp-1", at(4, 19, 0, 0), "")
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)

	_, err = svc.OpenSession(ctx, "emp-1", at(4, 9, 10, 0), "")
	assert.NoError(t, err)
}

func TestAttendanceService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySessionRepo(), at(3, 9, 0, 0))

	opened, err := svc.OpenSession(ctx, "emp-1", at(3, 17, 0, 0), "Came from a client site")
	require.NoError(t, err)
	closed, err := svc.CloseSession(ctx, "emp-1", opened.PunchInAt.Add(90*time.Minute), "")
	require.NoError(t, err)

	d := ComputeWorkedDuration(closed.PunchInAt, closed.PunchOutAt)
	assert.Equal(t, "1h 30m", d.Roster())
	assert.Equal(t, "01:30:00", d.Clock())
}

func TestAttendanceService_TransportFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	repo.failWith = &apperror.TransportError{Op: "create session", StatusCode: 503, Detail: "Service unavailable"}
	svc := newTestService(repo, at(3, 9, 0, 0))

	_, err := svc.OpenSession(ctx, "emp-1", at(3, 9, 0, 0), "")
	assert.ErrorIs(t, err, apperror.ErrTransport)
	assert.Equal(t, "Service unavailable", apperror.UserMessage(err))
	assert.Empty(t, repo.sessions)
}

// ===== TWO-PHASE PUNCH TESTS =====

func TestAttendanceService_AttemptPunch_ReasonRequired(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	svc := newTestService(repo, at(3, 10, 0, 0))

	resp, err := svc.AttemptPunch(ctx, attendance.PunchRequest{EmployeeID: "emp-1", Kind: attendance.PunchIn})
	require.NoError(t, err)
	assert.Equal(t, attendance.OutcomeReasonRequired, resp.Status)
	assert.Equal(t, attendance.Late, resp.Classification)
	assert.Nil(t, resp.Session)
	assert.Zero(t, repo.reads+repo.writes)

	resp, err = svc.CompletePunch(ctx, attendance.CompletePunchRequest{
		EmployeeID:     "emp-1",
		Classification: resp.Classification,
		Reason:         "Bus breakdown",
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.OutcomeAccepted, resp.Status)
	assert.Equal(t, attendance.Late, resp.Classification)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "2025-03-03 10:00:00", *resp.Session.PunchInTime)
	assert.Equal(t, "Late", *resp.Session.PunchInStatus)
}

func TestAttendanceService_AttemptPunch_OnTimeAccepted(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySessionRepo(), at(3, 9, 0, 0))

	resp, err := svc.AttemptPunch(ctx, attendance.PunchRequest{EmployeeID: "emp-1", Kind: attendance.PunchIn})
	require.NoError(t, err)
	assert.Equal(t, attendance.OutcomeAccepted, resp.Status)
	assert.Equal(t, attendance.OnTime, resp.Classification)
	assert.Equal(t, "On Time", resp.Label)
}

func TestAttendanceService_CompletePunch_MissingReason(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySessionRepo(), at(3, 17, 0, 0))

	_, err := svc.CompletePunch(ctx, attendance.CompletePunchRequest{
		EmployeeID:     "emp-1",
		Classification: attendance.LeftEarly,
	})
	assert.ErrorIs(t, err, attendance.ErrReasonRequired)
}

func TestAttendanceService_AttemptPunch_InvalidRequest(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySessionRepo(), at(3, 9, 0, 0))

	_, err := svc.AttemptPunch(ctx, attendance.PunchRequest{Kind: "sideways"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAttendanceService_TodayStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()

	status, err := newTestService(repo, at(3, 8, 0, 0)).TodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateNoSession, status.State)
	assert.True(t, status.CanPunchIn)
	assert.Equal(t, "00:00:00", status.Clock)

	_, err = newTestService(repo, at(3, 9, 0, 0)).OpenSession(ctx, "emp-1", at(3, 9, 0, 0), "")
	require.NoError(t, err)

	status, err = newTestService(repo, at(3, 11, 15, 30)).TodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateOpen, status.State)
	assert.True(t, status.CanPunchOut)
	assert.False(t, status.CanPunchIn)
	assert.Equal(t, "02:15:30", status.Clock)
	require.NotNil(t, status.Session)
	assert.Equal(t, "-", status.Session.HoursWorked)
}

func TestAttendanceService_History(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySessionRepo()
	alice, bob := "Alice", "Bob"

	_, err := newTestService(repo, at(3, 9, 0, 0)).OpenSession(ctx, "emp-1", at(3, 9, 0, 0), "")
	require.NoError(t, err)
	_, err = newTestService(repo, at(3, 10, 0, 0)).OpenSession(ctx, "emp-2", at(3, 10, 0, 0), "bus")
	require.NoError(t, err)
	_, err = newTestService(repo, at(3, 17, 0, 0)).CloseSession(ctx, "emp-1", at(3, 17, 0, 0), "doctor")
	require.NoError(t, err)
	_, err = newTestService(repo, at(2, 9, 0, 0)).OpenSession(ctx, "emp-3", at(2, 9, 0, 0), "")
	require.NoError(t, err)

	for key, s := range repo.sessions {
		switch s.EmployeeID {
		case "emp-1":
			s.EmployeeName = &alice
		case "emp-2":
			s.EmployeeName = &bob
		}
		repo.sessions[key] = s
	}

	svc := newTestService(repo, at(3, 12, 0, 0))

	resp, err := svc.History(ctx, attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", resp.Date)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "emp-1", resp.Sessions[0].EmployeeID)
	assert.Equal(t, "8h 0m", resp.Sessions[0].HoursWorked)
	assert.Equal(t, "emp-2", resp.Sessions[1].EmployeeID)
	assert.Equal(t, "02:00:00", resp.Sessions[1].Clock)

	resp, err = svc.History(ctx, attendance.HistoryFilter{Search: "BOB"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "emp-2", resp.Sessions[0].EmployeeID)

	resp, err = svc.History(ctx, attendance.HistoryFilter{Status: "left early"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "emp-1", resp.Sessions[0].EmployeeID)

	resp, err = svc.History(ctx, attendance.HistoryFilter{Status: "Sleeping"})
	require.NoError(t, err)
	assert.Empty(t, resp.Sessions)

	resp, err = svc.History(ctx, attendance.HistoryFilter{Date: "2025-03-02"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "emp-3", resp.Sessions[0].EmployeeID)

	resp, err = svc.History(ctx, attendance.HistoryFilter{EmployeeID: "emp-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = svc.History(ctx, attendance.HistoryFilter{Date: "03/03/2025"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAttendanceService_History_RepositoryFailure(t *testing.T) {
	repo := newMemorySessionRepo()
	repo.failWith = &apperror.TransportError{Op: "list attendance sessions", StatusCode: 500}

	_, err := newTestService(repo, at(3, 12, 0, 0)).History(context.Background(), attendance.HistoryFilter{})
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestSession_Validate(t *testing.T) {
	in := at(3, 9, 0, 0)
	before := at(3, 8, 0, 0)

	s := attendance.Session{PunchOutAt: &in}
	assert.True(t, errors.Is(s.Validate(), attendance.ErrInvalidSession))

	s = attendance.Session{PunchInAt: &in, PunchOutAt: &before}
	assert.ErrorIs(t, s.Validate(), apperror.ErrValidation)

	s = attendance.Session{PunchInAt: &in}
	assert.NoError(t, s.Validate())
}
