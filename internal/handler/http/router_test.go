package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/report"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/apperror"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/upstream"
	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	attendance.AttendanceService
	attempt    func(req attendance.PunchRequest) (attendance.PunchResponse, error)
	complete   func(req attendance.CompletePunchRequest) (attendance.PunchResponse, error)
	todayErr   error
	lastCaller string
	history    attendance.HistoryFilter
}

func (s *stubAttendanceService) AttemptPunch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	s.lastCaller = req.EmployeeID
	return s.attempt(req)
}

func (s *stubAttendanceService) CompletePunch(ctx context.Context, req attendance.CompletePunchRequest) (attendance.PunchResponse, error) {
	s.lastCaller = req.EmployeeID
	return s.complete(req)
}

func (s *stubAttendanceService) TodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	s.lastCaller = employeeID
	if s.todayErr != nil {
		return attendance.TodayStatusResponse{}, s.todayErr
	}
	return attendance.TodayStatusResponse{EmployeeID: employeeID, State: attendance.StateNoSession, CanPunchIn: true}, nil
}

func (s *stubAttendanceService) History(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}
	s.history = filter
	return attendance.HistoryResponse{
		Date:     filter.Date,
		Sessions: []attendance.SessionResponse{{ID: "s-1", EmployeeID: "emp-1", Date: filter.Date, HoursWorked: "8h 0m"}},
		Total:    1,
	}, nil
}

type stubLateReasonService struct {
	lastFilter latereason.ReasonFilter
	decideErr  error
}

func (s *stubLateReasonService) Submit(ctx context.Context, req latereason.SubmitReasonRequest) (latereason.ReasonResponse, error) {
	if err := req.Validate(); err != nil {
		return latereason.ReasonResponse{}, err
	}
	return latereason.ReasonResponse{ID: "r-1", EmployeeID: req.EmployeeID, Reason: req.Reason}, nil
}

func (s *stubLateReasonService) List(ctx context.Context, filter latereason.ReasonFilter) ([]latereason.ReasonResponse, error) {
	s.lastFilter = filter
	return []latereason.ReasonResponse{{ID: "r-1"}, {ID: "r-2"}}, nil
}

func (s *stubLateReasonService) Decide(ctx context.Context, req latereason.DecideRequest) (latereason.ReasonResponse, error) {
	if s.decideErr != nil {
		return latereason.ReasonResponse{}, s.decideErr
	}
	return latereason.ReasonResponse{ID: req.ID, Label: "Approved", DecidedBy: &req.DecidedBy}, nil
}

type stubReportService struct {
	submitErr error
}

func (s *stubReportService) Submit(ctx context.Context, req report.SubmitReportRequest) (report.ReportResponse, error) {
	if s.submitErr != nil {
		return report.ReportResponse{}, s.submitErr
	}
	return report.ReportResponse{ID: "d-1", EmployeeID: req.EmployeeID}, nil
}

func (s *stubReportService) ListReplies(ctx context.Context, req report.ListRepliesRequest) ([]report.ReplyResponse, error) {
	if !req.IsAdmin && req.EmployeeID != "emp-1" {
		return nil, report.ErrReportNotFound
	}
	return []report.ReplyResponse{{ID: "rp-1", ReportID: req.ReportID}}, nil
}

func (s *stubReportService) Reply(ctx context.Context, req report.ReplyRequest) (report.ReplyResponse, error) {
	return report.ReplyResponse{ID: "rp-2", ReportID: req.ReportID, AdminID: req.AdminID, Message: req.Message}, nil
}

type stubRosterService struct {
	resp   roster.RosterResponse
	err    error
	filter roster.RosterFilter
}

func (s *stubRosterService) GetRoster(ctx context.Context, filter roster.RosterFilter) (roster.RosterResponse, error) {
	s.filter = filter
	return s.resp, s.err
}

func (s *stubRosterService) GetSummary(ctx context.Context) (roster.SummaryResponse, error) {
	return roster.SummaryResponse{Total: 1, ByStatus: map[roster.Status]int{roster.StatusLate: 1}}, nil
}

func (s *stubRosterService) Refresh(ctx context.Context) error { return nil }

type testServer struct {
	router     http.Handler
	jwt        jwt.Service
	attendance *stubAttendanceService
	reasons    *stubLateReasonService
	reports    *stubReportService
	roster     *stubRosterService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		jwt:        jwt.NewJWTService("test-secret", time.Hour),
		attendance: &stubAttendanceService{},
		reasons:    &stubLateReasonService{},
		reports:    &stubReportService{},
		roster:     &stubRosterService{},
	}
	ts.router = NewRouter(RouterConfig{}, ts.jwt, Handlers{
		Attendance: NewAttendanceHandler(ts.attendance),
		LateReason: NewLateReasonHandler(ts.reasons),
		Report:     NewReportHandler(ts.reports),
		Roster:     NewRosterHandler(ts.roster),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, employeeID string, isAdmin bool) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(jwt.Claims{EmployeeID: employeeID, IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/attendance/today", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/attendance/today", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminRoutesRejectEmployees(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/admin/roster", ts.token(t, "emp-1", false), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestAttendanceHandler_Today(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/attendance/today", ts.token(t, "emp-1", false), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "emp-1", ts.attendance.lastCaller)
}

func TestAttendanceHandler_PunchReasonRequired(t *testing.T) {
	ts := newTestServer(t)
	ts.attendance.attempt = func(req attendance.PunchRequest) (attendance.PunchResponse, error) {
		return attendance.PunchResponse{Status: attendance.OutcomeReasonRequired, Classification: attendance.Late}, nil
	}

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance/punch", ts.token(t, "emp-1", false), `{"kind":"in"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REASON_REQUIRED", resp.Error.Code)
	assert.Equal(t, "late", resp.Error.Details["classification"])
	assert.Equal(t, "emp-1", ts.attendance.lastCaller)
}

func TestAttendanceHandler_PunchAccepted(t *testing.T) {
	ts := newTestServer(t)
	ts.attendance.attempt = func(req attendance.PunchRequest) (attendance.PunchResponse, error) {
		return attendance.PunchResponse{Status: attendance.OutcomeAccepted, Classification: attendance.OnTime, Label: "On Time"}, nil
	}

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance/punch", ts.token(t, "emp-1", false), `{"kind":"in"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Punch in successful", resp.Message)
}

func TestAttendanceHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{
			name:     "already punched in",
			err:      attendance.ErrAlreadyPunchedIn,
			wantCode: http.StatusConflict,
			wantErr:  "CONFLICT",
			wantMsg:  "you have already punched in today",
		},
		{
			name:     "not punched in",
			err:      attendance.ErrNotPunchedIn,
			wantCode: http.StatusNotFound,
			wantErr:  "NOT_FOUND",
			wantMsg:  "you have not punched in today",
		},
		{
			name:     "reason still required",
			err:      &attendance.ReasonRequiredError{Classification: attendance.LeftEarly},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "REASON_REQUIRED",
		},
		{
			name:     "upstream failure keeps detail",
			err:      &apperror.TransportError{Op: "punch out", StatusCode: 400, Detail: "Already punched out today"},
			wantCode: http.StatusBadGateway,
			wantErr:  "UPSTREAM_ERROR",
			wantMsg:  "Already punched out today",
		},
		{
			name:     "unexpected",
			err:      assert.AnError,
			wantCode: http.StatusInternalServerError,
			wantErr:  "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.attendance.complete = func(req attendance.CompletePunchRequest) (attendance.PunchResponse, error) {
				return attendance.PunchResponse{}, tt.err
			}

			rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance/punch/complete", ts.token(t, "emp-1", false),
				`{"classification":"left_early","reason":"doctor"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}

func TestAttendanceHandler_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance/punch", ts.token(t, "emp-1", false), `{"kind":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestLateReasonHandler_SubmitValidation(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/late-login-reasons", ts.token(t, "emp-1", false), `{"reason":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "reason is required", resp.Error.Details["reason"])
}

func TestLateReasonHandler_ListScopes(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/late-login-reasons/my?state=pending", ts.token(t, "emp-1", false), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, latereason.ReasonFilter{EmployeeID: "emp-1", State: "pending"}, ts.reasons.lastFilter)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/admin/late-login-reasons", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, latereason.ReasonFilter{IsAdmin: true}, ts.reasons.lastFilter)
}

func TestLateReasonHandler_Decide(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/admin/late-login-reasons/r-9/decision", ts.token(t, "admin-1", true), `{"approved":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Decision recorded", resp.Message)

	ts.reasons.decideErr = latereason.ErrReasonNotFound
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/admin/late-login-reasons/missing/decision", ts.token(t, "admin-1", true), `{"approved":false}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandler(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/daily-reports", ts.token(t, "emp-1", false), `{"work_details":"fixed bugs"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	ts.reports.submitErr = report.ErrReportExists
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/daily-reports", ts.token(t, "emp-1", false), `{"work_details":"again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/daily-reports/d-1/replies", ts.token(t, "emp-2", false), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/admin/daily-reports/d-1/replies", ts.token(t, "admin-1", true), `{"message":"thanks"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "admin-1", data["admin_id"])
	assert.Equal(t, "d-1", data["report_id"])
}

func TestRosterHandler_StaleWarning(t *testing.T) {
	ts := newTestServer(t)
	ts.roster.resp = roster.RosterResponse{
		Employees: []roster.EmployeeView{{ID: "1", Name: "Alice"}},
		Total:     1,
		Stale:     true,
		Warning:   "Showing the last known roster: upstream down",
	}

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/admin/roster?status=All", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Showing the last known roster: upstream down", resp.Message)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/admin/roster?status=Sleeping", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sleeping", ts.roster.filter.Status)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/admin/roster/summary", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendanceHandler_History(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/admin/attendance?date=2025-03-03", ts.token(t, "emp-1", false), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/admin/attendance?date=2025-03-03&search=ali&status=Late&employee_id=emp-1", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, attendance.HistoryFilter{Date: "2025-03-03", EmployeeID: "emp-1", Search: "ali", Status: "Late"}, ts.attendance.history)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2025-03-03", data["date"])
	sessions, ok := data["sessions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sessions, 1)

	rec, resp = ts.do(t, http.MethodGet, "/api/v1/admin/attendance?date=yesterday", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

// A roster row carries the id admins reply to.
func TestRosterHandler_ReportIDReachesReply(t *testing.T) {
	ts := newTestServer(t)
	ts.roster.resp = roster.RosterResponse{
		Employees: []roster.EmployeeView{{ID: "1", Name: "Alice", DailyReportSent: true, DailyReportID: "d-7", DailyReportContent: "fixed bugs"}},
		Total:     1,
	}
	admin := ts.token(t, "admin-1", true)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/admin/roster", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	employees, ok := data["employees"].([]interface{})
	require.True(t, ok)
	require.Len(t, employees, 1)
	row := employees[0].(map[string]interface{})
	reportID, ok := row["daily_report_id"].(string)
	require.True(t, ok)
	assert.Equal(t, "d-7", reportID)

	rec, resp = ts.do(t, http.MethodPost, "/api/v1/admin/daily-reports/"+reportID+"/replies", admin, `{"message":"thanks"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	reply, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "d-7", reply["report_id"])
}

func TestRosterHandler_UpstreamFailureWithoutCache(t *testing.T) {
	ts := newTestServer(t)
	ts.roster.err = &apperror.TransportError{Op: "list employees", StatusCode: 503, Detail: "Service unavailable"}

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/admin/roster", ts.token(t, "admin-1", true), "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Service unavailable", resp.Error.Message)
}

// The caller's bearer token is what the upstream sees.
func TestRouter_ForwardsBearerToUpstream(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", time.Hour)
	token, _, err := jwtService.GenerateAccessToken(jwt.Claims{EmployeeID: "7"})
	require.NoError(t, err)

	var gotAuth string
	upstreamServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstreamServer.Close()

	client, err := upstream.NewClient(upstream.Config{BaseURL: upstreamServer.URL, ServiceToken: "service"})
	require.NoError(t, err)

	policy := attendanceService.NewPolicy(time.UTC)
	svc := attendanceService.NewAttendanceService(upstream.NewSessionGateway(client), policy, nil)
	router := NewRouter(RouterConfig{}, jwtService, Handlers{
		Attendance: NewAttendanceHandler(svc),
		LateReason: NewLateReasonHandler(&stubLateReasonService{}),
		Report:     NewReportHandler(&stubReportService{}),
		Roster:     NewRosterHandler(&stubRosterService{}),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer "+token, gotAuth)
}
