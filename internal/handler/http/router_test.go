package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/handler/http/response"
	"github.com/retailhr/hr-backend-go/internal/pkg/jwt"
	"github.com/retailhr/hr-backend-go/internal/pkg/sse"
	"github.com/retailhr/hr-backend-go/internal/repository/memory"
	attendanceService "github.com/retailhr/hr-backend-go/internal/service/attendance"
	"github.com/retailhr/hr-backend-go/internal/service/authz"
	calendarService "github.com/retailhr/hr-backend-go/internal/service/calendar"
	compoffService "github.com/retailhr/hr-backend-go/internal/service/compoff"
	expenseService "github.com/retailhr/hr-backend-go/internal/service/expense"
	leaveService "github.com/retailhr/hr-backend-go/internal/service/leave"
	notificationService "github.com/retailhr/hr-backend-go/internal/service/notification"
	overtimeService "github.com/retailhr/hr-backend-go/internal/service/overtime"
	salaryService "github.com/retailhr/hr-backend-go/internal/service/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
	notify  notification.Service
	storeID string
	emp     string
	hr      string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := memory.NewDB()
	storeID := db.PutStore(store.Store{Name: "Andheri", LateEntryThreshold: 10, EarlyExitThreshold: 10},
		store.Calendar{WeeklyOff: "Sunday"})
	hr := db.PutEmployee(employee.Employee{Name: "Hema", Profile: user.ProfileEmployee})
	emp := db.PutEmployee(employee.Employee{Name: "Asha", StoreID: &storeID, Profile: user.ProfileEmployee, LeaveDays: 5})

	storeRepo := memory.NewStoreRepository(db)
	employeeRepo := memory.NewEmployeeRepository(db)
	attendanceRepo := memory.NewAttendanceRepository(db)
	leaveRepo := memory.NewLeaveRepository(db)
	overtimeRepo := memory.NewOvertimeRepository(db)
	expenseRepo := memory.NewExpenseRepository(db)

	resolver := authz.NewStoreResolver(storeRepo)
	gate := authz.NewGate(resolver)
	notify := notificationService.NewNotificationService(sse.NewHub(), nil, notificationService.Config{WorkerCount: 1, QueueSize: 16})
	t.Cleanup(notify.Stop)

	cal := calendarService.NewCalendarService(storeRepo, nil, gate)
	compOff := compoffService.NewCompOffService(memory.NewCompOffRepository(db), employeeRepo, cal, gate)
	salaries := salaryService.NewSalaryService(db, memory.NewSalaryRepository(db), employeeRepo,
		attendanceRepo, leaveRepo, overtimeRepo, expenseRepo, gate, resolver)

	jwtSvc := jwt.NewJWTService("handler-test-secret", time.Hour)
	handlers := Handlers{
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(db, attendanceRepo, employeeRepo, storeRepo,
			cal, compOff, gate, resolver, notify, ist, attendanceService.DefaultBulkOptions()), ist),
		Leave:        NewLeaveHandler(leaveService.NewLeaveService(db, leaveRepo, employeeRepo, attendanceRepo, cal, gate, resolver, notify)),
		Overtime:     NewOvertimeHandler(overtimeService.NewOvertimeService(db, overtimeRepo, employeeRepo, salaries, gate, resolver, notify)),
		Salary:       NewSalaryHandler(salaries),
		Expense:      NewExpenseHandler(expenseService.NewExpenseService(db, expenseRepo, employeeRepo, salaries, gate, resolver)),
		CompOff:      NewCompOffHandler(compOff),
		Store:        NewStoreHandler(cal),
		Notification: NewNotificationHandler(notify, jwtSvc, employeeRepo),
	}

	return &testServer{
		handler: NewRouter(jwtSvc, employeeRepo, handlers, RouterOptions{Env: "test"}),
		jwt:     jwtSvc,
		notify:  notify,
		storeID: storeID,
		emp:     emp,
		hr:      hr,
	}
}

func (s *testServer) token(t *testing.T, employeeID string, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-"+employeeID, employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// ===== AUTH TESTS =====

func TestRouter_RequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/leaves", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ===== ATTENDANCE TESTS =====

func TestRouter_PunchInRendersDisplayTimezone(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, s.emp, user.RoleEmployee)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, map[string]string{"date": "2025-06-02"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2025-06-02", data["date"])
	assert.True(t, strings.HasSuffix(data["in_time"].(string), "+05:30"), data["in_time"])

	rec, resp = s.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, map[string]string{"date": "2025-06-02"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestRouter_PunchOutWithoutPunchIn(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/attendance/punch-out", s.token(t, s.emp, user.RoleEmployee),
		map[string]string{"date": "2025-06-02"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ===== LEAVE TESTS =====

func TestRouter_LeaveValidationDetails(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/leaves", s.token(t, s.emp, user.RoleEmployee), map[string]interface{}{
		"start_date": "2025-06-10",
		"end_date":   "2025-06-09",
		"reason":     "family function",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
}

func TestRouter_LeaveSubmitAndGet(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, s.emp, user.RoleEmployee)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/leaves", token, map[string]interface{}{
		"start_date": "2025-06-10",
		"end_date":   "2025-06-11",
		"reason":     "family function",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := resp.Data.(map[string]interface{})["id"].(string)

	rec, resp = s.do(t, http.MethodGet, "/api/v1/leaves/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, resp.Data.(map[string]interface{})["effective_days"])

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leaves/"+id+"/decision", token, map[string]string{"decision": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/leaves/"+id, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LeaveForSomeoneElseIsForbidden(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/leaves", s.token(t, s.emp, user.RoleEmployee), map[string]interface{}{
		"employee_id": s.hr,
		"start_date":  "2025-06-10",
		"end_date":    "2025-06-10",
		"reason":      "covering",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ===== SALARY TESTS =====

func TestRouter_SalaryCreateRequiresHR(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{
		"employee_id":     s.emp,
		"month":           6,
		"year":            2025,
		"basic_salary":    "30000",
		"per_hour_salary": "150",
	}

	rec, _ := s.do(t, http.MethodPost, "/api/v1/salaries", s.token(t, s.emp, user.RoleEmployee), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/salaries", s.token(t, s.hr, user.RoleHR), body)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPost, "/api/v1/salaries", s.token(t, s.hr, user.RoleHR), body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ===== STORE TESTS =====

func TestRouter_StoreCalendar(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/stores/"+s.storeID+"/calendar", s.token(t, s.emp, user.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Sunday", resp.Data.(map[string]interface{})["weekly_off"])

	rec, _ = s.do(t, http.MethodPut, "/api/v1/stores/"+s.storeID+"/calendar", s.token(t, s.emp, user.RoleEmployee),
		map[string]string{"weekly_off": "Monday"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ===== NOTIFICATION TESTS =====

func TestRouter_StreamRejectsAccessToken(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/notifications/stream?jwt="+s.token(t, s.emp, user.RoleEmployee), "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_StreamDeliversEvents(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)

	_, resp := s.do(t, http.MethodGet, "/api/v1/notifications/sse-token", s.token(t, s.emp, user.RoleEmployee), nil)
	streamToken := resp.Data.(map[string]interface{})["token"].(string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/notifications/stream?jwt="+streamToken, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	lines := bufio.NewScanner(res.Body)
	next := func() string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), "event: ") {
				return strings.TrimPrefix(lines.Text(), "event: ")
			}
		}
		return ""
	}

	require.Equal(t, "connected", next())

	s.notify.Notify(context.Background(), notification.Event{
		Type:         notification.TypeLeaveDecided,
		RecipientIDs: []string{s.emp},
		Title:        "Leave approved",
	})
	assert.Equal(t, string(notification.TypeLeaveDecided), next())
}
