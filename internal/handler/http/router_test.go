package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/clock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/jwt"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/sse"
	"github.com/gestionet/timeclock-backend-go/internal/repository/memory"
	breakruleService "github.com/gestionet/timeclock-backend-go/internal/service/breakrule"
	correctionService "github.com/gestionet/timeclock-backend-go/internal/service/correction"
	employeecodeService "github.com/gestionet/timeclock-backend-go/internal/service/employeecode"
	notificationService "github.com/gestionet/timeclock-backend-go/internal/service/notification"
	timeclockService "github.com/gestionet/timeclock-backend-go/internal/service/timeclock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerEnv struct {
	router     *chi.Mux
	jwtService jwt.Service
	clk        *clock.Fixed
	employees  *memory.EmployeeStore
	codes      *memory.EmployeeCodeStore
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	employees := memory.NewEmployeeStore()
	records := memory.NewClockRecordStore(employees)
	pauses := memory.NewPauseStore()
	rules := memory.NewBreakRuleStore()
	audit := memory.NewAuditStore()
	codes := memory.NewEmployeeCodeStore()
	notifications := memory.NewNotificationStore()
	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	jwtService := jwt.NewJWTService("test-secret", time.Hour)

	notifSvc := notificationService.NewNotificationService(notifications, sse.NewHub(), notificationService.Config{})
	t.Cleanup(notifSvc.Stop)

	breakRuleSvc := breakruleService.NewBreakRuleService(rules)
	codeSvc := employeecodeService.NewEmployeeCodeService(codes, employees)
	timeclockSvc := timeclockService.NewTimeclockService(records, pauses, breakRuleSvc, audit, notifSvc, clk, memory.Transactor{})
	correctionSvc := correctionService.NewCorrectionService(records, pauses, audit, employees, notifSvc, clk, memory.Transactor{})

	router := NewRouter(
		jwtService,
		NewTimeclockHandler(timeclockSvc, codeSvc),
		NewCorrectionHandler(correctionSvc),
		NewBreakRuleHandler(breakRuleSvc),
		NewEmployeeCodeHandler(codeSvc),
		NewNotificationHandler(notifSvc, jwtService),
		[]string{"*"},
	)

	return &routerEnv{
		router:     router,
		jwtService: jwtService,
		clk:        clk,
		employees:  employees,
		codes:      codes,
	}
}

func (e *routerEnv) seedEmployeeWithCode(t *testing.T, name, code string) string {
	t.Helper()
	ctx := context.Background()

	emp, err := e.employees.Create(ctx, employee.Employee{FullName: name, Active: true})
	require.NoError(t, err)
	_, err = e.codes.Create(ctx, employeecode.EmployeeCode{
		Code:       code,
		EmployeeID: emp.ID,
		Label:      name,
		Active:     true,
	})
	require.NoError(t, err)
	return emp.ID
}

func (e *routerEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func (e *routerEnv) accessToken(t *testing.T, employeeID, role string) string {
	t.Helper()
	token, _, err := e.jwtService.GenerateAccessToken(employeeID, role)
	require.NoError(t, err)
	return token
}

func TestTerminalClockCycle(t *testing.T) {
	env := newRouterEnv(t)
	env.seedEmployeeWithCode(t, "Marta Diaz", "9981")

	rec, payload := env.do(t, http.MethodPost, "/api/v1/terminal/clock-in", "", map[string]string{"code": "9981"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, payload["success"])

	rec, payload = env.do(t, http.MethodGet, "/api/v1/terminal/status?code=9981", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, false, data["can_clock_in"])
	assert.Equal(t, true, data["can_clock_out"])

	env.clk.Advance(8 * time.Hour)
	rec, payload = env.do(t, http.MethodPost, "/api/v1/terminal/clock-out", "", map[string]string{"code": "9981"})
	require.Equal(t, http.StatusOK, rec.Code)
	data = payload["data"].(map[string]interface{})
	assert.Equal(t, 8.0, data["worked_hours"])
}

func TestTerminalUnknownCode(t *testing.T) {
	env := newRouterEnv(t)

	rec, payload := env.do(t, http.MethodPost, "/api/v1/terminal/clock-in", "", map[string]string{"code": "0000"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, payload["success"])
}

func TestTerminalDoubleClockInConflict(t *testing.T) {
	env := newRouterEnv(t)
	env.seedEmployeeWithCode(t, "Marta Diaz", "9981")

	rec, _ := env.do(t, http.MethodPost, "/api/v1/terminal/clock-in", "", map[string]string{"code": "9981"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, payload := env.do(t, http.MethodPost, "/api/v1/terminal/clock-in", "", map[string]string{"code": "9981"})
	require.Equal(t, http.StatusConflict, rec.Code)
	errDetail := payload["error"].(map[string]interface{})
	assert.NotEmpty(t, errDetail["message"])
}

func TestMyStatusRequiresToken(t *testing.T) {
	env := newRouterEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/my/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyStatusWithToken(t *testing.T) {
	env := newRouterEnv(t)
	empID := env.seedEmployeeWithCode(t, "Marta Diaz", "9981")
	token := env.accessToken(t, empID, jwt.RoleEmployee)

	rec, payload := env.do(t, http.MethodGet, "/api/v1/my/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, empID, data["employee_id"])
	assert.Equal(t, true, data["can_clock_in"])
}

func TestAdminRoutesRejectEmployeeRole(t *testing.T) {
	env := newRouterEnv(t)
	empID := env.seedEmployeeWithCode(t, "Marta Diaz", "9981")
	token := env.accessToken(t, empID, jwt.RoleEmployee)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/records", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminListRecords(t *testing.T) {
	env := newRouterEnv(t)
	env.seedEmployeeWithCode(t, "Marta Diaz", "9981")
	adminID := env.seedEmployeeWithCode(t, "Admin User", "1000")
	adminToken := env.accessToken(t, adminID, jwt.RoleAdmin)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/terminal/clock-in", "", map[string]string{"code": "9981"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, payload := env.do(t, http.MethodGet, "/api/v1/records", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := payload["data"].([]interface{})
	assert.Len(t, records, 1)
	meta := payload["meta"].(map[string]interface{})
	assert.Equal(t, 1.0, meta["total_items"])
}

func TestBreakRuleAdminRoundTrip(t *testing.T) {
	env := newRouterEnv(t)
	empID := env.seedEmployeeWithCode(t, "Marta Diaz", "9981")
	adminID := env.seedEmployeeWithCode(t, "Admin User", "1000")
	adminToken := env.accessToken(t, adminID, jwt.RoleAdmin)

	rec, _ := env.do(t, http.MethodPut, "/api/v1/employees/"+empID+"/break-rule", adminToken, map[string]interface{}{
		"kind":                    "meal",
		"minimum_hours_threshold": 5.0,
		"duration_minutes":        30,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload := env.do(t, http.MethodGet, "/api/v1/employees/"+empID+"/break-rule", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "meal", data["kind"])

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/employees/"+empID+"/break-rule", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/employees/"+empID+"/break-rule", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
