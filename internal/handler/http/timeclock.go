package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/gestionet/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeclockHandler interface {
	// Terminal endpoints, driven by employee codes
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)

	// Employee endpoints
	MyStatus(w http.ResponseWriter, r *http.Request)
	MyRecords(w http.ResponseWriter, r *http.Request)

	// Admin endpoints
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Sweep(w http.ResponseWriter, r *http.Request)
}

type timeclockHandlerImpl struct {
	timeclockService timeclock.Service
	codeService      employeecode.Service
}

func NewTimeclockHandler(timeclockService timeclock.Service, codeService employeecode.Service) TimeclockHandler {
	return &timeclockHandlerImpl{
		timeclockService: timeclockService,
		codeService:      codeService,
	}
}

// terminalClockInRequest is what a terminal sends: a code instead of an
// identity. The code is resolved before the state machine sees the request.
type terminalClockInRequest struct {
	Code      string   `json:"code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type terminalCodeRequest struct {
	Code string `json:"code"`
}

type terminalBreakRequest struct {
	Code        string `json:"code"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

func (h *timeclockHandlerImpl) resolveCode(w http.ResponseWriter, r *http.Request, code string) (string, bool) {
	res, err := h.codeService.Resolve(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return "", false
	}
	return res.EmployeeID, true
}

// ClockIn implements TimeclockHandler.
func (h *timeclockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req terminalClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	employeeID, ok := h.resolveCode(w, r, req.Code)
	if !ok {
		return
	}

	result, err := h.timeclockService.ClockIn(r.Context(), timeclock.ClockInRequest{
		EmployeeID: employeeID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements TimeclockHandler.
func (h *timeclockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req terminalCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	employeeID, ok := h.resolveCode(w, r, req.Code)
	if !ok {
		return
	}

	result, err := h.timeclockService.ClockOut(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// StartBreak implements TimeclockHandler.
func (h *timeclockHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	var req terminalBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	employeeID, ok := h.resolveCode(w, r, req.Code)
	if !ok {
		return
	}

	result, err := h.timeclockService.StartBreak(r.Context(), timeclock.StartBreakRequest{
		EmployeeID:  employeeID,
		Kind:        timeclock.PauseKind(req.Kind),
		Description: req.Description,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break started", result)
}

// EndBreak implements TimeclockHandler.
func (h *timeclockHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	var req terminalCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	employeeID, ok := h.resolveCode(w, r, req.Code)
	if !ok {
		return
	}

	result, err := h.timeclockService.EndBreak(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// Status implements TimeclockHandler.
func (h *timeclockHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	employeeID, ok := h.resolveCode(w, r, code)
	if !ok {
		return
	}

	result, err := h.timeclockService.CurrentStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyStatus implements TimeclockHandler.
func (h *timeclockHandlerImpl) MyStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.timeclockService.CurrentStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyRecords implements TimeclockHandler.
func (h *timeclockHandlerImpl) MyRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := parseRecordFilter(r)

	result, err := h.timeclockService.MyRecords(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements TimeclockHandler.
func (h *timeclockHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseRecordFilter(r)

	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("employee_name"); v != "" {
		filter.EmployeeName = &v
	}

	result, err := h.timeclockService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements TimeclockHandler.
func (h *timeclockHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.timeclockService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Sweep implements TimeclockHandler. A manual trigger for the stale-session
// watchdog, same closure the scheduler runs.
func (h *timeclockHandlerImpl) Sweep(w http.ResponseWriter, r *http.Request) {
	var employeeID *string
	if v := r.URL.Query().Get("employee_id"); v != "" {
		employeeID = &v
	}

	closed, err := h.timeclockService.SweepStale(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"closed": closed})
}

func parseRecordFilter(r *http.Request) timeclock.RecordFilter {
	q := r.URL.Query()

	filter := timeclock.RecordFilter{
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("date"); v != "" {
		filter.Date = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	if v := q.Get("modified"); v != "" {
		modified := v == "true" || v == "1"
		filter.Modified = &modified
	}
	if v := q.Get("pending_validation"); v != "" {
		pending := v == "true" || v == "1"
		filter.PendingValidation = &pending
	}

	return filter
}
