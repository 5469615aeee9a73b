package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/gestionet/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BreakRuleHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Set(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type breakRuleHandlerImpl struct {
	breakRuleService breakrule.Service
}

func NewBreakRuleHandler(breakRuleService breakrule.Service) BreakRuleHandler {
	return &breakRuleHandlerImpl{
		breakRuleService: breakRuleService,
	}
}

// Get implements BreakRuleHandler.
func (h *breakRuleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	rule, err := h.breakRuleService.GetRule(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, breakrule.ToRuleResponse(rule))
}

// Set implements BreakRuleHandler.
func (h *breakRuleHandlerImpl) Set(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req breakrule.SetRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = employeeID

	rule, err := h.breakRuleService.SetRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break rule saved", breakrule.ToRuleResponse(rule))
}

// Deactivate implements BreakRuleHandler.
func (h *breakRuleHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if err := h.breakRuleService.DeactivateRule(r.Context(), employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break rule deactivated", nil)
}
