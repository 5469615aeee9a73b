package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeCodeHandler interface {
	// Resolve is the terminal's identity lookup.
	Resolve(w http.ResponseWriter, r *http.Request)

	Create(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
}

type employeeCodeHandlerImpl struct {
	codeService employeecode.Service
}

func NewEmployeeCodeHandler(codeService employeecode.Service) EmployeeCodeHandler {
	return &employeeCodeHandlerImpl{
		codeService: codeService,
	}
}

type resolveCodeRequest struct {
	Code string `json:"code"`
}

// Resolve implements EmployeeCodeHandler.
func (h *employeeCodeHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.codeService.Resolve(r.Context(), req.Code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, res)
}

// Create implements EmployeeCodeHandler.
func (h *employeeCodeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employeecode.CreateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.codeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee code created", employeecode.ToCodeResponse(created))
}

// Deactivate implements EmployeeCodeHandler.
func (h *employeeCodeHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, "Code is required", nil)
		return
	}

	if err := h.codeService.Deactivate(r.Context(), code); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee code deactivated", nil)
}

// ListByEmployee implements EmployeeCodeHandler.
func (h *employeeCodeHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	codes, err := h.codeService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]employeecode.CodeResponse, len(codes))
	for i, ec := range codes {
		responses[i] = employeecode.ToCodeResponse(ec)
	}
	response.Success(w, responses)
}
