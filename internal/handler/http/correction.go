package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/gestionet/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Modify(w http.ResponseWriter, r *http.Request)
	Notify(w http.ResponseWriter, r *http.Request)
	Backfill(w http.ResponseWriter, r *http.Request)
	ListAudit(w http.ResponseWriter, r *http.Request)

	// Employee-facing
	Validate(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.Service
}

func NewCorrectionHandler(correctionService correction.Service) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
	}
}

// Modify implements CorrectionHandler.
func (h *correctionHandlerImpl) Modify(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req correction.ModifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RecordID = recordID
	req.ActorID = actorID

	result, err := h.correctionService.Modify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record corrected", result)
}

// Notify implements CorrectionHandler.
func (h *correctionHandlerImpl) Notify(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	if err := h.correctionService.Notify(r.Context(), recordID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee notified", nil)
}

// Backfill implements CorrectionHandler.
func (h *correctionHandlerImpl) Backfill(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req correction.BackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ActorID = actorID

	result, err := h.correctionService.AddRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Record added", result)
}

// ListAudit implements CorrectionHandler.
func (h *correctionHandlerImpl) ListAudit(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	entries, err := h.correctionService.ListAudit(r.Context(), recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// Validate implements CorrectionHandler. The authenticated employee settles
// the pending correction on their own record.
func (h *correctionHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req correction.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.RecordID = recordID
	req.EmployeeID = employeeID

	result, err := h.correctionService.Validate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction settled", result)
}
