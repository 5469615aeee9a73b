package employeecode

import (
	"context"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

type Service interface {
	// Resolve normalizes the code (trim, uppercase) and returns the employee
	// identity it maps to. The resolved ID is the only identity the clock
	// operations use; codes never leave the presentation edge.
	Resolve(ctx context.Context, code string) (Resolution, error)

	Create(ctx context.Context, req CreateCodeRequest) (EmployeeCode, error)
	Deactivate(ctx context.Context, code string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]EmployeeCode, error)
}

type Resolution struct {
	EmployeeID string `json:"employee_id"`
	Label      string `json:"label"`
}

type CodeResponse struct {
	Code       string `json:"code"`
	EmployeeID string `json:"employee_id"`
	Label      string `json:"label"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}

func ToCodeResponse(ec EmployeeCode) CodeResponse {
	return CodeResponse{
		Code:       ec.Code,
		EmployeeID: ec.EmployeeID,
		Label:      ec.Label,
		Active:     ec.Active,
		CreatedAt:  ec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CreateCodeRequest struct {
	Code       string `json:"code"`
	EmployeeID string `json:"employee_id"`
	Label      string `json:"label"`
}

func (r *CreateCodeRequest) Validate() error {
	var errs validator.ValidationErrors

	normalized := validator.NormalizeEmployeeCode(r.Code)
	if !validator.IsValidEmployeeCode(normalized) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 3-10 letters or digits",
		})
	}

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{
			Field:   "label",
			Message: "label is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
