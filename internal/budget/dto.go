package budget

import (
	errors "github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/core/validation"
	"github.com/shopspring/decimal"
)

const maxTitleLength = 200

// CreateBudgetRequestDTO carries a new budget request submission.
// UserID is filled by the handler from the session, never from the body.
type CreateBudgetRequestDTO struct {
	UserID string          `json:"userId"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

func (d *CreateBudgetRequestDTO) Validate() *errors.AppError {
	v := validation.NewValidator()

	v.Field("userId", d.UserID).Required()
	v.Field("title", d.Title).Required().MaxLength(maxTitleLength)
	v.Field("amount", d.Amount).Positive(errors.ErrCodeInvalidAmount)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateStatusDTO carries a manager decision.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d *UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()

	v.Field("status", d.Status).
		OneOf(errors.ErrCodeInvalidStatus, string(StatusApproved), string(StatusRejected))

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
