package budget

import (
	"time"

	budgetDatamodel "github.com/frahmantamala/budget-approval/internal/core/datamodel/budget"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a budget request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsDecisionStatus reports whether s is a terminal decision a manager
// may set. Pending is the initial state only, never a decision target.
func IsDecisionStatus(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// BudgetRequest is a spending request awaiting a manager decision.
type BudgetRequest struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	RequestedBy string          `json:"requestedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"-"`
}

// IsDecided reports whether the request already left Pending.
func (b *BudgetRequest) IsDecided() bool {
	return b.Status != StatusPending
}

// ServiceAPI is the budget surface consumed by handlers.
type ServiceAPI interface {
	SubmitRequest(dto CreateBudgetRequestDTO) (*BudgetRequest, error)
	ListOwnRequests(userID string) ([]BudgetRequest, error)
	ListPending() ([]BudgetRequest, error)
	ListAll() ([]BudgetRequest, error)
	SetStatus(id int64, dto UpdateStatusDTO) (*BudgetRequest, error)
	GetSummary() (*Summary, error)
}

// NewBudgetRequest builds a pending request for the given submitter.
func NewBudgetRequest(title string, amount decimal.Decimal, requestedBy string) *BudgetRequest {
	now := time.Now().UTC()
	return &BudgetRequest{
		Title:       title,
		Amount:      amount,
		Status:      StatusPending,
		RequestedBy: requestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(b *BudgetRequest) *budgetDatamodel.BudgetRequest {
	return &budgetDatamodel.BudgetRequest{
		ID:          b.ID,
		Title:       b.Title,
		Amount:      b.Amount,
		Status:      string(b.Status),
		RequestedBy: b.RequestedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDataModel(m *budgetDatamodel.BudgetRequest) *BudgetRequest {
	return &BudgetRequest{
		ID:          m.ID,
		Title:       m.Title,
		Amount:      m.Amount,
		Status:      Status(m.Status),
		RequestedBy: m.RequestedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModelSlice(models []budgetDatamodel.BudgetRequest) []BudgetRequest {
	out := make([]BudgetRequest, 0, len(models))
	for i := range models {
		out = append(out, *FromDataModel(&models[i]))
	}
	return out
}
