package budget

import (
	"log/slog"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/shopspring/decimal"
)

// Repository is the persistence surface for budget requests.
type Repository interface {
	Create(b *BudgetRequest) error
	GetByID(id int64) (*BudgetRequest, error)
	GetByRequester(userID string) ([]BudgetRequest, error)
	GetByStatus(status Status) ([]BudgetRequest, error)
	GetAll() ([]BudgetRequest, error)
	UpdateStatus(id int64, status Status) error
}

// StatusSummary aggregates requests per lifecycle state.
type StatusSummary struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Summary is the admin dashboard aggregate.
type Summary struct {
	Pending  StatusSummary `json:"pending"`
	Approved StatusSummary `json:"approved"`
	Rejected StatusSummary `json:"rejected"`
}

// Service implements the budget request workflow.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SubmitRequest validates and stores a new pending request.
func (s *Service) SubmitRequest(dto CreateBudgetRequestDTO) (*BudgetRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := NewBudgetRequest(dto.Title, dto.Amount, dto.UserID)
	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create budget request", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("budget request submitted",
		"request_id", req.ID,
		"user_id", req.RequestedBy,
		"amount", req.Amount)
	return req, nil
}

// ListOwnRequests returns the requests submitted by the given user.
func (s *Service) ListOwnRequests(userID string) ([]BudgetRequest, error) {
	return s.repo.GetByRequester(userID)
}

// ListPending returns all requests still awaiting a decision.
func (s *Service) ListPending() ([]BudgetRequest, error) {
	return s.repo.GetByStatus(StatusPending)
}

// ListAll returns every request regardless of owner or status.
func (s *Service) ListAll() ([]BudgetRequest, error) {
	return s.repo.GetAll()
}

// SetStatus applies a manager decision. A request can be decided exactly
// once; a second decision attempt fails regardless of the new status.
func (s *Service) SetStatus(id int64, dto UpdateStatusDTO) (*BudgetRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	status := Status(dto.Status)

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.IsDecided() {
		s.logger.Warn("decision attempted on decided request",
			"request_id", id,
			"current_status", req.Status,
			"requested_status", status)
		return nil, internal.ErrAlreadyDecided
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		s.logger.Error("failed to update budget request status", "error", err, "request_id", id)
		return nil, err
	}

	req.Status = status
	s.logger.Info("budget request decided", "request_id", id, "status", status)
	return req, nil
}

// GetSummary aggregates counts and totals per status for dashboards.
func (s *Service) GetSummary() (*Summary, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Pending:  StatusSummary{TotalAmount: decimal.Zero},
		Approved: StatusSummary{TotalAmount: decimal.Zero},
		Rejected: StatusSummary{TotalAmount: decimal.Zero},
	}

	for i := range all {
		req := &all[i]
		switch req.Status {
		case StatusPending:
			summary.Pending.Count++
			summary.Pending.TotalAmount = summary.Pending.TotalAmount.Add(req.Amount)
		case StatusApproved:
			summary.Approved.Count++
			summary.Approved.TotalAmount = summary.Approved.TotalAmount.Add(req.Amount)
		case StatusRejected:
			summary.Rejected.Count++
			summary.Rejected.TotalAmount = summary.Rejected.TotalAmount.Add(req.Amount)
		}
	}

	return summary, nil
}
