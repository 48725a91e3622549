package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/budget-approval/internal"
	"github.com/frahmantamala/budget-approval/internal/budget"
	budgetDatamodel "github.com/frahmantamala/budget-approval/internal/core/datamodel/budget"
	"gorm.io/gorm"
)

// BudgetRepository implements the budget.Repository interface using GORM
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget request repository
func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

// Create saves a new budget request and backfills the generated id
func (r *BudgetRepository) Create(b *budget.BudgetRequest) error {
	model := budget.ToDataModel(b)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	b.ID = model.ID
	return nil
}

// GetByID retrieves a budget request by its ID
func (r *BudgetRepository) GetByID(id int64) (*budget.BudgetRequest, error) {
	var model budgetDatamodel.BudgetRequest
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBudgetRequestNotFound
		}
		return nil, err
	}
	return budget.FromDataModel(&model), nil
}

// GetByRequester retrieves all requests submitted by a user, newest first
func (r *BudgetRepository) GetByRequester(userID string) ([]budget.BudgetRequest, error) {
	var models []budgetDatamodel.BudgetRequest
	err := r.db.Where("requested_by = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return budget.FromDataModelSlice(models), nil
}

// GetByStatus retrieves requests in the given state, oldest first
func (r *BudgetRepository) GetByStatus(status budget.Status) ([]budget.BudgetRequest, error) {
	var models []budgetDatamodel.BudgetRequest
	err := r.db.Where("status = ?", string(status)).
		Order("created_at ASC"). // FIFO for review queues
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return budget.FromDataModelSlice(models), nil
}

// GetAll retrieves every budget request, newest first
func (r *BudgetRepository) GetAll() ([]budget.BudgetRequest, error) {
	var models []budgetDatamodel.BudgetRequest
	err := r.db.Order("created_at DESC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return budget.FromDataModelSlice(models), nil
}

// UpdateStatus updates only the status field of a budget request
func (r *BudgetRepository) UpdateStatus(id int64, status budget.Status) error {
	result := r.db.Model(&budgetDatamodel.BudgetRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrBudgetRequestNotFound
	}
	return nil
}
