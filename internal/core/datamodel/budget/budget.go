package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type BudgetRequest struct {
	ID          int64           `gorm:"primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(18,4);not null"`
	Status      string          `gorm:"column:status;not null;default:Pending;index"`
	RequestedBy string          `gorm:"column:requested_by;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;default:now()"`
}

func (BudgetRequest) TableName() string {
	return "budget_requests"
}
