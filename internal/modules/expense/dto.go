package expense

import (
	"github.com/shopspring/decimal"

	"resortbooking/internal/domain"
)

type ExpenseRequest struct {
	Category    domain.ExpenseCategory `json:"category" binding:"required,oneof=Supplies Utilities Maintenance Staff Marketing Taxes Other"`
	Description string                 `json:"description" binding:"max=500"`
	Amount      decimal.Decimal        `json:"amount"`
	ExpenseDate domain.Date            `json:"expense_date"`
}

func (r ExpenseRequest) apply(e *domain.Expense) {
	e.Category = r.Category
	e.Description = r.Description
	e.Amount = r.Amount
	e.ExpenseDate = domain.NewDate(r.ExpenseDate.Time)
}
