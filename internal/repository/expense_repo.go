package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type expenseRepository struct {
	db   *gorm.DB
	node *snowflake.Node
}

func (r *expenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	if e.ID == 0 {
		e.ID = r.node.Generate()
	}
	m := toExpenseModel(e)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("insert expense", err)
	}
	e.CreatedAt = utc(m.CreatedAt)
	e.UpdatedAt = utc(m.UpdatedAt)
	return nil
}

func (r *expenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	tx := r.db.WithContext(ctx).
		Model(&expenseModel{}).
		Where("id = ?", int64(e.ID)).
		Updates(map[string]any{
			"category":     string(e.Category),
			"description":  optional(e.Description),
			"amount":       e.Amount,
			"expense_date": e.ExpenseDate.Time,
		})
	if tx.Error != nil {
		return wrapErr("update expense", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFoundf("expense %s", e.ID)
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Expense, error) {
	var m expenseModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, wrapErr("expense "+id.String(), err)
	}
	return toDomainExpense(m), nil
}

// List returns expenses dated within [From, To], both ends inclusive, newest first.
func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error) {
	q := r.db.WithContext(ctx).Model(&expenseModel{})
	if filter.From != nil {
		q = q.Where("expense_date >= ?", filter.From.Time)
	}
	if filter.To != nil {
		// date granularity: everything before the following midnight
		q = q.Where("expense_date < ?", filter.To.AddDays(1).Time)
	}

	var rows []expenseModel
	if err := q.Order("expense_date DESC").Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrapErr("query expenses", err)
	}

	out := make([]domain.Expense, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainExpense(m))
	}
	return out, nil
}

func (r *expenseRepository) SumByDateRange(ctx context.Context, from, to *domain.Date) (decimal.Decimal, error) {
	rows, err := r.List(ctx, ExpenseFilter{From: from, To: to})
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range rows {
		total = total.Add(e.Amount)
	}
	return total, nil
}
