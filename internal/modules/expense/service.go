package expense

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/validator"
	"resortbooking/internal/repository"
)

var (
	ErrInvalidAmount = fmt.Errorf("%w: expense amount must be greater than 0", domain.ErrValidation)
	ErrMissingDate   = fmt.Errorf("%w: expense date is required", domain.ErrValidation)
)

type Service struct {
	store repository.Store
	log   *zap.Logger
}

func NewService(store repository.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Create(ctx context.Context, req ExpenseRequest) (*domain.Expense, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	e := &domain.Expense{}
	req.apply(e)
	if err := s.store.Expenses().Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info("expense recorded",
		zap.String("expense_id", e.ID.String()),
		zap.String("category", string(e.Category)),
		zap.String("amount", e.Amount.String()),
		zap.String("expense_date", e.ExpenseDate.String()),
	)
	return e, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req ExpenseRequest) (*domain.Expense, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	e := &domain.Expense{ID: id}
	req.apply(e)
	if err := s.store.Expenses().Update(ctx, e); err != nil {
		return nil, err
	}
	return s.store.Expenses().GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Expense, error) {
	return s.store.Expenses().GetByID(ctx, id)
}

// List returns expenses newest first, optionally limited to one YYYY-MM month.
func (s *Service) List(ctx context.Context, month string) ([]domain.Expense, error) {
	var filter repository.ExpenseFilter
	if month != "" {
		from, to, err := domain.MonthRange(month)
		if err != nil {
			return nil, err
		}
		first := domain.NewDate(from)
		last := domain.NewDate(to).AddDays(-1)
		filter.From, filter.To = &first, &last
	}
	return s.store.Expenses().List(ctx, filter)
}

func check(req ExpenseRequest) error {
	if err := validator.Check(req); err != nil {
		return err
	}
	if !req.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !domain.HasCents(req.Amount) {
		return domain.Validationf("expense amount is limited to two decimal places and %d whole digits", domain.MaxWholeDigits)
	}
	if req.ExpenseDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}
