package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

// Store is the entity store handle. Every service receives one explicitly.
type Store interface {
	Clients() ClientRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	Expenses() ExpenseRepository

	// Transaction runs fn against a store bound to one database transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id snowflake.ID) (*domain.Client, error)
	GetByIDs(ctx context.Context, ids []snowflake.ID) (map[snowflake.ID]domain.Client, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	UpdateStatus(ctx context.Context, id snowflake.ID, status domain.BookingStatus, at time.Time) error
	GetByID(ctx context.Context, id snowflake.ID) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	CountOverlapping(ctx context.Context, start, end time.Time, exclude snowflake.ID) (int64, error)
	BusySlots(ctx context.Context, from, to time.Time) ([]BusySlot, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	ListByBooking(ctx context.Context, bookingID snowflake.ID) ([]domain.Payment, error)
	ListByBookings(ctx context.Context, bookingIDs []snowflake.ID) (map[snowflake.ID][]domain.Payment, error)
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) error
	Update(ctx context.Context, e *domain.Expense) error
	GetByID(ctx context.Context, id snowflake.ID) (*domain.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error)
	SumByDateRange(ctx context.Context, from, to *domain.Date) (decimal.Decimal, error)
}

// BookingFilter narrows booking queries. Start bounds are half-open: [StartFrom, StartTo).
type BookingFilter struct {
	Status    domain.BookingStatus
	StartFrom *time.Time
	StartTo   *time.Time
	Ascending bool
	Limit     int
}

// ExpenseFilter bounds are inclusive calendar dates.
type ExpenseFilter struct {
	From *domain.Date
	To   *domain.Date
}

type BusySlot struct {
	BookingID snowflake.ID `gorm:"column:id"`
	Start     time.Time    `gorm:"column:start_date"`
	End       time.Time    `gorm:"column:end_date"`
}

type gormStore struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewStore(db *gorm.DB, node *snowflake.Node) Store {
	return &gormStore{db: db, node: node}
}

func (s *gormStore) Clients() ClientRepository   { return &clientRepository{db: s.db, node: s.node} }
func (s *gormStore) Bookings() BookingRepository { return &bookingRepository{db: s.db, node: s.node} }
func (s *gormStore) Payments() PaymentRepository { return &paymentRepository{db: s.db, node: s.node} }
func (s *gormStore) Expenses() ExpenseRepository { return &expenseRepository{db: s.db, node: s.node} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&gormStore{db: tx, node: s.node})
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		return fnErr
	}
	return wrapErr("commit transaction", err)
}

// wrapErr maps driver errors onto domain error kinds at the store boundary.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundf("%s", op)
	}
	return &domain.StorageError{Op: op, Err: err, Retryable: isRetryable(err)}
}

// isRetryable reports whether err is a transient contention failure that the
// caller may retry: postgres serialization failures and deadlocks, sqlite busy locks.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy")
}

func utc(t time.Time) time.Time {
	return t.UTC()
}
