// Package report aggregates bookings, payments and expenses into the
// dashboard figures: monthly stats, revenue per month, sales rows and totals.
//
// Every booking figure is bucketed by the booking's start date. Revenue is the
// net of all payments plus the amenities total of the same bookings.
package report

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/ledger"
	"resortbooking/internal/repository"
)

// DefaultForecastMonths is the trailing window of the revenue chart.
const DefaultForecastMonths = 6

type Service struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store repository.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}

type MonthlyStats struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	TotalBookings   int             `json:"total_bookings"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	FullyPaid       int             `json:"fully_paid"`
}

type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesRow struct {
	BookingID       snowflake.ID         `json:"booking_id"`
	ClientName      string               `json:"client_name"`
	EventType       string               `json:"event_type"`
	StartDate       time.Time            `json:"start_date"`
	EndDate         time.Time            `json:"end_date"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	TotalPaid       decimal.Decimal      `json:"total_paid"`
	AmenitiesTotal  decimal.Decimal      `json:"amenities_total"`
	RemainingAmount decimal.Decimal      `json:"remaining_amount"`
	Status          domain.BookingStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

type Summary struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"net_income"`
}

// entry is one booking with its ledger, as the aggregations consume it.
type entry struct {
	booking  domain.Booking
	payments []domain.Payment
}

func (e entry) revenue() decimal.Decimal {
	return ledger.TotalPaid(e.payments).Add(e.booking.AmenitiesTotal())
}

// MonthlyStats aggregates bookings starting in [from, to).
func (s *Service) MonthlyStats(ctx context.Context, from, to time.Time) (*MonthlyStats, error) {
	if !to.After(from) {
		return nil, domain.Validationf("range end must be after its start")
	}

	from, to = from.UTC(), to.UTC()
	entries, err := s.load(ctx, &from, &to)
	if err != nil {
		return nil, err
	}

	stats := &MonthlyStats{
		From:            from,
		To:              to,
		TotalRevenue:    decimal.Zero,
		PendingPayments: decimal.Zero,
	}
	for _, e := range entries {
		stats.TotalRevenue = stats.TotalRevenue.Add(e.revenue())
		if e.booking.IsCancelled() {
			continue
		}

		stats.TotalBookings++
		remaining := ledger.Remaining(e.booking.EffectiveTotal(), e.payments)
		if remaining.IsPositive() {
			stats.PendingPayments = stats.PendingPayments.Add(remaining)
		} else {
			stats.FullyPaid++
		}
	}
	return stats, nil
}

// RevenueForecast returns historical revenue for the trailing months, oldest
// first, the current month included. Nothing is projected forward.
func (s *Service) RevenueForecast(ctx context.Context, monthsBack int) ([]MonthRevenue, error) {
	if monthsBack <= 0 {
		monthsBack = DefaultForecastMonths
	}

	current := domain.MonthStart(s.now())
	first := current.AddDate(0, -(monthsBack - 1), 0)
	end := current.AddDate(0, 1, 0)

	entries, err := s.load(ctx, &first, &end)
	if err != nil {
		return nil, err
	}

	out := make([]MonthRevenue, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := range out {
		month := first.AddDate(0, i, 0).Format(domain.MonthLayout)
		out[i] = MonthRevenue{Month: month, Revenue: decimal.Zero}
		index[month] = i
	}
	for _, e := range entries {
		i, ok := index[e.booking.StartDate.UTC().Format(domain.MonthLayout)]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(e.revenue())
	}
	return out, nil
}

// SalesReport lists every booking, cancelled ones included, starting within
// the inclusive date range. Nil bounds are open.
func (s *Service) SalesReport(ctx context.Context, from, to *domain.Date) ([]SalesRow, error) {
	if err := checkDates(from, to); err != nil {
		return nil, err
	}
	start, end := domain.DayRange(from, to)
	entries, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	clientIDs := make([]snowflake.ID, 0, len(entries))
	for _, e := range entries {
		clientIDs = append(clientIDs, e.booking.ClientID)
	}
	clients, err := s.store.Clients().GetByIDs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]SalesRow, 0, len(entries))
	for _, e := range entries {
		sum := ledger.Summarize(&e.booking, e.payments)
		rows = append(rows, SalesRow{
			BookingID:       e.booking.ID,
			ClientName:      clients[e.booking.ClientID].Name,
			EventType:       e.booking.EventType,
			StartDate:       e.booking.StartDate,
			EndDate:         e.booking.EndDate,
			TotalAmount:     sum.EffectiveTotal,
			TotalPaid:       sum.TotalPaid,
			AmenitiesTotal:  sum.AmenitiesTotal,
			RemainingAmount: sum.Remaining,
			Status:          e.booking.Status,
			CreatedAt:       e.booking.CreatedAt,
		})
	}
	return rows, nil
}

// ExpensesTotal sums expenses dated within the inclusive range.
func (s *Service) ExpensesTotal(ctx context.Context, from, to *domain.Date) (decimal.Decimal, error) {
	if err := checkDates(from, to); err != nil {
		return decimal.Zero, err
	}
	return s.store.Expenses().SumByDateRange(ctx, from, to)
}

// Summary nets revenue of bookings starting in the range against the
// expenses dated in it.
func (s *Service) Summary(ctx context.Context, from, to *domain.Date) (*Summary, error) {
	if err := checkDates(from, to); err != nil {
		return nil, err
	}
	start, end := domain.DayRange(from, to)
	entries, err := s.load(ctx, start, end)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, e := range entries {
		revenue = revenue.Add(e.revenue())
	}
	expenses, err := s.store.Expenses().SumByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s.log.Debug("summary computed",
		zap.Int("bookings", len(entries)),
		zap.String("revenue", revenue.String()),
		zap.String("expenses", expenses.String()),
	)
	return &Summary{
		Revenue:   revenue,
		Expenses:  expenses,
		NetIncome: revenue.Sub(expenses),
	}, nil
}

func (s *Service) load(ctx context.Context, from, to *time.Time) ([]entry, error) {
	bookings, err := s.store.Bookings().List(ctx, repository.BookingFilter{
		StartFrom: from,
		StartTo:   to,
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}

	ids := make([]snowflake.ID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	payments, err := s.store.Payments().ListByBookings(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]entry, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, entry{booking: b, payments: payments[b.ID]})
	}
	return out, nil
}

func checkDates(from, to *domain.Date) error {
	if from != nil && to != nil && to.Before(from.Time) {
		return domain.Validationf("to date must not be before from date")
	}
	return nil
}
