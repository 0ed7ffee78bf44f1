package ledger

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

type CancellationResult struct {
	BookingID    snowflake.ID    `json:"booking_id"`
	Refunded     bool            `json:"refunded"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Refund       *domain.Payment `json:"refund,omitempty"`
	Remaining    decimal.Decimal `json:"remaining_amount"`
}

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

// Cancel moves an active booking to cancelled, inserting a refund payment when
// the booking was fully paid. Cancelling twice fails with ErrAlreadyCancelled
// and changes nothing, so a second smaller refund can never be issued.
func (s *Service) Cancel(ctx context.Context, bookingID snowflake.ID) (*CancellationResult, error) {
	var result *CancellationResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		result, err = s.cancel(ctx, tx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.Bool("refunded", result.Refunded),
		zap.String("refund_amount", result.RefundAmount.String()),
	)
	return result, nil
}

func (s *Service) cancel(ctx context.Context, tx repository.Store, bookingID snowflake.ID) (*CancellationResult, error) {
	b, err := tx.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}

	payments, err := tx.Payments().ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	result := &CancellationResult{BookingID: bookingID, RefundAmount: decimal.Zero}

	if amount, ok := RefundFor(b.EffectiveTotal(), payments); ok {
		refund := &domain.Payment{
			BookingID:   bookingID,
			Amount:      amount.Neg(),
			PaymentType: domain.PaymentRefund,
		}
		if err := tx.Payments().Create(ctx, refund); err != nil {
			return nil, err
		}
		payments = append(payments, *refund)
		result.Refunded = true
		result.RefundAmount = amount
		result.Refund = refund
	}

	if err := tx.Bookings().UpdateStatus(ctx, bookingID, domain.BookingCancelled, s.now()); err != nil {
		return nil, err
	}

	result.Remaining = Remaining(b.EffectiveTotal(), payments)
	return result, nil
}
