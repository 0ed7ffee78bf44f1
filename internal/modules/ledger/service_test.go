package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resortbooking/internal/database/dbtest"
	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

func seedBooking(t *testing.T, store repository.Store, base int64, amenities []domain.AmenityLine, payments ...domain.Payment) snowflake.ID {
	t.Helper()
	ctx := context.Background()

	client := &domain.Client{Name: "Maria Santos"}
	require.NoError(t, store.Clients().Create(ctx, client))

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	b := &domain.Booking{
		ClientID:        client.ID,
		EventType:       "Birthday",
		StartDate:       start,
		EndDate:         start.Add(6 * time.Hour),
		BaseTotalAmount: dec(base),
		ExtraAmenities:  amenities,
	}
	require.NoError(t, store.Bookings().Create(ctx, b))

	for _, p := range payments {
		p.BookingID = b.ID
		require.NoError(t, store.Payments().Create(ctx, &p))
	}
	return b.ID
}

func TestCancel_FullyPaidIssuesHalfRefund(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	id := seedBooking(t, store, 5000,
		[]domain.AmenityLine{domain.NewAmenityLine("Chairs", dec(50), 10)},
		pay(5500, domain.PaymentFull),
	)

	res, err := svc.Cancel(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Refunded)
	assert.True(t, res.RefundAmount.Equal(dec(2750)))
	assert.True(t, res.Remaining.Equal(dec(2750)))

	payments, err := store.Payments().ListByBooking(ctx, id)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.PaymentRefund, payments[1].PaymentType)
	assert.True(t, payments[1].Amount.Equal(dec(-2750)))

	b, err := store.Bookings().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.NotNil(t, b.CancelledAt)
	assert.True(t, Remaining(b.EffectiveTotal(), payments).Equal(dec(2750)))
}

func TestCancel_PartiallyPaidNoRefund(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	id := seedBooking(t, store, 3000, nil, pay(1000, domain.PaymentPartial))

	res, err := svc.Cancel(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Refunded)
	assert.True(t, res.RefundAmount.IsZero())
	assert.True(t, res.Remaining.Equal(dec(2000)))

	payments, err := store.Payments().ListByBooking(ctx, id)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	b, err := store.Bookings().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

// Cancelling twice is guarded: the second call fails and no second refund is
// written, unlike the unguarded flow that would refund again off the reduced total.
func TestCancel_SecondCancelIsRejected(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	id := seedBooking(t, store, 5500, nil, pay(5500, domain.PaymentFull))

	_, err := svc.Cancel(ctx, id)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, id)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.ErrorIs(t, err, domain.ErrValidation)

	payments, err := store.Payments().ListByBooking(ctx, id)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestCancel_UnknownBooking(t *testing.T) {
	store := dbtest.NewStore(t)
	svc := NewService(store, zap.NewNop())

	_, err := svc.Cancel(context.Background(), snowflake.ID(42))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
