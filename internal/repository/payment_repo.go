package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type paymentRepository struct {
	db   *gorm.DB
	node *snowflake.Node
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == 0 {
		p.ID = r.node.Generate()
	}
	m := paymentModel{
		ID:          int64(p.ID),
		BookingID:   int64(p.BookingID),
		Amount:      p.Amount,
		PaymentType: string(p.PaymentType),
		CreatedAt:   p.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("insert payment", err)
	}
	p.CreatedAt = utc(m.CreatedAt)
	return nil
}

// ListByBooking returns the payment ledger of one booking in insertion order.
func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID snowflake.ID) ([]domain.Payment, error) {
	var rows []paymentModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", int64(bookingID)).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr("query payments", err)
	}

	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainPayment(m))
	}
	return out, nil
}

func (r *paymentRepository) ListByBookings(ctx context.Context, bookingIDs []snowflake.ID) (map[snowflake.ID][]domain.Payment, error) {
	out := make(map[snowflake.ID][]domain.Payment, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}

	raw := make([]int64, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		raw = append(raw, int64(id))
	}

	var rows []paymentModel
	err := r.db.WithContext(ctx).
		Where("booking_id IN ?", raw).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapErr("query payments", err)
	}

	for _, m := range rows {
		p := toDomainPayment(m)
		out[p.BookingID] = append(out[p.BookingID], p)
	}
	return out, nil
}
