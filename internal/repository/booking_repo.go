package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

type bookingRepository struct {
	db   *gorm.DB
	node *snowflake.Node
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == 0 {
		b.ID = r.node.Generate()
	}
	if b.Status == "" {
		b.Status = domain.BookingActive
	}
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("insert booking", err)
	}
	b.CreatedAt = utc(m.CreatedAt)
	b.UpdatedAt = utc(m.UpdatedAt)
	return nil
}

// Update rewrites the editable booking fields. Status and created_at are never
// touched here; lifecycle changes go through UpdateStatus.
func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"event_type":        m.EventType,
			"number_of_person":  m.NumberOfPerson,
			"start_date":        m.StartDate,
			"end_date":          m.EndDate,
			"base_total_amount": m.BaseTotalAmount,
			"extra_amenities":   m.ExtraAmenities,
		})
	if tx.Error != nil {
		return wrapErr("update booking", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFoundf("booking %s", b.ID)
	}
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.BookingStatus, at time.Time) error {
	updates := map[string]any{"status": string(status)}
	if status == domain.BookingCancelled {
		updates["cancelled_at"] = utc(at)
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", int64(id)).
		Updates(updates)
	if tx.Error != nil {
		return wrapErr("update booking status", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return domain.NotFoundf("booking %s", id)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, int64(id)).Error; err != nil {
		return nil, wrapErr("booking "+id.String(), err)
	}
	return toDomainBooking(m), nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.StartFrom != nil {
		q = q.Where("start_date >= ?", utc(*filter.StartFrom))
	}
	if filter.StartTo != nil {
		q = q.Where("start_date < ?", utc(*filter.StartTo))
	}
	if filter.Ascending {
		q = q.Order("start_date ASC").Order("id ASC")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, wrapErr("query bookings", err)
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CountOverlapping counts active bookings intersecting [start, end).
// Two ranges overlap if: start1 < end2 AND end1 > start2.
func (r *bookingRepository) CountOverlapping(ctx context.Context, start, end time.Time, exclude snowflake.ID) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("status = ?", string(domain.BookingActive)).
		Where("start_date < ? AND end_date > ?", utc(end), utc(start))
	if exclude != 0 {
		q = q.Where("id <> ?", int64(exclude))
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return 0, wrapErr("count overlapping bookings", err)
	}
	return cnt, nil
}

func (r *bookingRepository) BusySlots(ctx context.Context, from, to time.Time) ([]BusySlot, error) {
	var rows []BusySlot
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("id, start_date, end_date").
		Where("status = ?", string(domain.BookingActive)).
		Where("start_date < ? AND end_date > ?", utc(to), utc(from)).
		Order("start_date").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("query busy slots", err)
	}
	for i := range rows {
		rows[i].Start = utc(rows[i].Start)
		rows[i].End = utc(rows[i].End)
	}
	return rows, nil
}
