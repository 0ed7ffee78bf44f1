// Package availability answers whether a time range is free of active bookings.
package availability

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	"resortbooking/internal/domain"
	"resortbooking/internal/repository"
)

// SlotQuerier is the part of the booking repository the checker reads.
type SlotQuerier interface {
	CountOverlapping(ctx context.Context, start, end time.Time, exclude snowflake.ID) (int64, error)
	BusySlots(ctx context.Context, from, to time.Time) ([]repository.BusySlot, error)
}

type TimeSlot struct {
	BookingID snowflake.ID `json:"booking_id"`
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
}

type Checker struct {
	bookings SlotQuerier
}

func NewChecker(bookings SlotQuerier) *Checker {
	return &Checker{bookings: bookings}
}

// IsSlotAvailable reports whether [start, end) is free. Intervals are half-open,
// so a booking ending exactly at start does not conflict. Cancelled bookings
// never block a slot.
func (c *Checker) IsSlotAvailable(ctx context.Context, start, end time.Time) (bool, error) {
	return c.IsSlotAvailableExcluding(ctx, start, end, 0)
}

// IsSlotAvailableExcluding ignores the booking being edited so it never
// conflicts with itself.
func (c *Checker) IsSlotAvailableExcluding(ctx context.Context, start, end time.Time, exclude snowflake.ID) (bool, error) {
	if !end.After(start) {
		return false, domain.Validationf("end date & time must be after the start date & time")
	}
	cnt, err := c.bookings.CountOverlapping(ctx, start, end, exclude)
	if err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// BusySlots lists the active bookings intersecting [from, to), earliest first.
func (c *Checker) BusySlots(ctx context.Context, from, to time.Time) ([]TimeSlot, error) {
	if !to.After(from) {
		return nil, domain.Validationf("range end must be after range start")
	}
	rows, err := c.bookings.BusySlots(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]TimeSlot, 0, len(rows))
	for _, r := range rows {
		out = append(out, TimeSlot{BookingID: r.BookingID, Start: r.Start, End: r.End})
	}
	return out, nil
}
