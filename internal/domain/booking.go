package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

// EventTypes lists the labels offered by the booking form. Other labels are accepted.
var EventTypes = []string{
	"Reunion",
	"Birthday",
	"Wedding",
	"Baptism",
	"Christmas Party",
	"Staycation",
	"Swimming",
	"Other",
}

// AmenityLine is a priced, quantified add-on attached to a booking.
type AmenityLine struct {
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// NewAmenityLine builds a line whose Total is price × quantity.
func NewAmenityLine(item string, price decimal.Decimal, quantity int) AmenityLine {
	return AmenityLine{
		Item:     item,
		Price:    price,
		Quantity: quantity,
		Total:    price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

type Booking struct {
	ID              snowflake.ID    `json:"id"`
	ClientID        snowflake.ID    `json:"client_id"`
	EventType       string          `json:"event_type"`
	NumberOfPerson  *int            `json:"number_of_person,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	BaseTotalAmount decimal.Decimal `json:"base_total_amount"`
	ExtraAmenities  []AmenityLine   `json:"extra_amenities"`
	Status          BookingStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
}

// AmenitiesTotal sums the line totals, recomputed from price and quantity.
func (b *Booking) AmenitiesTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range b.ExtraAmenities {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// EffectiveTotal is the amount owed: base plus amenities.
func (b *Booking) EffectiveTotal() decimal.Decimal {
	return b.BaseTotalAmount.Add(b.AmenitiesTotal())
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

// Overlaps reports whether [start, end) intersects the booking's half-open range.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}
