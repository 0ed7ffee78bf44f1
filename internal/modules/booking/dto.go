package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/amenity"
)

type ClientInput struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"omitempty,ph_mobile"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
}

// PaymentPlan is the initial payment taken when a booking is created.
// A full plan may leave Amount empty; it is charged the effective total.
type PaymentPlan struct {
	Type   domain.PaymentType `json:"type" binding:"required,oneof=full partial"`
	Amount decimal.Decimal    `json:"amount"`
}

type CreateBookingRequest struct {
	Client          ClientInput       `json:"client"`
	EventType       string            `json:"event_type" binding:"max=100"`
	NumberOfPerson  *int              `json:"number_of_person" binding:"omitempty,min=1"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	BaseTotalAmount decimal.Decimal   `json:"base_total_amount"`
	ExtraAmenities  []amenity.RawLine `json:"extra_amenities"`
	Payment         PaymentPlan       `json:"payment"`
}

type UpdateBookingRequest struct {
	Client          ClientInput       `json:"client"`
	EventType       string            `json:"event_type" binding:"max=100"`
	NumberOfPerson  *int              `json:"number_of_person" binding:"omitempty,min=1"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	BaseTotalAmount decimal.Decimal   `json:"base_total_amount"`
	ExtraAmenities  []amenity.RawLine `json:"extra_amenities"`
}

type AddPaymentRequest struct {
	Amount      decimal.Decimal    `json:"amount"`
	PaymentType domain.PaymentType `json:"payment_type" binding:"omitempty,oneof=full partial"`
}

// ListFilter narrows List. Month is a YYYY-MM bucket on the booking start date.
type ListFilter struct {
	Status domain.BookingStatus
	Month  string
}

type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []availabilitySlot `json:"conflicts"`
}

type availabilitySlot struct {
	BookingID string    `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func (in ClientInput) apply(c *domain.Client) {
	c.Name = in.Name
	c.Phone = in.Phone
	c.Email = in.Email
}
