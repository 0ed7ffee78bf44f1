package domain

import "github.com/shopspring/decimal"

// BookingDetails is a booking with its client, payment ledger and derived amounts.
type BookingDetails struct {
	Booking         Booking         `json:"booking"`
	Client          Client          `json:"client"`
	Payments        []Payment       `json:"payments"`
	AmenitiesTotal  decimal.Decimal `json:"amenities_total"`
	EffectiveTotal  decimal.Decimal `json:"effective_total"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaymentStatus   PaymentLabel    `json:"payment_status"`
}
