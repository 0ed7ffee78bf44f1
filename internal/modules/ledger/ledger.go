// Package ledger derives balances and payment status from a booking's payment
// ledger and runs the cancellation state machine.
package ledger

import (
	"github.com/shopspring/decimal"

	"resortbooking/internal/domain"
)

// RefundRate is the share of collected payments returned when a fully paid
// booking is cancelled.
var RefundRate = decimal.RequireFromString("0.5")

// Summary holds the derived amounts of one booking.
type Summary struct {
	AmenitiesTotal decimal.Decimal
	EffectiveTotal decimal.Decimal
	TotalPaid      decimal.Decimal
	Collected      decimal.Decimal
	Remaining      decimal.Decimal
	Status         domain.PaymentLabel
}

// TotalPaid is the net of all payments; refunds are stored negative.
func TotalPaid(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Collected sums non-refund payments only.
func Collected(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.IsRefund() {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum
}

// Remaining is what the client still owes; negative when overpaid.
func Remaining(effectiveTotal decimal.Decimal, payments []domain.Payment) decimal.Decimal {
	return effectiveTotal.Sub(TotalPaid(payments))
}

// Status is presentation only and independent of the booking lifecycle:
// a cancelled booking still reports paid or partial.
func Status(remaining decimal.Decimal, paymentCount int) domain.PaymentLabel {
	if !remaining.IsPositive() {
		return domain.LabelPaid
	}
	if paymentCount > 0 {
		return domain.LabelPartial
	}
	return domain.LabelPending
}

// Summarize derives the money figures of a booking from its payments.
func Summarize(b *domain.Booking, payments []domain.Payment) Summary {
	amenities := b.AmenitiesTotal()
	effective := b.BaseTotalAmount.Add(amenities)
	remaining := Remaining(effective, payments)
	return Summary{
		AmenitiesTotal: amenities,
		EffectiveTotal: effective,
		TotalPaid:      TotalPaid(payments),
		Collected:      Collected(payments),
		Remaining:      remaining,
		Status:         Status(remaining, len(payments)),
	}
}

// Details assembles the read model of a booking.
func Details(b domain.Booking, c domain.Client, payments []domain.Payment) domain.BookingDetails {
	if payments == nil {
		payments = []domain.Payment{}
	}
	sum := Summarize(&b, payments)
	return domain.BookingDetails{
		Booking:         b,
		Client:          c,
		Payments:        payments,
		AmenitiesTotal:  sum.AmenitiesTotal,
		EffectiveTotal:  sum.EffectiveTotal,
		TotalPaid:       sum.TotalPaid,
		RemainingAmount: sum.Remaining,
		PaymentStatus:   sum.Status,
	}
}

// RefundFor returns the refund owed on cancellation. Only a fully paid booking
// with money collected earns one.
func RefundFor(effectiveTotal decimal.Decimal, payments []domain.Payment) (decimal.Decimal, bool) {
	collected := Collected(payments)
	remaining := effectiveTotal.Sub(collected)
	if remaining.IsPositive() || !collected.IsPositive() {
		return decimal.Zero, false
	}
	return collected.Mul(RefundRate).Round(domain.CentPlaces), true
}
