package booking

import (
	"github.com/shopspring/decimal"

	"resortbooking/internal/domain"
)

// EventPublisher receives ledger events after their transaction commits.
type EventPublisher interface {
	Publish(event domain.LedgerEvent)
}

// MetricsRecorder counts ledger activity.
type MetricsRecorder interface {
	BookingCreated()
	BookingUpdated()
	PaymentRecorded(paymentType domain.PaymentType, amount decimal.Decimal)
	BookingCancelled(refunded bool, refund decimal.Decimal)
	SlotConflict()
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.LedgerEvent) {}

type noopMetrics struct{}

func (noopMetrics) BookingCreated()                                     {}
func (noopMetrics) BookingUpdated()                                     {}
func (noopMetrics) PaymentRecorded(domain.PaymentType, decimal.Decimal) {}
func (noopMetrics) BookingCancelled(bool, decimal.Decimal)              {}
func (noopMetrics) SlotConflict()                                       {}
