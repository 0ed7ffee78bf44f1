package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type LedgerEventType string

const (
	EventBookingCreated   LedgerEventType = "booking.created"
	EventBookingUpdated   LedgerEventType = "booking.updated"
	EventBookingCancelled LedgerEventType = "booking.cancelled"
	EventPaymentRecorded  LedgerEventType = "payment.recorded"
)

// LedgerEvent describes a committed change to a booking's ledger.
type LedgerEvent struct {
	Type      LedgerEventType  `json:"type"`
	BookingID snowflake.ID     `json:"booking_id"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Remaining *decimal.Decimal `json:"remaining_amount,omitempty"`
	At        time.Time        `json:"at"`
}
