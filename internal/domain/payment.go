package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentPartial PaymentType = "partial"
	PaymentRefund  PaymentType = "refund"
)

// Payment is a cash movement against a booking. Refunds carry a negative amount.
type Payment struct {
	ID          snowflake.ID    `json:"id"`
	BookingID   snowflake.ID    `json:"booking_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType PaymentType     `json:"payment_type"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Payment) IsRefund() bool {
	return p.PaymentType == PaymentRefund
}

// PaymentLabel is the presentation status derived from the ledger.
type PaymentLabel string

const (
	LabelPending PaymentLabel = "pending"
	LabelPartial PaymentLabel = "partial"
	LabelPaid    PaymentLabel = "paid"
)
