package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"resortbooking/internal/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pay(amount int64, typ domain.PaymentType) domain.Payment {
	return domain.Payment{Amount: dec(amount), PaymentType: typ}
}

func TestRemaining_SubtractsRefundsAutomatically(t *testing.T) {
	payments := []domain.Payment{
		pay(5500, domain.PaymentFull),
		pay(-2750, domain.PaymentRefund),
	}

	assert.True(t, Remaining(dec(5500), payments).Equal(dec(2750)))
	assert.True(t, TotalPaid(payments).Equal(dec(2750)))
	assert.True(t, Collected(payments).Equal(dec(5500)))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, domain.LabelPaid, Status(dec(0), 1))
	assert.Equal(t, domain.LabelPaid, Status(dec(-100), 2))
	assert.Equal(t, domain.LabelPartial, Status(dec(2000), 1))
	assert.Equal(t, domain.LabelPending, Status(dec(3000), 0))
}

func TestSummarize_IncludesAmenities(t *testing.T) {
	b := &domain.Booking{
		BaseTotalAmount: dec(5000),
		ExtraAmenities: []domain.AmenityLine{
			domain.NewAmenityLine("Chairs", dec(50), 10),
		},
	}

	sum := Summarize(b, []domain.Payment{pay(5500, domain.PaymentFull)})

	assert.True(t, sum.AmenitiesTotal.Equal(dec(500)))
	assert.True(t, sum.EffectiveTotal.Equal(dec(5500)))
	assert.True(t, sum.Remaining.IsZero())
	assert.Equal(t, domain.LabelPaid, sum.Status)
}

func TestRefundFor(t *testing.T) {
	cases := []struct {
		name     string
		total    int64
		payments []domain.Payment
		refunded bool
		amount   int64
	}{
		{name: "fully paid", total: 5500, payments: []domain.Payment{pay(5500, domain.PaymentFull)}, refunded: true, amount: 2750},
		{name: "overpaid", total: 1000, payments: []domain.Payment{pay(600, domain.PaymentPartial), pay(600, domain.PaymentPartial)}, refunded: true, amount: 600},
		{name: "partially paid", total: 3000, payments: []domain.Payment{pay(1000, domain.PaymentPartial)}},
		{name: "nothing paid", total: 3000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, ok := RefundFor(dec(tc.total), tc.payments)
			assert.Equal(t, tc.refunded, ok)
			assert.True(t, amount.Equal(dec(tc.amount)), "got %s", amount)
		})
	}
}

func TestRefundFor_RoundsToCents(t *testing.T) {
	amount, ok := RefundFor(decimal.RequireFromString("100.01"), []domain.Payment{
		{Amount: decimal.RequireFromString("100.01"), PaymentType: domain.PaymentFull},
	})

	assert.True(t, ok)
	assert.Equal(t, "50.01", amount.StringFixed(2))
}
