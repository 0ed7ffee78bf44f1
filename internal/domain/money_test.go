package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInRangeAndHasCents(t *testing.T) {
	tests := []struct {
		in       string
		inRange  bool
		hasCents bool
	}{
		{in: "0", inRange: true, hasCents: true},
		{in: "2750.50", inRange: true, hasCents: true},
		{in: "100.000", inRange: true, hasCents: true},
		{in: "-500", inRange: true, hasCents: true},
		{in: "100.001", inRange: true, hasCents: false},
		{in: "999999999999.99", inRange: true, hasCents: true},
		{in: "1e11", inRange: true, hasCents: true},
		{in: "1000000000000", inRange: false, hasCents: false},
		{in: "1e12", inRange: false, hasCents: false},
		{in: "1e30000000", inRange: false, hasCents: false},
		{in: "1e-30000000", inRange: false, hasCents: false},
		{in: "0e30000000", inRange: false, hasCents: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.inRange, InRange(d))
			assert.Equal(t, tt.hasCents, HasCents(d))
		})
	}
}

func TestHasCents_HostileExponentReturnsQuickly(t *testing.T) {
	start := time.Now()
	assert.False(t, HasCents(decimal.RequireFromString("1e30000000")))
	assert.Less(t, time.Since(start), time.Second)
}
