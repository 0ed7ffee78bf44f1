package domain

import "github.com/shopspring/decimal"

// CentPlaces is the precision every stored amount is kept at.
const CentPlaces = 2

// MaxWholeDigits is the integer precision of the amount columns, decimal(14,2).
const MaxWholeDigits = 12

// maxScale bounds the exponent of parsed input so rescaling stays cheap.
const maxScale = 18

// InRange reports whether d fits an amount column. It only inspects the
// coefficient and exponent, so it is safe to call before any arithmetic.
func InRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp > MaxWholeDigits || exp < -maxScale {
		return false
	}
	if d.IsZero() {
		return true
	}
	digits := d.NumDigits()
	return digits <= MaxWholeDigits+maxScale && digits+exp <= MaxWholeDigits
}

// HasCents reports whether d is in range and carries no more than two
// decimal places.
func HasCents(d decimal.Decimal) bool {
	return InRange(d) && d.Equal(d.Round(CentPlaces))
}

// Sum adds amounts together.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
