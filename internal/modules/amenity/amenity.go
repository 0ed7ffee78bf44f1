// Package amenity normalizes amenity rows entered on the booking form into
// priced line items and computes their totals.
package amenity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"resortbooking/internal/domain"
)

var (
	ErrEmptyItem       = fmt.Errorf("%w: please choose or enter an amenity item", domain.ErrValidation)
	ErrInvalidPrice    = fmt.Errorf("%w: amenity price must be a number 0 or greater", domain.ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("%w: amenity quantity must be a whole number greater than 0", domain.ErrValidation)
	ErrLineTooLarge    = fmt.Errorf("%w: amenity line total is too large", domain.ErrValidation)
)

// Field is a raw form value. It decodes from a JSON string or number.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amenity field must be a string or number: %w", err)
	}
	*f = Field(n.String())
	return nil
}

func (f Field) blank() bool {
	return strings.TrimSpace(string(f)) == ""
}

// RawLine is one amenity row as typed into the form.
type RawLine struct {
	Item     Field `json:"item"`
	Price    Field `json:"price"`
	Quantity Field `json:"quantity"`
}

func (r RawLine) blank() bool {
	return r.Item.blank() && r.Price.blank() && r.Quantity.blank()
}

// LineError reports which row failed normalization.
type LineError struct {
	Row int
	Err error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("amenity row %d: %v", e.Row, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Normalize validates raw rows and converts them into amenity lines.
// Fully blank rows are dropped. Any other row needs all three fields.
// The first failing row aborts the whole call.
func Normalize(raw []RawLine) ([]domain.AmenityLine, error) {
	lines := make([]domain.AmenityLine, 0, len(raw))
	for i, r := range raw {
		if r.blank() {
			continue
		}
		line, err := normalizeLine(r)
		if err != nil {
			return nil, &LineError{Row: i + 1, Err: err}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func normalizeLine(r RawLine) (domain.AmenityLine, error) {
	item := strings.TrimSpace(string(r.Item))
	if item == "" {
		return domain.AmenityLine{}, ErrEmptyItem
	}

	price, ok := parseNumber(r.Price)
	if !ok || price.IsNegative() || !domain.HasCents(price) {
		return domain.AmenityLine{}, ErrInvalidPrice
	}

	qty, ok := parseNumber(r.Quantity)
	if !ok || !qty.IsPositive() || !qty.IsInteger() || !qty.LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
		return domain.AmenityLine{}, ErrInvalidQuantity
	}

	line := domain.NewAmenityLine(item, price, int(qty.IntPart()))
	if !domain.InRange(line.Total) {
		return domain.AmenityLine{}, ErrLineTooLarge
	}
	return line, nil
}

const maxQuantity = 1_000_000

func parseNumber(f Field) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !domain.InRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// Subtotal is the live total shown while the form is being edited. Rows whose
// price or quantity does not parse contribute nothing. Never persist it.
func Subtotal(raw []RawLine) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range raw {
		price, ok := parseNumber(r.Price)
		if !ok {
			continue
		}
		qty, ok := parseNumber(r.Quantity)
		if !ok {
			continue
		}
		sum = sum.Add(price.Mul(qty))
	}
	return sum
}

// Total sums persisted lines, recomputing each as price × quantity.
func Total(lines []domain.AmenityLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}
