package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseSupplies    ExpenseCategory = "Supplies"
	ExpenseUtilities   ExpenseCategory = "Utilities"
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseStaff       ExpenseCategory = "Staff"
	ExpenseMarketing   ExpenseCategory = "Marketing"
	ExpenseTaxes       ExpenseCategory = "Taxes"
	ExpenseOther       ExpenseCategory = "Other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseSupplies,
	ExpenseUtilities,
	ExpenseMaintenance,
	ExpenseStaff,
	ExpenseMarketing,
	ExpenseTaxes,
	ExpenseOther,
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of expense dates.
const DateLayout = "2006-01-02"

type Expense struct {
	ID          snowflake.ID    `json:"id"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate Date            `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TruncateDay drops the time component, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Date is a calendar date without time of day, always held at midnight UTC.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: TruncateDay(t)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a YYYY-MM-DD string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	d.Time = t
	return nil
}
