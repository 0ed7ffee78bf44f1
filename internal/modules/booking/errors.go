package booking

import (
	"fmt"

	"resortbooking/internal/domain"
)

var (
	ErrInvalidRange       = fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	ErrMissingDates       = fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	ErrInvalidBaseTotal   = fmt.Errorf("%w: base total amount must be greater than 0", domain.ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: payment amount must be greater than 0", domain.ErrValidation)
	ErrAmountExceedsTotal = fmt.Errorf("%w: partial payment cannot exceed the total amount", domain.ErrValidation)
	ErrFullAmountMismatch = fmt.Errorf("%w: full payment must equal the total amount", domain.ErrValidation)
	ErrTooManyCents       = fmt.Errorf("%w: amounts are limited to two decimal places and %d whole digits", domain.ErrValidation, domain.MaxWholeDigits)
)
