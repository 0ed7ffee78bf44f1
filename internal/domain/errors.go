package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific failures wrap one of these with a human-readable message,
// so callers match with errors.Is and surface err.Error() directly.
var (
	ErrValidation      = errors.New("validation error")
	ErrSlotConflict    = errors.New("this slot is already booked")
	ErrNotFound        = errors.New("not found")
	ErrBelowPaidAmount = errors.New("total amount cannot be less than the amount already paid")
	ErrStorage         = errors.New("storage error")
)

var (
	ErrBookingCancelled = fmt.Errorf("%w: booking is cancelled", ErrValidation)
	ErrAlreadyCancelled = fmt.Errorf("%w: booking is already cancelled", ErrValidation)
	ErrNothingDue       = fmt.Errorf("%w: booking has no remaining balance", ErrValidation)
)

// Validationf builds a validation error with a specific message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// NotFoundf builds a not-found error naming the missing entity.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// StorageError wraps a failure of the underlying store. Retryable marks transient
// contention the caller may retry with backoff; the core never retries itself.
type StorageError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
