package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"resortbooking/internal/domain"
)

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("noop", nil))

	err := wrapErr("booking 7", gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	driver := errors.New("disk I/O error")
	err = wrapErr("insert booking", driver)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, driver)

	var se *domain.StorageError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, "insert booking", se.Op)
		assert.False(t, se.Retryable)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "sqlite busy", err: errors.New("database is locked (5) (SQLITE_BUSY)"), want: true},
		{name: "other", err: errors.New("no such table: bookings"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
