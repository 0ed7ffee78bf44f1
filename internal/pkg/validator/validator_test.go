package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"resortbooking/internal/domain"
)

type contact struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"omitempty,ph_mobile"`
}

func TestCheck_PhoneFormats(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"", true},
		{"09171234567", true},
		{"+639171234567", true},
		{"9171234567", false},
		{"0917123456", false},
		{"+63917123456a", false},
	}

	for _, tc := range cases {
		t.Run(tc.phone, func(t *testing.T) {
			err := Check(contact{Name: "Ana", Phone: tc.phone})
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Contains(t, err.Error(), "mobile number")
		})
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	errs := Validate(contact{})
	assert.Equal(t, map[string]string{"contact.Name": "required"}, errs)
}
