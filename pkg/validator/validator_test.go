package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	SlotTime string `validate:"required,slot_time"`
	Stars    int    `validate:"required,min=1,max=5"`
}

func TestValidate_SlotTime(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		label string
		valid bool
	}{
		{"10:00 AM", true},
		{"08:30 PM", true},
		{"12:00 PM", true},
		{"10:15 AM", false},
		{"10:00", false},
		{"9:00 AM", false},
		{"10:00 am", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			err := v.Validate(&slotRequest{SlotTime: tt.label, Stars: 3})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&slotRequest{SlotTime: "10:10 AM", Stars: 6})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "SlotTime must be a half-hour label like 10:30 AM", errs["SlotTime"])
	assert.Equal(t, "Stars must be at most 5", errs["Stars"])
}
