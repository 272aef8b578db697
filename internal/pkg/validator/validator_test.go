package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("payroll"))
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid v4", "9f8b2c1a-4d3e-4f6a-8b2c-1a4d3e4f6a8b", true},
		{"valid v7", "0190a1b2-c3d4-7e5f-89ab-cdef01234567", true},
		{"uppercase accepted", "9F8B2C1A-4D3E-4F6A-8B2C-1A4D3E4F6A8B", true},
		{"missing segment", "9f8b2c1a-4d3e-4f6a-8b2c", false},
		{"not hex", "zf8b2c1a-4d3e-4f6a-8b2c-1a4d3e4f6a8b", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUUID(tt.input))
		})
	}
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-01-31")
	assert.True(t, ok)

	_, ok = IsValidDate("31-01-2025")
	assert.False(t, ok)

	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"draft", "trial", "final"}
	assert.True(t, IsInSlice("trial", statuses))
	assert.False(t, IsInSlice("paid", statuses))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "period_start", Message: "is required"},
		{Field: "amount", Message: "must be positive"},
	}

	assert.Equal(t, "period_start: is required; amount: must be positive", errs.Error())
	assert.Equal(t, map[string]string{
		"period_start": "is required",
		"amount":       "must be positive",
	}, errs.ToMap())
}
