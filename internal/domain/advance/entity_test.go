package advance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestMonthlyInstallment(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		months int
		want   string
	}{
		{"evenly divisible", "3000", 3, "1000"},
		{"rounds up", "1000", 3, "334"},
		{"single month", "500", 1, "500"},
		{"zero months treated as one", "500", 0, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyInstallment(d(tt.amount), tt.months)
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDueAmount(t *testing.T) {
	periodEnd := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	base := Advance{
		Amount:           d("3000"),
		MonthsToRepay:    3,
		MonthlyDeduction: d("1000"),
		RemainingBalance: d("3000"),
		Status:           StatusPending,
		DateToDeduct:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("full installment when balance covers it", func(t *testing.T) {
		assert.True(t, base.DueAmount(periodEnd).Equal(d("1000")))
	})

	t.Run("clamped to remaining balance", func(t *testing.T) {
		adv := base
		adv.RemainingBalance = d("400")
		adv.Status = StatusPartial
		assert.True(t, adv.DueAmount(periodEnd).Equal(d("400")))
	})

	t.Run("not yet due", func(t *testing.T) {
		adv := base
		adv.DateToDeduct = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, adv.DueAmount(periodEnd).IsZero())
	})

	t.Run("due on the period end itself", func(t *testing.T) {
		adv := base
		adv.DateToDeduct = periodEnd
		assert.True(t, adv.DueAmount(periodEnd).Equal(d("1000")))
	})

	t.Run("completed advance owes nothing", func(t *testing.T) {
		adv := base
		adv.Status = StatusCompleted
		adv.RemainingBalance = d("0")
		assert.True(t, adv.DueAmount(periodEnd).IsZero())
	})
}

func TestOutstanding(t *testing.T) {
	assert.True(t, Advance{Status: StatusPending}.Outstanding())
	assert.True(t, Advance{Status: StatusPartial}.Outstanding())
	assert.False(t, Advance{Status: StatusCompleted}.Outstanding())
}
