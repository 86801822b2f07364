package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFlagDiscrepancy(t *testing.T) {
	tol := DefaultTolerance()

	tests := []struct {
		name     string
		computed *decimal.Decimal
		server   *decimal.Decimal
		want     bool
	}{
		{"difference within half a percent is tolerated", dec("100.40"), dec("100.00"), false},
		{"difference beyond half a percent is flagged", dec("100.60"), dec("100.00"), true},
		{"exactly at the threshold is tolerated", dec("100.50"), dec("100.00"), false},
		{"small totals use the one-cent floor", dec("1.005"), dec("1.00"), false},
		{"small totals beyond the floor are flagged", dec("1.02"), dec("1.00"), true},
		{"equal totals never flag", dec("42.00"), dec("42.00"), false},
		{"missing computed total never flags", nil, dec("100.00"), false},
		{"missing server total never flags", dec("100.00"), nil, false},
		{"both missing never flags", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlagDiscrepancy(tt.computed, tt.server, tol))
		})
	}
}

func TestTolerance_Threshold(t *testing.T) {
	tol := DefaultTolerance()

	t.Run("floor wins for small totals", func(t *testing.T) {
		// 0.005 * 1.00 = 0.005 < 0.01
		assert.True(t, tol.Threshold(decimal.RequireFromString("1.00")).Equal(decimal.RequireFromString("0.01")))
	})

	t.Run("ratio wins for large totals", func(t *testing.T) {
		// 0.005 * 1000.00 = 5.00
		assert.True(t, tol.Threshold(decimal.RequireFromString("1000.00")).Equal(decimal.RequireFromString("5.00")))
	})
}
