package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/skyvps360/skypanelv2-sub001/internal/ledger"
)

func TestIsDebit(t *testing.T) {
	tests := []struct {
		name    string
		txnType string
		amount  string
		want    bool
	}{
		{"explicit debit type", ledger.TypeDebit, "12.34", true},
		{"explicit credit type", ledger.TypeCredit, "50.00", false},
		{"explicit debit type with positive amount wins over sign", ledger.TypeDebit, "12.34", true},
		{"explicit credit type wins over negative sign", ledger.TypeCredit, "-50.00", false},
		{"missing type falls back to negative sign", "", "-7.50", true},
		{"missing type with positive amount is not spend", "", "7.50", false},
		{"unknown type falls back to negative sign", "adjustment", "-1.00", true},
		{"unknown type with zero amount is not spend", "adjustment", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := ledger.Transaction{
				ID:     "txn-1",
				Type:   tt.txnType,
				Amount: decimal.RequireFromString(tt.amount),
			}
			assert.Equal(t, tt.want, IsDebit(txn))
		})
	}
}
