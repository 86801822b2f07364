package reconcile

import "github.com/skyvps360/skypanelv2-sub001/internal/ledger"

// IsDebit reports whether a transaction represents spend.
//
// The declared type wins when present: "debit" is spend, "credit" is not,
// even if the amount carries a contradictory sign. Only when the type is
// absent or unrecognized does the sign of the amount decide, because records
// predating consistent type population carry direction in the sign alone.
// A transaction failing both checks is treated as a credit and excluded.
func IsDebit(txn ledger.Transaction) bool {
	switch txn.Type {
	case ledger.TypeDebit:
		return true
	case ledger.TypeCredit:
		return false
	}
	return txn.Amount.IsNegative()
}
