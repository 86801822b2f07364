package ledger

import "github.com/shopspring/decimal"

// Transaction type markers as emitted by the wallet API.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction is a single wallet ledger entry as served by the billing API.
// Immutable once fetched; the reconciliation pass never writes back.
//
// Amount is a magnitude by convention (Type decides direction), but historical
// records sometimes carry a negative sign instead of a populated Type, so
// consumers must be prepared for both. CreatedAt is left raw because the API
// has emitted ISO-8601 strings, Unix seconds and Unix milliseconds over its
// lifetime; see reconcile.NormalizeTimestamp.
type Transaction struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	CreatedAt    string           `json:"createdAt"`
	BalanceAfter *decimal.Decimal `json:"balanceAfter"`
}

// Page is one slice of the wallet ledger.
//
// Ordering is an external contract: the API returns transactions
// newest-first. Callers that rely on early termination (stopping before the
// ledger is exhausted) depend on that ordering and cannot verify it here.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	HasMore      bool          `json:"hasMore"`
}

// Summary is the server's own precomputed monthly billing aggregate.
// It is possibly stale; the reconciliation engine only uses it as the
// comparison input, never as the source of truth for the computed figure.
type Summary struct {
	TotalSpentThisMonth decimal.Decimal `json:"totalSpentThisMonth"`
}
