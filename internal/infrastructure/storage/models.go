package storage

import "time"

// ReconciliationPass is the audit record of one completed reconciliation
// pass. Totals are stored as fixed-point strings to avoid float drift in the
// database; nil means the value was unavailable (computation hard-failed, or
// the summary endpoint was down).
type ReconciliationPass struct {
	ID                 string    `json:"id"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	ComputedTotal      *string   `json:"computed_total"`
	ServerTotal        *string   `json:"server_total"`
	FoundAny           bool      `json:"found_any"`
	Truncated          bool      `json:"truncated"`
	PagesFetched       int       `json:"pages_fetched"`
	DiscrepancyFlagged bool      `json:"discrepancy_flagged"`
	ErrorMessage       string    `json:"error_message,omitempty"`
}
