package dto

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ComputedSpendResponse is the engine's independently computed figure.
type ComputedSpendResponse struct {
	Total        string `json:"total"`
	FoundAny     bool   `json:"found_any"`
	Truncated    bool   `json:"truncated"`
	PagesFetched int    `json:"pages_fetched"`
	Reason       string `json:"reason,omitempty"`
}

// ReconcileResponse is returned after running a reconciliation pass.
//
// DisplayTotal is the figure the console should show: the computed total
// when available, otherwise the server's total as a fallback. It is null
// only when both sides were unavailable. Monetary values are fixed-point
// strings to avoid float drift in clients.
type ReconcileResponse struct {
	PassID             string                 `json:"pass_id"`
	Computed           *ComputedSpendResponse `json:"computed"`
	ComputeError       string                 `json:"compute_error,omitempty"`
	ServerTotal        *string                `json:"server_total"`
	DisplayTotal       *string                `json:"display_total"`
	DiscrepancyFlagged bool                   `json:"discrepancy_flagged"`
	StartedAt          string                 `json:"started_at"`
	FinishedAt         string                 `json:"finished_at"`
}

// PassResponse represents a recorded reconciliation pass.
type PassResponse struct {
	ID                 string  `json:"id"`
	StartedAt          string  `json:"started_at"`
	FinishedAt         string  `json:"finished_at"`
	ComputedTotal      *string `json:"computed_total"`
	ServerTotal        *string `json:"server_total"`
	FoundAny           bool    `json:"found_any"`
	Truncated          bool    `json:"truncated"`
	PagesFetched       int     `json:"pages_fetched"`
	DiscrepancyFlagged bool    `json:"discrepancy_flagged"`
	ErrorMessage       string  `json:"error_message,omitempty"`
}

// PassListResponse is returned when listing recorded passes.
type PassListResponse struct {
	Passes []PassResponse `json:"passes"`
	Count  int            `json:"count"`
}
