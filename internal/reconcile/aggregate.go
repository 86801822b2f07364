package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skyvps360/skypanelv2-sub001/internal/ledger"
)

// PageFetcher is the slice of the wallet API the aggregator drives. Pages are
// fetched strictly sequentially; the offset for page n+1 depends on page n.
type PageFetcher interface {
	FetchPage(ctx context.Context, limit, offset int) (*ledger.Page, error)
}

const (
	// DefaultPageSize is how many transactions one ledger page holds.
	DefaultPageSize = 100

	// DefaultMaxPages caps a pass at 20 pages (2,000 transactions with the
	// default page size). The cap bounds latency on extraordinarily active
	// ledgers, trading a possibly partial total for a bounded pass; the
	// Truncated flag on the result makes that visible to callers.
	DefaultMaxPages = 20
)

// ReasonNoCurrentMonthTransactions marks the soft condition where no fetched
// transaction fell inside the month window. The zero total is still valid.
const ReasonNoCurrentMonthTransactions = "no current-month transactions found"

// MonthlySpendResult is the output of one aggregation pass.
type MonthlySpendResult struct {
	// Total is the month-to-date spend, rounded to 2 decimal places once at
	// the end of the pass.
	Total decimal.Decimal `json:"total"`

	// FoundAny reports whether any parseable transaction fell inside the
	// month window.
	FoundAny bool `json:"found_any"`

	// Truncated reports that the page cap ended the scan while the ledger
	// still had more pages, so Total may be an undercount.
	Truncated bool `json:"truncated"`

	// PagesFetched counts pages retrieved during the pass.
	PagesFetched int `json:"pages_fetched"`

	// Reason carries the soft no-data condition. A pass that hard-fails
	// returns an error instead and produces no result at all.
	Reason string `json:"reason,omitempty"`
}

// AggregatorConfig holds the pagination knobs. Zero values select defaults.
type AggregatorConfig struct {
	PageSize int
	MaxPages int
}

// Aggregator recomputes month-to-date spend by walking the wallet ledger.
type Aggregator struct {
	fetcher  PageFetcher
	pageSize int
	maxPages int
	logger   *slog.Logger
}

// NewAggregator creates an aggregator over the given page source.
func NewAggregator(fetcher PageFetcher, cfg AggregatorConfig, logger *slog.Logger) *Aggregator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		fetcher:  fetcher,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
		logger:   logger,
	}
}

// MonthlySpend walks ledger pages and sums debit magnitudes for the calendar
// month containing now, in now's location.
//
// The month window is computed once up front and held constant even though
// wall-clock time advances between page fetches, so every page in one pass is
// filtered against the same bounds. Transactions with unparseable timestamps
// are skipped without failing the pass. The scan ends at the first empty
// page, when the server reports no more data, or at the page cap, whichever
// comes first.
//
// A transport or auth failure aborts the whole pass with an error and no
// result: a partial total after a hard failure would be silently misleading,
// unlike the explicitly flagged page-cap truncation.
func (a *Aggregator) MonthlySpend(ctx context.Context, now time.Time) (*MonthlySpendResult, error) {
	window := CurrentMonthWindow(now)
	loc := now.Location()

	total := decimal.Zero
	foundAny := false
	truncated := false
	offset := 0
	pagesFetched := 0

	for {
		page, err := a.fetcher.FetchPage(ctx, a.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("monthly spend computation failed: %w", err)
		}
		if len(page.Transactions) == 0 {
			break
		}

		for _, txn := range page.Transactions {
			ts, ok := NormalizeTimestamp(txn.CreatedAt, loc)
			if !ok {
				a.logger.Debug("skipping transaction with unparseable timestamp",
					slog.String("transaction_id", txn.ID),
					slog.String("created_at", txn.CreatedAt),
				)
				continue
			}
			if !window.Contains(ts) {
				continue
			}
			foundAny = true
			if IsDebit(txn) {
				total = total.Add(txn.Amount.Abs())
			}
		}

		offset += a.pageSize
		pagesFetched++

		if !page.HasMore {
			break
		}
		if pagesFetched >= a.maxPages {
			truncated = true
			a.logger.Warn("page cap reached with more ledger data remaining",
				slog.Int("pages_fetched", pagesFetched),
				slog.Int("transactions_scanned", pagesFetched*a.pageSize),
			)
			break
		}
	}

	result := &MonthlySpendResult{
		Total:        total.Round(2),
		FoundAny:     foundAny,
		Truncated:    truncated,
		PagesFetched: pagesFetched,
	}
	if !foundAny {
		result.Reason = ReasonNoCurrentMonthTransactions
	}

	return result, nil
}
