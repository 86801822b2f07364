// Package reconcile implements the billing reconciliation engine: it
// independently recomputes a customer's month-to-date spend from the
// paginated wallet ledger and cross-checks the figure against the server's
// precomputed monthly summary.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/storage"
	"github.com/skyvps360/skypanelv2-sub001/internal/ledger"
)

// SummaryFetcher supplies the server's own monthly total for comparison.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context) (*ledger.Summary, error)
}

// ErrSuperseded is returned when a newer reconciliation request started while
// this one was in flight. The newer pass's result is the one to keep.
var ErrSuperseded = errors.New("reconciliation pass superseded by a newer request")

// Outcome is the result of one full reconciliation pass.
type Outcome struct {
	PassID     string
	StartedAt  time.Time
	FinishedAt time.Time

	// Computed is nil when the aggregation hard-failed; ComputeError then
	// carries the reason. The UI falls back to ServerTotal in that case.
	Computed     *MonthlySpendResult
	ComputeError string

	// ServerTotal is nil when the summary endpoint was unavailable.
	ServerTotal *decimal.Decimal

	// DiscrepancyFlagged is advisory only: it never blocks display of the
	// computed figure.
	DiscrepancyFlagged bool
}

// Service runs reconciliation passes end to end.
//
// Each pass owns its accumulators, so concurrent passes never share mutable
// state. The engine itself has no cancellation of its own; the service layers
// the supersession strategy on top: each call bumps a sequence counter and
// cancels the previous in-flight pass, and a pass that finishes after being
// superseded discards its result.
type Service struct {
	aggregator *Aggregator
	summaries  SummaryFetcher
	tolerance  Tolerance
	repo       storage.Repository
	logger     *slog.Logger

	mu         sync.Mutex
	seq        uint64
	cancelPrev context.CancelFunc
}

// NewService creates a reconciliation service. repo may be nil to skip audit
// recording; summaries may be nil when no server summary is available.
func NewService(aggregator *Aggregator, summaries SummaryFetcher, tolerance Tolerance, repo storage.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		aggregator: aggregator,
		summaries:  summaries,
		tolerance:  tolerance,
		repo:       repo,
		logger:     logger,
	}
}

// ReconcileMonthlySpend runs one reconciliation pass. A zero now means the
// real current time; tests inject a fixed instant for determinism.
//
// A completed pass always yields an Outcome, even when the aggregation
// hard-failed (the failure is recorded on the Outcome so the caller can fall
// back to the server figure). The only error return is ErrSuperseded, or the
// caller's own context error.
func (s *Service) ReconcileMonthlySpend(ctx context.Context, now time.Time) (*Outcome, error) {
	if now.IsZero() {
		now = time.Now()
	}

	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	s.mu.Unlock()
	defer cancel()

	outcome := &Outcome{
		PassID:    uuid.NewString(),
		StartedAt: time.Now(),
	}

	computed, computeErr := s.aggregator.MonthlySpend(ctx, now)

	if s.superseded(mySeq) {
		return nil, ErrSuperseded
	}
	if computeErr != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if s.summaries != nil {
		summary, err := s.summaries.FetchSummary(ctx)
		if err != nil {
			// Comparison input only; its absence never fails the pass.
			s.logger.Warn("monthly summary unavailable", slog.String("error", err.Error()))
		} else {
			total := summary.TotalSpentThisMonth
			outcome.ServerTotal = &total
		}
	}

	if s.superseded(mySeq) {
		return nil, ErrSuperseded
	}

	if computeErr != nil {
		outcome.ComputeError = computeErr.Error()
		s.logger.Error("reconciliation pass failed",
			slog.String("pass_id", outcome.PassID),
			slog.String("error", computeErr.Error()),
		)
	} else {
		outcome.Computed = computed
		computedTotal := computed.Total
		outcome.DiscrepancyFlagged = FlagDiscrepancy(&computedTotal, outcome.ServerTotal, s.tolerance)
	}

	outcome.FinishedAt = time.Now()
	s.record(outcome)

	return outcome, nil
}

func (s *Service) superseded(mySeq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mySeq != s.seq
}

// record persists the pass for audit. Best effort: a storage failure is
// logged, never surfaced, since the outcome itself is already in hand.
func (s *Service) record(outcome *Outcome) {
	if s.repo == nil {
		return
	}

	pass := &storage.ReconciliationPass{
		ID:                 outcome.PassID,
		StartedAt:          outcome.StartedAt,
		FinishedAt:         outcome.FinishedAt,
		DiscrepancyFlagged: outcome.DiscrepancyFlagged,
		ErrorMessage:       outcome.ComputeError,
	}
	if outcome.Computed != nil {
		total := outcome.Computed.Total.StringFixed(2)
		pass.ComputedTotal = &total
		pass.FoundAny = outcome.Computed.FoundAny
		pass.Truncated = outcome.Computed.Truncated
		pass.PagesFetched = outcome.Computed.PagesFetched
	}
	if outcome.ServerTotal != nil {
		total := outcome.ServerTotal.StringFixed(2)
		pass.ServerTotal = &total
	}

	if err := s.repo.SavePass(pass); err != nil {
		s.logger.Warn("failed to record reconciliation pass",
			slog.String("pass_id", outcome.PassID),
			slog.String("error", err.Error()),
		)
	}
}
