package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvps360/skypanelv2-sub001/internal/api/dto"
	"github.com/skyvps360/skypanelv2-sub001/internal/api/handlers"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/storage"
	"github.com/skyvps360/skypanelv2-sub001/internal/ledger"
	"github.com/skyvps360/skypanelv2-sub001/internal/reconcile"
)

type stubFetcher struct {
	page *ledger.Page
	err  error
}

func (f *stubFetcher) FetchPage(ctx context.Context, limit, offset int) (*ledger.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type stubSummaries struct {
	total string
	err   error
}

func (f *stubSummaries) FetchSummary(ctx context.Context) (*ledger.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ledger.Summary{TotalSpentThisMonth: decimal.RequireFromString(f.total)}, nil
}

func newService(fetcher reconcile.PageFetcher, summaries reconcile.SummaryFetcher, repo storage.Repository) *reconcile.Service {
	agg := reconcile.NewAggregator(fetcher, reconcile.AggregatorConfig{}, nil)
	return reconcile.NewService(agg, summaries, reconcile.DefaultTolerance(), repo, nil)
}

func TestReconcileHandler_Run(t *testing.T) {
	t.Run("runs a pass and returns the computed figure", func(t *testing.T) {
		fetcher := &stubFetcher{page: &ledger.Page{
			Transactions: []ledger.Transaction{
				{ID: "d1", Type: ledger.TypeDebit, Amount: decimal.RequireFromString("12.34"), CreatedAt: "2026-03-05T10:00:00Z"},
			},
		}}
		repo := storage.NewMockRepository()
		handler := handlers.NewReconcileHandler(newService(fetcher, &stubSummaries{total: "12.34"}, repo))

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile?now=2026-03-20T12:00:00Z", nil)
		rec := httptest.NewRecorder()

		handler.Run(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ReconcileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.NotEmpty(t, response.PassID)
		require.NotNil(t, response.Computed)
		assert.Equal(t, "12.34", response.Computed.Total)
		assert.True(t, response.Computed.FoundAny)
		require.NotNil(t, response.DisplayTotal)
		assert.Equal(t, "12.34", *response.DisplayTotal)
		assert.False(t, response.DiscrepancyFlagged)

		assert.True(t, repo.SavePassCalled, "pass must be recorded")
	})

	t.Run("flags a discrepancy beyond tolerance", func(t *testing.T) {
		fetcher := &stubFetcher{page: &ledger.Page{
			Transactions: []ledger.Transaction{
				{ID: "d1", Type: ledger.TypeDebit, Amount: decimal.RequireFromString("100.60"), CreatedAt: "2026-03-05T10:00:00Z"},
			},
		}}
		handler := handlers.NewReconcileHandler(newService(fetcher, &stubSummaries{total: "100.00"}, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile?now=2026-03-20T12:00:00Z", nil)
		rec := httptest.NewRecorder()

		handler.Run(rec, req)

		var response dto.ReconcileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.True(t, response.DiscrepancyFlagged)
	})

	t.Run("falls back to the server figure when computation hard-fails", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("connection reset")}
		handler := handlers.NewReconcileHandler(newService(fetcher, &stubSummaries{total: "75.00"}, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
		rec := httptest.NewRecorder()

		handler.Run(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ReconcileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.Nil(t, response.Computed)
		assert.NotEmpty(t, response.ComputeError)
		require.NotNil(t, response.DisplayTotal)
		assert.Equal(t, "75.00", *response.DisplayTotal)
		assert.False(t, response.DiscrepancyFlagged)
	})

	t.Run("rejects a malformed now parameter", func(t *testing.T) {
		handler := handlers.NewReconcileHandler(newService(&stubFetcher{page: &ledger.Page{}}, nil, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/reconcile?now=yesterday", nil)
		rec := httptest.NewRecorder()

		handler.Run(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeBadRequest, apiErr.Code)
	})
}
