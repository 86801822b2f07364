package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/skyvps360/skypanelv2-sub001/internal/api/dto"
	"github.com/skyvps360/skypanelv2-sub001/internal/reconcile"
)

// ReconcileHandler runs reconciliation passes over HTTP.
type ReconcileHandler struct {
	*Base
	service *reconcile.Service
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(service *reconcile.Service) *ReconcileHandler {
	return &ReconcileHandler{
		Base:    NewBase(nil),
		service: service,
	}
}

// Run handles POST /api/reconcile - runs one reconciliation pass and returns
// the outcome. An optional `now` query parameter (RFC 3339) overrides the
// wall clock for deterministic verification.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	var now time.Time
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid now parameter, expected RFC 3339"))
			return
		}
		now = parsed
	}

	outcome, err := h.service.ReconcileMonthlySpend(r.Context(), now)
	if err != nil {
		if errors.Is(err, reconcile.ErrSuperseded) {
			h.WriteError(w, http.StatusConflict, dto.ConflictError("superseded by a newer reconciliation request"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toReconcileResponse(outcome))
}

func toReconcileResponse(outcome *reconcile.Outcome) dto.ReconcileResponse {
	resp := dto.ReconcileResponse{
		PassID:             outcome.PassID,
		ComputeError:       outcome.ComputeError,
		DiscrepancyFlagged: outcome.DiscrepancyFlagged,
		StartedAt:          outcome.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:         outcome.FinishedAt.UTC().Format(time.RFC3339),
	}

	if outcome.ServerTotal != nil {
		total := outcome.ServerTotal.StringFixed(2)
		resp.ServerTotal = &total
	}

	if outcome.Computed != nil {
		resp.Computed = &dto.ComputedSpendResponse{
			Total:        outcome.Computed.Total.StringFixed(2),
			FoundAny:     outcome.Computed.FoundAny,
			Truncated:    outcome.Computed.Truncated,
			PagesFetched: outcome.Computed.PagesFetched,
			Reason:       outcome.Computed.Reason,
		}
		resp.DisplayTotal = &resp.Computed.Total
	} else {
		// Hard failure: fall back to the server figure so the console can
		// still show a number.
		resp.DisplayTotal = resp.ServerTotal
	}

	return resp
}
