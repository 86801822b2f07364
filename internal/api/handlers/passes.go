package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skyvps360/skypanelv2-sub001/internal/api/dto"
	"github.com/skyvps360/skypanelv2-sub001/internal/infrastructure/storage"
)

// PassesHandler serves recorded reconciliation pass history.
type PassesHandler struct {
	*Base
}

// NewPassesHandler creates a new passes handler.
func NewPassesHandler(repo storage.Repository) *PassesHandler {
	return &PassesHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/reconcile/passes - returns recent passes.
func (h *PassesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	passes, err := h.repo.ListPasses(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.PassListResponse{
		Passes: make([]dto.PassResponse, 0, len(passes)),
		Count:  len(passes),
	}
	for _, pass := range passes {
		response.Passes = append(response.Passes, toPassResponse(pass))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/reconcile/passes/{id} - returns a single pass by ID.
func (h *PassesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("pass ID is required"))
		return
	}

	pass, err := h.repo.GetPass(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if pass == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("reconciliation pass"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toPassResponse(*pass))
}

// toPassResponse converts a storage pass to an API response.
func toPassResponse(pass storage.ReconciliationPass) dto.PassResponse {
	return dto.PassResponse{
		ID:                 pass.ID,
		StartedAt:          pass.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:         pass.FinishedAt.UTC().Format(time.RFC3339),
		ComputedTotal:      pass.ComputedTotal,
		ServerTotal:        pass.ServerTotal,
		FoundAny:           pass.FoundAny,
		Truncated:          pass.Truncated,
		PagesFetched:       pass.PagesFetched,
		DiscrepancyFlagged: pass.DiscrepancyFlagged,
		ErrorMessage:       pass.ErrorMessage,
	}
}
