// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/sharevote/auth"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/middleware"
	"github.com/danielhkuo/sharevote/models"
)

type ResultsHandler struct {
	access
}

func NewResultsHandler(engine *governance.Engine, roles auth.RoleLookup) *ResultsHandler {
	return &ResultsHandler{access{engine: engine, roles: roles}}
}

// GetResults handles GET /proposals/{id}/results
// Returns 403 until the proposal is closed (results are sealed while voting runs)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	p, _, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapView)
	if err != nil {
		writeError(w, err, "authorize results")
		return
	}

	if p.Status == models.StatusDraft || p.Status == models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until voting closes")
		return
	}

	results, err := h.engine.Results(r.Context(), p.ID)
	if err != nil {
		writeError(w, err, "tally results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetReceipts handles GET /proposals/{id}/receipts
func (h *ResultsHandler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	p, _, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapView)
	if err != nil {
		writeError(w, err, "authorize receipts")
		return
	}

	receipts, err := h.engine.Receipts(r.Context(), p.ID)
	if err != nil {
		writeError(w, err, "list receipts")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, receipts)
}
