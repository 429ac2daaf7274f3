// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/sharevote/auth"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/middleware"
	"github.com/danielhkuo/sharevote/models"
)

type ProposalHandler struct {
	access
}

func NewProposalHandler(engine *governance.Engine, roles auth.RoleLookup) *ProposalHandler {
	return &ProposalHandler{access{engine: engine, roles: roles}}
}

// CreateProposal handles POST /organizations/{org}/proposals
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("org")
	userID, err := h.authorizeOrg(r, orgID, auth.CapCreate)
	if err != nil {
		writeError(w, err, "authorize create")
		return
	}

	var req models.CreateProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.engine.Create(r.Context(), orgID, userID, req)
	if err != nil {
		writeError(w, err, "create proposal")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateProposalResponse{ProposalID: p.ID})
}

// ListProposals handles GET /organizations/{org}/proposals
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("org")
	if _, err := h.authorizeOrg(r, orgID, auth.CapView); err != nil {
		writeError(w, err, "authorize list")
		return
	}

	proposals, err := h.engine.List(r.Context(), orgID)
	if err != nil {
		writeError(w, err, "list proposals")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, proposals)
}

// GetProposal handles GET /proposals/{id}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	p, _, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapView)
	if err != nil {
		writeError(w, err, "authorize view")
		return
	}

	options, err := h.engine.Options(r.Context(), p.ID)
	if err != nil {
		writeError(w, err, "list options")
		return
	}

	resp := models.ProposalWithOptions{Proposal: *p, Options: options}
	if p.Status == models.StatusOpen {
		resp.EndsIn = humanize.Time(p.EndAt)
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateProposal handles PATCH /proposals/{id}
func (h *ProposalHandler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	p, userID, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapManage)
	if err != nil {
		writeError(w, err, "authorize update")
		return
	}

	var req models.UpdateProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	updated, err := h.engine.UpdateDraft(r.Context(), p.ID, userID, req)
	if err != nil {
		writeError(w, err, "update proposal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// GetPreview handles GET /proposals/{id}/preview
// Returns a compact summary; vote counts are visible while open, tallies are not
func (h *ProposalHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	p, _, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapView)
	if err != nil {
		writeError(w, err, "authorize preview")
		return
	}

	results, err := h.engine.Results(r.Context(), p.ID)
	if err != nil {
		writeError(w, err, "count votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalPreviewResponse{
		Title:       p.Title,
		Status:      p.Status,
		OptionCount: len(results.Results.Options),
		VoteCount:   results.Results.VoteCount,
		Window:      describeWindow(p, time.Now()),
	})
}

// describeWindow renders the voting window relative to now.
func describeWindow(p *models.Proposal, now time.Time) string {
	switch p.Status {
	case models.StatusDraft:
		return "not opened, scheduled " + humanize.RelTime(p.StartAt, now, "ago", "from now")
	case models.StatusOpen:
		if now.Before(p.StartAt) {
			return "starts " + humanize.RelTime(p.StartAt, now, "ago", "from now")
		}
		if now.After(p.EndAt) {
			return "ended " + humanize.RelTime(p.EndAt, now, "ago", "from now")
		}
		return "ends " + humanize.RelTime(p.EndAt, now, "ago", "from now")
	default:
		closedAt := p.EndAt
		if p.ClosedAt != nil {
			closedAt = *p.ClosedAt
		}
		return "closed " + humanize.RelTime(closedAt, now, "ago", "from now")
	}
}

// AddOption handles POST /proposals/{id}/options
func (h *ProposalHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	p, userID, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapManage)
	if err != nil {
		writeError(w, err, "authorize add option")
		return
	}

	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	option, err := h.engine.AddOption(r.Context(), p.ID, userID, req.Label)
	if err != nil {
		writeError(w, err, "add option")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{OptionID: option.ID})
}

// RemoveOption handles DELETE /proposals/{id}/options/{option}
func (h *ProposalHandler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	p, userID, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapManage)
	if err != nil {
		writeError(w, err, "authorize remove option")
		return
	}

	if err := h.engine.RemoveOption(r.Context(), p.ID, r.PathValue("option"), userID); err != nil {
		writeError(w, err, "remove option")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, proposalID, actorID string) (*models.Proposal, *models.ChainReceipt, error)

// transition runs one lifecycle step for a caller allowed to manage the proposal.
func (h *ProposalHandler) transition(w http.ResponseWriter, r *http.Request, action string, fn transitionFunc) {
	p, userID, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapManage)
	if err != nil {
		writeError(w, err, "authorize "+action)
		return
	}

	updated, receipt, err := fn(r.Context(), p.ID, userID)
	if err != nil {
		writeError(w, err, action+" proposal")
		return
	}

	slog.Info("proposal "+action, "proposal_id", updated.ID, "status", updated.Status, "actor", userID)
	middleware.JSONResponse(w, http.StatusOK, models.TransitionResponse{Proposal: *updated, Receipt: receipt})
}

// OpenProposal handles POST /proposals/{id}/open
func (h *ProposalHandler) OpenProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "open", h.engine.Open)
}

// CloseProposal handles POST /proposals/{id}/close
func (h *ProposalHandler) CloseProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "close", h.engine.Close)
}

// FinalizeProposal handles POST /proposals/{id}/finalize
func (h *ProposalHandler) FinalizeProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "finalize", h.engine.Finalize)
}
