// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/sharevote/auth"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/middleware"
	"github.com/danielhkuo/sharevote/models"
)

type VotingHandler struct {
	access
}

func NewVotingHandler(engine *governance.Engine, roles auth.RoleLookup) *VotingHandler {
	return &VotingHandler{access{engine: engine, roles: roles}}
}

// CastVote handles POST /proposals/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	p, userID, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapVote)
	if err != nil {
		writeError(w, err, "authorize vote")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	vote, receipt, err := h.engine.CastVote(r.Context(), p.ID, userID, req.OptionID)
	if err != nil {
		writeError(w, err, "cast vote")
		return
	}

	slog.Info("vote submitted", "proposal_id", p.ID, "user_id", userID, "client", middleware.GetClientIP(r))
	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{Vote: *vote, Receipt: receipt})
}

// GetMyVote handles GET /proposals/{id}/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	p, userID, err := h.authorizeProposal(r, r.PathValue("id"), auth.CapView)
	if err != nil {
		writeError(w, err, "authorize view")
		return
	}

	vote, err := h.engine.VoteOf(r.Context(), p.ID, userID)
	if err != nil {
		writeError(w, err, "get vote")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, vote)
}

// GetVotingPower handles GET /organizations/{org}/voting-power
// Defaults to the caller; ?user_id= asks about someone else and needs manage rights
func (h *VotingHandler) GetVotingPower(w http.ResponseWriter, r *http.Request) {
	orgID := r.PathValue("org")
	callerID, err := h.authorizeOrg(r, orgID, auth.CapView)
	if err != nil {
		writeError(w, err, "authorize voting power")
		return
	}

	subject := callerID
	if other := r.URL.Query().Get("user_id"); other != "" && other != callerID {
		if _, err := h.authorizeOrg(r, orgID, auth.CapManage); err != nil {
			writeError(w, err, "authorize voting power")
			return
		}
		subject = other
	}

	vp, err := h.engine.VotingPowerOf(r.Context(), orgID, subject)
	if err != nil {
		writeError(w, err, "calculate voting power")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotingPowerResponse{
		OrganizationID: orgID,
		UserID:         subject,
		VotingPower:    vp,
		Eligible:       vp.IsPositive(),
	})
}
