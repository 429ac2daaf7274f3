// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/sharevote/auth"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/middleware"
	"github.com/danielhkuo/sharevote/models"
)

// access resolves the caller and checks what they may do. It is embedded by
// every handler.
type access struct {
	engine *governance.Engine
	roles  auth.RoleLookup
}

// authorizeOrg checks capability on an organization and returns the caller's id.
func (a access) authorizeOrg(r *http.Request, organizationID string, capability auth.Capability) (string, error) {
	userID, err := middleware.UserID(r)
	if err != nil {
		return "", auth.ErrUnauthenticated
	}
	res := auth.Resource{OrganizationID: organizationID}
	if err := auth.Authorize(r.Context(), a.roles, auth.Actor{UserID: userID}, res, capability); err != nil {
		return "", err
	}
	return userID, nil
}

// authorizeProposal loads a proposal and checks capability on it.
func (a access) authorizeProposal(r *http.Request, proposalID string, capability auth.Capability) (*models.Proposal, string, error) {
	userID, err := middleware.UserID(r)
	if err != nil {
		return nil, "", auth.ErrUnauthenticated
	}
	p, err := a.engine.Get(r.Context(), proposalID)
	if err != nil {
		return nil, "", err
	}
	res := auth.Resource{OrganizationID: p.OrganizationID, CreatedBy: p.CreatedBy}
	if err := auth.Authorize(r.Context(), a.roles, auth.Actor{UserID: userID}, res, capability); err != nil {
		return nil, "", err
	}
	return p, userID, nil
}

// writeError maps err to a status code. Business rule violations are client
// errors; anything unrecognized is logged and reported as a 500.
func writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-ID header required")
	case errors.Is(err, auth.ErrNotMember), errors.Is(err, auth.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, governance.ErrProposalNotFound),
		errors.Is(err, governance.ErrOptionNotFound),
		errors.Is(err, governance.ErrVoteNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case governance.IsDomainError(err):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}
