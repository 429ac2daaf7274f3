// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/sharevote/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotMember       = errors.New("not a member of this organization")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Capability is an action a member may be allowed to take.
type Capability string

const (
	CapView   Capability = "view"
	CapCreate Capability = "create"
	CapVote   Capability = "vote"
	CapManage Capability = "manage"
)

// Actor is the authenticated caller.
type Actor struct {
	UserID string
}

// Resource is what the actor wants to act on. CreatedBy is empty for
// organization-level actions.
type Resource struct {
	OrganizationID string
	CreatedBy      string
}

// RoleLookup returns a user's role in an organization. ok is false for
// non-members.
type RoleLookup interface {
	Role(ctx context.Context, organizationID, userID string) (role string, ok bool, err error)
}

// roleCapabilities lists what each role may do on any resource.
var roleCapabilities = map[string][]Capability{
	models.RoleMember: {CapView, CapCreate, CapVote},
	models.RoleAdmin:  {CapView, CapCreate, CapVote, CapManage},
}

// Authorize reports whether actor holds capability on res. Managing a proposal is
// allowed for organization admins and for the proposal's creator.
func Authorize(ctx context.Context, lookup RoleLookup, actor Actor, res Resource, capability Capability) error {
	if actor.UserID == "" {
		return ErrUnauthenticated
	}

	role, ok, err := lookup.Role(ctx, res.OrganizationID, actor.UserID)
	if err != nil {
		return fmt.Errorf("lookup role: %w", err)
	}
	if !ok {
		return ErrNotMember
	}

	for _, c := range roleCapabilities[role] {
		if c == capability {
			return nil
		}
	}
	if capability == CapManage && res.CreatedBy != "" && res.CreatedBy == actor.UserID {
		return nil
	}
	return ErrForbidden
}
