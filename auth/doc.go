// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth decides whether a caller may act on an organization or proposal.

Authentication happens upstream; the caller arrives as an Actor carrying a
user ID. Authorization is a single function call with an explicit role lookup:

	err := auth.Authorize(ctx, members, auth.Actor{UserID: userID},
		auth.Resource{OrganizationID: p.OrganizationID, CreatedBy: p.CreatedBy},
		auth.CapManage)

# Capabilities

	capability  member  admin  creator
	view        yes     yes    -
	create      yes     yes    -
	vote        yes     yes    -
	manage      no      yes    yes

manage covers editing drafts, adding and removing options, and the Open,
Close and Finalize transitions. "creator" means a member who created the
proposal being managed.

# Errors

  - ErrUnauthenticated: no user ID
  - ErrNotMember: the user does not belong to the organization
  - ErrForbidden: the user's role lacks the capability

Voting eligibility (positive voting power) is not an authorization concern;
the governance engine enforces it.
*/
package auth
