// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ShareVote API.

# Handler Types

Each handler wraps the governance engine and a role lookup:

  - ProposalHandler: proposal lifecycle (create, edit, options, open, close, finalize)
  - VotingHandler: casting votes and reading voting power
  - ResultsHandler: sealed results and chain receipts

Handlers are created with the engine and a role lookup:

	proposals := handlers.NewProposalHandler(engine, members)

# Identity and Permissions

The caller is identified by the X-User-ID header. Every request is checked
with auth.Authorize against the organization that owns the resource:

	view, create, vote  → any member
	manage              → organization admins and the proposal's creator

A missing header is 401; a non-member or missing capability is 403.

# Proposal Lifecycle

	POST /organizations/{org}/proposals     → CreateProposal (draft)
	PATCH /proposals/{id}                   → UpdateProposal (draft only)
	POST /proposals/{id}/options            → AddOption (draft only)
	DELETE /proposals/{id}/options/{option} → RemoveOption (draft only)
	POST /proposals/{id}/open               → OpenProposal (freezes eligible power)
	POST /proposals/{id}/close              → CloseProposal (tallies and freezes results)
	POST /proposals/{id}/finalize           → FinalizeProposal

Transition responses carry the chain receipt when the recorder produced one.

# Voting

	POST /proposals/{id}/votes              → CastVote
	GET /proposals/{id}/my-vote             → GetMyVote
	GET /organizations/{org}/voting-power   → GetVotingPower

# Results

Results are sealed while a proposal is draft or open (403):

	GET /proposals/{id}/results             → GetResults
	GET /proposals/{id}/receipts            → GetReceipts
	GET /proposals/{id}/preview             → GetPreview (vote count only)

# Errors

Business rule violations from the engine (wrong status, outside the window,
duplicate vote, no voting power, bad input) are 400 with the error text as
the message. Unknown proposals, options and votes are 404. Anything else is
logged and returned as 500.
*/
package handlers
