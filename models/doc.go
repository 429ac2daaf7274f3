// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateProposalRequest: title, description, start_at, end_at, quorum_requirement
  - UpdateProposalRequest: same fields, all optional (draft only)
  - AddOptionRequest: label
  - CastVoteRequest: option_id

# Response Types

  - CreateProposalResponse: proposal_id
  - AddOptionResponse: option_id
  - TransitionResponse: proposal, receipt
  - CastVoteResponse: vote, receipt
  - VotingPowerResponse: voting_power, eligible
  - ProposalPreviewResponse: compact summary with a human readable window
  - ErrorResponse: error, message

# Domain Types

  - Proposal: lifecycle state, voting window, quorum and frozen results
  - ProposalOption: one choice on a proposal
  - ShareType: voting weight multiplier for a class of shares
  - Holding / MemberHolding: share balances joined with their weight
  - Vote: one member's choice with voting power frozen at cast time
  - ChainReceipt: blockchain transaction recorded for a lifecycle event
  - Results / OptionTotal: per option tallies and the winner

Decimal quantities (weights, balances, voting power, quorum) use
github.com/shopspring/decimal and encode as JSON strings.

# Constants

Status values advance strictly in order:

	StatusDraft → StatusOpen → StatusClosed → StatusFinalized

Member roles:

	RoleMember = "member"
	RoleAdmin  = "admin"
*/
package models
