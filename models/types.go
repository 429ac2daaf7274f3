// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus is a proposal's lifecycle state.
type ProposalStatus string

// Proposal status constants
const (
	StatusDraft     ProposalStatus = "draft"
	StatusOpen      ProposalStatus = "open"
	StatusClosed    ProposalStatus = "closed"
	StatusFinalized ProposalStatus = "finalized"
)

// Next returns the only status a proposal may move to from s, or "" when s is terminal.
func (s ProposalStatus) Next() ProposalStatus {
	switch s {
	case StatusDraft:
		return StatusOpen
	case StatusOpen:
		return StatusClosed
	case StatusClosed:
		return StatusFinalized
	}
	return ""
}

// Valid reports whether s is a known status.
func (s ProposalStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed, StatusFinalized:
		return true
	}
	return false
}

// Member roles
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Request types

type CreateProposalRequest struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	StartAt           *time.Time       `json:"start_at,omitempty"`
	EndAt             *time.Time       `json:"end_at,omitempty"`
	QuorumRequirement *decimal.Decimal `json:"quorum_requirement,omitempty"`
}

// UpdateProposalRequest edits a draft; nil fields are left unchanged.
type UpdateProposalRequest struct {
	Title             *string          `json:"title,omitempty"`
	Description       *string          `json:"description,omitempty"`
	StartAt           *time.Time       `json:"start_at,omitempty"`
	EndAt             *time.Time       `json:"end_at,omitempty"`
	QuorumRequirement *decimal.Decimal `json:"quorum_requirement,omitempty"`
}

type AddOptionRequest struct {
	Label string `json:"label"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type CreateProposalResponse struct {
	ProposalID string `json:"proposal_id"`
}

type AddOptionResponse struct {
	OptionID string `json:"option_id"`
}

type TransitionResponse struct {
	Proposal Proposal      `json:"proposal"`
	Receipt  *ChainReceipt `json:"receipt,omitempty"`
}

type CastVoteResponse struct {
	Vote    Vote          `json:"vote"`
	Receipt *ChainReceipt `json:"receipt,omitempty"`
}

type VotingPowerResponse struct {
	OrganizationID string          `json:"organization_id"`
	UserID         string          `json:"user_id"`
	VotingPower    decimal.Decimal `json:"voting_power"`
	Eligible       bool            `json:"eligible"`
}

type ProposalPreviewResponse struct {
	Title       string         `json:"title"`
	Status      ProposalStatus `json:"status"`
	OptionCount int            `json:"option_count"`
	VoteCount   int            `json:"vote_count"`
	Window      string         `json:"window"`
}

// Domain types

type Proposal struct {
	ID                  string          `json:"id"`
	OrganizationID      string          `json:"organization_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	ContentHash         string          `json:"content_hash"`
	Status              ProposalStatus  `json:"status"`
	StartAt             time.Time       `json:"start_at"`
	EndAt               time.Time       `json:"end_at"`
	QuorumRequirement   decimal.Decimal `json:"quorum_requirement"`
	EligibleVotingPower decimal.Decimal `json:"eligible_voting_power"`
	TotalVotesCast      decimal.Decimal `json:"total_votes_cast"`
	QuorumMet           bool            `json:"quorum_met"`
	WinningOptionID     *string         `json:"winning_option_id,omitempty"`
	ResultsHash         *string         `json:"results_hash,omitempty"`
	OpenedAt            *time.Time      `json:"opened_at,omitempty"`
	ClosedAt            *time.Time      `json:"closed_at,omitempty"`
	FinalizedAt         *time.Time      `json:"finalized_at,omitempty"`
	CreatedBy           string          `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int64           `json:"version"`
}

type ProposalOption struct {
	ID         string `json:"id"`
	ProposalID string `json:"proposal_id"`
	Label      string `json:"label"`
	Position   int    `json:"position"`
}

type ProposalWithOptions struct {
	Proposal Proposal         `json:"proposal"`
	Options  []ProposalOption `json:"options"`
	EndsIn   string           `json:"ends_in,omitempty"`
}

type ShareType struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Name           string          `json:"name"`
	VotingWeight   decimal.Decimal `json:"voting_weight"`
}

// Holding is one share balance of a user together with the weight of its share type.
type Holding struct {
	ShareTypeID string          `json:"share_type_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Weight      decimal.Decimal `json:"weight"`
}

// MemberHolding is a Holding attributed to an organization member.
type MemberHolding struct {
	UserID string `json:"user_id"`
	Holding
}

type Vote struct {
	ID          string          `json:"id"`
	ProposalID  string          `json:"proposal_id"`
	OptionID    string          `json:"option_id"`
	UserID      string          `json:"user_id"`
	VotingPower decimal.Decimal `json:"voting_power"`
	CastAt      time.Time       `json:"cast_at"`
}

// ChainReceipt is the transaction id the blockchain recorder returned for an event.
type ChainReceipt struct {
	SubjectID     string    `json:"subject_id"`
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	ChainID       *string   `json:"chain_id,omitempty"`
	ExplorerURL   *string   `json:"explorer_url,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Result Types

type OptionTotal struct {
	OptionID   string          `json:"option_id"`
	Label      string          `json:"label"`
	Count      int             `json:"count"`
	TotalPower decimal.Decimal `json:"total_power"`
}

type Results struct {
	Options         []OptionTotal   `json:"options"`
	TotalPower      decimal.Decimal `json:"total_power"`
	VoteCount       int             `json:"vote_count"`
	WinningOptionID *string         `json:"winning_option_id,omitempty"`
	Tie             bool            `json:"tie"`
}

type ProposalResults struct {
	Proposal Proposal `json:"proposal"`
	Results  Results  `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
