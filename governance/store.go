// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package governance

import (
	"context"

	"github.com/danielhkuo/sharevote/models"
)

// Store persists proposals, options, votes and chain receipts.
//
// Reads outside a transaction see committed state only. Every state transition
// runs inside InTx: fn either commits completely or leaves nothing behind.
type Store interface {
	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)
	ListProposals(ctx context.Context, organizationID string) ([]models.Proposal, error)
	ListOptions(ctx context.Context, proposalID string) ([]models.ProposalOption, error)
	GetVote(ctx context.Context, proposalID, userID string) (*models.Vote, error)
	ListVotes(ctx context.Context, proposalID string) ([]models.Vote, error)
	SaveReceipt(ctx context.Context, r models.ChainReceipt) error
	ListReceipts(ctx context.Context, subjectID string) ([]models.ChainReceipt, error)

	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the view of a store inside one transaction.
type Tx interface {
	// LockProposal reads a proposal and holds it exclusively until the
	// transaction ends.
	LockProposal(ctx context.Context, id string) (*models.Proposal, error)
	// ReadProposal reads a proposal and keeps it from being transitioned until
	// the transaction ends. Concurrent readers do not block each other.
	ReadProposal(ctx context.Context, id string) (*models.Proposal, error)
	// UpdateProposal writes p if its Version is still current and increments
	// p.Version. A lost version check returns ErrStaleProposal.
	UpdateProposal(ctx context.Context, p *models.Proposal) error

	ListOptions(ctx context.Context, proposalID string) ([]models.ProposalOption, error)
	InsertOption(ctx context.Context, o models.ProposalOption) error
	DeleteOption(ctx context.Context, proposalID, optionID string) (*models.ProposalOption, error)

	// InsertVote records v exactly once per (proposal, user). A second vote,
	// including one that loses a race, returns ErrDuplicateVote.
	InsertVote(ctx context.Context, v models.Vote) error
	ListVotes(ctx context.Context, proposalID string) ([]models.Vote, error)
}

// BalanceReader reads current share balances. The engine never writes them.
type BalanceReader interface {
	GetBalances(ctx context.Context, userID, organizationID string) ([]models.Holding, error)
	GetAllMemberBalances(ctx context.Context, organizationID string) ([]models.MemberHolding, error)
}
