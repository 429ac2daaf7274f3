// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package governance

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/sharevote/models"
)

// Lifecycle errors
var (
	ErrInvalidTransition   = errors.New("invalid proposal state transition")
	ErrInsufficientOptions = errors.New("proposal needs at least two options to open")
	ErrInvalidTimeRange    = errors.New("voting window must start before it ends")
	ErrInvalidQuorum       = errors.New("quorum requirement must be between 0 and 100")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrLabelRequired       = errors.New("option label is required")
)

// Voting errors
var (
	ErrProposalNotOpen    = errors.New("proposal is not open for voting")
	ErrProposalClosed     = errors.New("proposal is closed")
	ErrProposalNotStarted = errors.New("voting has not started yet")
	ErrProposalEnded      = errors.New("voting has ended")
	ErrDuplicateVote      = errors.New("user has already voted on this proposal")
	ErrNoVotingPower      = errors.New("user has no voting power")
	ErrOptionMismatch     = errors.New("option does not belong to this proposal")
)

// Lookup errors
var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrVoteNotFound     = errors.New("vote not found")
)

// ErrStaleProposal is returned by a store when a proposal update loses an
// optimistic version check. The engine reports it as ErrInvalidTransition.
var ErrStaleProposal = errors.New("proposal was modified concurrently")

// TransitionError describes an operation that is illegal in the proposal's
// current status. It matches ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From models.ProposalStatus
	To   models.ProposalStatus
	Op   string
}

func (e *TransitionError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("cannot %s a %s proposal", e.Op, e.From)
	}
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// IsDomainError reports whether err is an expected business rule violation that
// callers should surface to clients instead of treating as an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrInvalidTransition, ErrInsufficientOptions, ErrInvalidTimeRange, ErrInvalidQuorum,
		ErrTitleRequired, ErrTitleTooLong, ErrLabelRequired,
		ErrProposalNotOpen, ErrProposalClosed, ErrProposalNotStarted, ErrProposalEnded,
		ErrDuplicateVote, ErrNoVotingPower, ErrOptionMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
