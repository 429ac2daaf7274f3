// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EventKind names a lifecycle event recorded on chain.
type EventKind string

const (
	EventProposalOpened    EventKind = "proposal.opened"
	EventVoteCast          EventKind = "vote.cast"
	EventResultsCommitted  EventKind = "results.committed"
	EventProposalFinalized EventKind = "proposal.finalized"
)

var (
	ErrNoTransaction = errors.New("recorder returned no transaction id")
	ErrRejected      = errors.New("recorder rejected event")
)

// Event is one request to timestamp a governance event.
type Event struct {
	Kind           EventKind `json:"kind"`
	ProposalID     string    `json:"proposal_id"`
	OrganizationID string    `json:"organization_id"`
	Payload        any       `json:"payload,omitempty"`
}

// Receipt identifies the transaction that recorded an event.
type Receipt struct {
	TransactionID string  `json:"transaction_id"`
	ChainID       *string `json:"chain_id,omitempty"`
	ExplorerURL   *string `json:"explorer_url,omitempty"`
}

// Recorder timestamps governance events on an external ledger.
type Recorder interface {
	RecordEvent(ctx context.Context, ev Event) (Receipt, error)
}

// Noop is the recorder used when blockchain integration is disabled.
// It returns an empty receipt and never fails.
type Noop struct{}

func (Noop) RecordEvent(context.Context, Event) (Receipt, error) {
	return Receipt{}, nil
}

// Record calls rec with a deadline of timeout and returns once the call
// finishes or the deadline passes, whichever is first. A panicking recorder is
// reported as an error. Record never blocks longer than timeout even when the
// recorder ignores its context.
func Record(ctx context.Context, rec Recorder, ev Event, timeout time.Duration) (Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		receipt Receipt
		err     error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("recorder panic: %v", r)}
			}
		}()
		receipt, err := rec.RecordEvent(ctx, ev)
		done <- result{receipt: receipt, err: err}
	}()

	select {
	case res := <-done:
		return res.receipt, res.err
	case <-ctx.Done():
		return Receipt{}, fmt.Errorf("record %s: %w", ev.Kind, ctx.Err())
	}
}
