// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package governance runs the proposal lifecycle for weighted share voting.

# Lifecycle

A proposal moves strictly forward:

	draft ──Open──▶ open ──Close──▶ closed ──Finalize──▶ finalized

What each status allows:

  - Draft: title, description, window and quorum may be edited and options
    added or removed. Open needs at least two options and start < end.
  - Open: freezes the eligible voting power snapshot, the sum of every
    member's current voting power. Members vote inside [StartAt, EndAt].
  - Closed: votes are tallied, quorum is evaluated against the snapshot and
    the winner, totals, results hash and close time are frozen.
  - Finalized: terminal.

Any other transition returns a *TransitionError, which matches
ErrInvalidTransition.

# Voting

CastVote checks, in order: proposal status, voting window, that the option
belongs to the proposal, that the user has not voted, and that the user's
current voting power is positive. The power is frozen on the vote; later
balance changes never alter it.

# Concurrency

Every transition runs in one Store transaction. Two concurrent Opens or
Closes of the same proposal produce one success and one ErrInvalidTransition.
Two concurrent votes by the same user produce one vote and one
ErrDuplicateVote. Unrelated proposals never wait on each other.

# Side effects

After a transition commits the engine:

  - records the event with the chain.Recorder, bounded by
    Policy.RecorderTimeout, and stores any receipt
  - writes an audit.Event, synchronously for status changes
  - updates Prometheus counters

None of these can fail or undo the transition; failures are logged.

# Usage

	engine := governance.NewEngine(store, members,
		governance.WithRecorder(recorder),
		governance.WithAuditSink(sink),
		governance.WithPolicy(policy),
	)

	p, err := engine.Create(ctx, orgID, userID, req)
	opt, err := engine.AddOption(ctx, p.ID, userID, "Approve")
	p, receipt, err := engine.Open(ctx, p.ID, userID)
	vote, receipt, err := engine.CastVote(ctx, p.ID, voterID, opt.ID)
	p, receipt, err := engine.Close(ctx, p.ID, userID)
*/
package governance
