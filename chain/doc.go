// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package chain defines the contract for recording governance events on an
external blockchain.

Recording is optional enrichment. The engine calls it after a transition has
committed and never lets a failure undo or block the transition:

	receipt, err := chain.Record(ctx, recorder, ev, policy.RecorderTimeout)
	if err != nil {
		// log and carry on
	}

# Recorders

  - Noop: blockchain integration disabled
  - NATSRecorder: request/reply to an adapter service, subject "<prefix>.<kind>"

# Events

  - proposal.opened: content hash, window and eligible power snapshot
  - vote.cast: vote id, option and frozen voting power
  - results.committed: results hash, winner, totals and quorum outcome
  - proposal.finalized: finalization time
*/
package chain
