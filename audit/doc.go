// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package audit records who changed what in the governance lifecycle.

Every proposal mutation and every vote produces an Event. Details are tagged
variants, one per action:

  - created: ProposalCreated
  - updated: ProposalUpdated with the changed fields and their old/new values
  - status_changed: StatusChanged
  - option_added / option_removed: OptionAdded / OptionRemoved
  - vote_cast: VoteCast

On the wire the variant is named by a "details_type" field.

# Sinks

  - SlogSink: structured log lines
  - NATSSink: JSON published on "<prefix>.<action>"
  - Multi: fan out to several sinks
  - AsyncSink: bounded queue drained by one goroutine started with Run

AsyncSink.Log never blocks. A full queue drops the event and calls OnDrop.
Status changes go through Emit with sync set, which uses LogSync so the record
exists before the caller returns.

Audit failures never fail the operation being audited.
*/
package audit
