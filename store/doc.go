// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements governance.Store.

# Backends

  - SQLStore: PostgreSQL or SQLite through database/sql
  - MemoryStore: process memory, for tests and single-node development

# Transactions

Every proposal transition runs inside InTx. LockProposal holds the proposal
exclusively until the transaction ends (SELECT ... FOR UPDATE on PostgreSQL,
the single SQLite connection, a per-proposal mutex in memory). ReadProposal
takes a shared hold so concurrent voters do not serialize on each other but
cannot interleave with a Close.

UpdateProposal is a compare-and-swap on the version column:

	UPDATE proposal SET ..., version = version + 1 WHERE id = $17 AND version = $18

Zero affected rows means another transaction won; the store reports
governance.ErrStaleProposal.

# Vote uniqueness

The vote table carries UNIQUE (proposal_id, user_id). Constraint failures
from either driver (pq code 23505, SQLITE_CONSTRAINT_UNIQUE or
SQLITE_CONSTRAINT_PRIMARYKEY) are returned as governance.ErrDuplicateVote.
The memory store settles the same rule under its commit lock.
*/
package store
