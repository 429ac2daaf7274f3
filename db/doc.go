// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Connections

Open supports PostgreSQL (github.com/lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.SQLite, "file:sharevote.db")
	if err != nil {
		log.Fatal(err)
	}

SQLite connections are capped at one so writes serialize, with foreign keys
enabled and a five second busy timeout.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - member: organization membership and role (member or admin)
  - share_type: share classes with their voting weight
  - share_balance: quantity of a share type held by a user
  - proposal: proposal metadata, lifecycle state and frozen results
  - proposal_option: choices on a proposal, in position order
  - vote: one vote per user per proposal, with frozen voting power
  - chain_receipt: blockchain transactions recorded for lifecycle events

# Relationships

	share_type 1──* share_balance
	proposal 1──* proposal_option
	proposal 1──* vote
	proposal_option 1──* vote

Decimal columns (weights, quantities, voting power, quorum) are TEXT so that
values round-trip exactly on both backends.

# Constraints

  - vote.(proposal_id, user_id) is UNIQUE: the ledger accepts one vote per member
  - chain_receipt.(subject_id, kind) is the primary key: one receipt per event
  - proposal.version is the optimistic concurrency counter for transitions
*/
package db
