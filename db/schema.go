// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Tables lists every table in dependency order, children first.
var Tables = []string{
	"chain_receipt",
	"vote",
	"proposal_option",
	"proposal",
	"share_balance",
	"share_type",
	"member",
}

// Decimals are stored as TEXT so both drivers round-trip them exactly.
// Timestamps are always written by the application in UTC.
const schema = `
-- Membership
CREATE TABLE IF NOT EXISTS member (
    organization_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'admin')),
    PRIMARY KEY (organization_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_member_user_id ON member(user_id);

-- Share Types
CREATE TABLE IF NOT EXISTS share_type (
    id TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL,
    name TEXT NOT NULL,
    voting_weight TEXT NOT NULL,
    UNIQUE (organization_id, name)
);

CREATE INDEX IF NOT EXISTS idx_share_type_organization_id ON share_type(organization_id);

-- Share Balances
CREATE TABLE IF NOT EXISTS share_balance (
    user_id TEXT NOT NULL,
    share_type_id TEXT NOT NULL REFERENCES share_type(id) ON DELETE CASCADE,
    quantity TEXT NOT NULL,
    PRIMARY KEY (user_id, share_type_id)
);

CREATE INDEX IF NOT EXISTS idx_share_balance_share_type_id ON share_balance(share_type_id);

-- Proposals
CREATE TABLE IF NOT EXISTS proposal (
    id TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed', 'finalized')),
    start_at TIMESTAMP NOT NULL,
    end_at TIMESTAMP NOT NULL,
    quorum_requirement TEXT NOT NULL DEFAULT '0',
    eligible_voting_power TEXT NOT NULL DEFAULT '0',
    total_votes_cast TEXT NOT NULL DEFAULT '0',
    quorum_met BOOLEAN NOT NULL DEFAULT FALSE,
    winning_option_id TEXT,
    results_hash TEXT,
    opened_at TIMESTAMP,
    closed_at TIMESTAMP,
    finalized_at TIMESTAMP,
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    version BIGINT NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_proposal_organization_id ON proposal(organization_id);
CREATE INDEX IF NOT EXISTS idx_proposal_status ON proposal(status);

-- Options
CREATE TABLE IF NOT EXISTS proposal_option (
    id TEXT PRIMARY KEY,
    proposal_id TEXT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_proposal_option_proposal_id ON proposal_option(proposal_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    proposal_id TEXT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES proposal_option(id),
    user_id TEXT NOT NULL,
    voting_power TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (proposal_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_proposal_id ON vote(proposal_id);

-- Chain Receipts
CREATE TABLE IF NOT EXISTS chain_receipt (
    subject_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    transaction_id TEXT NOT NULL,
    chain_id TEXT,
    explorer_url TEXT,
    recorded_at TIMESTAMP NOT NULL,
    PRIMARY KEY (subject_id, kind)
);
`
