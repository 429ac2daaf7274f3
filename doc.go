// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ShareVote API server.

ShareVote runs governance proposals for organizations whose members hold
shares. A member's vote weighs as much as their shares times each share
type's voting weight, quorum is measured against the voting power that
existed when the proposal opened, and lifecycle events can be anchored on
a blockchain through a recorder service.

# Commands

	sharevote serve -d sharevote.db
	sharevote serve -t postgres -d postgres://... --nats nats://localhost:4222
	sharevote version

# Configuration

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file (not needed with -t memory)
  - DATABASE_TYPE (-t): postgres, sqlite or memory (default: sqlite)
  - PORT (-p): Server port (default: 3318)
  - NATS_URL (--nats): enables the chain recorder and NATS audit events
  - POLICY_FILE (--policy): YAML governance defaults
  - LOG_LEVEL (--log-level): debug, info, warn, error

# Architecture

  - governance: proposal lifecycle engine and its storage interfaces
  - power, tally: voting power, quorum and result aggregation
  - store: SQL and in-memory proposal storage
  - membership: members, share types and balances
  - chain: blockchain recorder (NATS request/reply)
  - audit: audit events, NATS and slog sinks, async queue
  - metrics: Prometheus collectors
  - auth: organization role permissions
  - handlers, router, middleware: HTTP API
  - models: request, response and domain types
  - db: connections and schema
  - cliparse: flags, environment and policy file

See package documentation for each component.
*/
package main
