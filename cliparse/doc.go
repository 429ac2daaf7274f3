// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config for the serve command:

	cfg, err := cliparse.ParseFlags(args)

# CLI Flags

	-p           Server port (default 3318)
	-d           Database URL or SQLite file path
	-t           Database type: postgres, sqlite (default) or memory
	--nats       NATS URL for chain recording and audit events
	--policy     Governance policy YAML file
	--log-level  debug, info (default), warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	NATS_URL      → --nats
	POLICY_FILE   → --policy
	LOG_LEVEL     → --log-level

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file first; it never overrides variables that are already set.

A database URL is required unless the type is memory.

# Policy File

LoadSettings reads YAML over DefaultSettings and rejects unknown keys:

	default_voting_duration: 168h
	default_quorum_percent: 0
	recorder_timeout: 5s
	audit_queue_size: 1024
	chain_subject_prefix: sharevote.chain
	audit_subject_prefix: sharevote.audit
*/
package cliparse
