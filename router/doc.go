// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ShareVote API.

# Route Registration

	mux := router.NewRouter(engine, members, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

Every API route is wrapped with middleware.WithLogging. Callers identify
themselves with the X-User-ID header.

# Endpoints

Service:

	GET /health  - Liveness
	GET /metrics - Prometheus metrics (when a handler is given)
	GET /        - Banner

Organization:

	POST /organizations/{org}/proposals    - Create draft
	GET  /organizations/{org}/proposals    - List proposals
	GET  /organizations/{org}/voting-power - Current voting power

Proposal:

	GET    /proposals/{id}                  - Proposal with options
	PATCH  /proposals/{id}                  - Edit draft
	GET    /proposals/{id}/preview          - Compact summary
	POST   /proposals/{id}/options          - Add option
	DELETE /proposals/{id}/options/{option} - Remove option
	POST   /proposals/{id}/open             - Start voting
	POST   /proposals/{id}/close            - Tally and freeze
	POST   /proposals/{id}/finalize         - Mark final

Voting and results:

	POST /proposals/{id}/votes    - Cast vote
	GET  /proposals/{id}/my-vote  - Caller's vote
	GET  /proposals/{id}/results  - Results (closed and finalized only)
	GET  /proposals/{id}/receipts - Chain receipts
*/
package router
