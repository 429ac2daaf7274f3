// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/sharevote/auth"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/handlers"
	"github.com/danielhkuo/sharevote/middleware"
)

// NewRouter registers every API route. metricsHandler serves GET /metrics
// and may be nil to leave the route out.
func NewRouter(engine *governance.Engine, roles auth.RoleLookup, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	proposalHandler := handlers.NewProposalHandler(engine, roles)
	votingHandler := handlers.NewVotingHandler(engine, roles)
	resultsHandler := handlers.NewResultsHandler(engine, roles)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Organization scoped
	mux.HandleFunc("POST /organizations/{org}/proposals", middleware.WithLogging(proposalHandler.CreateProposal))
	mux.HandleFunc("GET /organizations/{org}/proposals", middleware.WithLogging(proposalHandler.ListProposals))
	mux.HandleFunc("GET /organizations/{org}/voting-power", middleware.WithLogging(votingHandler.GetVotingPower))

	// Proposal management
	mux.HandleFunc("GET /proposals/{id}", middleware.WithLogging(proposalHandler.GetProposal))
	mux.HandleFunc("PATCH /proposals/{id}", middleware.WithLogging(proposalHandler.UpdateProposal))
	mux.HandleFunc("GET /proposals/{id}/preview", middleware.WithLogging(proposalHandler.GetPreview))
	mux.HandleFunc("POST /proposals/{id}/options", middleware.WithLogging(proposalHandler.AddOption))
	mux.HandleFunc("DELETE /proposals/{id}/options/{option}", middleware.WithLogging(proposalHandler.RemoveOption))
	mux.HandleFunc("POST /proposals/{id}/open", middleware.WithLogging(proposalHandler.OpenProposal))
	mux.HandleFunc("POST /proposals/{id}/close", middleware.WithLogging(proposalHandler.CloseProposal))
	mux.HandleFunc("POST /proposals/{id}/finalize", middleware.WithLogging(proposalHandler.FinalizeProposal))

	// Voting
	mux.HandleFunc("POST /proposals/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /proposals/{id}/my-vote", middleware.WithLogging(votingHandler.GetMyVote))

	// Results (sealed until close)
	mux.HandleFunc("GET /proposals/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /proposals/{id}/receipts", middleware.WithLogging(resultsHandler.GetReceipts))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sharevote API v1"))
	})

	return mux
}
