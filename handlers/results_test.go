// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
	"github.com/danielhkuo/sharevote/testutil"
)

func TestGetResults_SealedUntilClosed(t *testing.T) {
	f := newFixture(t)
	draftID, _ := f.CreateTestProposal(t, "admin", "Yes", "No")
	openID, optionIDs := f.CreateOpenProposal(t, "admin", "Yes", "No")
	if _, _, err := f.Engine.CastVote(context.Background(), openID, "alice", optionIDs[0]); err != nil {
		t.Fatalf("CastVote: %v", err)
	}

	for _, id := range []string{draftID, openID} {
		w := serve(f.results.GetResults, testutil.MakeRequest("GET", "/proposals/"+id+"/results", nil, "admin"), "id", id)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	}
}

func TestGetResults_AfterClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, optionIDs := f.CreateOpenProposal(t, "admin", "Yes", "No")

	if _, _, err := f.Engine.CastVote(ctx, id, "alice", optionIDs[0]); err != nil {
		t.Fatalf("CastVote alice: %v", err)
	}
	if _, _, err := f.Engine.CastVote(ctx, id, "bob", optionIDs[1]); err != nil {
		t.Fatalf("CastVote bob: %v", err)
	}
	if _, _, err := f.Engine.Close(ctx, id, "admin"); err != nil {
		t.Fatalf("Close: %v", err)
	}

	w := serve(f.results.GetResults, testutil.MakeRequest("GET", "/proposals/"+id+"/results", nil, "carol"), "id", id)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProposalResults
	testutil.AssertJSON(t, w, &resp)

	if resp.Proposal.Status != models.StatusClosed {
		t.Errorf("Expected closed, got %s", resp.Proposal.Status)
	}
	if !resp.Proposal.TotalVotesCast.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected 150 total votes cast, got %s", resp.Proposal.TotalVotesCast)
	}
	if !resp.Proposal.QuorumMet {
		t.Error("Expected quorum met with no requirement")
	}
	if resp.Results.WinningOptionID == nil || *resp.Results.WinningOptionID != optionIDs[0] {
		t.Errorf("Expected %s to win, got %v", optionIDs[0], resp.Results.WinningOptionID)
	}
	if resp.Results.VoteCount != 2 {
		t.Errorf("Expected 2 votes, got %d", resp.Results.VoteCount)
	}

	totals := map[string]decimal.Decimal{}
	for _, o := range resp.Results.Options {
		totals[o.OptionID] = o.TotalPower
	}
	if !totals[optionIDs[0]].Equal(decimal.NewFromInt(100)) || !totals[optionIDs[1]].Equal(decimal.NewFromInt(50)) {
		t.Errorf("Unexpected per option totals: %v", totals)
	}

	w = serve(f.results.GetResults, testutil.MakeRequest("GET", "/proposals/"+id+"/results", nil, "mallory"), "id", id)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestGetReceipts(t *testing.T) {
	f := newFixture(t)
	id, _ := f.CreateOpenProposal(t, "admin", "Yes", "No")

	w := serve(f.results.GetReceipts, testutil.MakeRequest("GET", "/proposals/"+id+"/receipts", nil, "alice"), "id", id)
	testutil.AssertStatus(t, w, http.StatusOK)

	var receipts []models.ChainReceipt
	testutil.AssertJSON(t, w, &receipts)
	if len(receipts) != 0 {
		t.Errorf("Expected no receipts from the no-op recorder, got %d", len(receipts))
	}

	w = serve(f.results.GetReceipts, testutil.MakeRequest("GET", "/proposals/missing/receipts", nil, "alice"), "id", "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
