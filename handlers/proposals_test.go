// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
	"github.com/danielhkuo/sharevote/testutil"
)

func TestCreateProposal(t *testing.T) {
	f := newFixture(t)

	start := time.Now()
	before := start.Add(-time.Hour)
	quorum := decimal.NewFromInt(120)

	tests := []struct {
		name           string
		user           string
		body           any
		expectedStatus int
	}{
		{"admin creates", "admin", models.CreateProposalRequest{Title: "Budget"}, http.StatusCreated},
		{"member creates", "alice", models.CreateProposalRequest{Title: "Hire"}, http.StatusCreated},
		{"missing user header", "", models.CreateProposalRequest{Title: "Budget"}, http.StatusUnauthorized},
		{"not a member", "mallory", models.CreateProposalRequest{Title: "Budget"}, http.StatusForbidden},
		{"empty title", "admin", models.CreateProposalRequest{Title: "   "}, http.StatusBadRequest},
		{"title too long", "admin", models.CreateProposalRequest{Title: strings.Repeat("x", 201)}, http.StatusBadRequest},
		{"end before start", "admin", models.CreateProposalRequest{Title: "Budget", StartAt: &start, EndAt: &before}, http.StatusBadRequest},
		{"quorum over 100", "admin", models.CreateProposalRequest{Title: "Budget", QuorumRequirement: &quorum}, http.StatusBadRequest},
		{"invalid JSON", "admin", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/organizations/"+testutil.TestOrg+"/proposals", tt.body, tt.user)
			w := serve(f.proposals.CreateProposal, req, "org", testutil.TestOrg)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.CreateProposalResponse
			testutil.AssertJSON(t, w, &resp)
			p, err := f.Engine.Get(context.Background(), resp.ProposalID)
			if err != nil {
				t.Fatalf("Created proposal not found: %v", err)
			}
			if p.Status != models.StatusDraft {
				t.Errorf("Expected draft, got %s", p.Status)
			}
			if p.CreatedBy != tt.user {
				t.Errorf("Expected created_by %s, got %s", tt.user, p.CreatedBy)
			}
		})
	}
}

func TestListProposals(t *testing.T) {
	f := newFixture(t)
	f.CreateTestProposal(t, "admin", "Yes", "No")
	f.CreateTestProposal(t, "alice", "Yes", "No")

	w := serve(f.proposals.ListProposals,
		testutil.MakeRequest("GET", "/organizations/"+testutil.TestOrg+"/proposals", nil, "bob"),
		"org", testutil.TestOrg)
	testutil.AssertStatus(t, w, http.StatusOK)

	var proposals []models.Proposal
	testutil.AssertJSON(t, w, &proposals)
	if len(proposals) != 2 {
		t.Errorf("Expected 2 proposals, got %d", len(proposals))
	}

	w = serve(f.proposals.ListProposals,
		testutil.MakeRequest("GET", "/organizations/other/proposals", nil, "bob"),
		"org", "other")
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestGetProposal(t *testing.T) {
	f := newFixture(t)
	id, optionIDs := f.CreateTestProposal(t, "admin", "Yes", "No")

	w := serve(f.proposals.GetProposal, testutil.MakeRequest("GET", "/proposals/"+id, nil, "alice"), "id", id)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProposalWithOptions
	testutil.AssertJSON(t, w, &resp)
	if resp.Proposal.ID != id {
		t.Errorf("Expected proposal %s, got %s", id, resp.Proposal.ID)
	}
	if len(resp.Options) != 2 || resp.Options[0].ID != optionIDs[0] || resp.Options[1].Label != "No" {
		t.Errorf("Unexpected options: %+v", resp.Options)
	}
	if resp.EndsIn != "" {
		t.Errorf("Expected no ends_in for a draft, got %q", resp.EndsIn)
	}

	w = serve(f.proposals.GetProposal, testutil.MakeRequest("GET", "/proposals/missing", nil, "alice"), "id", "missing")
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = serve(f.proposals.GetProposal, testutil.MakeRequest("GET", "/proposals/"+id, nil, "mallory"), "id", id)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestUpdateProposal(t *testing.T) {
	f := newFixture(t)
	id, _ := f.CreateTestProposal(t, "alice", "Yes", "No")
	title := "Renamed"

	tests := []struct {
		name           string
		user           string
		expectedStatus int
	}{
		{"other member cannot manage", "bob", http.StatusForbidden},
		{"creator may edit", "alice", http.StatusOK},
		{"admin may edit", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PATCH", "/proposals/"+id, models.UpdateProposalRequest{Title: &title}, tt.user)
			w := serve(f.proposals.UpdateProposal, req, "id", id)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	p, _ := f.Engine.Get(context.Background(), id)
	if p.Title != title {
		t.Errorf("Expected title %q, got %q", title, p.Title)
	}

	if _, _, err := f.Engine.Open(context.Background(), id, "alice"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	req := testutil.MakeRequest("PATCH", "/proposals/"+id, models.UpdateProposalRequest{Title: &title}, "alice")
	w := serve(f.proposals.UpdateProposal, req, "id", id)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestOptionEndpoints(t *testing.T) {
	f := newFixture(t)
	id, optionIDs := f.CreateTestProposal(t, "admin", "Yes")

	w := serve(f.proposals.AddOption,
		testutil.MakeRequest("POST", "/proposals/"+id+"/options", models.AddOptionRequest{Label: "No"}, "admin"),
		"id", id)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var added models.AddOptionResponse
	testutil.AssertJSON(t, w, &added)
	if added.OptionID == "" {
		t.Fatal("Expected option_id in response")
	}

	w = serve(f.proposals.AddOption,
		testutil.MakeRequest("POST", "/proposals/"+id+"/options", models.AddOptionRequest{Label: ""}, "admin"),
		"id", id)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = serve(f.proposals.AddOption,
		testutil.MakeRequest("POST", "/proposals/"+id+"/options", models.AddOptionRequest{Label: "Maybe"}, "bob"),
		"id", id)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = serve(f.proposals.RemoveOption,
		testutil.MakeRequest("DELETE", "/proposals/"+id+"/options/"+optionIDs[0], nil, "admin"),
		"id", id, "option", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = serve(f.proposals.RemoveOption,
		testutil.MakeRequest("DELETE", "/proposals/"+id+"/options/"+optionIDs[0], nil, "admin"),
		"id", id, "option", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusNotFound)

	options, err := f.Engine.Options(context.Background(), id)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(options) != 1 || options[0].ID != added.OptionID {
		t.Errorf("Expected only the added option to remain, got %+v", options)
	}
}

func TestTransitions(t *testing.T) {
	f := newFixture(t)
	id, _ := f.CreateTestProposal(t, "admin", "Yes")

	post := func(h http.HandlerFunc, user string) *models.TransitionResponse {
		t.Helper()
		w := serve(h, testutil.MakeRequest("POST", "/proposals/"+id, nil, user), "id", id)
		if w.Code != http.StatusOK {
			t.Logf("status %d: %s", w.Code, w.Body.String())
			return nil
		}
		var resp models.TransitionResponse
		testutil.AssertJSON(t, w, &resp)
		return &resp
	}

	// One option is not enough.
	w := serve(f.proposals.OpenProposal, testutil.MakeRequest("POST", "/proposals/"+id+"/open", nil, "admin"), "id", id)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	if _, err := f.Engine.AddOption(context.Background(), id, "admin", "No"); err != nil {
		t.Fatalf("AddOption: %v", err)
	}

	w = serve(f.proposals.OpenProposal, testutil.MakeRequest("POST", "/proposals/"+id+"/open", nil, "alice"), "id", id)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	opened := post(f.proposals.OpenProposal, "admin")
	if opened == nil || opened.Proposal.Status != models.StatusOpen {
		t.Fatalf("Expected open proposal, got %+v", opened)
	}
	if !opened.Proposal.EligibleVotingPower.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected eligible power 150, got %s", opened.Proposal.EligibleVotingPower)
	}

	w = serve(f.proposals.FinalizeProposal, testutil.MakeRequest("POST", "/proposals/"+id+"/finalize", nil, "admin"), "id", id)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	if closed := post(f.proposals.CloseProposal, "admin"); closed == nil || closed.Proposal.Status != models.StatusClosed {
		t.Fatalf("Expected closed proposal, got %+v", closed)
	}
	if final := post(f.proposals.FinalizeProposal, "admin"); final == nil || final.Proposal.Status != models.StatusFinalized {
		t.Fatalf("Expected finalized proposal, got %+v", final)
	}

	w = serve(f.proposals.CloseProposal, testutil.MakeRequest("POST", "/proposals/"+id+"/close", nil, "admin"), "id", id)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetPreview(t *testing.T) {
	f := newFixture(t)
	id, optionIDs := f.CreateOpenProposal(t, "admin", "Yes", "No", "Abstain")
	if _, _, err := f.Engine.CastVote(context.Background(), id, "alice", optionIDs[0]); err != nil {
		t.Fatalf("CastVote: %v", err)
	}

	w := serve(f.proposals.GetPreview, testutil.MakeRequest("GET", "/proposals/"+id+"/preview", nil, "bob"), "id", id)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProposalPreviewResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.OptionCount != 3 {
		t.Errorf("Expected 3 options, got %d", resp.OptionCount)
	}
	if resp.VoteCount != 1 {
		t.Errorf("Expected 1 vote, got %d", resp.VoteCount)
	}
	if !strings.HasPrefix(resp.Window, "ends ") || !strings.HasSuffix(resp.Window, "from now") {
		t.Errorf("Expected an upcoming end, got %q", resp.Window)
	}
}

func TestDescribeWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	closedAt := now.Add(-2 * time.Hour)

	tests := []struct {
		name     string
		proposal models.Proposal
		want     string
	}{
		{
			name:     "draft",
			proposal: models.Proposal{Status: models.StatusDraft, StartAt: now.Add(48 * time.Hour), EndAt: now.Add(96 * time.Hour)},
			want:     "not opened, scheduled 2 days from now",
		},
		{
			name:     "open and running",
			proposal: models.Proposal{Status: models.StatusOpen, StartAt: now.Add(-time.Hour), EndAt: now.Add(3 * time.Hour)},
			want:     "ends 3 hours from now",
		},
		{
			name:     "open before start",
			proposal: models.Proposal{Status: models.StatusOpen, StartAt: now.Add(time.Hour), EndAt: now.Add(3 * time.Hour)},
			want:     "starts 1 hour from now",
		},
		{
			name:     "open past end",
			proposal: models.Proposal{Status: models.StatusOpen, StartAt: now.Add(-3 * time.Hour), EndAt: now.Add(-time.Hour)},
			want:     "ended 1 hour ago",
		},
		{
			name:     "closed",
			proposal: models.Proposal{Status: models.StatusClosed, EndAt: now, ClosedAt: &closedAt},
			want:     "closed 2 hours ago",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeWindow(&tt.proposal, now); got != tt.want {
				t.Errorf("describeWindow() = %q, want %q", got, tt.want)
			}
		})
	}
}
