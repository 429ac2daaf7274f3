// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/sharevote/models"
	"github.com/danielhkuo/sharevote/testutil"
)

// fixture seeds testutil.TestOrg with an admin without shares, two voting
// members (alice 100, bob 50), carol with no shares and nobody else.
type fixture struct {
	*testutil.Env
	proposals *ProposalHandler
	voting    *VotingHandler
	results   *ResultsHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := testutil.NewEnv(t)
	env.AddMember(t, "admin", models.RoleAdmin, 0)
	env.AddMember(t, "alice", models.RoleMember, 100)
	env.AddMember(t, "bob", models.RoleMember, 50)
	env.AddMember(t, "carol", models.RoleMember, 0)

	return &fixture{
		Env:       env,
		proposals: NewProposalHandler(env.Engine, env.Members),
		voting:    NewVotingHandler(env.Engine, env.Members),
		results:   NewResultsHandler(env.Engine, env.Members),
	}
}

// serve runs h against a request whose path values are given as name, value pairs.
func serve(h http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
