// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/db"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/membership"
	"github.com/danielhkuo/sharevote/models"
	"github.com/danielhkuo/sharevote/store"
)

// TestOrg is the organization the fixtures seed into.
const TestOrg = "org-test"

// Share type ids seeded by NewEnv. Common shares weigh 1, preferred shares 2.
const (
	CommonShares    = "st-common"
	PreferredShares = "st-preferred"
)

// Env is a fully wired engine backed by a temporary SQLite database.
type Env struct {
	DB      *sql.DB
	Store   *store.SQLStore
	Members *membership.SQLReader
	Engine  *governance.Engine
}

// SetupTestDB creates a fresh SQLite database with the full schema. It is
// closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "sharevote.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// NewEnv wires an engine over a fresh database and seeds TestOrg's share types.
func NewEnv(t *testing.T, opts ...governance.EngineOption) *Env {
	t.Helper()

	conn := SetupTestDB(t)
	env := &Env{
		DB:      conn,
		Store:   store.NewSQLStore(conn, db.SQLite),
		Members: membership.NewSQLReader(conn),
	}
	env.Engine = governance.NewEngine(env.Store, env.Members, opts...)

	ctx := context.Background()
	for _, st := range []models.ShareType{
		{ID: CommonShares, OrganizationID: TestOrg, Name: "common", VotingWeight: decimal.NewFromInt(1)},
		{ID: PreferredShares, OrganizationID: TestOrg, Name: "preferred", VotingWeight: decimal.NewFromInt(2)},
	} {
		if err := env.Members.AddShareType(ctx, st); err != nil {
			t.Fatalf("Failed to add share type: %v", err)
		}
	}
	return env
}

// AddMember adds userID to TestOrg with the given role and common shares.
func (e *Env) AddMember(t *testing.T, userID, role string, commonShares int64) {
	t.Helper()
	ctx := context.Background()
	if err := e.Members.AddMember(ctx, TestOrg, userID, role); err != nil {
		t.Fatalf("Failed to add member: %v", err)
	}
	if commonShares > 0 {
		if err := e.Members.SetBalance(ctx, userID, CommonShares, decimal.NewFromInt(commonShares)); err != nil {
			t.Fatalf("Failed to set balance: %v", err)
		}
	}
}

// CreateTestProposal creates a draft in TestOrg whose window started an hour
// ago, with one option per label. It returns the proposal id and option ids.
func (e *Env) CreateTestProposal(t *testing.T, creator string, labels ...string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(24 * time.Hour)
	p, err := e.Engine.Create(ctx, TestOrg, creator, models.CreateProposalRequest{
		Title:       "Test Proposal",
		Description: "Created by testutil",
		StartAt:     &start,
		EndAt:       &end,
	})
	if err != nil {
		t.Fatalf("Failed to create proposal: %v", err)
	}

	optionIDs := make([]string, 0, len(labels))
	for _, label := range labels {
		o, err := e.Engine.AddOption(ctx, p.ID, creator, label)
		if err != nil {
			t.Fatalf("Failed to add option: %v", err)
		}
		optionIDs = append(optionIDs, o.ID)
	}
	return p.ID, optionIDs
}

// CreateOpenProposal is CreateTestProposal followed by Open.
func (e *Env) CreateOpenProposal(t *testing.T, creator string, labels ...string) (string, []string) {
	t.Helper()
	id, optionIDs := e.CreateTestProposal(t, creator, labels...)
	if _, _, err := e.Engine.Open(context.Background(), id, creator); err != nil {
		t.Fatalf("Failed to open proposal: %v", err)
	}
	return id, optionIDs
}

// MakeRequest creates an HTTP test request. A non-empty userID is sent as
// the X-User-ID header.
func MakeRequest(method, path string, body any, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
