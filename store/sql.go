// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/sharevote/db"
	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/models"
)

// SQLStore implements governance.Store on PostgreSQL or SQLite.
type SQLStore struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewSQLStore(conn *sql.DB, dialect db.Dialect) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const proposalColumns = `id, organization_id, title, description, content_hash, status,
	start_at, end_at, quorum_requirement, eligible_voting_power, total_votes_cast, quorum_met,
	winning_option_id, results_hash, opened_at, closed_at, finalized_at,
	created_by, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*models.Proposal, error) {
	var (
		p                         models.Proposal
		winner, resultsHash       sql.NullString
		openedAt, closedAt, finAt sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.Title, &p.Description, &p.ContentHash, &p.Status,
		&p.StartAt, &p.EndAt, &p.QuorumRequirement, &p.EligibleVotingPower, &p.TotalVotesCast, &p.QuorumMet,
		&winner, &resultsHash, &openedAt, &closedAt, &finAt,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, err
	}
	p.WinningOptionID = nullString(winner)
	p.ResultsHash = nullString(resultsHash)
	p.OpenedAt = nullTime(openedAt)
	p.ClosedAt = nullTime(closedAt)
	p.FinalizedAt = nullTime(finAt)
	p.StartAt = p.StartAt.UTC()
	p.EndAt = p.EndAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *SQLStore) CreateProposal(ctx context.Context, p *models.Proposal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proposal (`+proposalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`,
		p.ID, p.OrganizationID, p.Title, p.Description, p.ContentHash, string(p.Status),
		p.StartAt, p.EndAt, p.QuorumRequirement.String(), p.EligibleVotingPower.String(), p.TotalVotesCast.String(), p.QuorumMet,
		nullable(p.WinningOptionID), nullable(p.ResultsHash),
		nullableTime(p.OpenedAt), nullableTime(p.ClosedAt), nullableTime(p.FinalizedAt),
		p.CreatedBy, p.CreatedAt, p.UpdatedAt, p.Version,
	)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *SQLStore) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	return getProposal(ctx, s.db, id, "")
}

func getProposal(ctx context.Context, q queryer, id, lockClause string) (*models.Proposal, error) {
	p, err := scanProposal(q.QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM proposal WHERE id = $1`+lockClause, id))
	if err == sql.ErrNoRows {
		return nil, governance.ErrProposalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query proposal: %w", err)
	}
	return p, nil
}

func (s *SQLStore) ListProposals(ctx context.Context, organizationID string) ([]models.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal
		WHERE organization_id = $1
		ORDER BY created_at DESC, id
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, *p)
	}
	return proposals, rows.Err()
}

func (s *SQLStore) ListOptions(ctx context.Context, proposalID string) ([]models.ProposalOption, error) {
	return listOptions(ctx, s.db, proposalID)
}

func listOptions(ctx context.Context, q queryer, proposalID string) ([]models.ProposalOption, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, proposal_id, label, position
		FROM proposal_option
		WHERE proposal_id = $1
		ORDER BY position, id
	`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.ProposalOption{}
	for rows.Next() {
		var o models.ProposalOption
		if err := rows.Scan(&o.ID, &o.ProposalID, &o.Label, &o.Position); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

const voteColumns = `id, proposal_id, option_id, user_id, voting_power, cast_at`

func scanVote(row rowScanner) (*models.Vote, error) {
	var v models.Vote
	if err := row.Scan(&v.ID, &v.ProposalID, &v.OptionID, &v.UserID, &v.VotingPower, &v.CastAt); err != nil {
		return nil, err
	}
	v.CastAt = v.CastAt.UTC()
	return &v, nil
}

func (s *SQLStore) GetVote(ctx context.Context, proposalID, userID string) (*models.Vote, error) {
	v, err := scanVote(s.db.QueryRowContext(ctx,
		`SELECT `+voteColumns+` FROM vote WHERE proposal_id = $1 AND user_id = $2`, proposalID, userID))
	if err == sql.ErrNoRows {
		return nil, governance.ErrVoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query vote: %w", err)
	}
	return v, nil
}

func (s *SQLStore) ListVotes(ctx context.Context, proposalID string) ([]models.Vote, error) {
	return listVotes(ctx, s.db, proposalID)
}

func listVotes(ctx context.Context, q queryer, proposalID string) ([]models.Vote, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+voteColumns+` FROM vote WHERE proposal_id = $1 ORDER BY cast_at, id`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, *v)
	}
	return votes, rows.Err()
}

// SaveReceipt stores r. A second receipt for the same subject and kind is ignored.
func (s *SQLStore) SaveReceipt(ctx context.Context, r models.ChainReceipt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chain_receipt (subject_id, kind, transaction_id, chain_id, explorer_url, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subject_id, kind) DO NOTHING
	`, r.SubjectID, r.Kind, r.TransactionID, nullable(r.ChainID), nullable(r.ExplorerURL), r.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert chain receipt: %w", err)
	}
	return nil
}

func (s *SQLStore) ListReceipts(ctx context.Context, subjectID string) ([]models.ChainReceipt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_id, kind, transaction_id, chain_id, explorer_url, recorded_at
		FROM chain_receipt
		WHERE subject_id = $1
		ORDER BY recorded_at, kind
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query chain receipts: %w", err)
	}
	defer rows.Close()

	receipts := []models.ChainReceipt{}
	for rows.Next() {
		var (
			r                    models.ChainReceipt
			chainID, explorerURL sql.NullString
		)
		if err := rows.Scan(&r.SubjectID, &r.Kind, &r.TransactionID, &chainID, &explorerURL, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan chain receipt: %w", err)
		}
		r.ChainID = nullString(chainID)
		r.ExplorerURL = nullString(explorerURL)
		r.RecordedAt = r.RecordedAt.UTC()
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// InTx runs fn in a database transaction, committing when fn returns nil.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx governance.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return governance.ErrDuplicateVote
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx      *sql.Tx
	dialect db.Dialect
}

// lockClause returns the row locking suffix for the dialect. SQLite has none;
// its single connection already serializes transactions.
func (t *sqlTx) lockClause(exclusive bool) string {
	if t.dialect != db.Postgres {
		return ""
	}
	if exclusive {
		return " FOR UPDATE"
	}
	return " FOR SHARE"
}

func (t *sqlTx) LockProposal(ctx context.Context, id string) (*models.Proposal, error) {
	return getProposal(ctx, t.tx, id, t.lockClause(true))
}

func (t *sqlTx) ReadProposal(ctx context.Context, id string) (*models.Proposal, error) {
	return getProposal(ctx, t.tx, id, t.lockClause(false))
}

// UpdateProposal is a compare-and-swap on the version column.
func (t *sqlTx) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE proposal SET
			title = $1, description = $2, content_hash = $3, status = $4,
			start_at = $5, end_at = $6, quorum_requirement = $7,
			eligible_voting_power = $8, total_votes_cast = $9, quorum_met = $10,
			winning_option_id = $11, results_hash = $12,
			opened_at = $13, closed_at = $14, finalized_at = $15,
			updated_at = $16, version = version + 1
		WHERE id = $17 AND version = $18
	`,
		p.Title, p.Description, p.ContentHash, string(p.Status),
		p.StartAt, p.EndAt, p.QuorumRequirement.String(),
		p.EligibleVotingPower.String(), p.TotalVotesCast.String(), p.QuorumMet,
		nullable(p.WinningOptionID), nullable(p.ResultsHash),
		nullableTime(p.OpenedAt), nullableTime(p.ClosedAt), nullableTime(p.FinalizedAt),
		p.UpdatedAt, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if n == 0 {
		return governance.ErrStaleProposal
	}
	p.Version++
	return nil
}

func (t *sqlTx) ListOptions(ctx context.Context, proposalID string) ([]models.ProposalOption, error) {
	return listOptions(ctx, t.tx, proposalID)
}

func (t *sqlTx) InsertOption(ctx context.Context, o models.ProposalOption) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO proposal_option (id, proposal_id, label, position)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.ProposalID, o.Label, o.Position)
	if err != nil {
		return fmt.Errorf("insert option: %w", err)
	}
	return nil
}

func (t *sqlTx) DeleteOption(ctx context.Context, proposalID, optionID string) (*models.ProposalOption, error) {
	var o models.ProposalOption
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, proposal_id, label, position
		FROM proposal_option
		WHERE id = $1 AND proposal_id = $2
	`, optionID, proposalID).Scan(&o.ID, &o.ProposalID, &o.Label, &o.Position)
	if err == sql.ErrNoRows {
		return nil, governance.ErrOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query option: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, `DELETE FROM proposal_option WHERE id = $1`, optionID); err != nil {
		return nil, fmt.Errorf("delete option: %w", err)
	}
	return &o, nil
}

func (t *sqlTx) InsertVote(ctx context.Context, v models.Vote) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO vote (`+voteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.ProposalID, v.OptionID, v.UserID, v.VotingPower.String(), v.CastAt)
	if isUniqueViolation(err) {
		return governance.ErrDuplicateVote
	}
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (t *sqlTx) ListVotes(ctx context.Context, proposalID string) ([]models.Vote, error) {
	return listVotes(ctx, t.tx, proposalID)
}

// isUniqueViolation reports whether err is a unique or primary key
// constraint failure from either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
