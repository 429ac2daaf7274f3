// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package governance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/audit"
	"github.com/danielhkuo/sharevote/chain"
	"github.com/danielhkuo/sharevote/metrics"
	"github.com/danielhkuo/sharevote/models"
	"github.com/danielhkuo/sharevote/power"
	"github.com/danielhkuo/sharevote/tally"
)

var hundred = decimal.NewFromInt(100)

// Engine runs the proposal lifecycle. It is safe for concurrent use; all
// serialization happens in the Store.
type Engine struct {
	store    Store
	balances BalanceReader
	recorder chain.Recorder
	audit    audit.Sink
	metrics  *metrics.Metrics
	policy   Policy
	logger   *slog.Logger
	now      func() time.Time
}

type EngineOption func(*Engine)

// WithRecorder sets the blockchain recorder. The default is chain.Noop.
func WithRecorder(r chain.Recorder) EngineOption {
	return func(e *Engine) { e.recorder = r }
}

// WithAuditSink sets where audit events go. Without one nothing is audited.
func WithAuditSink(s audit.Sink) EngineOption {
	return func(e *Engine) { e.audit = s }
}

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func WithPolicy(p Policy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store Store, balances BalanceReader, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    store,
		balances: balances,
		recorder: chain.Noop{},
		policy:   DefaultPolicy(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

// Create stores a new draft proposal. Missing window bounds default to now and
// now plus the policy's voting duration; a missing quorum uses the policy default.
func (e *Engine) Create(ctx context.Context, organizationID, actorID string, req models.CreateProposalRequest) (*models.Proposal, error) {
	defer e.observe("create", time.Now())

	title := strings.TrimSpace(req.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := e.clock()
	start := now
	if req.StartAt != nil {
		start = req.StartAt.UTC()
	}
	end := start.Add(e.policy.DefaultVotingDuration)
	if req.EndAt != nil {
		end = req.EndAt.UTC()
	}
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	quorum := e.policy.defaultQuorum()
	if req.QuorumRequirement != nil {
		quorum = *req.QuorumRequirement
	}
	if err := validateQuorum(quorum); err != nil {
		return nil, err
	}

	p := &models.Proposal{
		ID:                  uuid.NewString(),
		OrganizationID:      organizationID,
		Title:               title,
		Description:         req.Description,
		ContentHash:         ContentHash(title, req.Description),
		Status:              models.StatusDraft,
		StartAt:             start,
		EndAt:               end,
		QuorumRequirement:   quorum,
		EligibleVotingPower: decimal.Zero,
		TotalVotesCast:      decimal.Zero,
		CreatedBy:           actorID,
		CreatedAt:           now,
		UpdatedAt:           now,
		Version:             1,
	}
	if err := e.store.CreateProposal(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	e.logger.Info("proposal created", "proposal_id", p.ID, "organization_id", organizationID, "created_by", actorID)
	e.emit(ctx, audit.Event{
		Action:         audit.ActionCreated,
		EntityType:     audit.EntityProposal,
		EntityID:       p.ID,
		OrganizationID: organizationID,
		ActorID:        actorID,
		Details:        audit.ProposalCreated{Title: p.Title, ContentHash: p.ContentHash},
	}, false)
	return p, nil
}

// UpdateDraft edits a draft proposal. Nil fields are left unchanged.
func (e *Engine) UpdateDraft(ctx context.Context, proposalID, actorID string, req models.UpdateProposalRequest) (*models.Proposal, error) {
	defer e.observe("update", time.Now())

	var (
		updated *models.Proposal
		changes []audit.FieldChange
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if p.Status != models.StatusDraft {
			return &TransitionError{From: p.Status, Op: "edit"}
		}

		changes = changes[:0]
		change := func(field, from, to string) {
			if from != to {
				changes = append(changes, audit.FieldChange{Field: field, Old: from, New: to})
			}
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if err := validateTitle(title); err != nil {
				return err
			}
			change("title", p.Title, title)
			p.Title = title
		}
		if req.Description != nil {
			change("description", p.Description, *req.Description)
			p.Description = *req.Description
		}
		if req.StartAt != nil {
			start := req.StartAt.UTC()
			change("start_at", p.StartAt.Format(time.RFC3339), start.Format(time.RFC3339))
			p.StartAt = start
		}
		if req.EndAt != nil {
			end := req.EndAt.UTC()
			change("end_at", p.EndAt.Format(time.RFC3339), end.Format(time.RFC3339))
			p.EndAt = end
		}
		if !p.StartAt.Before(p.EndAt) {
			return ErrInvalidTimeRange
		}
		if req.QuorumRequirement != nil {
			if err := validateQuorum(*req.QuorumRequirement); err != nil {
				return err
			}
			change("quorum_requirement", p.QuorumRequirement.String(), req.QuorumRequirement.String())
			p.QuorumRequirement = *req.QuorumRequirement
		}

		if len(changes) == 0 {
			updated = p
			return nil
		}
		p.ContentHash = ContentHash(p.Title, p.Description)
		p.UpdatedAt = e.clock()
		if err := tx.UpdateProposal(ctx, p); err != nil {
			return staleAs(err, &TransitionError{From: models.StatusDraft, Op: "edit"})
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		e.emit(ctx, audit.Event{
			Action:         audit.ActionUpdated,
			EntityType:     audit.EntityProposal,
			EntityID:       updated.ID,
			OrganizationID: updated.OrganizationID,
			ActorID:        actorID,
			Details:        audit.ProposalUpdated{Changes: changes},
		}, false)
	}
	return updated, nil
}

// AddOption appends an option to a draft proposal.
func (e *Engine) AddOption(ctx context.Context, proposalID, actorID, label string) (*models.ProposalOption, error) {
	defer e.observe("add_option", time.Now())

	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrLabelRequired
	}

	var (
		opt   models.ProposalOption
		orgID string
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if p.Status != models.StatusDraft {
			return &TransitionError{From: p.Status, Op: "add options to"}
		}
		orgID = p.OrganizationID

		existing, err := tx.ListOptions(ctx, proposalID)
		if err != nil {
			return err
		}
		position := 0
		for _, o := range existing {
			if o.Position >= position {
				position = o.Position + 1
			}
		}

		opt = models.ProposalOption{
			ID:         uuid.NewString(),
			ProposalID: proposalID,
			Label:      label,
			Position:   position,
		}
		if err := tx.InsertOption(ctx, opt); err != nil {
			return err
		}

		// Bumping the version makes a concurrent Open re-check the option set.
		p.UpdatedAt = e.clock()
		return staleAs(tx.UpdateProposal(ctx, p), &TransitionError{From: models.StatusDraft, Op: "add options to"})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("option added", "proposal_id", proposalID, "option_id", opt.ID)
	e.emit(ctx, audit.Event{
		Action:         audit.ActionOptionAdded,
		EntityType:     audit.EntityProposal,
		EntityID:       proposalID,
		OrganizationID: orgID,
		ActorID:        actorID,
		Details:        audit.OptionAdded{OptionID: opt.ID, Label: opt.Label},
	}, false)
	return &opt, nil
}

// RemoveOption deletes an option from a draft proposal.
func (e *Engine) RemoveOption(ctx context.Context, proposalID, optionID, actorID string) error {
	defer e.observe("remove_option", time.Now())

	var (
		removed *models.ProposalOption
		orgID   string
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if p.Status != models.StatusDraft {
			return &TransitionError{From: p.Status, Op: "remove options from"}
		}
		orgID = p.OrganizationID

		removed, err = tx.DeleteOption(ctx, proposalID, optionID)
		if err != nil {
			return err
		}
		p.UpdatedAt = e.clock()
		return staleAs(tx.UpdateProposal(ctx, p), &TransitionError{From: models.StatusDraft, Op: "remove options from"})
	})
	if err != nil {
		return err
	}

	e.logger.Info("option removed", "proposal_id", proposalID, "option_id", optionID)
	e.emit(ctx, audit.Event{
		Action:         audit.ActionOptionRemoved,
		EntityType:     audit.EntityProposal,
		EntityID:       proposalID,
		OrganizationID: orgID,
		ActorID:        actorID,
		Details:        audit.OptionRemoved{OptionID: removed.ID, Label: removed.Label},
	}, false)
	return nil
}

// Open moves a draft to Open and freezes the organization's total voting power
// as the quorum denominator. The returned receipt is nil when the proposal
// could not be recorded on chain.
func (e *Engine) Open(ctx context.Context, proposalID, actorID string) (*models.Proposal, *models.ChainReceipt, error) {
	defer e.observe("open", time.Now())

	current, err := e.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}
	if current.Status != models.StatusDraft {
		return nil, nil, &TransitionError{From: current.Status, To: models.StatusOpen}
	}

	all, err := e.balances.GetAllMemberBalances(ctx, current.OrganizationID)
	if err != nil {
		return nil, nil, fmt.Errorf("read member balances: %w", err)
	}
	snapshot := power.CalculateTotalEligibleVotingPower(all)

	var opened *models.Proposal
	err = e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if p.Status != models.StatusDraft {
			return &TransitionError{From: p.Status, To: models.StatusOpen}
		}

		options, err := tx.ListOptions(ctx, proposalID)
		if err != nil {
			return err
		}
		if len(options) < 2 {
			return ErrInsufficientOptions
		}
		if !p.StartAt.Before(p.EndAt) {
			return ErrInvalidTimeRange
		}

		now := e.clock()
		p.Status = models.StatusOpen
		p.EligibleVotingPower = snapshot
		p.OpenedAt = &now
		p.UpdatedAt = now
		if err := tx.UpdateProposal(ctx, p); err != nil {
			return staleAs(err, &TransitionError{From: models.StatusDraft, To: models.StatusOpen})
		}
		opened = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("proposal opened",
		"proposal_id", opened.ID,
		"eligible_voting_power", opened.EligibleVotingPower.String(),
		"eligible_voters", power.EligibleVoters(all))
	e.transitioned(ctx, opened, models.StatusDraft, actorID)

	receipt := e.record(ctx, opened.ID, chain.Event{
		Kind:           chain.EventProposalOpened,
		ProposalID:     opened.ID,
		OrganizationID: opened.OrganizationID,
		Payload: map[string]any{
			"content_hash":          opened.ContentHash,
			"start_at":              opened.StartAt,
			"end_at":                opened.EndAt,
			"eligible_voting_power": opened.EligibleVotingPower,
			"quorum_requirement":    opened.QuorumRequirement,
		},
	})
	return opened, receipt, nil
}

// CastVote records userID's vote for optionID with the voting power the user
// holds right now. Checks run in order: proposal status, voting window, option
// membership, previous vote, voting power.
func (e *Engine) CastVote(ctx context.Context, proposalID, userID, optionID string) (*models.Vote, *models.ChainReceipt, error) {
	defer e.observe("cast_vote", time.Now())

	vote, err := e.castVote(ctx, proposalID, userID, optionID)
	if err != nil {
		if IsDomainError(err) {
			e.metrics.ObserveRejectedVote(rejectReason(err))
		}
		return nil, nil, err
	}

	e.metrics.ObserveVote()
	e.logger.Info("vote cast", "proposal_id", proposalID, "option_id", optionID, "voting_power", vote.VotingPower.String())

	p, err := e.store.GetProposal(ctx, proposalID)
	orgID := ""
	if err == nil {
		orgID = p.OrganizationID
	}
	e.emit(ctx, audit.Event{
		Action:         audit.ActionVoteCast,
		EntityType:     audit.EntityVote,
		EntityID:       vote.ID,
		OrganizationID: orgID,
		ActorID:        userID,
		Details: audit.VoteCast{
			ProposalID:  proposalID,
			OptionID:    optionID,
			VotingPower: vote.VotingPower.String(),
		},
	}, false)

	receipt := e.record(ctx, vote.ID, chain.Event{
		Kind:           chain.EventVoteCast,
		ProposalID:     proposalID,
		OrganizationID: orgID,
		Payload: map[string]any{
			"vote_id":      vote.ID,
			"option_id":    optionID,
			"voter":        userID,
			"voting_power": vote.VotingPower,
		},
	})
	return vote, receipt, nil
}

func (e *Engine) castVote(ctx context.Context, proposalID, userID, optionID string) (*models.Vote, error) {
	p, err := e.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	now := e.clock()
	if err := checkVotable(p, now); err != nil {
		return nil, err
	}

	options, err := e.store.ListOptions(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	if !hasOption(options, optionID) {
		return nil, ErrOptionMismatch
	}

	if _, err := e.store.GetVote(ctx, proposalID, userID); err == nil {
		return nil, ErrDuplicateVote
	} else if !errors.Is(err, ErrVoteNotFound) {
		return nil, fmt.Errorf("check existing vote: %w", err)
	}

	holdings, err := e.balances.GetBalances(ctx, userID, p.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("read balances: %w", err)
	}
	votingPower := power.CalculateVotingPower(holdings)
	if !power.IsEligibleToVote(votingPower) {
		return nil, ErrNoVotingPower
	}

	vote := models.Vote{
		ID:          uuid.NewString(),
		ProposalID:  proposalID,
		OptionID:    optionID,
		UserID:      userID,
		VotingPower: votingPower,
		CastAt:      now,
	}
	err = e.store.InTx(ctx, func(tx Tx) error {
		// A Close that committed since the first read wins.
		p, err := tx.ReadProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if err := checkVotable(p, now); err != nil {
			return err
		}
		return tx.InsertVote(ctx, vote)
	})
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Close ends voting, tallies the votes and freezes the results.
func (e *Engine) Close(ctx context.Context, proposalID, actorID string) (*models.Proposal, *models.ChainReceipt, error) {
	defer e.observe("close", time.Now())

	var closed *models.Proposal
	err := e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if p.Status != models.StatusOpen {
			return &TransitionError{From: p.Status, To: models.StatusClosed}
		}

		options, err := tx.ListOptions(ctx, proposalID)
		if err != nil {
			return err
		}
		votes, err := tx.ListVotes(ctx, proposalID)
		if err != nil {
			return err
		}
		results := tally.Aggregate(options, votes)
		hash, err := tally.Hash(results)
		if err != nil {
			return fmt.Errorf("hash results: %w", err)
		}

		now := e.clock()
		p.Status = models.StatusClosed
		p.TotalVotesCast = results.TotalPower
		p.QuorumMet = tally.QuorumMet(results.TotalPower, p.EligibleVotingPower, p.QuorumRequirement)
		p.WinningOptionID = results.WinningOptionID
		p.ResultsHash = &hash
		p.ClosedAt = &now
		p.UpdatedAt = now
		if err := tx.UpdateProposal(ctx, p); err != nil {
			return staleAs(err, &TransitionError{From: models.StatusOpen, To: models.StatusClosed})
		}
		closed = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("proposal closed",
		"proposal_id", closed.ID,
		"total_votes_cast", closed.TotalVotesCast.String(),
		"quorum_met", closed.QuorumMet)
	e.transitioned(ctx, closed, models.StatusOpen, actorID)

	receipt := e.record(ctx, closed.ID, chain.Event{
		Kind:           chain.EventResultsCommitted,
		ProposalID:     closed.ID,
		OrganizationID: closed.OrganizationID,
		Payload: map[string]any{
			"results_hash":          *closed.ResultsHash,
			"winning_option_id":     closed.WinningOptionID,
			"total_votes_cast":      closed.TotalVotesCast,
			"eligible_voting_power": closed.EligibleVotingPower,
			"quorum_met":            closed.QuorumMet,
		},
	})
	return closed, receipt, nil
}

// Finalize marks a closed proposal as final.
func (e *Engine) Finalize(ctx context.Context, proposalID, actorID string) (*models.Proposal, *models.ChainReceipt, error) {
	defer e.observe("finalize", time.Now())

	var finalized *models.Proposal
	err := e.store.InTx(ctx, func(tx Tx) error {
		p, err := tx.LockProposal(ctx, proposalID)
		if err != nil {
			return err
		}
		if p.Status != models.StatusClosed {
			return &TransitionError{From: p.Status, To: models.StatusFinalized}
		}

		now := e.clock()
		p.Status = models.StatusFinalized
		p.FinalizedAt = &now
		p.UpdatedAt = now
		if err := tx.UpdateProposal(ctx, p); err != nil {
			return staleAs(err, &TransitionError{From: models.StatusClosed, To: models.StatusFinalized})
		}
		finalized = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("proposal finalized", "proposal_id", finalized.ID)
	e.transitioned(ctx, finalized, models.StatusClosed, actorID)

	receipt := e.record(ctx, finalized.ID, chain.Event{
		Kind:           chain.EventProposalFinalized,
		ProposalID:     finalized.ID,
		OrganizationID: finalized.OrganizationID,
		Payload: map[string]any{
			"results_hash": finalized.ResultsHash,
			"finalized_at": finalized.FinalizedAt,
		},
	})
	return finalized, receipt, nil
}

func (e *Engine) Get(ctx context.Context, proposalID string) (*models.Proposal, error) {
	return e.store.GetProposal(ctx, proposalID)
}

func (e *Engine) List(ctx context.Context, organizationID string) ([]models.Proposal, error) {
	return e.store.ListProposals(ctx, organizationID)
}

// Options returns a proposal's options in position order.
func (e *Engine) Options(ctx context.Context, proposalID string) ([]models.ProposalOption, error) {
	if _, err := e.store.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	return e.store.ListOptions(ctx, proposalID)
}

// Results tallies a proposal's votes. For an open proposal this is a live
// count; callers decide whether to reveal it.
func (e *Engine) Results(ctx context.Context, proposalID string) (*models.ProposalResults, error) {
	p, err := e.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	options, err := e.store.ListOptions(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	votes, err := e.store.ListVotes(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return &models.ProposalResults{Proposal: *p, Results: tally.Aggregate(options, votes)}, nil
}

func (e *Engine) VoteOf(ctx context.Context, proposalID, userID string) (*models.Vote, error) {
	return e.store.GetVote(ctx, proposalID, userID)
}

// VotingPowerOf returns userID's current voting power in an organization.
func (e *Engine) VotingPowerOf(ctx context.Context, organizationID, userID string) (decimal.Decimal, error) {
	holdings, err := e.balances.GetBalances(ctx, userID, organizationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read balances: %w", err)
	}
	return power.CalculateVotingPower(holdings), nil
}

// Receipts returns the chain receipts recorded for a proposal or vote.
func (e *Engine) Receipts(ctx context.Context, subjectID string) ([]models.ChainReceipt, error) {
	return e.store.ListReceipts(ctx, subjectID)
}

// ContentHash is the hex SHA-256 of a proposal's title and description.
func ContentHash(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\n" + description))
	return hex.EncodeToString(sum[:])
}

func (e *Engine) transitioned(ctx context.Context, p *models.Proposal, from models.ProposalStatus, actorID string) {
	e.metrics.ObserveTransition(string(from), string(p.Status))
	e.emit(ctx, audit.Event{
		Action:         audit.ActionStatusChanged,
		EntityType:     audit.EntityProposal,
		EntityID:       p.ID,
		OrganizationID: p.OrganizationID,
		ActorID:        actorID,
		Details:        audit.StatusChanged{OldStatus: from, NewStatus: p.Status},
	}, true)
}

// record sends ev to the recorder after a commit. Failures are logged and
// counted; the caller's operation has already succeeded.
func (e *Engine) record(ctx context.Context, subjectID string, ev chain.Event) *models.ChainReceipt {
	if e.recorder == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)

	receipt, err := chain.Record(ctx, e.recorder, ev, e.policy.RecorderTimeout)
	if err != nil {
		e.logger.Warn("failed to record event on chain", "error", err, "kind", string(ev.Kind), "subject_id", subjectID)
		e.metrics.ObserveRecorderFailure(string(ev.Kind))
		return nil
	}
	if receipt.TransactionID == "" {
		return nil
	}

	cr := models.ChainReceipt{
		SubjectID:     subjectID,
		Kind:          string(ev.Kind),
		TransactionID: receipt.TransactionID,
		ChainID:       receipt.ChainID,
		ExplorerURL:   receipt.ExplorerURL,
		RecordedAt:    e.clock(),
	}
	if err := e.store.SaveReceipt(ctx, cr); err != nil {
		e.logger.Error("failed to save chain receipt", "error", err, "kind", string(ev.Kind), "subject_id", subjectID)
	}
	return &cr
}

func (e *Engine) emit(ctx context.Context, ev audit.Event, sync bool) {
	if e.audit == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.OccurredAt = e.clock()

	err := audit.Emit(ctx, e.audit, ev, sync)
	switch {
	case err == nil:
	case errors.Is(err, audit.ErrQueueFull):
		e.metrics.ObserveAuditDropped()
	default:
		e.logger.Error("failed to write audit event", "error", err, "action", string(ev.Action), "entity_id", ev.EntityID)
		e.metrics.ObserveAuditFailure()
	}
}

func (e *Engine) observe(operation string, start time.Time) {
	e.metrics.ObserveDuration(operation, time.Since(start).Seconds())
}

func checkVotable(p *models.Proposal, now time.Time) error {
	switch p.Status {
	case models.StatusOpen:
	case models.StatusDraft:
		return ErrProposalNotOpen
	default:
		return ErrProposalClosed
	}
	if now.Before(p.StartAt) {
		return ErrProposalNotStarted
	}
	if now.After(p.EndAt) {
		return ErrProposalEnded
	}
	return nil
}

func hasOption(options []models.ProposalOption, optionID string) bool {
	for _, o := range options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateQuorum(q decimal.Decimal) error {
	if q.IsNegative() || q.GreaterThan(hundred) {
		return ErrInvalidQuorum
	}
	return nil
}

// staleAs replaces a lost version check with err.
func staleAs(err error, replacement error) error {
	if errors.Is(err, ErrStaleProposal) {
		return replacement
	}
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrProposalNotOpen):
		return "not_open"
	case errors.Is(err, ErrProposalClosed):
		return "closed"
	case errors.Is(err, ErrProposalNotStarted):
		return "not_started"
	case errors.Is(err, ErrProposalEnded):
		return "ended"
	case errors.Is(err, ErrOptionMismatch):
		return "option_mismatch"
	case errors.Is(err, ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, ErrNoVotingPower):
		return "no_voting_power"
	}
	return "other"
}
