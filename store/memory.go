// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/danielhkuo/sharevote/governance"
	"github.com/danielhkuo/sharevote/models"
)

type voteKey struct {
	proposalID string
	userID     string
}

type receiptKey struct {
	subjectID string
	kind      string
}

// MemoryStore implements governance.Store in process memory.
//
// Transactions take a per-proposal lock (exclusive for LockProposal, shared
// for ReadProposal) that is held until the transaction ends. Writes are staged
// on the transaction and applied under the store mutex at commit, so a failed
// transaction leaves no trace. Different proposals never contend.
type MemoryStore struct {
	mu        sync.RWMutex
	proposals map[string]models.Proposal
	options   map[string][]models.ProposalOption
	votes     map[string][]models.Vote
	voteIndex map[voteKey]struct{}
	receipts  map[receiptKey]models.ChainReceipt

	locksMu sync.Mutex
	locks   map[string]*sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proposals: make(map[string]models.Proposal),
		options:   make(map[string][]models.ProposalOption),
		votes:     make(map[string][]models.Vote),
		voteIndex: make(map[voteKey]struct{}),
		receipts:  make(map[receiptKey]models.ChainReceipt),
		locks:     make(map[string]*sync.RWMutex),
	}
}

func (s *MemoryStore) lockFor(id string) *sync.RWMutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[id] = l
	}
	return l
}

func (s *MemoryStore) CreateProposal(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetProposal(_ context.Context, id string) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, governance.ErrProposalNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListProposals(_ context.Context, organizationID string) ([]models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	proposals := []models.Proposal{}
	for _, p := range s.proposals {
		if p.OrganizationID == organizationID {
			proposals = append(proposals, p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		if !proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
		}
		return proposals[i].ID < proposals[j].ID
	})
	return proposals, nil
}

func (s *MemoryStore) ListOptions(_ context.Context, proposalID string) ([]models.ProposalOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedOptions(s.options[proposalID]), nil
}

func (s *MemoryStore) GetVote(_ context.Context, proposalID, userID string) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.votes[proposalID] {
		if v.UserID == userID {
			return &v, nil
		}
	}
	return nil, governance.ErrVoteNotFound
}

func (s *MemoryStore) ListVotes(_ context.Context, proposalID string) ([]models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Vote{}, s.votes[proposalID]...), nil
}

func (s *MemoryStore) SaveReceipt(_ context.Context, r models.ChainReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := receiptKey{r.SubjectID, r.Kind}
	if _, ok := s.receipts[key]; !ok {
		s.receipts[key] = r
	}
	return nil
}

func (s *MemoryStore) ListReceipts(_ context.Context, subjectID string) ([]models.ChainReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipts := []models.ChainReceipt{}
	for key, r := range s.receipts {
		if key.subjectID == subjectID {
			receipts = append(receipts, r)
		}
	}
	sort.Slice(receipts, func(i, j int) bool {
		if !receipts[i].RecordedAt.Equal(receipts[j].RecordedAt) {
			return receipts[i].RecordedAt.Before(receipts[j].RecordedAt)
		}
		return receipts[i].Kind < receipts[j].Kind
	})
	return receipts, nil
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx governance.Tx) error) error {
	tx := &memTx{
		s:       s,
		held:    make(map[string]func()),
		updates: make(map[string]models.Proposal),
		base:    make(map[string]int64),
		deleted: make(map[string]bool),
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

type memTx struct {
	s    *MemoryStore
	held map[string]func()

	updates map[string]models.Proposal
	base    map[string]int64
	inserts []models.ProposalOption
	deleted map[string]bool
	votes   []models.Vote
}

func (t *memTx) release() {
	for _, unlock := range t.held {
		unlock()
	}
	t.held = nil
}

func (t *memTx) acquire(id string, exclusive bool) {
	if _, ok := t.held[id]; ok {
		return
	}
	l := t.s.lockFor(id)
	if exclusive {
		l.Lock()
		t.held[id] = l.Unlock
	} else {
		l.RLock()
		t.held[id] = l.RUnlock
	}
}

func (t *memTx) read(id string) (*models.Proposal, error) {
	if p, ok := t.updates[id]; ok {
		return &p, nil
	}
	return t.s.GetProposal(context.Background(), id)
}

func (t *memTx) LockProposal(_ context.Context, id string) (*models.Proposal, error) {
	t.acquire(id, true)
	return t.read(id)
}

func (t *memTx) ReadProposal(_ context.Context, id string) (*models.Proposal, error) {
	t.acquire(id, false)
	return t.read(id)
}

func (t *memTx) UpdateProposal(_ context.Context, p *models.Proposal) error {
	current, err := t.read(p.ID)
	if err != nil {
		return err
	}
	if current.Version != p.Version {
		return governance.ErrStaleProposal
	}
	if _, ok := t.base[p.ID]; !ok {
		t.base[p.ID] = p.Version
	}
	p.Version++
	t.updates[p.ID] = *p
	return nil
}

func (t *memTx) ListOptions(_ context.Context, proposalID string) ([]models.ProposalOption, error) {
	t.s.mu.RLock()
	committed := t.s.options[proposalID]
	t.s.mu.RUnlock()

	options := []models.ProposalOption{}
	for _, o := range committed {
		if !t.deleted[o.ID] {
			options = append(options, o)
		}
	}
	for _, o := range t.inserts {
		if o.ProposalID == proposalID && !t.deleted[o.ID] {
			options = append(options, o)
		}
	}
	return sortedOptions(options), nil
}

func (t *memTx) InsertOption(_ context.Context, o models.ProposalOption) error {
	t.inserts = append(t.inserts, o)
	return nil
}

func (t *memTx) DeleteOption(ctx context.Context, proposalID, optionID string) (*models.ProposalOption, error) {
	options, _ := t.ListOptions(ctx, proposalID)
	for _, o := range options {
		if o.ID == optionID {
			t.deleted[optionID] = true
			return &o, nil
		}
	}
	return nil, governance.ErrOptionNotFound
}

func (t *memTx) InsertVote(_ context.Context, v models.Vote) error {
	key := voteKey{v.ProposalID, v.UserID}
	for _, staged := range t.votes {
		if (voteKey{staged.ProposalID, staged.UserID}) == key {
			return governance.ErrDuplicateVote
		}
	}

	t.s.mu.RLock()
	_, exists := t.s.voteIndex[key]
	t.s.mu.RUnlock()
	if exists {
		return governance.ErrDuplicateVote
	}

	t.votes = append(t.votes, v)
	return nil
}

func (t *memTx) ListVotes(ctx context.Context, proposalID string) ([]models.Vote, error) {
	votes, _ := t.s.ListVotes(ctx, proposalID)
	for _, v := range t.votes {
		if v.ProposalID == proposalID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

// commit validates every staged write against the current state and then
// applies all of them, or none.
func (t *memTx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.updates {
		current, ok := s.proposals[id]
		if !ok {
			return governance.ErrProposalNotFound
		}
		if current.Version != t.base[id] {
			return governance.ErrStaleProposal
		}
	}
	// Concurrent voters only share a read lock, so uniqueness is settled here.
	for _, v := range t.votes {
		if _, exists := s.voteIndex[voteKey{v.ProposalID, v.UserID}]; exists {
			return governance.ErrDuplicateVote
		}
	}

	for id, p := range t.updates {
		s.proposals[id] = p
	}
	if len(t.deleted) > 0 {
		for proposalID, opts := range s.options {
			kept := make([]models.ProposalOption, 0, len(opts))
			for _, o := range opts {
				if !t.deleted[o.ID] {
					kept = append(kept, o)
				}
			}
			s.options[proposalID] = kept
		}
	}
	for _, o := range t.inserts {
		if !t.deleted[o.ID] {
			s.options[o.ProposalID] = append(s.options[o.ProposalID], o)
		}
	}
	for _, v := range t.votes {
		s.votes[v.ProposalID] = append(s.votes[v.ProposalID], v)
		s.voteIndex[voteKey{v.ProposalID, v.UserID}] = struct{}{}
	}
	return nil
}

func sortedOptions(in []models.ProposalOption) []models.ProposalOption {
	out := append([]models.ProposalOption{}, in...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}
