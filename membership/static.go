// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package membership

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
)

type memberKey struct {
	organizationID string
	userID         string
}

type balanceKey struct {
	userID      string
	shareTypeID string
}

// Static is an in-memory membership registry. It is safe for concurrent use
// and balances may change at any time, which is what the open snapshot and
// per-vote power freezing are tested against.
type Static struct {
	mu         sync.RWMutex
	roles      map[memberKey]string
	shareTypes map[string]models.ShareType
	balances   map[balanceKey]decimal.Decimal
}

func NewStatic() *Static {
	return &Static{
		roles:      make(map[memberKey]string),
		shareTypes: make(map[string]models.ShareType),
		balances:   make(map[balanceKey]decimal.Decimal),
	}
}

func (s *Static) AddMember(_ context.Context, organizationID, userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[memberKey{organizationID, userID}] = role
	return nil
}

// RemoveMember drops a membership. The user's balances stop counting.
func (s *Static) RemoveMember(organizationID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, memberKey{organizationID, userID})
}

func (s *Static) AddShareType(_ context.Context, st models.ShareType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shareTypes[st.ID] = st
	return nil
}

func (s *Static) SetBalance(_ context.Context, userID, shareTypeID string, quantity decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey{userID, shareTypeID}] = quantity
	return nil
}

func (s *Static) Role(_ context.Context, organizationID, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[memberKey{organizationID, userID}]
	return role, ok, nil
}

func (s *Static) GetBalances(_ context.Context, userID, organizationID string) ([]models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	holdings := []models.Holding{}
	if _, ok := s.roles[memberKey{organizationID, userID}]; !ok {
		return holdings, nil
	}
	for key, qty := range s.balances {
		st, ok := s.shareTypes[key.shareTypeID]
		if key.userID != userID || !ok || st.OrganizationID != organizationID {
			continue
		}
		holdings = append(holdings, models.Holding{ShareTypeID: st.ID, Quantity: qty, Weight: st.VotingWeight})
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].ShareTypeID < holdings[j].ShareTypeID })
	return holdings, nil
}

func (s *Static) GetAllMemberBalances(_ context.Context, organizationID string) ([]models.MemberHolding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []models.MemberHolding{}
	for key, qty := range s.balances {
		st, ok := s.shareTypes[key.shareTypeID]
		if !ok || st.OrganizationID != organizationID {
			continue
		}
		if _, member := s.roles[memberKey{organizationID, key.userID}]; !member {
			continue
		}
		all = append(all, models.MemberHolding{
			UserID:  key.userID,
			Holding: models.Holding{ShareTypeID: st.ID, Quantity: qty, Weight: st.VotingWeight},
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].UserID != all[j].UserID {
			return all[i].UserID < all[j].UserID
		}
		return all[i].ShareTypeID < all[j].ShareTypeID
	})
	return all, nil
}
