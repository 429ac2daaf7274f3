package cliparse

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
)

// Seed is the membership loaded into an in-memory registry at startup.
type Seed struct {
	ShareTypes []SeedShareType `yaml:"share_types"`
	Members    []SeedMember    `yaml:"members"`
}

type SeedShareType struct {
	ID             string          `yaml:"id"`
	OrganizationID string          `yaml:"organization_id"`
	Name           string          `yaml:"name"`
	VotingWeight   decimal.Decimal `yaml:"voting_weight"`
}

// SeedMember is one membership. Balances are keyed by share type id.
type SeedMember struct {
	OrganizationID string                     `yaml:"organization_id"`
	UserID         string                     `yaml:"user_id"`
	Role           string                     `yaml:"role"`
	Balances       map[string]decimal.Decimal `yaml:"balances"`
}

// Provisioner is the write side of a membership registry.
type Provisioner interface {
	AddShareType(ctx context.Context, st models.ShareType) error
	AddMember(ctx context.Context, organizationID, userID, role string) error
	SetBalance(ctx context.Context, userID, shareTypeID string, quantity decimal.Decimal) error
}

func (s Seed) Empty() bool {
	return len(s.ShareTypes) == 0 && len(s.Members) == 0
}

// Validate checks that every member references a known share type of its
// own organization.
func (s Seed) Validate() error {
	orgOf := make(map[string]string, len(s.ShareTypes))
	for _, st := range s.ShareTypes {
		if st.ID == "" || st.OrganizationID == "" {
			return errors.New("seed share type needs id and organization_id")
		}
		if _, dup := orgOf[st.ID]; dup {
			return fmt.Errorf("seed share type %q listed twice", st.ID)
		}
		if st.VotingWeight.IsNegative() {
			return fmt.Errorf("seed share type %q: voting weight must not be negative", st.ID)
		}
		orgOf[st.ID] = st.OrganizationID
	}

	for _, m := range s.Members {
		if m.OrganizationID == "" || m.UserID == "" {
			return errors.New("seed member needs organization_id and user_id")
		}
		switch m.Role {
		case "", models.RoleMember, models.RoleAdmin:
		default:
			return fmt.Errorf("seed member %q: unknown role %q", m.UserID, m.Role)
		}
		for id, qty := range m.Balances {
			org, ok := orgOf[id]
			if !ok {
				return fmt.Errorf("seed member %q: unknown share type %q", m.UserID, id)
			}
			if org != m.OrganizationID {
				return fmt.Errorf("seed member %q: share type %q belongs to %s", m.UserID, id, org)
			}
			if qty.IsNegative() {
				return fmt.Errorf("seed member %q: negative balance of %q", m.UserID, id)
			}
		}
	}
	return nil
}

// Apply writes the seed into p. Members without a role join as members.
func (s Seed) Apply(ctx context.Context, p Provisioner) error {
	for _, st := range s.ShareTypes {
		err := p.AddShareType(ctx, models.ShareType{
			ID:             st.ID,
			OrganizationID: st.OrganizationID,
			Name:           st.Name,
			VotingWeight:   st.VotingWeight,
		})
		if err != nil {
			return fmt.Errorf("seed share type %q: %w", st.ID, err)
		}
	}

	for _, m := range s.Members {
		role := m.Role
		if role == "" {
			role = models.RoleMember
		}
		if err := p.AddMember(ctx, m.OrganizationID, m.UserID, role); err != nil {
			return fmt.Errorf("seed member %q: %w", m.UserID, err)
		}

		ids := make([]string, 0, len(m.Balances))
		for id := range m.Balances {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := p.SetBalance(ctx, m.UserID, id, m.Balances[id]); err != nil {
				return fmt.Errorf("seed balance %q of %q: %w", id, m.UserID, err)
			}
		}
	}
	return nil
}
