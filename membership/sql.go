// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package membership

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
)

// SQLReader reads members and share balances from the member, share_type and
// share_balance tables.
type SQLReader struct {
	db *sql.DB
}

func NewSQLReader(conn *sql.DB) *SQLReader {
	return &SQLReader{db: conn}
}

// GetBalances returns userID's holdings of the organization's share types.
// Users who are not members hold nothing.
func (r *SQLReader) GetBalances(ctx context.Context, userID, organizationID string) ([]models.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sb.share_type_id, sb.quantity, st.voting_weight
		FROM share_balance sb
		JOIN share_type st ON st.id = sb.share_type_id
		JOIN member m ON m.organization_id = st.organization_id AND m.user_id = sb.user_id
		WHERE sb.user_id = $1 AND st.organization_id = $2
		ORDER BY sb.share_type_id
	`, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ShareTypeID, &h.Quantity, &h.Weight); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

// GetAllMemberBalances returns every member's holdings in the organization.
func (r *SQLReader) GetAllMemberBalances(ctx context.Context, organizationID string) ([]models.MemberHolding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sb.user_id, sb.share_type_id, sb.quantity, st.voting_weight
		FROM share_balance sb
		JOIN share_type st ON st.id = sb.share_type_id
		JOIN member m ON m.organization_id = st.organization_id AND m.user_id = sb.user_id
		WHERE st.organization_id = $1
		ORDER BY sb.user_id, sb.share_type_id
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query member balances: %w", err)
	}
	defer rows.Close()

	all := []models.MemberHolding{}
	for rows.Next() {
		var h models.MemberHolding
		if err := rows.Scan(&h.UserID, &h.ShareTypeID, &h.Quantity, &h.Weight); err != nil {
			return nil, fmt.Errorf("scan member balance: %w", err)
		}
		all = append(all, h)
	}
	return all, rows.Err()
}

// Role returns userID's role in the organization. ok is false for non-members.
func (r *SQLReader) Role(ctx context.Context, organizationID, userID string) (string, bool, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT role FROM member WHERE organization_id = $1 AND user_id = $2
	`, organizationID, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query member role: %w", err)
	}
	return role, true, nil
}

// AddMember inserts or updates a membership.
func (r *SQLReader) AddMember(ctx context.Context, organizationID, userID, role string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO member (organization_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = excluded.role
	`, organizationID, userID, role)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// AddShareType creates a share type.
func (r *SQLReader) AddShareType(ctx context.Context, st models.ShareType) error {
	if st.VotingWeight.IsNegative() {
		return fmt.Errorf("share type %s: voting weight must not be negative", st.Name)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO share_type (id, organization_id, name, voting_weight)
		VALUES ($1, $2, $3, $4)
	`, st.ID, st.OrganizationID, st.Name, st.VotingWeight.String())
	if err != nil {
		return fmt.Errorf("insert share type: %w", err)
	}
	return nil
}

// SetBalance sets how many shares of a type userID holds.
func (r *SQLReader) SetBalance(ctx context.Context, userID, shareTypeID string, quantity decimal.Decimal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO share_balance (user_id, share_type_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, share_type_id) DO UPDATE SET quantity = excluded.quantity
	`, userID, shareTypeID, quantity.String())
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}
