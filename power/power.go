// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package power

import (
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
)

// CalculateVotingPower sums quantity × weight over a member's holdings.
// Inputs are assumed validated and non-negative.
func CalculateVotingPower(balances []models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Quantity.Mul(b.Weight))
	}
	return total
}

// IsEligibleToVote reports whether p is strictly positive.
func IsEligibleToVote(p decimal.Decimal) bool {
	return p.IsPositive()
}

// CalculateTotalEligibleVotingPower sums voting power across every member holding
// of an organization. This is the electorate snapshot frozen when a proposal opens.
func CalculateTotalEligibleVotingPower(all []models.MemberHolding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range all {
		total = total.Add(h.Quantity.Mul(h.Weight))
	}
	return total
}

// ByMember groups holdings by user and returns each member's voting power.
func ByMember(all []models.MemberHolding) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, h := range all {
		cur, ok := out[h.UserID]
		if !ok {
			cur = decimal.Zero
		}
		out[h.UserID] = cur.Add(h.Quantity.Mul(h.Weight))
	}
	return out
}

// EligibleVoters counts the members whose voting power is strictly positive.
func EligibleVoters(all []models.MemberHolding) int {
	n := 0
	for _, p := range ByMember(all) {
		if IsEligibleToVote(p) {
			n++
		}
	}
	return n
}
