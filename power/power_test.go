// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package power

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/sharevote/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func holding(qty, weight string) models.Holding {
	return models.Holding{Quantity: d(qty), Weight: d(weight)}
}

func TestCalculateVotingPower(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.Holding
		want     string
	}{
		{"empty", nil, "0"},
		{"single", []models.Holding{holding("100", "1")}, "100"},
		{"weighted", []models.Holding{holding("10", "2.5"), holding("4", "0.25")}, "26"},
		{"zero weight contributes nothing", []models.Holding{holding("1000", "0"), holding("3", "1")}, "3"},
		{"fractional shares", []models.Holding{holding("0.5", "3")}, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVotingPower(tt.balances)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestIsEligibleToVote(t *testing.T) {
	assert.True(t, IsEligibleToVote(d("0.0001")))
	assert.True(t, IsEligibleToVote(d("100")))
	assert.False(t, IsEligibleToVote(decimal.Zero))
	assert.False(t, IsEligibleToVote(d("-1")))
}

func TestCalculateTotalEligibleVotingPower(t *testing.T) {
	all := []models.MemberHolding{
		{UserID: "alice", Holding: holding("100", "1")},
		{UserID: "bob", Holding: holding("25", "2")},
		{UserID: "bob", Holding: holding("10", "0")},
		{UserID: "carol", Holding: holding("0", "5")},
	}

	total := CalculateTotalEligibleVotingPower(all)
	assert.True(t, total.Equal(d("150")), "got %s", total)

	// The snapshot equals the sum of each member's individual power.
	sum := decimal.Zero
	for _, p := range ByMember(all) {
		sum = sum.Add(p)
	}
	assert.True(t, sum.Equal(total))

	assert.Equal(t, 2, EligibleVoters(all))
	assert.True(t, CalculateTotalEligibleVotingPower(nil).IsZero())
}
