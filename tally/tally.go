// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/sharevote/models"
)

var hundred = decimal.NewFromInt(100)

// QuorumMet compares cast voting power against the eligible snapshot.
//
// A requirement of zero (or less) is always met. With a positive requirement and
// an empty electorate (eligible <= 0) quorum is never met.
func QuorumMet(totalCast, eligible, requirementPercent decimal.Decimal) bool {
	if !requirementPercent.IsPositive() {
		return true
	}
	if !eligible.IsPositive() {
		return false
	}
	// totalCast / eligible >= requirement / 100, without dividing
	return totalCast.Mul(hundred).GreaterThanOrEqual(requirementPercent.Mul(eligible))
}

// Aggregate sums votes per option and picks the option with the greatest total
// power. Every option appears in the output, in position order, even with no votes.
// When two or more options share the top total there is no winner and Tie is set.
func Aggregate(options []models.ProposalOption, votes []models.Vote) models.Results {
	ordered := make([]models.ProposalOption, len(options))
	copy(ordered, options)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].ID < ordered[j].ID
	})

	index := make(map[string]int, len(ordered))
	totals := make([]models.OptionTotal, 0, len(ordered))
	for _, opt := range ordered {
		index[opt.ID] = len(totals)
		totals = append(totals, models.OptionTotal{
			OptionID:   opt.ID,
			Label:      opt.Label,
			TotalPower: decimal.Zero,
		})
	}

	res := models.Results{TotalPower: decimal.Zero}
	for _, v := range votes {
		i, ok := index[v.OptionID]
		if !ok {
			// keeps per-option totals summing to the overall total
			i = len(totals)
			index[v.OptionID] = i
			totals = append(totals, models.OptionTotal{OptionID: v.OptionID, TotalPower: decimal.Zero})
		}
		totals[i].Count++
		totals[i].TotalPower = totals[i].TotalPower.Add(v.VotingPower)
		res.TotalPower = res.TotalPower.Add(v.VotingPower)
		res.VoteCount++
	}
	res.Options = totals

	if res.VoteCount == 0 {
		return res
	}

	var best *models.OptionTotal
	tie := false
	for i := range totals {
		t := &totals[i]
		switch {
		case best == nil || t.TotalPower.GreaterThan(best.TotalPower):
			best = t
			tie = false
		case t.TotalPower.Equal(best.TotalPower):
			tie = true
		}
	}
	if tie {
		res.Tie = true
		return res
	}
	id := best.OptionID
	res.WinningOptionID = &id
	return res
}

// Hash returns the hex SHA-256 of the canonical JSON encoding of r.
func Hash(r models.Results) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
