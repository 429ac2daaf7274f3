// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally aggregates votes and evaluates quorum when a proposal closes.

# Aggregation

	results := tally.Aggregate(options, votes)

Per option vote counts and total voting power, the overall total, and the winner.
The sum of per option totals always equals results.TotalPower.

Tie-break rule: if the highest total is shared by two or more options there is no
winner (WinningOptionID is nil) and results.Tie is true. With no votes there is no
winner and every total is zero.

# Quorum

	met := tally.QuorumMet(results.TotalPower, eligibleSnapshot, requirementPercent)

The requirement is a percentage of the eligible voting power snapshot. Zero means
no quorum. An empty electorate never meets a positive requirement.

# Hashing

Hash commits to the exact results that were frozen on the proposal.
*/
package tally
