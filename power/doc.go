// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package power computes share-weighted voting power.

A member's voting power is the sum of quantity × voting weight over every share
type they hold:

	p := power.CalculateVotingPower(holdings)
	if !power.IsEligibleToVote(p) {
		// zero power cannot vote
	}

A share type with weight 0 contributes nothing and an empty balance list yields 0.
The same summation over all members of an organization gives the eligible voting
power snapshot frozen when a proposal opens.

All functions are pure.
*/
package power
