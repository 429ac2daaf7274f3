// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package governance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxTitleLength is the longest proposal title accepted.
const MaxTitleLength = 200

// Policy holds organization-wide defaults for new proposals.
type Policy struct {
	// DefaultVotingDuration is the window length when a proposal omits its end time.
	DefaultVotingDuration time.Duration `yaml:"default_voting_duration"`
	// DefaultQuorumPercent applies when a proposal omits its quorum (0 = no quorum).
	DefaultQuorumPercent float64 `yaml:"default_quorum_percent"`
	// RecorderTimeout bounds each blockchain recording call.
	RecorderTimeout time.Duration `yaml:"recorder_timeout"`
}

// DefaultPolicy returns a Policy with a seven day window, no quorum and a five
// second recorder timeout.
func DefaultPolicy() Policy {
	return Policy{
		DefaultVotingDuration: 7 * 24 * time.Hour,
		DefaultQuorumPercent:  0,
		RecorderTimeout:       5 * time.Second,
	}
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	if p.DefaultVotingDuration <= 0 {
		return fmt.Errorf("default_voting_duration must be positive")
	}
	if p.DefaultQuorumPercent < 0 || p.DefaultQuorumPercent > 100 {
		return fmt.Errorf("default_quorum_percent must be between 0 and 100")
	}
	if p.RecorderTimeout <= 0 {
		return fmt.Errorf("recorder_timeout must be positive")
	}
	return nil
}

func (p Policy) defaultQuorum() decimal.Decimal {
	return decimal.NewFromFloat(p.DefaultQuorumPercent)
}
