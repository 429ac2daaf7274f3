// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/sharevote/models"
)

// Action is what happened to an entity.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionStatusChanged Action = "status_changed"
	ActionOptionAdded   Action = "option_added"
	ActionOptionRemoved Action = "option_removed"
	ActionVoteCast      Action = "vote_cast"
)

// Entity types
const (
	EntityProposal = "proposal"
	EntityVote     = "vote"
)

// Event is one audit record. Details holds one of the *Details types below and
// is encoded with a "details_type" tag so consumers can decode it back.
type Event struct {
	ID             string    `json:"id"`
	Action         Action    `json:"action"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	OrganizationID string    `json:"organization_id"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
	Details        Details   `json:"-"`
}

// Details is implemented by the per-action payloads.
type Details interface {
	detailsType() string
}

type ProposalCreated struct {
	Title       string `json:"title"`
	ContentHash string `json:"content_hash"`
}

// FieldChange records one edited draft field.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type ProposalUpdated struct {
	Changes []FieldChange `json:"changes"`
}

type StatusChanged struct {
	OldStatus models.ProposalStatus `json:"old_status"`
	NewStatus models.ProposalStatus `json:"new_status"`
}

type OptionAdded struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
}

type OptionRemoved struct {
	OptionID string `json:"option_id"`
	Label    string `json:"label"`
}

type VoteCast struct {
	ProposalID  string `json:"proposal_id"`
	OptionID    string `json:"option_id"`
	VotingPower string `json:"voting_power"`
}

func (ProposalCreated) detailsType() string { return "proposal_created" }
func (ProposalUpdated) detailsType() string { return "proposal_updated" }
func (StatusChanged) detailsType() string   { return "status_changed" }
func (OptionAdded) detailsType() string     { return "option_added" }
func (OptionRemoved) detailsType() string   { return "option_removed" }
func (VoteCast) detailsType() string        { return "vote_cast" }

type eventAlias Event

type wireEvent struct {
	eventAlias
	DetailsType string          `json:"details_type,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{eventAlias: eventAlias(e)}
	if e.Details != nil {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return nil, err
		}
		w.DetailsType = e.Details.detailsType()
		w.Details = raw
	}
	return json.Marshal(w)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Event(w.eventAlias)
	if w.DetailsType == "" {
		return nil
	}

	var d Details
	switch w.DetailsType {
	case "proposal_created":
		d = new(ProposalCreated)
	case "proposal_updated":
		d = new(ProposalUpdated)
	case "status_changed":
		d = new(StatusChanged)
	case "option_added":
		d = new(OptionAdded)
	case "option_removed":
		d = new(OptionRemoved)
	case "vote_cast":
		d = new(VoteCast)
	default:
		return fmt.Errorf("unknown details type %q", w.DetailsType)
	}
	if err := json.Unmarshal(w.Details, d); err != nil {
		return fmt.Errorf("decode %s details: %w", w.DetailsType, err)
	}
	e.Details = deref(d)
	return nil
}

func deref(d Details) Details {
	switch v := d.(type) {
	case *ProposalCreated:
		return *v
	case *ProposalUpdated:
		return *v
	case *StatusChanged:
		return *v
	case *OptionAdded:
		return *v
	case *OptionRemoved:
		return *v
	case *VoteCast:
		return *v
	}
	return d
}
