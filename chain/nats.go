// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Requester is the part of *nats.Conn the recorder uses.
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// NATSRecorder forwards events to a blockchain adapter service over NATS
// request/reply. Each event is sent to "<prefix>.<kind>" and the adapter replies
// with a JSON Receipt, or {"error": "..."} when it refuses the event.
type NATSRecorder struct {
	conn   Requester
	prefix string
}

func NewNATSRecorder(conn Requester, prefix string) *NATSRecorder {
	return &NATSRecorder{conn: conn, prefix: prefix}
}

type natsReply struct {
	Receipt
	Error string `json:"error,omitempty"`
}

func (r *NATSRecorder) RecordEvent(ctx context.Context, ev Event) (Receipt, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Receipt{}, fmt.Errorf("marshal event: %w", err)
	}

	msg, err := r.conn.RequestWithContext(ctx, r.Subject(ev.Kind), data)
	if err != nil {
		return Receipt{}, fmt.Errorf("request %s: %w", ev.Kind, err)
	}

	var reply natsReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt: %w", err)
	}
	if reply.Error != "" {
		return Receipt{}, fmt.Errorf("%w: %s", ErrRejected, reply.Error)
	}
	if reply.TransactionID == "" {
		return Receipt{}, ErrNoTransaction
	}
	return reply.Receipt, nil
}

// Subject returns the NATS subject for events of kind.
func (r *NATSRecorder) Subject(kind EventKind) string {
	return r.prefix + "." + string(kind)
}
