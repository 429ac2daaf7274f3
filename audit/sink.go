// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Sink receives audit events.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// SyncLogger is implemented by sinks that can also write an event before
// returning, bypassing any queue.
type SyncLogger interface {
	LogSync(ctx context.Context, ev Event) error
}

// Emit writes ev through LogSync when the sink supports it and sync is set,
// otherwise through Log.
func Emit(ctx context.Context, s Sink, ev Event, sync bool) error {
	if s == nil {
		return nil
	}
	if sl, ok := s.(SyncLogger); ok && sync {
		return sl.LogSync(ctx, ev)
	}
	return s.Log(ctx, ev)
}

// SlogSink writes events as structured log lines.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Log(ctx context.Context, ev Event) error {
	attrs := []any{
		"id", ev.ID,
		"action", string(ev.Action),
		"entity_type", ev.EntityType,
		"entity_id", ev.EntityID,
		"organization_id", ev.OrganizationID,
		"actor_id", ev.ActorID,
	}
	if ev.Details != nil {
		attrs = append(attrs, "details", ev.Details)
	}
	s.logger.InfoContext(ctx, "audit event", attrs...)
	return nil
}

// Publisher is the part of *nats.Conn the NATS sink uses.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes each event as JSON on "<prefix>.<action>".
type NATSSink struct {
	conn   Publisher
	prefix string
}

func NewNATSSink(conn Publisher, prefix string) *NATSSink {
	return &NATSSink{conn: conn, prefix: prefix}
}

func (s *NATSSink) Log(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if err := s.conn.Publish(s.prefix+"."+string(ev.Action), data); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Log(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Log(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
