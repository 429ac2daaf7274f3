// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielhkuo/sharevote/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
	err    error
}

func (r *recordingSink) Log(_ context.Context, ev Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingSink) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(subj string, data []byte) error {
	f.subject = subj
	f.data = data
	return f.err
}

func TestEventDetailsRoundTrip(t *testing.T) {
	ev := Event{
		ID:         "ev1",
		Action:     ActionUpdated,
		EntityType: EntityProposal,
		EntityID:   "p1",
		ActorID:    "u1",
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Details: ProposalUpdated{Changes: []FieldChange{
			{Field: "title", Old: "Old", New: "New"},
		}},
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"details_type":"proposal_updated"`)

	var got Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ev, got)
}

func TestEventUnknownDetailsType(t *testing.T) {
	var ev Event
	err := json.Unmarshal([]byte(`{"id":"x","details_type":"bogus","details":{}}`), &ev)
	assert.Error(t, err)
}

func TestEventWithoutDetails(t *testing.T) {
	data, err := json.Marshal(Event{ID: "x", Action: ActionCreated})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "details")
}

func TestNATSSinkPublishesOnActionSubject(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewNATSSink(pub, "sharevote.audit")

	ev := Event{ID: "ev1", Action: ActionStatusChanged, Details: StatusChanged{
		OldStatus: models.StatusDraft, NewStatus: models.StatusOpen,
	}}
	require.NoError(t, sink.Log(context.Background(), ev))
	assert.Equal(t, "sharevote.audit.status_changed", pub.subject)

	var got Event
	require.NoError(t, json.Unmarshal(pub.data, &got))
	assert.Equal(t, ev.Details, got.Details)

	pub.err = errors.New("nats down")
	assert.Error(t, sink.Log(context.Background(), ev))
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("boom")}

	err := Multi{ok, bad}.Log(context.Background(), Event{ID: "1"})
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, ok.Events(), 1)
	assert.Len(t, bad.Events(), 1)
}

func TestEmitPrefersSyncPath(t *testing.T) {
	next := &recordingSink{}
	async := NewAsyncSink(next, 4, nil)
	defer async.Close()

	// No consumer is running, so only the sync path reaches next.
	require.NoError(t, Emit(context.Background(), async, Event{ID: "sync"}, true))
	require.NoError(t, Emit(context.Background(), async, Event{ID: "queued"}, false))

	events := next.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "sync", events[0].ID)

	assert.NoError(t, Emit(context.Background(), nil, Event{}, true))
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	next := &recordingSink{}
	async := NewAsyncSink(next, 2, nil)

	var dropped []string
	async.OnDrop = func(ev Event) { dropped = append(dropped, ev.ID) }

	ctx := context.Background()
	require.NoError(t, async.Log(ctx, Event{ID: "1"}))
	require.NoError(t, async.Log(ctx, Event{ID: "2"}))
	assert.ErrorIs(t, async.Log(ctx, Event{ID: "3"}), ErrQueueFull)
	assert.Equal(t, []string{"3"}, dropped)

	// Start the consumer after filling the queue, then close and drain.
	go async.Run(ctx)
	async.Close()
	<-async.Done()

	ids := []string{}
	for _, ev := range next.Events() {
		ids = append(ids, ev.ID)
	}
	assert.Equal(t, []string{"1", "2"}, ids)
	assert.ErrorIs(t, async.Log(ctx, Event{ID: "4"}), ErrClosed)
}

func TestAsyncSinkDrainsOnCancel(t *testing.T) {
	next := &recordingSink{block: make(chan struct{})}
	async := NewAsyncSink(next, 8, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go async.Run(ctx)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, async.Log(ctx, Event{ID: id}))
	}
	cancel()
	close(next.block)

	select {
	case <-async.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Len(t, next.Events(), 3)
}

func TestAsyncSinkLogNeverBlocks(t *testing.T) {
	next := &recordingSink{block: make(chan struct{})}
	async := NewAsyncSink(next, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go async.Run(ctx)

	start := time.Now()
	for i := 0; i < 50; i++ {
		_ = async.Log(ctx, Event{ID: "x"})
	}
	assert.Less(t, time.Since(start), time.Second)

	cancel()
	close(next.block)
	<-async.Done()
}
