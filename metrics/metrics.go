// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sharevote"

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Transitions       *prometheus.CounterVec
	VotesCast         prometheus.Counter
	VotesRejected     *prometheus.CounterVec
	RecorderFailures  *prometheus.CounterVec
	AuditDropped      prometheus.Counter
	AuditFailures     prometheus.Counter
	TransitionLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_transitions_total",
			Help:      "Proposal status transitions by source and target status.",
		}, []string{"from", "to"}),
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Votes accepted.",
		}),
		VotesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_rejected_total",
			Help:      "Votes rejected by reason.",
		}, []string{"reason"}),
		RecorderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_record_failures_total",
			Help:      "Blockchain recording failures by event kind.",
		}, []string{"kind"}),
		AuditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Audit events dropped because the queue was full.",
		}),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "Audit events that could not be written.",
		}),
		TransitionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of governance operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Transitions,
			m.VotesCast,
			m.VotesRejected,
			m.RecorderFailures,
			m.AuditDropped,
			m.AuditFailures,
			m.TransitionLatency,
		)
	}
	return m
}

func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveVote() {
	if m == nil {
		return
	}
	m.VotesCast.Inc()
}

func (m *Metrics) ObserveRejectedVote(reason string) {
	if m == nil {
		return
	}
	m.VotesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRecorderFailure(kind string) {
	if m == nil {
		return
	}
	m.RecorderFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveAuditDropped() {
	if m == nil {
		return
	}
	m.AuditDropped.Inc()
}

func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()
}

func (m *Metrics) ObserveDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.TransitionLatency.WithLabelValues(operation).Observe(seconds)
}
