// Package metrics provides Prometheus instrumentation for the MachiPower client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "machipower"
	subsystem = "client"
)

// Metrics holds the client-side counters. All recording methods are safe to
// call on a nil receiver, so instrumentation can be left unwired in tests.
type Metrics struct {
	apiRequests    *prometheus.CounterVec
	apiErrors      *prometheus.CounterVec
	staleResponses prometheus.Counter
	invitesSent    prometheus.Counter
	invitesBlocked prometheus.Counter
}

// New registers the client metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "api_requests_total",
			Help:      "Remote API calls issued, by operation.",
		}, []string{"operation"}),
		apiErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "api_errors_total",
			Help:      "Remote API calls that failed, by operation.",
		}, []string{"operation"}),
		staleResponses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stale_responses_total",
			Help:      "Responses discarded because the contest selection changed while they were in flight.",
		}),
		invitesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "invites_sent_total",
			Help:      "Invitations sent successfully.",
		}),
		invitesBlocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "invites_blocked_total",
			Help:      "Invite attempts rejected by the already-invited guard.",
		}),
	}
}

func (m *Metrics) CountRequest(operation string) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(operation).Inc()
}

func (m *Metrics) CountError(operation string) {
	if m == nil {
		return
	}
	m.apiErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) CountStaleResponse() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

func (m *Metrics) CountInviteSent() {
	if m == nil {
		return
	}
	m.invitesSent.Inc()
}

func (m *Metrics) CountInviteBlocked() {
	if m == nil {
		return
	}
	m.invitesBlocked.Inc()
}
