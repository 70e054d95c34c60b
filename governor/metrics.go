package governor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts governor activity. One Metrics can be shared by any number
// of governors; they are told apart by their name label.
// A nil *Metrics records nothing.
type Metrics struct {
	calls         *prometheus.CounterVec
	invocations   *prometheus.CounterVec
	cancellations *prometheus.CounterVec
}

// NewMetrics creates the governor counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "governor_calls_total",
			Help: "Invocation requests received by a governed wrapper.",
		}, []string{"governor", "mode"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "governor_invocations_total",
			Help: "Actual invocations of the governed function, by edge.",
		}, []string{"governor", "mode", "edge"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "governor_cancellations_total",
			Help: "Cancel calls on a governed wrapper.",
		}, []string{"governor", "mode"}),
	}
	if reg != nil {
		reg.MustRegister(m.calls, m.invocations, m.cancellations)
	}
	return m
}

func (m *Metrics) call(name string, md mode) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(name, md.String()).Inc()
}

func (m *Metrics) invocation(name string, md mode, e edge) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(name, md.String(), string(e)).Inc()
}

func (m *Metrics) cancellation(name string, md mode) {
	if m == nil {
		return
	}
	m.cancellations.WithLabelValues(name, md.String()).Inc()
}

// Calls is governor_calls_total, labelled by governor and mode.
func (m *Metrics) Calls() *prometheus.CounterVec { return m.calls }

// Invocations is governor_invocations_total, labelled by governor, mode and edge.
func (m *Metrics) Invocations() *prometheus.CounterVec { return m.invocations }

// Cancellations is governor_cancellations_total, labelled by governor and mode.
func (m *Metrics) Cancellations() *prometheus.CounterVec { return m.cancellations }
