// Package metrics holds the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubmissionsTotal prometheus.Counter
	ResolutionsTotal *prometheus.CounterVec
}

// New creates and registers all metrics against reg. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "iftar_reg_submissions_total",
			Help: "Total number of registrations submitted.",
		}),
		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iftar_reg_resolutions_total",
			Help: "Total number of registrations resolved, by outcome.",
		}, []string{"outcome"}),
	}
}

// SubmissionReceived records one accepted submission.
func (m *Metrics) SubmissionReceived() {
	m.SubmissionsTotal.Inc()
}

// RegistrationResolved records one resolution with its outcome.
func (m *Metrics) RegistrationResolved(outcome string) {
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}
