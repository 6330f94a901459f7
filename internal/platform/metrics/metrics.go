package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the compliance core.
type Metrics struct {
	SubmissionsStarted prometheus.Counter
	Decisions          *prometheus.CounterVec
	StaleTransitions   prometheus.Counter
	MirrorPushFailures prometheus.Counter
	StatusChanges      *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers on a caller-supplied registerer so tests can isolate
// registries.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradegate_submissions_started_total",
			Help: "Total number of document submissions started.",
		}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradegate_submission_decisions_total",
			Help: "Terminal submission decisions by outcome.",
		}, []string{"outcome"}),
		StaleTransitions: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradegate_stale_transitions_discarded_total",
			Help: "Scheduled portal transitions discarded because their submission was superseded.",
		}),
		MirrorPushFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradegate_mirror_push_failures_total",
			Help: "Best-effort authority mirror pushes that failed.",
		}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradegate_document_status_changes_total",
			Help: "Document status changes by resulting canonical status.",
		}, []string{"status"}),
	}
}
