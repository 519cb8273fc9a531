package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Unit outcomes
const (
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Gateway results
const (
	EventScheduled = "scheduled"
	EventIgnored   = "ignored"
	EventRejected  = "rejected"
)

// Recorder holds the Prometheus counters and histograms of the refiner
type Recorder struct {
	Units        *prometheus.CounterVec // labels: outcome={updated,skipped,failed}
	RuleMatches  *prometheus.CounterVec // labels: rule
	Events       *prometheus.CounterVec // labels: result={scheduled,ignored,rejected}
	UnitDuration prometheus.Histogram
}

// NewRecorder creates and registers all metrics with the default Prometheus registry.
func NewRecorder() *Recorder {
	r := newRecorder()
	prometheus.MustRegister(
		r.Units,
		r.RuleMatches,
		r.Events,
		r.UnitDuration,
	)
	return r
}

// NewRecorderForTesting creates a Recorder that is not registered anywhere,
// so tests can build as many as they need.
func NewRecorderForTesting() *Recorder {
	return newRecorder()
}

func newRecorder() *Recorder {
	return &Recorder{
		Units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activity_refiner",
			Name:      "units_total",
			Help:      "Deferred units by outcome.",
		}, []string{"outcome"}),
		RuleMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activity_refiner",
			Name:      "rule_matches_total",
			Help:      "Classification decisions by matching rule.",
		}, []string{"rule"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activity_refiner",
			Name:      "webhook_events_total",
			Help:      "Webhook events by gateway result.",
		}, []string{"result"}),
		UnitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "activity_refiner",
			Name:      "unit_duration_seconds",
			Help:      "Duration of one deferred unit including upstream calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Unit counts one finished unit
func (r *Recorder) Unit(outcome string) {
	r.Units.WithLabelValues(outcome).Inc()
}

// Rule counts one classification decision
func (r *Recorder) Rule(rule string) {
	r.RuleMatches.WithLabelValues(rule).Inc()
}

// Event counts one gateway result
func (r *Recorder) Event(result string) {
	r.Events.WithLabelValues(result).Inc()
}
