package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorderForTesting()

	r.Unit(OutcomeUpdated)
	r.Unit(OutcomeUpdated)
	r.Unit(OutcomeFailed)
	r.Rule("weather")
	r.Event(EventScheduled)
	r.Event(EventIgnored)
	r.Event(EventIgnored)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Units.WithLabelValues(OutcomeUpdated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Units.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.Units.WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RuleMatches.WithLabelValues("weather")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Events.WithLabelValues(EventIgnored)))
}
