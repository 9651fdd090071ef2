package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.AssessmentsTotal.Inc()
	m.SourceFetches.WithLabelValues("alerts", "success").Inc()
	m.SourceFetches.WithLabelValues("alerts", "error").Inc()
	m.CacheLookups.WithLabelValues("outlook", "hit").Inc()
	m.PublisherEnabled.Set(1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssessmentsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("alerts", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("outlook", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublisherEnabled))
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	// Unregistered instances never collide, so parallel tests can each
	// hold their own.
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.AssessmentsTotal.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AssessmentsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AssessmentsTotal))
}
