package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so a single Metrics
// instance is shared across all tests in this package.
var testMetrics = NewMetrics("examrec_test")

func TestMetrics_Counters(t *testing.T) {
	testMetrics.QueriesStarted.Inc()
	testMetrics.QueriesCompleted.Inc()
	testMetrics.RecordsScanned.Add(25)
	testMetrics.IdentifiersExploded.Add(3)
	testMetrics.IdentifiersDropped.Inc()

	assert.GreaterOrEqual(t, testutil.ToFloat64(testMetrics.QueriesStarted), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(testMetrics.RecordsScanned), 25.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(testMetrics.IdentifiersExploded), 3.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(testMetrics.IdentifiersDropped), 1.0)
}

func TestMetrics_UndefinedScoresByField(t *testing.T) {
	testMetrics.UndefinedScores.WithLabelValues("abstract").Inc()
	testMetrics.UndefinedScores.WithLabelValues("author_keywords").Add(2)

	assert.GreaterOrEqual(t,
		testutil.ToFloat64(testMetrics.UndefinedScores.WithLabelValues("abstract")), 1.0)
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(testMetrics.UndefinedScores.WithLabelValues("author_keywords")), 2.0)
}

func TestMetrics_DatasetGauges(t *testing.T) {
	testMetrics.DatasetRecords.WithLabelValues("corpus").Set(120)
	testMetrics.DatasetRecords.WithLabelValues("roster").Set(45)

	assert.Equal(t, 120.0, testutil.ToFloat64(testMetrics.DatasetRecords.WithLabelValues("corpus")))
	assert.Equal(t, 45.0, testutil.ToFloat64(testMetrics.DatasetRecords.WithLabelValues("roster")))
}

func TestMetrics_QueryDurationHistogram(t *testing.T) {
	before, err := histogramSampleCount(testMetrics.QueryDuration)
	require.NoError(t, err)

	testMetrics.QueryDuration.Observe(0.25)

	after, err := histogramSampleCount(testMetrics.QueryDuration)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

// histogramSampleCount reads the cumulative observation count of a histogram
// through the client_model DTO.
func histogramSampleCount(h prometheus.Histogram) (uint64, error) {
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		return 0, err
	}
	return m.GetHistogram().GetSampleCount(), nil
}
