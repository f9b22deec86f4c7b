package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

func TestObserveEstimate(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := scoring.Result{Period: "2024", Dimensions: []scoring.DimensionBreakdown{
		{Name: "race", MissingColumns: []string{"pct_asian"}},
		{Name: "gender", MissingColumns: []string{"male_pop/female_pop", "male_pop/female_pop"}},
	}}
	m.ObserveEstimate(r, 3*time.Microsecond)
	m.ObserveEstimate(r, 5*time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EstimatesTotal.WithLabelValues("2024")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MissingColumns.WithLabelValues("pct_asian")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.MissingColumns.WithLabelValues("male_pop/female_pop")))
}

func TestReportViolation(t *testing.T) {
	m := New(prometheus.NewRegistry())
	var rep scoring.Reporter = m
	rep.ReportViolation(scoring.SanityViolation{Period: "2020"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SanityFailures.WithLabelValues("2020")))
}
