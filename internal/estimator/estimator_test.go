package estimator

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Bellwether/internal/hermes"
	"github.com/MikeSquared-Agency/Bellwether/internal/metrics"
	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
	"github.com/MikeSquared-Agency/Bellwether/internal/store"
)

type recordingHermes struct {
	mu       sync.Mutex
	subjects []string
	events   []interface{}
	err      error
}

func (h *recordingHermes) Publish(subject string, data interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subjects = append(h.subjects, subject)
	h.events = append(h.events, data)
	return h.err
}

func (h *recordingHermes) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEstimator(t *testing.T, h hermes.Client) (*Estimator, *metrics.Metrics) {
	t.Helper()
	doc, err := store.ParsePresets([]byte(`{"2024": {"race": {"White": {"Dem": 30}, "Black": {"Dem": 90}}}}`))
	require.NoError(t, err)
	ds := store.NewDataset([]*store.RegionRecord{
		{Name: "Ohio", Values: map[string]string{"pct_white": "0.75", "pct_black": "0.25"}},
		{Name: "Nowhere", Values: map[string]string{}},
	}, doc)

	dims := scoring.Dimensions{{Name: "race", Categories: []scoring.Category{{Label: "White"}, {Label: "Black"}, {Label: "Asian"}}}}
	m := metrics.New(prometheus.NewRegistry())
	engine := scoring.NewEngine(dims, 0, m, discardLogger())
	return New(engine, ds, m, h, discardLogger()), m
}

func TestEstimateUsesPresetsAndOverrides(t *testing.T) {
	h := &recordingHermes{}
	e, m := testEstimator(t, h)

	res, err := e.Estimate(Request{Region: "Ohio", Period: "2024"})
	require.NoError(t, err)
	assert.InDelta(t, 0.75*0.3+0.25*0.9, res.Share, 1e-9)

	o := e.PresetOverrides("2024")
	o.Set("race", "White", 0.5)
	res, err = e.Estimate(Request{Region: "Ohio", Period: "2024", Overrides: o, SessionID: "s1"})
	require.NoError(t, err)
	assert.InDelta(t, 0.75*0.5+0.25*0.9, res.Share, 1e-9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EstimatesTotal.WithLabelValues("2024")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MissingColumns.WithLabelValues("pct_asian")))

	require.Len(t, h.events, 2)
	assert.Equal(t, "bellwether.estimate.Ohio.computed", h.subjects[1])
	evt := h.events[1].(hermes.EstimateComputedEvent)
	assert.Equal(t, "s1", evt.SessionID)
	assert.NotEmpty(t, evt.EstimateID)
	assert.Equal(t, []string{"pct_asian"}, evt.MissingColumns)
}

func TestEstimateRegionErrors(t *testing.T) {
	e, _ := testEstimator(t, nil)

	_, err := e.Estimate(Request{Period: "2024"})
	assert.ErrorIs(t, err, ErrNoRegion)

	_, err = e.Estimate(Request{Region: "Atlantis", Period: "2024"})
	assert.ErrorIs(t, err, store.ErrRegionNotFound)
}

func TestEstimatePublishFailureIsNotFatal(t *testing.T) {
	e, _ := testEstimator(t, &recordingHermes{err: errors.New("no responders")})
	_, err := e.Estimate(Request{Region: "Ohio", Period: "2024"})
	assert.NoError(t, err)
}

func TestEstimateSanityViolationCounted(t *testing.T) {
	e, m := testEstimator(t, nil)
	o := scoring.Overrides{"race": {"White": 1, "Black": 1, "Asian": 1}}

	// pct_asian is absent but contributes zero population, so the share holds.
	res, err := e.Estimate(Request{Region: "Ohio", Period: "2024", Overrides: o})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Share, 1e-9)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SanityFailures.WithLabelValues("2024")))

	// No population at all falls back to neutral and trips the check.
	res, err = e.Estimate(Request{Region: "Nowhere", Period: "2024", Overrides: o})
	require.NoError(t, err)
	assert.Equal(t, scoring.NeutralPreference, res.Share)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SanityFailures.WithLabelValues("2024")))
}

func TestPopulation(t *testing.T) {
	e, _ := testEstimator(t, nil)
	labels, err := e.Population("Ohio")
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.Equal(t, "White (75.0%)", labels[0].Display)
	assert.Equal(t, "Asian (0.0%)", labels[2].Display)

	_, err = e.Population("")
	assert.ErrorIs(t, err, ErrNoRegion)
}
