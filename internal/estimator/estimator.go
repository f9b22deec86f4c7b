// Package estimator runs share computations against a loaded dataset and
// fans the outcome out to metrics and the event bus.
package estimator

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bellwether/internal/hermes"
	"github.com/MikeSquared-Agency/Bellwether/internal/metrics"
	"github.com/MikeSquared-Agency/Bellwether/internal/render"
	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
	"github.com/MikeSquared-Agency/Bellwether/internal/store"
)

// ErrNoRegion is returned when no region was chosen.
var ErrNoRegion = errors.New("choose a region")

type Estimator struct {
	engine  *scoring.Engine
	dataset *store.Dataset
	metrics *metrics.Metrics
	hermes  hermes.Client
	logger  *slog.Logger
}

// New creates an Estimator. m and h may be nil.
func New(engine *scoring.Engine, ds *store.Dataset, m *metrics.Metrics, h hermes.Client, logger *slog.Logger) *Estimator {
	return &Estimator{engine: engine, dataset: ds, metrics: m, hermes: h, logger: logger}
}

func (e *Estimator) Dataset() *store.Dataset { return e.dataset }

func (e *Estimator) Dimensions() scoring.Dimensions { return e.engine.Dimensions() }

// Request identifies one computation.
type Request struct {
	SessionID string
	Region    string
	Period    string
	Overrides scoring.Overrides
}

// Estimate computes the share for a region and period. Only an empty or
// unknown region is an error; data problems surface in the result breakdown.
func (e *Estimator) Estimate(req Request) (scoring.Result, error) {
	if req.Region == "" {
		return scoring.Result{}, ErrNoRegion
	}
	rec, err := e.dataset.Region(req.Region)
	if err != nil {
		return scoring.Result{}, err
	}

	start := time.Now()
	result := e.engine.ComputeShare(rec, req.Period, req.Overrides, e.dataset.Presets.Period(req.Period))
	took := time.Since(start)

	if e.metrics != nil {
		e.metrics.ObserveEstimate(result, took)
	}
	if e.hermes != nil {
		evt := hermes.EstimateComputedEvent{
			EstimateID:      uuid.NewString(),
			SessionID:       req.SessionID,
			Region:          result.Region,
			Period:          result.Period,
			Share:           result.Share,
			TotalPopulation: result.TotalPopulation,
			MissingColumns:  result.MissingColumns(),
			Timestamp:       time.Now().UTC(),
		}
		if err := e.hermes.Publish(hermes.SubjectEstimateComputed(result.Region), evt); err != nil {
			e.logger.Warn("failed to publish estimate", "region", result.Region, "error", err)
		}
	}
	return result, nil
}

// PresetOverrides returns the overrides a fresh session would hold for period.
func (e *Estimator) PresetOverrides(period string) scoring.Overrides {
	return scoring.SeedOverrides(e.engine.Dimensions(), e.dataset.Presets.Period(period))
}

// PopulationLabel is one control label with the category's population share.
type PopulationLabel struct {
	scoring.PopulationFraction
	Display string `json:"display"`
}

// Population returns the display labels for every category of a region.
func (e *Estimator) Population(region string) ([]PopulationLabel, error) {
	if region == "" {
		return nil, ErrNoRegion
	}
	rec, err := e.dataset.Region(region)
	if err != nil {
		return nil, err
	}
	fractions := e.engine.PopulationFractions(rec)
	out := make([]PopulationLabel, 0, len(fractions))
	for _, f := range fractions {
		out = append(out, PopulationLabel{PopulationFraction: f, Display: render.PopulationLabel(f.Label, f.Fraction)})
	}
	return out, nil
}
