// Package session owns the interactive state the weighting engine reads:
// the selected period and region and the per-category override map.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
	"github.com/MikeSquared-Agency/Bellwether/internal/store"
)

// DefaultStep is the granularity of an override control.
const DefaultStep = 0.01

var (
	ErrUnknownPeriod   = errors.New("unknown period")
	ErrUnknownCategory = errors.New("unknown dimension or category")
	ErrOutOfRange      = errors.New("override must be within [0, 1]")
)

// State is a point-in-time copy of a session.
type State struct {
	ID        uuid.UUID         `json:"id"`
	Period    string            `json:"period"`
	Region    string            `json:"region,omitempty"`
	Overrides scoring.Overrides `json:"overrides"`
}

// Session holds the active period, region and overrides. Overrides are
// seeded from the active period's presets and re-seeded wholesale on every
// period change.
type Session struct {
	id      uuid.UUID
	dims    scoring.Dimensions
	dataset *store.Dataset
	step    float64

	mu        sync.RWMutex
	period    string
	region    string
	overrides scoring.Overrides
}

// New creates a session on the dataset's default period. preferredPeriod is
// used when the preset document defines it.
func New(dims scoring.Dimensions, ds *store.Dataset, preferredPeriod string, step float64) *Session {
	if step <= 0 {
		step = DefaultStep
	}
	s := &Session{
		id:      uuid.New(),
		dims:    dims,
		dataset: ds,
		step:    step,
	}
	s.period = ds.Presets.DefaultPeriod(preferredPeriod)
	s.overrides = scoring.SeedOverrides(dims, ds.Presets.Period(s.period))

	if names := ds.RegionNames(); len(names) > 0 {
		s.region = names[0]
	}
	return s
}

func (s *Session) ID() uuid.UUID { return s.id }

// SelectPeriod switches the active period and re-seeds every override from
// its presets.
func (s *Session) SelectPeriod(period string) error {
	if !s.dataset.Presets.Has(period) {
		return fmt.Errorf("%w: %s", ErrUnknownPeriod, period)
	}
	seeded := scoring.SeedOverrides(s.dims, s.dataset.Presets.Period(period))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
	s.overrides = seeded
	return nil
}

// SelectRegion switches the active region.
func (s *Session) SelectRegion(name string) error {
	if _, err := s.dataset.Region(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = name
	return nil
}

// SetOverride sets one category's preference, snapped to the control step.
// It returns the stored value.
func (s *Session) SetOverride(dimension, label string, value float64) (float64, error) {
	if _, ok := s.dims.Find(dimension, label); !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownCategory, dimension, label)
	}
	if math.IsNaN(value) || value < 0 || value > scoring.MaxPreference {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, value)
	}
	v := Snap(value, s.step)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides.Set(dimension, label, v)
	return v, nil
}

// Snapshot returns a copy of the session state safe to hand to the engine.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		ID:        s.id,
		Period:    s.period,
		Region:    s.region,
		Overrides: s.overrides.Clone(),
	}
}

// Snap rounds v to the nearest multiple of step within [0, 1].
func Snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	snapped := math.Round(v/step) * step
	// Trim float noise such as 0.30000000000000004.
	snapped = math.Round(snapped*1e9) / 1e9
	return math.Max(0, math.Min(scoring.MaxPreference, snapped))
}
