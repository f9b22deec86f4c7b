package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

// ErrRegionNotFound is returned when a region name has no record.
var ErrRegionNotFound = errors.New("region not found")

// DefaultRegionNameColumn is the dataset column holding the region name.
const DefaultRegionNameColumn = "state_name"

// RegionRecord is one dataset row. Values hold raw cells keyed by column;
// numeric coercion happens in the scoring engine at read time.
type RegionRecord struct {
	Name   string            `json:"name"`
	Values map[string]string `json:"values"`
}

func (r *RegionRecord) RegionName() string { return r.Name }

func (r *RegionRecord) Value(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// PresetDocument maps period → dimension → category → raw preference entry.
// Periods keeps the document's key order.
type PresetDocument struct {
	Periods  []string                         `json:"periods"`
	ByPeriod map[string]scoring.PeriodPresets `json:"by_period"`
}

// Period returns the presets for a period key, or nil.
func (d *PresetDocument) Period(key string) scoring.PeriodPresets {
	if d == nil {
		return nil
	}
	return d.ByPeriod[key]
}

// Has reports whether the document defines a period.
func (d *PresetDocument) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.ByPeriod[key]
	return ok
}

// DefaultPeriod returns preferred if the document defines it, otherwise the
// last period in display order (see OrderedPeriods), otherwise "".
func (d *PresetDocument) DefaultPeriod(preferred string) string {
	if d == nil || len(d.Periods) == 0 {
		return ""
	}
	if preferred != "" && d.Has(preferred) {
		return preferred
	}
	ordered := d.OrderedPeriods()
	return ordered[len(ordered)-1]
}

// OrderedPeriods lists integer-like period keys ascending by value, followed
// by every other key in document order. With year keys the fallback period is
// therefore the latest year wherever it sits in the file.
func (d *PresetDocument) OrderedPeriods() []string {
	if d == nil {
		return nil
	}
	var years, other []string
	for _, p := range d.Periods {
		if _, ok := indexKey(p); ok {
			years = append(years, p)
		} else {
			other = append(other, p)
		}
	}
	sort.SliceStable(years, func(i, j int) bool {
		a, _ := indexKey(years[i])
		b, _ := indexKey(years[j])
		return a < b
	})
	return append(years, other...)
}

// indexKey parses a canonical unsigned integer key: no sign, no leading zeros.
func indexKey(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != s {
		return 0, false
	}
	return n, true
}

// RegionSource loads the region dataset.
type RegionSource interface {
	LoadRegions(ctx context.Context) ([]*RegionRecord, error)
}

// PresetSource loads the preference-preset document.
type PresetSource interface {
	LoadPresets(ctx context.Context) (*PresetDocument, error)
}

// Dataset is the immutable, fully loaded input to the engine.
type Dataset struct {
	Presets *PresetDocument

	regions []*RegionRecord
	byName  map[string]*RegionRecord
}

// NewDataset indexes regions by name. Rows with an empty name are dropped;
// for a duplicate name the last row wins.
func NewDataset(regions []*RegionRecord, presets *PresetDocument) *Dataset {
	ds := &Dataset{Presets: presets, byName: make(map[string]*RegionRecord, len(regions))}
	for _, r := range regions {
		if r == nil || r.Name == "" {
			continue
		}
		if _, dup := ds.byName[r.Name]; !dup {
			ds.regions = append(ds.regions, r)
		}
		ds.byName[r.Name] = r
	}
	return ds
}

// Region looks up a record by exact name.
func (d *Dataset) Region(name string) (*RegionRecord, error) {
	r, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, name)
	}
	return r, nil
}

// RegionNames returns every region name sorted alphabetically.
func (d *Dataset) RegionNames() []string {
	names := make([]string, 0, len(d.regions))
	for _, r := range d.regions {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Load runs both loads concurrently and joins them. Either failure aborts the
// other and is returned; there is no partial dataset.
func Load(ctx context.Context, rs RegionSource, ps PresetSource) (*Dataset, error) {
	var (
		regions []*RegionRecord
		presets *PresetDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := rs.LoadRegions(gctx)
		if err != nil {
			return fmt.Errorf("load regions: %w", err)
		}
		regions = r
		return nil
	})
	g.Go(func() error {
		p, err := ps.LoadPresets(gctx)
		if err != nil {
			return fmt.Errorf("load presets: %w", err)
		}
		presets = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewDataset(regions, presets), nil
}
