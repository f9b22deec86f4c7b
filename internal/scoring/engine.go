package scoring

import (
	"log/slog"
	"strings"
)

// Record is one region row. Value returns the raw cell for a column and
// whether the column exists in the row.
type Record interface {
	RegionName() string
	Value(column string) (string, bool)
}

// Preference sources reported in CategoryResult.Source.
const (
	SourceOverride = "override"
	SourcePreset   = "preset"
)

// CategoryResult captures one category's contribution to the aggregate.
type CategoryResult struct {
	Label      string  `json:"label"`
	Column     string  `json:"column,omitempty"`
	Fraction   float64 `json:"fraction"`
	Preference float64 `json:"preference"`
	Source     string  `json:"source"`
	Weighted   float64 `json:"weighted"`
	Missing    bool    `json:"missing"`
}

// DimensionBreakdown sums population and weighted mass for one dimension.
type DimensionBreakdown struct {
	Name           string           `json:"name"`
	PopulationSum  float64          `json:"population_sum"`
	FavorSum       float64          `json:"favor_sum"`
	MissingColumns []string         `json:"missing_columns,omitempty"`
	Categories     []CategoryResult `json:"categories"`
}

// Result is the output of a single computation.
type Result struct {
	Region          string               `json:"region"`
	Period          string               `json:"period"`
	Share           float64              `json:"share"`
	TotalPopulation float64              `json:"total_population"`
	TotalFavor      float64              `json:"total_favor"`
	Dimensions      []DimensionBreakdown `json:"dimensions"`
}

// MissingColumns flattens the per-dimension missing column lists.
func (r Result) MissingColumns() []string {
	var out []string
	for _, d := range r.Dimensions {
		out = append(out, d.MissingColumns...)
	}
	return out
}

// Engine computes population-weighted shares over a fixed set of dimensions.
type Engine struct {
	dims      Dimensions
	tolerance float64
	reporter  Reporter
	logger    *slog.Logger
}

// NewEngine creates an Engine. reporter may be nil.
func NewEngine(dims Dimensions, tolerance float64, reporter Reporter, logger *slog.Logger) *Engine {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{dims: dims, tolerance: tolerance, reporter: reporter, logger: logger}
}

// Dimensions returns the engine's dimension set.
func (e *Engine) Dimensions() Dimensions {
	return e.dims
}

// ComputeShare returns the favor share for one region and period.
//
// Every category of every dimension feeds the same pair of accumulators, so
// each dimension acts as an independent weighting lens over the region rather
// than a partition of it. Overrides win over presets. A region with no
// resolvable population returns NeutralPreference.
func (e *Engine) ComputeShare(rec Record, period string, overrides Overrides, presets PeriodPresets) Result {
	result := Result{Period: period, Share: NeutralPreference}
	if rec == nil {
		return result
	}
	result.Region = rec.RegionName()

	var totalFavor, totalPop float64
	for _, dim := range e.dims {
		bd := DimensionBreakdown{Name: dim.Name}
		fractions := e.fractions(rec, dim)

		for i, c := range dim.Categories {
			f := fractions[i]
			cr := CategoryResult{
				Label:    c.Label,
				Column:   f.column,
				Fraction: f.value,
				Missing:  f.missing != "",
			}
			if f.missing != "" {
				bd.MissingColumns = append(bd.MissingColumns, f.missing)
			}

			cr.Preference, cr.Source = effectivePreference(dim.Name, c.Label, overrides, presets)
			cr.Weighted = cr.Fraction * cr.Preference

			totalFavor += cr.Weighted
			totalPop += cr.Fraction
			bd.PopulationSum += cr.Fraction
			bd.FavorSum += cr.Weighted
			bd.Categories = append(bd.Categories, cr)
		}
		result.Dimensions = append(result.Dimensions, bd)
	}

	result.TotalPopulation = totalPop
	result.TotalFavor = totalFavor
	if totalPop > 0 {
		result.Share = clamp(totalFavor/totalPop, 0, 1)
	}

	e.logger.Debug("share computed",
		"region", result.Region,
		"period", period,
		"total_population", totalPop,
		"total_favor", totalFavor,
		"share", result.Share,
		"all_overrides_max", overrides.AllEqual(e.dims, MaxPreference),
	)

	if v := CheckSanity(result, overrides, e.dims, e.tolerance); v != nil {
		e.logger.Warn("sanity check failed: all overrides at maximum but share is not",
			"region", v.Region,
			"period", v.Period,
			"share", v.Share,
			"missing_columns", strings.Join(v.MissingColumns, ","),
		)
		if e.reporter != nil {
			e.reporter.ReportViolation(*v)
		}
	}

	return result
}

// PopulationFraction is one category's resolved share of the region.
type PopulationFraction struct {
	Dimension string  `json:"dimension"`
	Label     string  `json:"label"`
	Fraction  float64 `json:"fraction"`
}

// PopulationFractions resolves every category's population fraction without
// weighting, for labelling controls.
func (e *Engine) PopulationFractions(rec Record) []PopulationFraction {
	var out []PopulationFraction
	for _, dim := range e.dims {
		fractions := e.fractions(rec, dim)
		for i, c := range dim.Categories {
			out = append(out, PopulationFraction{Dimension: dim.Name, Label: c.Label, Fraction: fractions[i].value})
		}
	}
	return out
}

type fraction struct {
	value   float64
	column  string
	missing string
}

// fractions resolves the population fraction of every category in dim,
// index-aligned with dim.Categories.
func (e *Engine) fractions(rec Record, dim Dimension) []fraction {
	out := make([]fraction, len(dim.Categories))

	var counts []string
	var countTotal float64
	countsOK := true
	for _, c := range dim.Categories {
		if c.CountColumn == "" {
			continue
		}
		counts = append(counts, c.CountColumn)
		n, ok := readNumber(rec, c.CountColumn)
		if !ok {
			countsOK = false
			continue
		}
		countTotal += n
	}
	countsOK = countsOK && countTotal > 0

	for i, c := range dim.Categories {
		if c.CountColumn != "" {
			if !countsOK {
				out[i] = fraction{column: c.CountColumn, missing: strings.Join(counts, "/")}
				continue
			}
			n, _ := readNumber(rec, c.CountColumn)
			out[i] = fraction{value: n / countTotal, column: c.CountColumn}
			continue
		}

		key, ok := resolveCategory(c)
		if !ok {
			out[i] = fraction{missing: "no-col-for:" + c.Label}
			continue
		}
		col := FractionColumn(key)
		raw, ok := readNumber(rec, col)
		if !ok {
			out[i] = fraction{column: col, missing: col}
			continue
		}
		out[i] = fraction{value: fromPercent(raw), column: col}
	}
	return out
}

func readNumber(rec Record, column string) (float64, bool) {
	raw, ok := rec.Value(column)
	if !ok {
		return 0, false
	}
	return toNumber(raw)
}

// effectivePreference returns the finite override for a pair if one exists,
// otherwise the normalized preset favor.
func effectivePreference(dimension, label string, overrides Overrides, presets PeriodPresets) (float64, string) {
	if v, ok := overrides.Get(dimension, label); ok && isFinite(v) {
		return v, SourceOverride
	}
	return NormalizePreference(presets.Entry(dimension, label)).Favor, SourcePreset
}
