package scoring

import (
	"math"
	"strconv"
	"strings"
)

// NeutralPreference is used wherever a preference is missing or unreadable.
const NeutralPreference = 0.5

var (
	favorKeys  = []string{"Dem", "dem"}
	opposeKeys = []string{"Rep", "rep"}
)

// PreferenceEntry is a raw preset entry as authored in the preset document.
// Keys are case variants of the favor/oppose fields; values may be numbers,
// numeric strings or anything else.
type PreferenceEntry map[string]any

// PeriodPresets maps dimension → category label → raw entry for one period.
type PeriodPresets map[string]map[string]PreferenceEntry

// Entry returns the raw entry for a pair, or nil.
func (p PeriodPresets) Entry(dimension, label string) PreferenceEntry {
	if p == nil {
		return nil
	}
	return p[dimension][label]
}

// Preference is a normalized favor/oppose pair, each clamped to [0,1]
// independently. The two need not sum to one.
type Preference struct {
	Favor  float64 `json:"favor"`
	Oppose float64 `json:"oppose"`
}

// NormalizePreference turns a raw preset entry into a clamped pair.
//
// A missing entry is neutral. Favor defaults to 0.5; oppose defaults to
// 1 - favor. Values above 1 are read as percentages.
func NormalizePreference(e PreferenceEntry) Preference {
	if e == nil {
		return Preference{Favor: NeutralPreference, Oppose: NeutralPreference}
	}

	favor, ok := lookupNumber(e, favorKeys)
	if !ok {
		favor = NeutralPreference
	}
	favor = fromPercent(favor)

	oppose, ok := lookupNumber(e, opposeKeys)
	if !ok {
		oppose = 1 - favor
	}
	oppose = fromPercent(oppose)

	return Preference{
		Favor:  clamp(favor, 0, 1),
		Oppose: clamp(oppose, 0, 1),
	}
}

// lookupNumber reads the first present key. A present but non-numeric value
// counts as missing, matching how absent keys are treated.
func lookupNumber(e PreferenceEntry, keys []string) (float64, bool) {
	for _, k := range keys {
		v, present := e[k]
		if !present || v == nil {
			continue
		}
		return toNumber(v)
	}
	return 0, false
}

func fromPercent(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// toNumber coerces a decoded document or dataset value to a finite float.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
