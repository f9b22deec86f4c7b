package scoring

import "math"

// DefaultTolerance bounds how far the all-maximum share may drift from 1.
const DefaultTolerance = 1e-9

// SanityViolation describes a share that should have been 1 but was not,
// usually because a category's population column is missing or malformed.
type SanityViolation struct {
	Region         string   `json:"region"`
	Period         string   `json:"period"`
	Share          float64  `json:"share"`
	MissingColumns []string `json:"missing_columns"`
}

// Reporter receives sanity violations. Reporting never changes a result.
type Reporter interface {
	ReportViolation(v SanityViolation)
}

// CheckSanity returns a violation when every override sits at MaxPreference
// and the share is not within tolerance of MaxPreference; nil otherwise.
func CheckSanity(r Result, overrides Overrides, dims Dimensions, tolerance float64) *SanityViolation {
	if !overrides.AllEqual(dims, MaxPreference) {
		return nil
	}
	if math.Abs(r.Share-MaxPreference) <= tolerance {
		return nil
	}
	return &SanityViolation{
		Region:         r.Region,
		Period:         r.Period,
		Share:          r.Share,
		MissingColumns: r.MissingColumns(),
	}
}

// Reporters fans a violation out to several reporters.
type Reporters []Reporter

func (rs Reporters) ReportViolation(v SanityViolation) {
	for _, r := range rs {
		if r != nil {
			r.ReportViolation(v)
		}
	}
}
