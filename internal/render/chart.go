// Package render turns a computed share into display models: a two-segment
// pie with legend labels and the colouring of an override control.
package render

import (
	"fmt"
	"math"
)

const (
	ColorFavor  = "#2b8cbe"
	ColorOppose = "#f03b20"
	colorSplit  = "#888"

	LabelFavor  = "Democrat"
	LabelOppose = "Republican"
)

// Segment is one slice of the pie.
type Segment struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// Chart is everything needed to draw one estimate.
type Chart struct {
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// NewChart builds the chart for a share. The oppose segment comes first so
// the favor slice starts where it ends, as in the interactive view.
func NewChart(share float64, region, period string) Chart {
	share = math.Max(0, math.Min(1, share))
	return Chart{
		Title: fmt.Sprintf("How %s Might Vote — %s", region, period),
		Segments: []Segment{
			{Key: LabelOppose, Value: 1 - share, Color: ColorOppose, Label: SegmentLabel(LabelOppose, 1-share)},
			{Key: LabelFavor, Value: share, Color: ColorFavor, Label: SegmentLabel(LabelFavor, share)},
		},
	}
}

// SegmentLabel formats "Democrat: 48.3%".
func SegmentLabel(key string, v float64) string {
	return fmt.Sprintf("%s: %s", key, Percent(v))
}

// Percent formats a fraction as a percentage with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
