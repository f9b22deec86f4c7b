package render

import (
	"fmt"
	"math"
)

// SliderStyle is the visual feedback for one override control.
type SliderStyle struct {
	Value      float64 `json:"value"`
	LeftLabel  string  `json:"left_label"`
	RightLabel string  `json:"right_label"`
	ThumbColor string  `json:"thumb_color"`
	Background string  `json:"background"`
}

// rgb endpoints the thumb colour is interpolated between, indexed by value 0 and 1.
var (
	thumbLow  = [3]float64{43, 140, 190}
	thumbHigh = [3]float64{240, 59, 32}
)

// NewSliderStyle computes labels and colours for a control at value v in [0,1].
func NewSliderStyle(v float64) SliderStyle {
	v = math.Max(0, math.Min(1, v))

	var c [3]int
	for i := range c {
		c[i] = int(math.Round((1-v)*thumbLow[i] + v*thumbHigh[i]))
	}

	p := v * 100
	return SliderStyle{
		Value:      v,
		LeftLabel:  fmt.Sprintf("%d%%", int(math.Round(v*100))),
		RightLabel: fmt.Sprintf("%d%%", int(math.Round((1-v)*100))),
		ThumbColor: fmt.Sprintf("rgb(%d,%d,%d)", c[0], c[1], c[2]),
		Background: fmt.Sprintf("linear-gradient(to right, %s 0%%, %s %g%%, %s %g%%, %s %g%%, %s %g%%, %s 100%%)",
			ColorFavor, ColorFavor, p, colorSplit, p, colorSplit, p+0.1, ColorOppose, p+0.1, ColorOppose),
	}
}

// PopulationLabel formats a control label such as "White (65.4%)".
func PopulationLabel(label string, fraction float64) string {
	return fmt.Sprintf("%s (%s)", label, Percent(fraction))
}
