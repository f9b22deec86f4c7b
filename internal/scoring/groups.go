package scoring

import (
	"fmt"
)

// Category is one label within a dimension.
//
// Column is the explicit dataset column key (without the pct_ prefix). When
// empty the label is resolved through the registry and sanitizer.
// CountColumn marks a count-share category: its population fraction is its own
// count divided by the sum of all count columns in the dimension.
type Category struct {
	Label       string `json:"label"`
	Column      string `json:"column,omitempty"`
	CountColumn string `json:"count_column,omitempty"`
}

// Dimension is a named axis of mutually exclusive categories.
type Dimension struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Dimensions is the ordered, fixed set of weighting lenses.
type Dimensions []Dimension

// DefaultDimensions returns the race/gender/age/education/urban_rural layout
// used by the state dataset.
func DefaultDimensions() Dimensions {
	return Dimensions{
		{Name: "race", Categories: []Category{
			{Label: "White"}, {Label: "Black"}, {Label: "Native"}, {Label: "Asian"}, {Label: "Two or more"},
		}},
		{Name: "gender", Categories: []Category{
			{Label: "Male", CountColumn: "male_pop"},
			{Label: "Female", CountColumn: "female_pop"},
		}},
		{Name: "age", Categories: []Category{
			{Label: "18-29"}, {Label: "30-44"}, {Label: "45-64"}, {Label: "65+"},
		}},
		{Name: "education", Categories: []Category{
			{Label: "HS or less"}, {Label: "Some college"}, {Label: "Associate"}, {Label: "Bachelor"}, {Label: "Graduate"},
		}},
		{Name: "urban_rural", Categories: []Category{
			{Label: "Urban"}, {Label: "Rural"},
		}},
	}
}

// Validate checks that dimension names are unique and non-empty and that
// labels are unique within their dimension.
func (d Dimensions) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("no dimensions configured")
	}
	seen := make(map[string]bool, len(d))
	for _, dim := range d {
		if dim.Name == "" {
			return fmt.Errorf("dimension with empty name")
		}
		if seen[dim.Name] {
			return fmt.Errorf("duplicate dimension: %s", dim.Name)
		}
		seen[dim.Name] = true

		if len(dim.Categories) == 0 {
			return fmt.Errorf("dimension %s has no categories", dim.Name)
		}
		labels := make(map[string]bool, len(dim.Categories))
		for _, c := range dim.Categories {
			if c.Label == "" {
				return fmt.Errorf("dimension %s: category with empty label", dim.Name)
			}
			if labels[c.Label] {
				return fmt.Errorf("dimension %s: duplicate category %q", dim.Name, c.Label)
			}
			labels[c.Label] = true
		}
	}
	return nil
}

// Find returns the category with the given label in the named dimension.
func (d Dimensions) Find(dimension, label string) (Category, bool) {
	for _, dim := range d {
		if dim.Name != dimension {
			continue
		}
		for _, c := range dim.Categories {
			if c.Label == label {
				return c, true
			}
		}
		return Category{}, false
	}
	return Category{}, false
}

// Pairs returns the number of (dimension, category) pairs.
func (d Dimensions) Pairs() int {
	n := 0
	for _, dim := range d {
		n += len(dim.Categories)
	}
	return n
}
