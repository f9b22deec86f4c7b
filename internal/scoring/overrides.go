package scoring

// MaxPreference is the largest preference a control can hold.
const MaxPreference = 1.0

// Overrides holds user-chosen preferences keyed by dimension then label.
// Values live in [0,1]. The engine only reads them.
type Overrides map[string]map[string]float64

// SeedOverrides builds an override map holding each pair's normalized preset favor.
func SeedOverrides(dims Dimensions, presets PeriodPresets) Overrides {
	o := make(Overrides, len(dims))
	for _, dim := range dims {
		for _, c := range dim.Categories {
			o.Set(dim.Name, c.Label, NormalizePreference(presets.Entry(dim.Name, c.Label)).Favor)
		}
	}
	return o
}

// Get returns the override for a pair.
func (o Overrides) Get(dimension, label string) (float64, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o[dimension][label]
	return v, ok
}

// Set stores an override, creating the dimension map if needed.
func (o Overrides) Set(dimension, label string, v float64) {
	m, ok := o[dimension]
	if !ok {
		m = make(map[string]float64)
		o[dimension] = m
	}
	m[label] = v
}

// Clone returns a deep copy.
func (o Overrides) Clone() Overrides {
	c := make(Overrides, len(o))
	for dim, m := range o {
		cm := make(map[string]float64, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c[dim] = cm
	}
	return c
}

// AllEqual reports whether every configured pair has an override exactly equal to v.
func (o Overrides) AllEqual(dims Dimensions, v float64) bool {
	for _, dim := range dims {
		for _, c := range dim.Categories {
			got, ok := o.Get(dim.Name, c.Label)
			if !ok || got != v {
				return false
			}
		}
	}
	return true
}
