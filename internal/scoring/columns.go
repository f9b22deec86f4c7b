package scoring

import (
	"strings"
)

// FractionPrefix is prepended to a resolved column key to form the dataset header.
const FractionPrefix = "pct_"

// explicitColumns maps display labels to dataset column keys where the
// sanitizer would not produce the name the dataset actually uses.
var explicitColumns = map[string]string{
	// Race
	"White":       "white",
	"Black":       "black",
	"Native":      "native",
	"Asian":       "asian",
	"Two or more": "two_or_more",

	// Age
	"18-29": "18_29",
	"30-44": "30_44",
	"45-64": "45_64",
	"65+":   "65_plus",

	// Education
	"HS or less":   "hs_or_less",
	"Some college": "some_college",
	"Associate":    "assoc",
	"Bachelor":     "bachelor",
	"Graduate":     "grad",

	// Urban / rural
	"Urban": "urban",
	"Rural": "rural",
}

// ResolveColumn maps a category label to its dataset column key. Explicit
// registry entries win; anything else goes through SanitizeLabel. The bool is
// false for an empty label or when sanitizing leaves nothing.
func ResolveColumn(label string) (string, bool) {
	if label == "" {
		return "", false
	}
	if col, ok := explicitColumns[label]; ok {
		return col, true
	}
	col := SanitizeLabel(label)
	return col, col != ""
}

// resolveCategory prefers the category's configured column over the registry.
func resolveCategory(c Category) (string, bool) {
	if c.Column != "" {
		return c.Column, true
	}
	return ResolveColumn(c.Label)
}

// FractionColumn returns the dataset header holding a key's population fraction.
func FractionColumn(key string) string {
	return FractionPrefix + key
}

type rewriteRule struct {
	name  string
	apply func(string) string
}

// sanitizeRules run once each, in order.
var sanitizeRules = []rewriteRule{
	{name: "plus", apply: func(s string) string { return strings.ReplaceAll(s, "+", "_plus") }},
	{name: "ampersand", apply: func(s string) string { return strings.ReplaceAll(s, "&", "and") }},
	{name: "or", apply: joinOr},
	{name: "separators", apply: collapseSeparators},
	{name: "trim", apply: func(s string) string { return strings.Trim(s, "_") }},
	{name: "lower", apply: strings.ToLower},
}

// SanitizeLabel derives a column key from a free-form label:
// "65+" → "65_plus", "Rock & Roll" → "rock_and_roll", "HS or less" → "hs_or_less".
func SanitizeLabel(label string) string {
	s := label
	for _, r := range sanitizeRules {
		s = r.apply(s)
	}
	return s
}

// joinOr rewrites "<word> or <word>" to "<word>_or_<word>". Only an "or" with
// whitespace on both sides qualifies.
func joinOr(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return s
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			if isOr(f) && i < len(fields)-1 || isOr(fields[i-1]) && i > 1 {
				b.WriteByte('_')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f)
	}
	return b.String()
}

func isOr(s string) bool {
	return strings.EqualFold(s, "or")
}

// collapseSeparators replaces every run of characters outside [A-Za-z0-9]
// with a single underscore.
func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isASCIIAlnum(c) {
			b.WriteByte(c)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('_')
			inRun = true
		}
	}
	return b.String()
}

func isASCIIAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
