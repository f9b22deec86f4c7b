package scoring

import (
	"strings"
	"testing"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"White", "white", true},
		{"Associate", "assoc", true},
		{"Graduate", "grad", true},
		{"65+", "65_plus", true},
		{"HS or less", "hs_or_less", true},
		{"85+", "85_plus", true},
		{"Pacific Islander", "pacific_islander", true},
		{"Rock & Roll", "rock_and_roll", true},
		{"Trade OR Vocational", "trade_or_vocational", true},
		{"  Mixed -- Case  ", "mixed_case", true},
		{"Café", "caf", true},
		{"", "", false},
		{"---", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ResolveColumn(tt.label)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ResolveColumn(%q) = %q, %v; want %q, %v", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSanitizeLabelShapes(t *testing.T) {
	if got := SanitizeLabel("75+"); !strings.HasSuffix(got, "_plus") {
		t.Errorf("expected _plus suffix, got %q", got)
	}
	if got := SanitizeLabel("Some or other"); !strings.Contains(got, "_or_") {
		t.Errorf("expected _or_, got %q", got)
	}
	if got := SanitizeLabel("or more"); got != "or_more" {
		t.Errorf("leading or should not be joined specially, got %q", got)
	}
}

func TestResolveCategoryPrefersConfiguredColumn(t *testing.T) {
	col, ok := resolveCategory(Category{Label: "White", Column: "white_alone"})
	if !ok || col != "white_alone" {
		t.Errorf("expected configured column, got %q", col)
	}
	if FractionColumn("white") != "pct_white" {
		t.Errorf("unexpected fraction column %q", FractionColumn("white"))
	}
}
