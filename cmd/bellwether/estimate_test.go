package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

func TestParseOverride(t *testing.T) {
	f, err := parseOverride("education/HS or less=0.35")
	require.NoError(t, err)
	assert.Equal(t, overrideFlag{dimension: "education", category: "HS or less", value: 0.35}, f)

	f, err = parseOverride("age/65+=1")
	require.NoError(t, err)
	assert.Equal(t, "65+", f.category)

	for _, bad := range []string{"race", "race=0.5", "/White=0.5", "race/White=high"} {
		_, err := parseOverride(bad)
		assert.Error(t, err, bad)
	}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csv := "state_name,pct_white,pct_black,male_pop,female_pop\n" +
		"Ohio,0.8,0.2,480,520\n" +
		"Alabama,0.6,0.4,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regions.csv"), []byte(csv), 0o644))

	presets := `{"2020": {}, "2024": {"race": {"White": {"Dem": 40}, "Black": {"Dem": 90}}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "presets.json"), []byte(presets), 0o644))

	cfg := "dataset:\n" +
		"  regions_path: " + filepath.Join(dir, "regions.csv") + "\n" +
		"  presets_path: " + filepath.Join(dir, "presets.json") + "\n" +
		"logging:\n  level: error\n" +
		"engine:\n  dimensions:\n" +
		"    - name: race\n      categories:\n        - label: White\n        - label: Black\n" +
		"    - name: gender\n      categories:\n" +
		"        - {label: Male, count_column: male_pop}\n" +
		"        - {label: Female, count_column: female_pop}\n"
	path := filepath.Join(dir, "bellwether.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestRunEstimateJSON(t *testing.T) {
	cfgPath := writeFixture(t)

	var out bytes.Buffer
	err := runEstimate(context.Background(), cfgPath, estimateOptions{
		region:    "Ohio",
		overrides: []string{"gender/Male=0.45", "gender/Female=0.55"},
	}, &out)
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "Ohio", res.Region)
	assert.Equal(t, "2024", res.Period)
	assert.InDelta(t, 0.501, res.Share, 1e-9)
}

func TestRunEstimateDefaultsAndText(t *testing.T) {
	cfgPath := writeFixture(t)

	var out bytes.Buffer
	err := runEstimate(context.Background(), cfgPath, estimateOptions{period: "2020", format: "text"}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "How Alabama Might Vote — 2020\n"), text)
	assert.Contains(t, text, "Democrat: 50.0%")
	assert.Contains(t, text, "missing: male_pop/female_pop")
}

func TestRunEstimateErrors(t *testing.T) {
	cfgPath := writeFixture(t)

	err := runEstimate(context.Background(), cfgPath, estimateOptions{region: "Atlantis"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "region not found: Atlantis", err.Error())

	tests := []struct {
		name string
		opts estimateOptions
	}{
		{"unknown region", estimateOptions{region: "Atlantis"}},
		{"unknown period", estimateOptions{period: "1776"}},
		{"unknown category", estimateOptions{overrides: []string{"race/Martian=0.5"}}},
		{"out of range", estimateOptions{overrides: []string{"race/White=2"}}},
		{"bad format", estimateOptions{format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runEstimate(context.Background(), cfgPath, tt.opts, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "bellwether version "+Version)
}
