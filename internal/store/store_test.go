package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

const sampleCSV = "\ufeffstate_name,male_pop,female_pop,pct_white,pct_black,pct_65_plus\n" +
	"Ohio,5700000,5900000,0.77,0.12,17.5\n" +
	"Alabama,2400000,2550000,0.65,0.26,0.17\n" +
	",1,1,0.5,0.5,0.5\n" +
	"Guam,10\n"

func TestParseRegionsCSV(t *testing.T) {
	recs, err := ParseRegionsCSV(context.Background(), strings.NewReader(sampleCSV), "state_name")
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, "Ohio", recs[0].Name)
	v, ok := recs[0].Value("pct_65_plus")
	assert.True(t, ok)
	assert.Equal(t, "17.5", v)

	_, ok = recs[3].Value("pct_white")
	assert.False(t, ok, "short rows leave trailing columns absent")
}

func TestParseRegionsCSVMissingNameColumn(t *testing.T) {
	_, err := ParseRegionsCSV(context.Background(), strings.NewReader("name,pct_white\nOhio,0.7\n"), "state_name")
	assert.Error(t, err)

	_, err = ParseRegionsCSV(context.Background(), strings.NewReader(""), "state_name")
	assert.Error(t, err)
}

func TestDatasetIndexing(t *testing.T) {
	recs, err := ParseRegionsCSV(context.Background(), strings.NewReader(sampleCSV), "state_name")
	require.NoError(t, err)

	ds := NewDataset(recs, nil)
	assert.Equal(t, []string{"Alabama", "Guam", "Ohio"}, ds.RegionNames())

	r, err := ds.Region("Ohio")
	require.NoError(t, err)
	assert.Equal(t, "Ohio", r.RegionName())

	_, err = ds.Region("Atlantis")
	assert.ErrorIs(t, err, ErrRegionNotFound)
}

const samplePresets = `{
  "2016": {"race": {"White": {"Dem": 37, "Rep": 57}}},
  "2024": {"race": {"White": {"dem": 0.42}, "Black": "oops"}, "gender": null},
  "2020": {"age": {"65+": {"Dem": "47"}}}
}`

func TestParsePresetsKeepsOrder(t *testing.T) {
	doc, err := ParsePresets([]byte(samplePresets))
	require.NoError(t, err)

	assert.Equal(t, []string{"2016", "2024", "2020"}, doc.Periods)
	assert.Equal(t, 37.0, doc.Period("2016").Entry("race", "White")["Dem"])
	assert.Equal(t, "47", doc.Period("2020").Entry("age", "65+")["Dem"])

	black := doc.Period("2024").Entry("race", "Black")
	assert.NotNil(t, black)
	assert.Empty(t, black)
	assert.Nil(t, doc.Period("1999"))
}

func TestParsePresetsRejectsNonMapping(t *testing.T) {
	_, err := ParsePresets([]byte(`["2016", "2020"]`))
	assert.Error(t, err)

	_, err = ParsePresets([]byte(`{"2016": [1, 2]}`))
	assert.Error(t, err)

	doc, err := ParsePresets([]byte(``))
	require.NoError(t, err)
	assert.Empty(t, doc.Periods)
}

func TestParsePresetsJSONEscapesAndDuplicateKeys(t *testing.T) {
	doc, err := ParsePresets([]byte(`{"2024": {"race": {"Two\/more": {"Dem": 40}}}}`))
	require.NoError(t, err)
	assert.Equal(t, 40.0, doc.Period("2024").Entry("race", "Two/more")["Dem"])

	doc, err = ParsePresets([]byte(`{"2024": {"race": {"White": {"Dem": 40, "Dem": 45}}}}`))
	require.NoError(t, err)
	assert.Equal(t, 45.0, doc.Period("2024").Entry("race", "White")["Dem"], "last duplicate wins")

	doc, err = ParsePresets([]byte("\ufeff  {\"2020\": {}, \"2016\": {}, \"2020\": {\"race\": {}}}"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2020", "2016"}, doc.Periods)
	assert.NotNil(t, doc.Period("2020")["race"])

	_, err = ParsePresets([]byte(`{"2024": {}} {"2020": {}}`))
	assert.Error(t, err)
	_, err = ParsePresets([]byte(`{"2024": {"race": `))
	assert.Error(t, err)
}

func TestParsePresetsYAML(t *testing.T) {
	doc, err := ParsePresets([]byte("2020:\n  race:\n    White: {Dem: 41}\n2016:\n  race: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2020", "2016"}, doc.Periods)
	assert.Equal(t, 41, doc.Period("2020").Entry("race", "White")["Dem"])
}

func TestDefaultPeriod(t *testing.T) {
	doc, err := ParsePresets([]byte(samplePresets))
	require.NoError(t, err)

	assert.Equal(t, "2024", doc.DefaultPeriod("2024"))
	assert.Equal(t, "2024", doc.DefaultPeriod("1988"), "falls back to the latest year, not the last key")
	assert.Equal(t, "2024", doc.DefaultPeriod(""))
	assert.Equal(t, []string{"2016", "2020", "2024"}, doc.OrderedPeriods())

	named := &PresetDocument{
		Periods:  []string{"2020", "midterm", "02", "2016"},
		ByPeriod: map[string]scoring.PeriodPresets{},
	}
	assert.Equal(t, []string{"2016", "2020", "midterm", "02"}, named.OrderedPeriods())
	assert.Equal(t, "02", named.DefaultPeriod(""))

	var empty *PresetDocument
	assert.Equal(t, "", empty.DefaultPeriod("2024"))
	assert.Nil(t, empty.OrderedPeriods())
}

type stubRegions struct {
	recs []*RegionRecord
	err  error
}

func (s stubRegions) LoadRegions(ctx context.Context) ([]*RegionRecord, error) {
	return s.recs, s.err
}

type stubPresets struct {
	doc *PresetDocument
	err error
}

func (s stubPresets) LoadPresets(ctx context.Context) (*PresetDocument, error) {
	return s.doc, s.err
}

func TestLoadJoinsBothSources(t *testing.T) {
	doc := &PresetDocument{Periods: []string{"2024"}}
	ds, err := Load(context.Background(),
		stubRegions{recs: []*RegionRecord{{Name: "Ohio"}}},
		stubPresets{doc: doc},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ohio"}, ds.RegionNames())
	assert.Same(t, doc, ds.Presets)
}

func TestLoadFailsOnEitherSource(t *testing.T) {
	boom := errors.New("boom")

	_, err := Load(context.Background(), stubRegions{err: boom}, stubPresets{doc: &PresetDocument{}})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load regions")

	_, err = Load(context.Background(), stubRegions{}, stubPresets{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load presets")
}

func TestFileSources(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "regions.csv")
	jsonPath := filepath.Join(dir, "presets.json")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(samplePresets), 0o644))

	ds, err := Load(context.Background(), NewCSVRegionSource(csvPath, ""), NewFilePresetSource(jsonPath))
	require.NoError(t, err)
	assert.Len(t, ds.RegionNames(), 3)
	assert.Equal(t, []string{"2016", "2024", "2020"}, ds.Presets.Periods)

	_, err = Load(context.Background(), NewCSVRegionSource(filepath.Join(dir, "nope.csv"), ""), NewFilePresetSource(jsonPath))
	assert.Error(t, err)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "0.25", cellString(0.25))
	assert.Equal(t, "5700000", cellString(float64(5700000)))
	assert.Equal(t, "abc", cellString("abc"))
	assert.Equal(t, "", cellString(nil))
}
